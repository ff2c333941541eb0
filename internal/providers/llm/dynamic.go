package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sandevgo/querybot/internal/core"
)

// selection overrides the provider and model of the base configuration.
type selection struct {
	core.ProviderConfig
	provider string
	model    string
}

func (s selection) GetProvider() string { return s.provider }
func (s selection) GetModel() string    { return s.model }

// providerRef keeps the stored type fixed for atomic.Value.
type providerRef struct {
	Provider
}

// DynamicProvider lets the model be switched at runtime. The switch is not
// persisted.
type DynamicProvider struct {
	mu      sync.Mutex
	config  selection
	current atomic.Value
}

func NewDynamicProvider(ctx context.Context, config core.ProviderConfig) (*DynamicProvider, error) {
	d := &DynamicProvider{
		config: selection{
			ProviderConfig: config,
			provider:       config.GetProvider(),
			model:          config.GetModel(),
		},
	}

	provider, err := NewProvider(ctx, d.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial provider: %w", err)
	}

	d.current.Store(providerRef{provider})
	return d, nil
}

func (d *DynamicProvider) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	return d.load().Chat(ctx, history, tools)
}

func (d *DynamicProvider) Models(ctx context.Context) ([]core.Model, error) {
	return d.load().Models(ctx)
}

func (d *DynamicProvider) GetProvider() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config.provider
}

func (d *DynamicProvider) GetModel() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config.model
}

// SetModel switches to "[provider/]model". Without a known provider prefix
// the current provider is kept.
func (d *DynamicProvider) SetModel(ctx context.Context, selector string) error {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return fmt.Errorf("empty model")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.config
	next.model = selector
	if prefix, model, ok := strings.Cut(selector, "/"); ok && isKnownProvider(prefix) {
		next.provider = prefix
		next.model = model
	}

	provider, err := NewProvider(ctx, next)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	d.config = next
	d.current.Store(providerRef{provider})
	return nil
}

func (d *DynamicProvider) load() Provider {
	return d.current.Load().(providerRef).Provider
}

func isKnownProvider(name string) bool {
	switch name {
	case "openai", "anthropic", "openrouter", "ollama", "custom":
		return true
	}
	return false
}
