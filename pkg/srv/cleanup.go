package srv

import "context"

type cleanupService struct {
	cleanup func() error
}

// NewCleanup wraps a close func (database handles, log writers) as a Service
// that only acts on shutdown.
func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}

func (c *cleanupService) Start(context.Context) error { return nil }

func (c *cleanupService) Shutdown(context.Context) error {
	if c.cleanup == nil {
		return nil
	}
	return c.cleanup()
}
