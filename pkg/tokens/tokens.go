package tokens

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// Counter estimates token counts with a tiktoken encoding. When the encoding
// cannot be loaded it falls back to a rune based estimate.
type Counter struct {
	encoding string

	once sync.Once
	tk   *tiktoken.Tiktoken
	err  error
}

func NewCounter() *Counter {
	return &Counter{encoding: defaultEncoding}
}

func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}

	c.once.Do(func() {
		c.tk, c.err = tiktoken.GetEncoding(c.encoding)
	})
	if c.err != nil || c.tk == nil {
		return Estimate(text)
	}
	return len(c.tk.Encode(text, nil, nil))
}

// Err reports why the encoding could not be loaded, if it could not.
func (c *Counter) Err() error {
	return c.err
}

// Estimate approximates tokens as one per four runes.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
