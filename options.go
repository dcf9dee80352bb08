package ach

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/gitexel/ach-file/date"
)

// Option configures a Builder or a Parser.
type Option func(*config)

type config struct {
	schema *Schema
	clock  date.Clock
	logger *log.Logger
}

func newConfig(opts []Option) config {
	c := config{schema: standardSchema, clock: date.System}
	for _, o := range opts {
		o(&c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// WithSchema uses s instead of the standard schema.
func WithSchema(s *Schema) Option {
	return func(c *config) {
		if s != nil {
			c.schema = s
		}
	}
}

// WithClock resolves auto dates against clk.
func WithClock(clk date.Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sends diagnostics to l. Nothing is logged by default.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}
