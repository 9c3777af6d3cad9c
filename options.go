// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package louvre

import (
	"fmt"
	"log/slog"
)

type Option func(p *Parser) error

// WithBindings adds the bindings to the parser, overriding any binding
// already registered under the same name.
func WithBindings(bindings Bindings) Option {
	return func(p *Parser) error {
		for name, binding := range bindings {
			if binding == nil {
				return fmt.Errorf("binding %q: nil binding", name)
			}
			p.bindings[name] = binding
		}
		return nil
	}
}

// WithoutDefaults removes the standard vocabulary so that only bindings
// added afterward are known.
func WithoutDefaults() Option {
	return func(p *Parser) error {
		p.bindings = Bindings{}
		return nil
	}
}

// WithLogger sets the logger used for debug traces.
// The default is no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) error {
		p.logger = logger
		return nil
	}
}

// WithName sets the name of the input source, used in log messages.
func WithName(name string) Option {
	return func(p *Parser) error {
		p.name = name
		return nil
	}
}
