// SPDX-License-Identifier: BSD-3-Clause

package controlengine

import "github.com/towerctl/towerctl/pkg/control"

type config struct {
	name       string
	ctrlConfig control.Config
	observer   Observer
}

// Option configures the control engine service.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithName sets the service's reported name.
func WithName(name string) Option {
	return optionFunc(func(c *config) { c.name = name })
}

// WithControlConfig sets the plant configuration passed to control.Step
// every tick.
func WithControlConfig(cfg control.Config) Option {
	return optionFunc(func(c *config) { c.ctrlConfig = cfg })
}

// WithObserver attaches a callback invoked once per tick with the
// published command snapshot. Use telemetry.Reporter.Observe here to
// feed the line-protocol publisher.
func WithObserver(o Observer) Option {
	return optionFunc(func(c *config) { c.observer = o })
}
