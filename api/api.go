// Package api is the destination side of compiled requests: a category of
// keyed plugins that finished requests are handed to, with a global on/off
// switch and an optional request policy.
package api

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/privacy"
)

// Plugin receives finished requests.
type Plugin interface {
	// Key identifies the plugin within a category.
	Key() string
	// Send delivers the request.
	Send(context.Context, *gqlreq.Request) error
}

// Option configures a Category.
type Option func(*Category)

// WithLogger sets the logger of the category.
func WithLogger(l *zap.Logger) Option {
	return func(c *Category) {
		if l != nil {
			c.log = l
		}
	}
}

// WithPolicy appends policies evaluated by Send before a plugin is reached.
func WithPolicy(policies ...privacy.Rule) Option {
	return func(c *Category) {
		c.policy = append(c.policy, policies...)
	}
}

// Category is a concurrent-safe registry of plugins. A new category is enabled.
type Category struct {
	name    string
	plugins sync.Map // string -> Plugin
	enabled atomic.Bool
	policy  privacy.Policies
	log     *zap.Logger
}

// NewCategory returns an enabled category without plugins.
func NewCategory(name string, opts ...Option) *Category {
	c := &Category{name: name, log: zap.NewNop()}
	c.enabled.Store(true)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the category name.
func (c *Category) Name() string {
	return c.name
}

// AddPlugin registers p under its key. A key can be registered once.
func (c *Category) AddPlugin(p Plugin) error {
	if p == nil {
		return NewPluginError("", "nil plugin", nil)
	}
	key := p.Key()
	if key == "" {
		return NewPluginError(key, "empty key", nil)
	}
	if _, loaded := c.plugins.LoadOrStore(key, p); loaded {
		return NewPluginError(key, "already registered", nil)
	}
	c.log.Debug("plugin added", zap.String("category", c.name), zap.String("plugin", key))
	return nil
}

// RemovePlugin unregisters the plugin with the given key.
func (c *Category) RemovePlugin(key string) error {
	if _, loaded := c.plugins.LoadAndDelete(key); !loaded {
		return NewPluginError(key, "no such plugin", nil)
	}
	c.log.Debug("plugin removed", zap.String("category", c.name), zap.String("plugin", key))
	return nil
}

// Plugin returns the plugin registered under key.
func (c *Category) Plugin(key string) (Plugin, error) {
	p, ok := c.plugins.Load(key)
	if !ok {
		return nil, NewPluginError(key, "no such plugin", nil)
	}
	return p.(Plugin), nil
}

// Plugins returns the registered plugins ordered by key.
func (c *Category) Plugins() []Plugin {
	var ps []Plugin
	c.plugins.Range(func(_, v any) bool {
		ps = append(ps, v.(Plugin))
		return true
	})
	sort.Slice(ps, func(i, j int) bool { return ps[i].Key() < ps[j].Key() })
	return ps
}

// Reset removes every plugin.
func (c *Category) Reset() {
	c.plugins.Clear()
}

// Enable turns the category on.
func (c *Category) Enable() {
	c.enabled.Store(true)
}

// Disable turns the category off. Registered plugins are kept.
func (c *Category) Disable() {
	c.enabled.Store(false)
}

// Enabled reports whether the category is on.
func (c *Category) Enabled() bool {
	return c.enabled.Load()
}

// Send hands r to the plugin registered under key. It fails with ErrDisabled
// while the category is off, with a PluginError for an unknown key or a
// failing plugin, and with the policy decision when a policy denies r.
func (c *Category) Send(ctx context.Context, key string, r *gqlreq.Request) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if r == nil {
		return NewPluginError(key, "nil request", nil)
	}
	p, err := c.Plugin(key)
	if err != nil {
		return err
	}
	if err := c.policy.EvalRequest(ctx, r); err != nil {
		c.log.Debug("request denied",
			zap.String("plugin", key),
			zap.String("operation", r.OperationName),
			zap.Error(err),
		)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Send(ctx, r); err != nil {
		return NewPluginError(key, "send "+r.OperationName, err)
	}
	c.log.Debug("request sent",
		zap.String("category", c.name),
		zap.String("plugin", key),
		zap.String("operation", r.OperationName),
	)
	return nil
}
