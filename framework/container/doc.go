// Package container provides a Laravel-style IoC (Inversion of Control)
// container with hierarchical scopes and a Service Provider system.
//
// # Overview
//
// The container manages the instantiation and lifecycle of your application's
// dependencies. It supports transient, scoped and singleton bindings,
// pre-built instances, aliases, tags, extension (decoration), and child
// containers that inherit and override parent registrations.
//
// Because Go has no runtime constructor reflection, auto-wiring is replaced
// by explicit factory functions. Factories receive the container instance
// performing the resolve, so a factory inherited from a parent scope still
// sees child overrides when resolving its own dependencies.
//
// # Bindings
//
//	// Transient — new instance every Make()
//	c.Bind("Foo", func(c *container.Container) (any, error) { return &Foo{}, nil })
//
//	// Singleton — created once, cached on the declaring container
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewCache(cfg), nil
//	})
//
//	// Scoped — one instance per resolving container
//	c.Scoped("session", func(c *container.Container) (any, error) { return NewSession(), nil })
//
//	// Pre-built value
//	c.Instance("config", myConfig)
//
//	// Alias
//	c.Alias("cache", "cacheManager")
//
// # Child scopes
//
//	child := c.Child()
//	child.Bind("Foo", overrideFactory) // shadows the parent binding
//	v, err := child.Make("Foo")
//
// A Make addressed at a child walks the parent chain for bindings and cached
// instances. Singleton instances live on the container that declared the
// binding; Scoped instances live on the container that resolved them.
//
// # Resolving
//
//	// Untyped
//	raw, err := c.Make("cache")
//
//	// Generic (preferred — no type assertion required)
//	cache, err := container.Resolve[*Cache](c, "cache")
//
// Make returns a BindingNotFoundError (wrapping ErrNotBound) when nothing in
// the scope chain is registered under the abstract.
//
// # Named registrations
//
// A registration name is folded into the abstract key:
//
//	c.Bind(container.Keyed("app.Mailer", "smtp"), smtpFactory)
//	m, err := c.Make(container.Keyed("app.Mailer", "smtp"))
//
// # Tags
//
//	c.Tag([]string{"CpuReport", "MemReport"}, "reports")
//	reports, err := c.Tagged("reports") // []any
//
// # Extend / Decorate
//
//	c.Extend("logger", func(instance any, c *container.Container) (any, error) {
//	    return &TimestampLogger{Inner: instance.(*Logger)}, nil
//	})
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("mailer", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg.Mail), nil
//	    })
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// Deferred providers (IsDeferred() true) are registered for real only when
// one of their Provides() abstracts is first resolved.
package container
