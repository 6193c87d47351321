package providers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/admelck/lazy-proxy-unity/framework/config"
	"github.com/admelck/lazy-proxy-unity/framework/container"
	"github.com/admelck/lazy-proxy-unity/framework/lazyproxy"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) (any, error) {
		return config.Load(envFiles...), nil
	})
	app.Alias("config", "configuration")
	return nil
}

// ── LazyProxyServiceProvider ──────────────────────────────────────────────────

// LazyProxyServiceProvider binds the lazy-proxy synthesizer as "lazy.synthesizer"
// and, at boot, applies the configured trust grants for restricted-visibility
// contracts.
type LazyProxyServiceProvider struct {
	container.BaseProvider

	// Synthesizer to bind; lazyproxy.Default() when nil.
	Synthesizer *lazyproxy.Synthesizer
}

func (p *LazyProxyServiceProvider) Register(app *container.Container) error {
	synth := p.Synthesizer
	if synth == nil {
		synth = lazyproxy.Default()
	}
	app.Instance("lazy.synthesizer", synth)
	return nil
}

func (p *LazyProxyServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, "config")
	if err != nil {
		return err
	}
	synth, err := container.Resolve[*lazyproxy.Synthesizer](app, "lazy.synthesizer")
	if err != nil {
		return err
	}
	for _, pkg := range cfg.Lazy.TrustedPackages {
		synth.Inspector().Trust(pkg)
	}
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router as "router".
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton("router", func(c *container.Container) (any, error) {
		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(middleware.RealIP)
		return r, nil
	})
	return nil
}
