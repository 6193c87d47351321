package app

import (
	"github.com/admelck/lazy-proxy-unity/framework/container"
	"github.com/admelck/lazy-proxy-unity/framework/lazyproxy"
)

// ServiceProvider wires the demo services lazily.
//
// Both contracts resolve to proxies: nothing below is constructed until a
// handler calls a method on one. The Reporter factory resolves its Mailer
// from the container performing the resolve, so it receives a lazy proxy
// too — the mail transport only comes up once Deliver is first used.
type ServiceProvider struct {
	container.BaseProvider
}

func (p *ServiceProvider) Register(app *container.Container) error {
	if _, err := lazyproxy.Register[Mailer](app, func(c *container.Container) (any, error) {
		return NewLogMailer(), nil
	}, lazyproxy.WithLifetime(container.SingletonLifetime)); err != nil {
		return err
	}

	_, err := lazyproxy.Register[Reporter](app, func(c *container.Container) (any, error) {
		mailer, err := lazyproxy.Resolve[Mailer](c)
		if err != nil {
			return nil, err
		}
		return NewReportGenerator(mailer), nil
	}, lazyproxy.WithLifetime(container.SingletonLifetime))
	return err
}
