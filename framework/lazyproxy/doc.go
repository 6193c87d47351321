// Package lazyproxy defers construction of interface-typed dependencies
// until they are actually used.
//
// # Overview
//
// Resolving a lazily registered contract hands the caller a proxy that
// implements the contract by forwarding every method to a real instance
// constructed on first use — at most once per proxy — against the container
// scope that performed the resolve. Construction of an expensive object
// graph therefore follows real call paths instead of happening eagerly at
// resolve time, and graphs with circular or order-sensitive lazy edges can
// be resolved structurally before anything is built.
//
// # Pieces
//
//   - Inspector: validates that a contract is a pure interface and
//     enumerates its members; restricted-visibility contracts (unexported
//     methods) require an explicit Trust grant for their declaring package.
//   - Deferred[T]: the construct-once-and-cache resolver backing one proxy.
//     Failures are never cached; concurrent first accesses collapse into a
//     single construction.
//   - Synthesizer: the per-contract forwarder blueprint registry. Go has no
//     runtime interface codegen, so forwarders are explicit adapters —
//     generated by cmd/proxygen or hand-written — registered eagerly.
//   - Register: the container integration. Binds the implementation under an
//     internal key (name, lifetime and factory passed through untouched) and
//     the contract key to a factory producing fresh scope-bound proxies.
//
// # Usage
//
// Declare a contract and generate its forwarder:
//
//	type Mailer interface {
//	    Send(to, subject string) error
//	}
//
//	//go:generate go run github.com/admelck/lazy-proxy-unity/cmd/proxygen -type Mailer -out mailer_lazy.gen.go
//
// Register and resolve:
//
//	c := container.New()
//	lazyproxy.MustRegister[Mailer](c, func(c *container.Container) (any, error) {
//	    return NewSMTPMailer(), nil // not called yet
//	}, lazyproxy.WithLifetime(container.SingletonLifetime))
//
//	m := lazyproxy.MustResolve[Mailer](c) // proxy; SMTPMailer still not built
//	err := m.Send("a@b", "hi")            // first use constructs, then forwards
//
// Child scopes behave as with any container binding: a proxy resolved from a
// child constructs against the child, so overrides and scope-local
// registrations are honored; a proxy resolved from the root fails at first
// use if the root cannot satisfy the graph, and that failure is retried on
// the next use rather than cached.
//
// # Errors
//
// Configuration mistakes (non-interface contract, missing forwarder,
// untrusted restricted contract) fail at registration. Resolution failures
// surface at first member access, unchanged from the container. Errors
// returned by the real implementation's methods pass through untouched.
// Methods without an error return surface a resolution failure by panicking,
// since Go offers no other channel there.
package lazyproxy
