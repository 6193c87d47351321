package lazyproxy

import (
	"reflect"

	"github.com/admelck/lazy-proxy-unity/framework/container"
)

// implPrefix distinguishes the real implementation's binding key from the
// public contract key. Resolving the public key yields a proxy; only the
// proxy's Deferred ever resolves the internal key.
const implPrefix = "lazy.impl:"

// ── Options ───────────────────────────────────────────────────────────────────

// Option configures a lazy registration.
type Option func(*options)

type options struct {
	name     string
	lifetime container.Lifetime
	synth    *Synthesizer
}

// WithName registers the contract and its implementation under a
// registration name, so multiple implementations of one contract coexist.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLifetime sets the lifetime of the underlying implementation (the
// proxy itself is always created fresh per resolve; under Singleton or
// Scoped lifetimes independent proxies converge on one underlying instance).
func WithLifetime(l container.Lifetime) Option {
	return func(o *options) { o.lifetime = l }
}

// WithSynthesizer uses a specific synthesizer instead of Default().
func WithSynthesizer(s *Synthesizer) Option {
	return func(o *options) { o.synth = s }
}

// ── Registration adapter ──────────────────────────────────────────────────────

// Register makes contract T resolvable as a lazy proxy on c.
//
// The implementation factory is bound under an internal key with the
// requested lifetime, untouched. Under the public contract key, Register
// binds a transient factory that per resolve builds a fresh proxy whose
// Deferred resolver is bound to the container instance performing that very
// resolve — so proxies created from a child scope honor child overrides, and
// lifetime policies decide whether underlying instances are shared.
//
// Resolving the contract never constructs the implementation and never
// fails once registered; a broken dependency graph surfaces at first member
// access as the container's own resolution error, unchanged, and is retried
// on later accesses.
//
// Configuration mistakes (T not an interface, no forwarder blueprint,
// untrusted restricted-visibility contract) fail here, before anything is
// recorded in the container. The container is returned for chaining.
func Register[T any](c *container.Container, impl container.Factory, opts ...Option) (*container.Container, error) {
	o := options{lifetime: container.Transient, synth: defaultSynthesizer}
	for _, opt := range opts {
		opt(&o)
	}

	contract := reflect.TypeOf((*T)(nil)).Elem()
	// Eager validation: the blueprint registry inspects on registration, so
	// a present blueprint implies a valid contract. Inspect anyway when the
	// blueprint is missing to report the most specific error.
	if _, ok := o.synth.Blueprint(contract); !ok {
		if _, err := o.synth.Inspector().Inspect(contract); err != nil {
			return c, err
		}
		return c, ConfigurationError{Contract: typeName(contract), Err: ErrNoForwarder}
	}

	publicKey := container.Keyed(container.TypeKey((*T)(nil)), o.name)
	implKey := implPrefix + publicKey

	c.BindWith(implKey, impl, o.lifetime)
	c.Bind(publicKey, func(scope *container.Container) (any, error) {
		return o.synth.Synthesize(contract, func() (any, error) {
			return scope.Make(implKey)
		})
	})
	return c, nil
}

// MustRegister is Register that panics on configuration errors.
func MustRegister[T any](c *container.Container, impl container.Factory, opts ...Option) *container.Container {
	c, err := Register[T](c, impl, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve resolves the lazy proxy for contract T from c.
// It is sugar over container.Resolve with the contract key. Only WithName
// participates here: lifetime and synthesizer are fixed at registration, so
// those options are ignored on the resolve path.
func Resolve[T any](c *container.Container, opts ...Option) (T, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	key := container.Keyed(container.TypeKey((*T)(nil)), o.name)
	return container.Resolve[T](c, key)
}

// MustResolve is Resolve that panics on failure.
func MustResolve[T any](c *container.Container, opts ...Option) T {
	v, err := Resolve[T](c, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Constructed reports whether the underlying implementation for contract T
// has been constructed somewhere in c's scope chain. Only meaningful for
// caching lifetimes (Singleton, Scoped); a Transient implementation leaves
// no cached instance to observe. As with Resolve, only WithName applies.
func Constructed[T any](c *container.Container, opts ...Option) bool {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	key := implPrefix + container.Keyed(container.TypeKey((*T)(nil)), o.name)
	return c.Resolved(key)
}
