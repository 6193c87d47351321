package lazyproxy_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/admelck/lazy-proxy-unity/framework/container"
	"github.com/admelck/lazy-proxy-unity/framework/lazyproxy"
)

// ── test contracts and implementations ───────────────────────────────────────
//
// greeterService plays the role of the outer service, mailService its
// dependency. Constructors capture fresh uuids so tests can observe when
// construction happened and which underlying instance a call hit.

type greeterService interface {
	Greet(name string) (string, error)    // does not touch the mailer
	Announce(name string) (string, error) // posts through the mailer
	ID() string
}

type mailService interface {
	Post(msg string) error
	ID() string
}

type greeterImpl struct {
	id     string
	mailer mailService
}

func newGreeter(mailer mailService) *greeterImpl {
	return &greeterImpl{id: uuid.NewString(), mailer: mailer}
}

func (g *greeterImpl) Greet(name string) (string, error) {
	return "hello " + name, nil
}

func (g *greeterImpl) Announce(name string) (string, error) {
	if err := g.mailer.Post("announcing " + name); err != nil {
		return "", err
	}
	return "announced " + name, nil
}

func (g *greeterImpl) ID() string { return g.id }

type mailImpl struct {
	id   string
	fail error // when set, Post returns it unchanged
}

func newMail() *mailImpl { return &mailImpl{id: uuid.NewString()} }

func (m *mailImpl) Post(msg string) error { return m.fail }
func (m *mailImpl) ID() string            { return m.id }

// ── hand-written forwarders ──────────────────────────────────────────────────

type greeterForwarder struct {
	d *lazyproxy.Deferred[greeterService]
}

func (f *greeterForwarder) Greet(name string) (string, error) {
	target, err := f.d.Obtain()
	if err != nil {
		return "", err
	}
	return target.Greet(name)
}

func (f *greeterForwarder) Announce(name string) (string, error) {
	target, err := f.d.Obtain()
	if err != nil {
		return "", err
	}
	return target.Announce(name)
}

func (f *greeterForwarder) ID() string { return f.d.MustObtain().ID() }

type mailForwarder struct {
	d *lazyproxy.Deferred[mailService]
}

func (f *mailForwarder) Post(msg string) error {
	target, err := f.d.Obtain()
	if err != nil {
		return err
	}
	return target.Post(msg)
}

func (f *mailForwarder) ID() string { return f.d.MustObtain().ID() }

// observer records constructions so tests can assert on timing and identity.
type observer struct {
	greeters []string
	mailers  []string
}

func newServiceSynthesizer(t *testing.T) *lazyproxy.Synthesizer {
	t.Helper()
	synth := lazyproxy.NewSynthesizer(lazyproxy.NewInspector())
	if err := lazyproxy.RegisterForwarder(synth, func(d *lazyproxy.Deferred[greeterService]) greeterService {
		return &greeterForwarder{d: d}
	}); err != nil {
		t.Fatalf("greeter forwarder: %v", err)
	}
	if err := lazyproxy.RegisterForwarder(synth, func(d *lazyproxy.Deferred[mailService]) mailService {
		return &mailForwarder{d: d}
	}); err != nil {
		t.Fatalf("mail forwarder: %v", err)
	}
	return synth
}

func greeterFactory(obs *observer) container.Factory {
	return func(c *container.Container) (any, error) {
		mailer, err := container.Resolve[mailService](c, container.TypeKey((*mailService)(nil)))
		if err != nil {
			return nil, err
		}
		g := newGreeter(mailer)
		obs.greeters = append(obs.greeters, g.id)
		return g, nil
	}
}

func mailFactory(obs *observer) container.Factory {
	return func(c *container.Container) (any, error) {
		m := newMail()
		obs.mailers = append(obs.mailers, m.id)
		return m, nil
	}
}

// ── resolve is construction-free ─────────────────────────────────────────────

func TestRegister_ResolveDoesNotConstruct(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	c.Bind(container.TypeKey((*mailService)(nil)), mailFactory(obs))
	if _, err := lazyproxy.Register[greeterService](c, greeterFactory(obs), lazyproxy.WithSynthesizer(synth)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := lazyproxy.Resolve[greeterService](c); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(obs.greeters) != 0 || len(obs.mailers) != 0 {
		t.Errorf("resolve constructed: greeters=%v mailers=%v, want none", obs.greeters, obs.mailers)
	}
}

// ── at-most-once construction per proxy ──────────────────────────────────────

func TestProxy_TwoCallsConstructOnce(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	c.Bind(container.TypeKey((*mailService)(nil)), mailFactory(obs))
	lazyproxy.MustRegister[greeterService](c, greeterFactory(obs), lazyproxy.WithSynthesizer(synth))

	g := lazyproxy.MustResolve[greeterService](c)
	firstID := g.ID()
	secondID := g.ID()

	if len(obs.greeters) != 1 {
		t.Fatalf("constructions: got %d, want 1", len(obs.greeters))
	}
	if firstID != secondID || firstID != obs.greeters[0] {
		t.Error("both calls should hit the same underlying instance")
	}
}

// ── concrete scenario: dependency constructed eagerly as a unit ──────────────

func TestLazyOuter_EagerDependency_ConstructedAsUnit(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	// mailService registered normally: constructing the greeter constructs
	// the mailer with it.
	c.Bind(container.TypeKey((*mailService)(nil)), mailFactory(obs))
	lazyproxy.MustRegister[greeterService](c, greeterFactory(obs), lazyproxy.WithSynthesizer(synth))

	g := lazyproxy.MustResolve[greeterService](c)
	if len(obs.greeters)+len(obs.mailers) != 0 {
		t.Fatal("nothing should be constructed at resolve time")
	}

	// Greet does not touch the mailer, but the greeter's constructor
	// received one, so both come up together.
	if _, err := g.Greet("ada"); err != nil {
		t.Fatalf("Greet: %v", err)
	}
	if len(obs.greeters) != 1 || len(obs.mailers) != 1 {
		t.Fatalf("after first call: greeters=%d mailers=%d, want 1 and 1", len(obs.greeters), len(obs.mailers))
	}

	// A second call must not construct anything further.
	if _, err := g.Announce("ada"); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if len(obs.greeters) != 1 || len(obs.mailers) != 1 {
		t.Errorf("after second call: greeters=%d mailers=%d, want unchanged", len(obs.greeters), len(obs.mailers))
	}
}

// ── concrete scenario: chained lazy registrations construct on demand ────────

func TestLazyOuter_LazyDependency_ConstructedOnDemand(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	// Both contracts lazy: the greeter's constructor receives a mailer
	// proxy, so the real mailer waits for the first call that uses it.
	lazyproxy.MustRegister[mailService](c, mailFactory(obs), lazyproxy.WithSynthesizer(synth))
	lazyproxy.MustRegister[greeterService](c, greeterFactory(obs), lazyproxy.WithSynthesizer(synth))

	g := lazyproxy.MustResolve[greeterService](c)

	if _, err := g.Greet("ada"); err != nil {
		t.Fatalf("Greet: %v", err)
	}
	if len(obs.greeters) != 1 {
		t.Fatalf("greeter constructions: got %d, want 1", len(obs.greeters))
	}
	if len(obs.mailers) != 0 {
		t.Fatalf("mailer constructed before use: %v", obs.mailers)
	}

	if _, err := g.Announce("ada"); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if len(obs.mailers) != 1 {
		t.Errorf("mailer constructions after Announce: got %d, want 1", len(obs.mailers))
	}
}

// ── configuration errors are eager ───────────────────────────────────────────

func TestRegister_NonInterfaceContract_FailsAtRegistration(t *testing.T) {
	c := container.New()

	_, err := lazyproxy.Register[mailImpl](c, func(c *container.Container) (any, error) {
		return newMail(), nil
	})

	if !errors.Is(err, lazyproxy.ErrNotInterface) {
		t.Fatalf("got %v, want ErrNotInterface", err)
	}
	if c.Bound(container.TypeKey((*mailImpl)(nil))) {
		t.Error("failed registration must not record anything in the container")
	}
}

func TestRegister_NoForwarder_FailsAtRegistration(t *testing.T) {
	synth := lazyproxy.NewSynthesizer(lazyproxy.NewInspector())
	c := container.New()

	_, err := lazyproxy.Register[mailService](c, func(c *container.Container) (any, error) {
		return newMail(), nil
	}, lazyproxy.WithSynthesizer(synth))

	if !errors.Is(err, lazyproxy.ErrNoForwarder) {
		t.Fatalf("got %v, want ErrNoForwarder", err)
	}
	if c.Bound(container.TypeKey((*mailService)(nil))) {
		t.Error("failed registration must not record anything in the container")
	}
}

// ── resolution failures: deferred, unchanged, retryable ──────────────────────

func TestProxy_MissingDependency_FailsAtFirstAccessAndRetries(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	// greeter is lazy but its mailService dependency is absent.
	lazyproxy.MustRegister[greeterService](c, greeterFactory(obs), lazyproxy.WithSynthesizer(synth))

	g, err := lazyproxy.Resolve[greeterService](c)
	if err != nil {
		t.Fatalf("resolving the proxy itself must not fail: %v", err)
	}

	_, err = g.Greet("ada")
	if !errors.Is(err, container.ErrNotBound) {
		t.Fatalf("first access: got %v, want the container's resolution error", err)
	}

	// The failure is not cached: registering the dependency makes the very
	// same proxy usable.
	c.Bind(container.TypeKey((*mailService)(nil)), mailFactory(obs))

	if _, err := g.Greet("ada"); err != nil {
		t.Fatalf("retry after registration: %v", err)
	}
	if len(obs.greeters) != 1 {
		t.Errorf("greeter constructions: got %d, want 1", len(obs.greeters))
	}
}

func TestProxy_ChildScopeSuppliesMissingDependency(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	root := container.New()

	lazyproxy.MustRegister[greeterService](root, greeterFactory(obs), lazyproxy.WithSynthesizer(synth))

	child := root.Child()
	child.Bind(container.TypeKey((*mailService)(nil)), mailFactory(obs))

	// The proxy resolved from the root is bound to the root scope and
	// cannot see the child's registration.
	fromRoot := lazyproxy.MustResolve[greeterService](root)
	if _, err := fromRoot.Greet("ada"); !errors.Is(err, container.ErrNotBound) {
		t.Fatalf("root-bound proxy: got %v, want resolution failure", err)
	}

	// An identical proxy resolved from the child succeeds independently.
	fromChild := lazyproxy.MustResolve[greeterService](child)
	if _, err := fromChild.Greet("ada"); err != nil {
		t.Fatalf("child-bound proxy: %v", err)
	}
}

// ── lifetime policies govern the underlying instance ─────────────────────────

func TestSingletonLifetime_IndependentProxiesShareUnderlyingInstance(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	lazyproxy.MustRegister[mailService](c, mailFactory(obs),
		lazyproxy.WithSynthesizer(synth),
		lazyproxy.WithLifetime(container.SingletonLifetime))

	p1 := lazyproxy.MustResolve[mailService](c)
	p2 := lazyproxy.MustResolve[mailService](c)

	if p1 == p2 {
		t.Fatal("each resolve should produce a fresh proxy object")
	}
	if p1.ID() != p2.ID() {
		t.Error("singleton lifetime: both proxies should reveal the same underlying instance")
	}
	if len(obs.mailers) != 1 {
		t.Errorf("constructions: got %d, want 1", len(obs.mailers))
	}
}

func TestTransientLifetime_IndependentProxiesGetDistinctInstances(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	lazyproxy.MustRegister[mailService](c, mailFactory(obs), lazyproxy.WithSynthesizer(synth))

	p1 := lazyproxy.MustResolve[mailService](c)
	p2 := lazyproxy.MustResolve[mailService](c)

	if p1.ID() == p2.ID() {
		t.Error("transient lifetime: proxies should construct distinct instances")
	}
}

func TestScopedLifetime_SiblingScopesGetDistinctInstances(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	root := container.New()

	lazyproxy.MustRegister[mailService](root, mailFactory(obs),
		lazyproxy.WithSynthesizer(synth),
		lazyproxy.WithLifetime(container.ScopedLifetime))

	child1 := root.Child()
	child2 := root.Child()

	within := lazyproxy.MustResolve[mailService](child1).ID()
	again := lazyproxy.MustResolve[mailService](child1).ID()
	other := lazyproxy.MustResolve[mailService](child2).ID()

	if within != again {
		t.Error("scoped lifetime: one scope should reuse its instance")
	}
	if within == other {
		t.Error("scoped lifetime: sibling scopes should get distinct instances")
	}
}

// ── named registrations ──────────────────────────────────────────────────────

func TestRegister_NamedContractsAreIndependent(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	lazyproxy.MustRegister[mailService](c, mailFactory(obs),
		lazyproxy.WithSynthesizer(synth),
		lazyproxy.WithName("smtp"),
		lazyproxy.WithLifetime(container.SingletonLifetime))
	lazyproxy.MustRegister[mailService](c, mailFactory(obs),
		lazyproxy.WithSynthesizer(synth),
		lazyproxy.WithName("sendmail"),
		lazyproxy.WithLifetime(container.SingletonLifetime))

	smtp := lazyproxy.MustResolve[mailService](c, lazyproxy.WithName("smtp"))
	sendmail := lazyproxy.MustResolve[mailService](c, lazyproxy.WithName("sendmail"))

	if smtp.ID() == sendmail.ID() {
		t.Error("named registrations should resolve independent instances")
	}

	if _, err := lazyproxy.Resolve[mailService](c); !errors.Is(err, container.ErrNotBound) {
		t.Errorf("unnamed resolve: got %v, want ErrNotBound", err)
	}
}

func TestResolve_OnlyNameOptionApplies(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	lazyproxy.MustRegister[mailService](c, mailFactory(obs),
		lazyproxy.WithSynthesizer(synth),
		lazyproxy.WithLifetime(container.SingletonLifetime))

	plain := lazyproxy.MustResolve[mailService](c)
	// Lifetime and synthesizer were fixed at registration; passing different
	// ones to Resolve must not change which binding is addressed.
	decorated := lazyproxy.MustResolve[mailService](c,
		lazyproxy.WithLifetime(container.Transient),
		lazyproxy.WithSynthesizer(lazyproxy.NewSynthesizer(nil)))

	if plain.ID() != decorated.ID() {
		t.Error("non-name options must not affect resolution")
	}
	if !lazyproxy.Constructed[mailService](c, lazyproxy.WithLifetime(container.Transient)) {
		t.Error("non-name options must not affect Constructed")
	}
}

// ── forwarded failures pass through unchanged ────────────────────────────────

func TestProxy_ImplementationErrorPassesThroughUnchanged(t *testing.T) {
	synth := newServiceSynthesizer(t)
	c := container.New()
	smtpDown := errors.New("smtp: connection refused")

	lazyproxy.MustRegister[mailService](c, func(c *container.Container) (any, error) {
		return &mailImpl{id: uuid.NewString(), fail: smtpDown}, nil
	}, lazyproxy.WithSynthesizer(synth))

	m := lazyproxy.MustResolve[mailService](c)
	err := m.Post("hello")

	if err != smtpDown {
		t.Errorf("got %v, want the implementation's error, identical", err)
	}
}

// ── observability ────────────────────────────────────────────────────────────

func TestConstructed_ObservesCachedLifetimes(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	lazyproxy.MustRegister[mailService](c, mailFactory(obs),
		lazyproxy.WithSynthesizer(synth),
		lazyproxy.WithLifetime(container.SingletonLifetime))

	if lazyproxy.Constructed[mailService](c) {
		t.Error("nothing constructed yet")
	}

	_ = lazyproxy.MustResolve[mailService](c).ID()

	if !lazyproxy.Constructed[mailService](c) {
		t.Error("Constructed should report true after first member access")
	}
}

// ── chaining ─────────────────────────────────────────────────────────────────

func TestRegister_ReturnsContainerForChaining(t *testing.T) {
	synth := newServiceSynthesizer(t)
	obs := &observer{}
	c := container.New()

	returned, err := lazyproxy.Register[mailService](c, mailFactory(obs), lazyproxy.WithSynthesizer(synth))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if returned != c {
		t.Error("Register should return the container it registered on")
	}
}
