package container

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value. It always receives the container instance
// that is performing the resolve — for a binding inherited from a parent this
// is the child, so factories can resolve their own dependencies against the
// scope the caller addressed.
type Factory func(c *Container) (any, error)

// binding holds a registered factory, its lifetime, and the container the
// binding was declared on (Singleton instances cache there).
type binding struct {
	factory  Factory
	lifetime Lifetime
	owner    *Container
}

// Extender wraps an already-resolved instance with decorator logic.
type Extender func(instance any, c *Container) (any, error)

// ── Errors ────────────────────────────────────────────────────────────────────

// ErrNotBound is the sentinel wrapped by BindingNotFoundError.
var ErrNotBound = errors.New("container: not bound")

// BindingNotFoundError is returned by Make when no binding exists for an
// abstract anywhere in the addressed scope chain.
type BindingNotFoundError struct{ Abstract string }

func (e BindingNotFoundError) Error() string {
	return "container: no binding registered for " + strconv.Quote(e.Abstract)
}

func (e BindingNotFoundError) Unwrap() error { return ErrNotBound }

// ResolveTypeError is returned by Resolve when the abstract resolved to a
// value of an unexpected type.
type ResolveTypeError struct {
	Abstract string
	Got      string
	Want     string
}

func (e ResolveTypeError) Error() string {
	return "container: " + strconv.Quote(e.Abstract) + " resolved to " + e.Got + ", want " + e.Want
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container.
//
// It supports:
//   - Bind / Scoped / Singleton / BindWith / Instance / Alias
//   - Make / MustMake / Resolve (generic)
//   - Child containers (descendant scopes that inherit and override bindings)
//   - Tags (group multiple abstractions under one tag)
//   - Extend (decorate / wrap resolved instances)
//
// Resolution addressed at a child sees the child's own bindings first and
// falls back to ancestors. Factories always run against the resolving
// container, so a parent-declared binding still picks up child overrides for
// its own dependencies.
type Container struct {
	mu sync.RWMutex

	parent *Container

	// abstract → binding
	bindings map[string]*binding

	// abstract → cached instance (Singleton caches at the binding owner,
	// Scoped caches at the resolving container)
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → extender funcs
	extenders map[string][]Extender

	// tag → []abstract
	tags map[string][]string
}

// New creates an empty root container.
func New() *Container {
	c := newContainer(nil)
	// The container resolves itself, like Laravel's $app->instance().
	c.Instance("container", c)
	return c
}

func newContainer(parent *Container) *Container {
	return &Container{
		parent:    parent,
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
		extenders: make(map[string][]Extender),
		tags:      make(map[string][]string),
	}
}

// Child creates a descendant scope. The child inherits every ancestor
// binding, may override any of them, and keeps its own Scoped instance
// cache. "container" resolves to the child itself.
func (c *Container) Child() *Container {
	child := newContainer(c)
	child.Instance("container", child)
	return child
}

// Parent returns the parent scope, or nil for the root.
func (c *Container) Parent() *Container { return c.parent }

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: a new instance on every Make.
func (c *Container) Bind(abstract string, factory Factory) *Container {
	return c.BindWith(abstract, factory, Transient)
}

// Singleton registers a factory whose result is cached on this container
// after first resolution and shared with every descendant scope.
func (c *Container) Singleton(abstract string, factory Factory) *Container {
	return c.BindWith(abstract, factory, SingletonLifetime)
}

// Scoped registers a factory whose result is cached per resolving container:
// each descendant scope gets (at most) one instance of its own.
func (c *Container) Scoped(abstract string, factory Factory) *Container {
	return c.BindWith(abstract, factory, ScopedLifetime)
}

// BindWith registers a factory under an explicit lifetime. It returns the
// container so registrations can be chained.
func (c *Container) BindWith(abstract string, factory Factory, lifetime Lifetime) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonicalLocked(abstract)
	// Drop a stale cached instance so the new factory takes effect.
	delete(c.instances, key)
	c.bindings[key] = &binding{factory: factory, lifetime: lifetime, owner: c}
	return c
}

// Instance registers a pre-built value. It behaves like an already-resolved
// singleton declared on this container.
func (c *Container) Instance(abstract string, instance any) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonicalLocked(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
	return c
}

// Alias registers an alternative name for an abstract.
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonicalLocked(abstract)
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple abstracts under a named group.
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], abstracts...)
}

// Tagged resolves all abstracts registered under a tag, walking ancestor
// tags as well. It stops at the first resolution error.
func (c *Container) Tagged(tag string) ([]any, error) {
	var abstracts []string
	for scope := c; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		abstracts = append(abstracts, scope.tags[tag]...)
		scope.mu.RUnlock()
	}

	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		v, err := c.Make(abs)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates future resolutions of an abstract on this container.
func (c *Container) Extend(abstract string, fn Extender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonicalLocked(abstract)
	c.extenders[key] = append(c.extenders[key], fn)
	// Force re-resolution so the extender applies to cached singletons too.
	delete(c.instances, key)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from this scope.
func (c *Container) Make(abstract string) (any, error) {
	key := c.canonical(abstract)

	// Pre-built or previously cached instances, nearest scope first.
	for scope := c; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		inst, ok := scope.instances[key]
		scope.mu.RUnlock()
		if ok {
			return inst, nil
		}
	}

	b := c.lookupBinding(key)
	if b == nil {
		return nil, BindingNotFoundError{Abstract: abstract}
	}

	return c.runFactory(key, b)
}

// MustMake resolves an abstract or panics.
func (c *Container) MustMake(abstract string) any {
	v, err := c.Make(abstract)
	if err != nil {
		panic(err)
	}
	return v
}

// lookupBinding finds the nearest binding for key, child-first.
func (c *Container) lookupBinding(key string) *binding {
	for scope := c; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		b, ok := scope.bindings[key]
		scope.mu.RUnlock()
		if ok {
			return b
		}
	}
	return nil
}

// runFactory executes a binding's factory against this (resolving) container
// and caches the result according to the binding's lifetime.
func (c *Container) runFactory(key string, b *binding) (any, error) {
	instance, err := b.factory(c)
	if err != nil {
		return nil, err
	}

	instance, err = c.applyExtenders(key, instance)
	if err != nil {
		return nil, err
	}

	switch b.lifetime {
	case SingletonLifetime:
		b.owner.mu.Lock()
		// A racer may have committed first; keep the committed instance so
		// every caller observes the same one.
		if cached, ok := b.owner.instances[key]; ok {
			instance = cached
		} else {
			b.owner.instances[key] = instance
		}
		b.owner.mu.Unlock()
	case ScopedLifetime:
		c.mu.Lock()
		if cached, ok := c.instances[key]; ok {
			instance = cached
		} else {
			c.instances[key] = instance
		}
		c.mu.Unlock()
	}

	return instance, nil
}

// applyExtenders runs extenders registered anywhere on the scope chain,
// outermost ancestor first.
func (c *Container) applyExtenders(key string, instance any) (any, error) {
	var chain []Extender
	for scope := c; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		if exts := scope.extenders[key]; len(exts) > 0 {
			chain = append(append([]Extender(nil), exts...), chain...)
		}
		scope.mu.RUnlock()
	}
	var err error
	for _, ext := range chain {
		instance, err = ext(instance, c)
		if err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether an abstract is registered in this scope chain.
func (c *Container) Bound(abstract string) bool {
	key := c.canonical(abstract)
	if c.lookupBinding(key) != nil {
		return true
	}
	for scope := c; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		_, ok := scope.instances[key]
		scope.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}

// Resolved reports whether the abstract has a cached instance in this scope
// chain (i.e. it has been resolved at least once under a caching lifetime).
func (c *Container) Resolved(abstract string) bool {
	key := c.canonical(abstract)
	for scope := c; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		_, ok := scope.instances[key]
		scope.mu.RUnlock()
		if ok {
			return true
		}
	}
	return false
}

// Forget removes this scope's own registration and cached instance for an
// abstract. Ancestor bindings become visible again.
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonicalLocked(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
}

// Flush resets this scope (ancestors are untouched).
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.extenders = make(map[string][]Extender)
	c.tags = make(map[string][]string)
}

// Bindings returns the abstract keys registered on this scope (not its
// ancestors), for debugging.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	return out
}

// canonical resolves an alias to its canonical key, walking ancestors.
func (c *Container) canonical(abstract string) string {
	c.mu.RLock()
	target, ok := c.aliases[abstract]
	c.mu.RUnlock()
	if ok {
		return target
	}
	return c.canonicalLocked(abstract)
}

// canonicalLocked is canonical for callers already holding c.mu: it reads
// this scope's alias map directly and only locks ancestors.
func (c *Container) canonicalLocked(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	for scope := c.parent; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		target, ok := scope.aliases[abstract]
		scope.mu.RUnlock()
		if ok {
			return target
		}
	}
	return abstract
}

// ── Keys ──────────────────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// abstract key when binding interfaces.
//
//	key := container.TypeKey((*UserRepository)(nil))
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return typeKey(t)
}

func typeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// Keyed appends a registration name to an abstract key.
//
//	container.Keyed("app.Mailer", "smtp") // "app.Mailer@smtp"
func Keyed(abstract, name string) string {
	if name == "" {
		return abstract
	}
	return abstract + "@" + name
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and type-asserts the result.
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, ResolveTypeError{
			Abstract: abstract,
			Got:      fmt.Sprintf("%T", instance),
			Want:     fmt.Sprintf("%T", zero),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure.
func MustResolve[T any](c *Container, abstract string) T {
	v, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return v
}
