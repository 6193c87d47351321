package container

// Lifetime governs whether repeated resolutions of an abstract yield the
// same or distinct instances, and which scope caches them.
type Lifetime string

const (
	// Transient creates a new instance on every resolution. This is the
	// default for Bind().
	Transient Lifetime = "transient"

	// SingletonLifetime creates a single instance cached on the container
	// the binding was declared on. Every descendant scope that resolves the
	// abstract observes that same instance.
	SingletonLifetime Lifetime = "singleton"

	// ScopedLifetime creates one instance per resolving container. Sibling
	// scopes resolving the same abstract each get their own instance.
	ScopedLifetime Lifetime = "scoped"
)

// String returns the string representation of the lifetime.
func (l Lifetime) String() string { return string(l) }
