package lazyproxy

import (
	"reflect"
	"sync"
)

// ── Member descriptors ────────────────────────────────────────────────────────

// Member describes one method of a contract: everything a forwarder has to
// implement for it. Go interfaces expose members only as methods, so
// property-style getters and setters from other object models appear here as
// ordinary methods.
type Member struct {
	Name     string
	In       []reflect.Type // parameter types, receiver excluded
	Out      []reflect.Type // return types
	Variadic bool
	Exported bool
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// ReturnsError reports whether the member's last return value is an error.
func (m Member) ReturnsError() bool {
	return len(m.Out) > 0 && m.Out[len(m.Out)-1] == errType
}

// ── Inspector ─────────────────────────────────────────────────────────────────

// Inspector validates contract types and enumerates their members.
//
// Restricted-visibility contracts — interfaces carrying unexported methods —
// can only be forwarded by code living in (or generated into) the declaring
// package. Granting that package trust via Trust() is an explicit statement
// that such a forwarder exists; without the grant, inspection fails instead
// of deferring the problem to first member access.
type Inspector struct {
	mu      sync.RWMutex
	trusted map[string]bool // package path → granted
}

// NewInspector creates an Inspector with no trust grants.
func NewInspector() *Inspector {
	return &Inspector{trusted: make(map[string]bool)}
}

// Trust grants the inspector access to restricted-visibility contracts
// declared in pkgPath. Returns the inspector for chaining.
func (i *Inspector) Trust(pkgPath string) *Inspector {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.trusted[pkgPath] = true
	return i
}

// Trusted reports whether pkgPath has been granted access.
func (i *Inspector) Trusted(pkgPath string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.trusted[pkgPath]
}

// Inspect validates that contract is a pure interface and returns its member
// descriptors in reflect's stable method order.
//
// It fails with a ConfigurationError wrapping:
//   - ErrNotInterface if contract is nil or not an interface
//   - ErrContractInaccessible if contract has unexported methods and its
//     declaring package was not granted trust
func (i *Inspector) Inspect(contract reflect.Type) ([]Member, error) {
	if contract == nil || contract.Kind() != reflect.Interface {
		return nil, ConfigurationError{Contract: typeName(contract), Err: ErrNotInterface}
	}

	members := make([]Member, 0, contract.NumMethod())
	for idx := 0; idx < contract.NumMethod(); idx++ {
		m := contract.Method(idx)
		exported := m.PkgPath == ""
		if !exported && !i.Trusted(m.PkgPath) {
			return nil, ConfigurationError{Contract: typeName(contract), Err: ErrContractInaccessible}
		}

		fn := m.Type
		in := make([]reflect.Type, fn.NumIn())
		for p := 0; p < fn.NumIn(); p++ {
			in[p] = fn.In(p)
		}
		out := make([]reflect.Type, fn.NumOut())
		for p := 0; p < fn.NumOut(); p++ {
			out[p] = fn.Out(p)
		}

		members = append(members, Member{
			Name:     m.Name,
			In:       in,
			Out:      out,
			Variadic: fn.IsVariadic(),
			Exported: exported,
		})
	}
	return members, nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
