package lazyproxy

import (
	"reflect"
	"sync"
)

// ── Blueprints ────────────────────────────────────────────────────────────────

// Blueprint instantiates a forwarding object for one contract. It receives
// the untyped obtain callback of a freshly created Deferred and returns a
// value implementing the contract whose every method first obtains the real
// instance and then delegates to it.
//
// Blueprints are purely structural: they depend on the contract's member
// shape only, never on the registered implementation type.
type Blueprint func(obtain func() (any, error)) any

// ── Synthesizer ───────────────────────────────────────────────────────────────

// Synthesizer holds the per-contract forwarder blueprints.
//
// Go has no runtime interface codegen, so blueprints are explicit adapters:
// generated by cmd/proxygen (the usual path) or hand-written. Registering a
// blueprint validates the contract through the Inspector eagerly — shape and
// visibility problems fail here, never at first member access.
type Synthesizer struct {
	inspector *Inspector

	mu         sync.RWMutex
	blueprints map[reflect.Type]Blueprint
}

// NewSynthesizer creates a Synthesizer around an Inspector.
func NewSynthesizer(inspector *Inspector) *Synthesizer {
	if inspector == nil {
		inspector = NewInspector()
	}
	return &Synthesizer{
		inspector:  inspector,
		blueprints: make(map[reflect.Type]Blueprint),
	}
}

// Inspector returns the synthesizer's inspector, e.g. to add trust grants.
func (s *Synthesizer) Inspector() *Inspector { return s.inspector }

// Register validates the contract and stores its blueprint. Re-registering
// a contract replaces the previous blueprint.
func (s *Synthesizer) Register(contract reflect.Type, bp Blueprint) error {
	if bp == nil {
		return ConfigurationError{Contract: typeName(contract), Err: ErrNilBlueprint}
	}
	if _, err := s.inspector.Inspect(contract); err != nil {
		return err
	}
	s.mu.Lock()
	s.blueprints[contract] = bp
	s.mu.Unlock()
	return nil
}

// Blueprint returns the registered blueprint for a contract.
func (s *Synthesizer) Blueprint(contract reflect.Type) (Blueprint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bp, ok := s.blueprints[contract]
	return bp, ok
}

// Synthesize instantiates a proxy for the contract, bound to the given
// obtain callback. Missing blueprints are a configuration mistake.
func (s *Synthesizer) Synthesize(contract reflect.Type, obtain func() (any, error)) (any, error) {
	bp, ok := s.Blueprint(contract)
	if !ok {
		return nil, ConfigurationError{Contract: typeName(contract), Err: ErrNoForwarder}
	}
	return bp(obtain), nil
}

// ── Typed registration ────────────────────────────────────────────────────────

// RegisterForwarder registers a typed forwarder constructor for contract T.
// The constructor receives the proxy's Deferred resolver and returns the
// forwarding implementation of T. Generated code calls this from init()
// through MustRegisterForwarder.
func RegisterForwarder[T any](s *Synthesizer, build func(*Deferred[T]) T) error {
	if build == nil {
		return ConfigurationError{Contract: typeName(reflect.TypeOf((*T)(nil)).Elem()), Err: ErrNilBlueprint}
	}
	return s.Register(reflect.TypeOf((*T)(nil)).Elem(), func(obtain func() (any, error)) any {
		return build(NewDeferred(func() (T, error) {
			var zero T
			v, err := obtain()
			if err != nil {
				return zero, err
			}
			typed, ok := v.(T)
			if !ok {
				// The implementation binding produced a value that does not
				// satisfy the contract. Surface it as a construction failure.
				got := "<nil>"
				if t := reflect.TypeOf(v); t != nil {
					got = t.String()
				}
				return zero, ImplementationTypeError{
					Contract: typeName(reflect.TypeOf((*T)(nil)).Elem()),
					Got:      got,
				}
			}
			return typed, nil
		}))
	})
}

// MustRegisterForwarder is RegisterForwarder that panics on configuration
// errors; intended for generated init() functions.
func MustRegisterForwarder[T any](s *Synthesizer, build func(*Deferred[T]) T) {
	if err := RegisterForwarder(s, build); err != nil {
		panic(err)
	}
}

// ImplementationTypeError reports that a resolved implementation does not
// satisfy the contract it was registered under.
type ImplementationTypeError struct {
	Contract string
	Got      string
}

func (e ImplementationTypeError) Error() string {
	return "lazyproxy: implementation " + e.Got + " does not satisfy contract " + e.Contract
}

// ── Default synthesizer ───────────────────────────────────────────────────────

var defaultSynthesizer = NewSynthesizer(NewInspector())

// Default returns the process-wide synthesizer. Generated forwarders
// self-register here from init(), and Register falls back to it when no
// synthesizer option is given.
func Default() *Synthesizer { return defaultSynthesizer }
