package lazyproxy

import (
	"errors"
	"strconv"
)

// Configuration mistakes are surfaced eagerly — at registration or forwarder
// registration time, never at first member access. Each sentinel below is
// wrapped by ConfigurationError so callers can match either the broad class
// (errors.As on ConfigurationError) or the specific cause (errors.Is).
var (
	// ErrNotInterface means the contract type is not a pure interface.
	ErrNotInterface = errors.New("lazyproxy: contract is not an interface")

	// ErrContractInaccessible means the contract declares unexported methods
	// and its package was not granted trust via Inspector.Trust.
	ErrContractInaccessible = errors.New("lazyproxy: contract package not trusted")

	// ErrNoForwarder means no forwarder blueprint is registered for the
	// contract. Run proxygen for the interface or register one by hand.
	ErrNoForwarder = errors.New("lazyproxy: no forwarder registered for contract")

	// ErrNilBlueprint means a nil blueprint or build function was supplied.
	ErrNilBlueprint = errors.New("lazyproxy: nil forwarder blueprint")
)

// ConfigurationError reports a programming/setup mistake in a lazy
// registration: a non-interface contract, an untrusted restricted-visibility
// contract, or a missing forwarder blueprint.
type ConfigurationError struct {
	Contract string // package-qualified contract name, or type string
	Err      error  // one of the sentinels above
}

func (e ConfigurationError) Error() string {
	return e.Err.Error() + " (" + strconv.Quote(e.Contract) + ")"
}

func (e ConfigurationError) Unwrap() error { return e.Err }
