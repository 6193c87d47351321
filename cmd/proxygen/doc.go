// Command proxygen generates the forwarding proxy for an interface contract.
//
// For each contract you want to register lazily, proxygen emits a
// <type>_lazy.gen.go file into the declaring package containing:
//
//   - an unexported forwarder struct holding a *lazyproxy.Deferred[Contract]
//   - one method per contract member that obtains the real instance (first
//     use constructs it) and delegates with identical arguments, results and
//     errors
//   - an init() registering the forwarder with lazyproxy.Default()
//
// Because the generated file lives next to the contract, unexported
// interfaces and interfaces with unexported methods work without any
// reflection privilege. For a contract with unexported methods the generated
// init() grants the declaring package trust on lazyproxy.Default() before
// registering; emitting the forwarder into that package is the trust
// statement.
//
// Usage
//
// Put a go:generate directive in the file declaring the contract:
//
//	//go:generate go run github.com/admelck/lazy-proxy-unity/cmd/proxygen -type Mailer -out mailer_lazy.gen.go
//
// Then:
//
//	go generate ./...
//
// Flags:
//
//	-type    interface name (required)
//	-source  package directory to parse (default ".")
//	-out     output path (default <type>_lazy.gen.go in -source)
//
// Error propagation in generated code
//
// Methods whose last return value is an error return the construction error
// through it, leaving the remaining results at their zero values. Methods
// without an error return cannot report a failed construction and panic with
// the resolution error instead.
//
// Unsupported shapes — generic interfaces and interfaces embedding contracts
// from other packages — fail at generation time with a fatal error; they are
// never deferred to runtime.
package main
