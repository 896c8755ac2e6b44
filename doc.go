// Package gamebind binds Go gameplay modules to a native ECS engine.
//
// A gameplay module declares plain-data components and resources and writes
// systems as ordinary Go functions. The engine owns all entity storage and
// scheduling; it loads the module as a c-shared library, reads a descriptor of
// every type and system, and then calls systems by index each frame.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	gamebind/
//	├── schema/          Registration and analysis of types and system signatures
//	├── abigen/          Generator for the c-shared export surface and C header
//	├── abi/             Protocol version, argument tags and the in-process module
//	├── bind/            Ref, Query and Engine handles plus host callbacks
//	├── builtin/         Engine-provided components, resources and input state
//	├── boundary/        Fault containment and abort at every exported entry point
//	├── errors/          Structured error types for debugging
//	├── hostsim/         Reference host that runs a module in process
//	├── inspect/         Manifest of a loaded module for terminals and YAML
//	├── dylib/           Loader for c-shared modules without cgo
//	├── cmd/run/         CLI and TUI around hostsim and inspect
//	└── examples/tanks/  Complete gameplay module
//
// # Quick Start
//
// Declare the module:
//
//	func Register(b *schema.Builder) *schema.Builder {
//	    schema.Component[Velocity](b)
//	    return b.SystemOnce(Spawn).System(Move)
//	}
//
// Generate its boundary from a small main package:
//
//	model, err := abigen.Run(game.Register(schema.NewBuilder()), cfg, "cshared")
//
// and build it with go build -buildmode=c-shared. During development the same
// model runs in process:
//
//	model, _ := game.Register(schema.NewBuilder()).Build()
//	host, err := hostsim.New(abi.New(model), hostsim.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := host.Step()
//
// # Faults
//
// A panic inside a system is contained at the boundary: the system reports a
// non-zero status for that frame and the module stays usable. A disagreement
// between host and module about type identities or protocol version aborts the
// process instead.
//
// # Thread Safety
//
// Engine calls may be made from several goroutines of one system at once.
// Handles passed to a system are valid only until it returns.
package gamebind
