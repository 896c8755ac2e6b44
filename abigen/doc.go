// Package abigen generates the C boundary of a gameplay module.
//
// Given a schema.Model it emits three files:
//
//   - a cgo Go file exporting every boundary function, with one typed
//     trampoline per system and a lazy row layout check
//   - a C file with the thunks Go uses to call host function pointers
//   - a C header describing the whole surface for hosts
//
// Building the Go file together with the module's packages using
// -buildmode=c-shared yields a library hosts can load.
//
// A module usually wires this up with a small generator program:
//
//	//go:generate go run ./gen
//
//	func main() {
//		cfg, err := abigen.LoadConfig("gamebind.yaml")
//		...
//		b := schema.NewBuilder()
//		tanks.Register(b)
//		_, err = abigen.Run(b, cfg, "./cshared")
//	}
package abigen
