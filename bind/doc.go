// Package bind is the runtime side of a gameplay module: the handles systems
// receive and the load-time state behind them.
//
// A host loads the module, assigns a ComponentID to every type name it knows
// (Registry), installs its six query callbacks (Callbacks) and then calls
// systems. Systems see host memory through three value handles:
//
//   - Ref[T] for read access to one component or resource, *T for write access
//   - Query[S] for multi-entity access, where S is the row shape
//   - Engine for spawning, despawning and loading assets
//
// Lookups are free functions so the component type can be named explicitly:
//
//	func Move(tanks bind.Query[struct {
//		T *builtin.Transform
//		V bind.Ref[Velocity]
//	}], frame bind.Ref[builtin.FrameConstants]) {
//		tanks.ForEach(func(row struct {
//			T *builtin.Transform
//			V bind.Ref[Velocity]
//		}) {
//			row.T.Position = row.T.Position.Add(row.V.Get().Value.Mul(frame.Get().DeltaTime))
//		})
//	}
//
// None of the handles may be retained after the system returns.
package bind
