// Package schema turns the declarations of a gameplay module into a Model.
//
// A module registers its types and systems on a Builder:
//
//	b := schema.NewBuilder()
//	schema.Component[Tank](b)
//	schema.Resource[Noise](b)
//	b.SystemOnce(SpawnTanks)
//	b.System(AITankUpdate)
//	model, err := b.Build()
//
// Every system parameter is classified by reflection:
//
//	*T              direct access, mutable
//	bind.Ref[T]     direct access, read-only
//	bind.Engine     the host Engine resource, read-only
//	bind.Query[S]   query; S is *T, bind.Ref[T] or a struct of those
//
// Anything else, including pointers to handles, fails Build with an
// [analysis] invalid_signature error. Types must be exported named structs
// without Go pointers.
package schema
