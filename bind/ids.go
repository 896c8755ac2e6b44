package bind

import (
	"reflect"
	"sync"
)

// ComponentID is the numeric identity the host assigns to a component or
// resource type at load time.
type ComponentID uint16

// EntityID is an opaque host handle for an entity. It is itself a component:
// a query row may ask for Ref[EntityID] to learn which entity it visits.
type EntityID uint64

// AssetID is an opaque host handle for a loaded asset.
type AssetID uint32

var typeNames sync.Map // reflect.Type -> string

// TypeName returns the stable, scope-qualified identity of a named type:
// its import path and name joined by a dot.
func TypeName(t reflect.Type) string {
	if name, ok := typeNames.Load(t); ok {
		return name.(string)
	}
	name := t.Name()
	if pkg := t.PkgPath(); pkg != "" {
		name = pkg + "." + name
	}
	typeNames.Store(t, name)
	return name
}

// NameOf returns the identity of T.
func NameOf[T any]() string {
	return TypeName(reflect.TypeFor[T]())
}
