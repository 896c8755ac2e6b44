// Package abi defines the boundary between a gameplay module and its host:
// the protocol version, the argument and type classifications, the tagged
// argument slot and the exported call surface.
//
// Module implements that surface in process from a schema.Model. Generated
// c-shared modules expose the same calls as C symbols; both apply the same
// failure policies:
//
//   - type accessors and index-based descriptors abort on unknown input
//   - set_component_id ignores names it does not know
//   - resource_init reports an unknown resource with status 1
//   - a system that panics, or is called with mismatched slots, returns 1
//
// A host must check Compatible(Version()) before relying on anything else.
package abi
