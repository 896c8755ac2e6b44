package abigen

const goTemplate = `// Code generated by gamebind abigen. DO NOT EDIT.
{{- if .BuildTags}}

//go:build {{.BuildTags}}
{{- end}}

package {{.Package}}

/*
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>
#include <stdlib.h>

#define GAMEBIND_NO_PROTOTYPES
#include "{{.HeaderFile}}"

extern void *gamebind_call_get(void *fn, void *query, uint64_t entity, uint16_t id);
extern void *gamebind_call_get_first(void *fn, void *query, uint16_t id);
extern void gamebind_call_for_each(void *fn, void *query, uintptr_t user);
extern gb_entity_id gamebind_engine_spawn(gb_engine *e, gb_component_ref *components, size_t len);
extern void gamebind_engine_despawn(gb_engine *e, gb_entity_id entity);
extern void gamebind_engine_set_component_value(gb_engine *e, gb_entity_id entity, gb_component_ref *component);
extern gb_asset_id gamebind_engine_load_asset(gb_engine *e, const char *path);
extern gb_system_fn gamebind_system_at(size_t index);
*/
import "C"

import (
	"runtime"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/wippyai/gamebind/abi"
	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/boundary"
{{- range .Imports}}
	{{.Alias}} {{quote .Path}}
{{- end}}
)

var ctx = bind.NewContext(bind.NewRegistry(
{{- range .Names}}
	{{quote .}},
{{- end}}
))

var names = [...]*C.char{
{{- range .Names}}
	C.CString({{quote .}}),
{{- end}}
}

var systemNames = [...]*C.char{
{{- range .Systems}}
	C.CString({{quote .Name}}),
{{- end}}
}

func init() {
	ctx.SetEngineResolver(func(slot unsafe.Pointer) bind.EngineHost {
		return cEngine{e: (*C.gb_engine)(slot)}
	})
}

//export abi_version
func abi_version() C.uint32_t {
	return C.uint32_t(abi.ProtocolVersion)
}

//export abi_fingerprint
func abi_fingerprint() C.uint64_t {
	return C.uint64_t({{printf "%#x" .Fingerprint}})
}

//export component_string_id
func component_string_id(index C.size_t) *C.char {
	switch index {
{{- range $i, $t := .Types}}
	case {{$i}}:
		return names[{{$t.NameIndex}}]
{{- end}}
	}
	return nil
}

//export component_size
func component_size(name *C.char) C.size_t {
	id := C.GoString(name)
{{- range .Types}}
	if id == {{quote .Name}} {
		return C.size_t(unsafe.Sizeof({{.Expr}}{}))
	}
{{- end}}
	boundary.Abortf("component_size: unknown type identity %q", id)
	return 0
}

//export component_align
func component_align(name *C.char) C.size_t {
	id := C.GoString(name)
{{- range .Types}}
	if id == {{quote .Name}} {
		return C.size_t(unsafe.Alignof({{.Expr}}{}))
	}
{{- end}}
	boundary.Abortf("component_align: unknown type identity %q", id)
	return 0
}

//export component_type
func component_type(name *C.char) C.int32_t {
	id := C.GoString(name)
{{- range .Types}}
	if id == {{quote .Name}} {
		return C.int32_t(abi.{{if .Resource}}TypeResource{{else}}TypeComponent{{end}})
	}
{{- end}}
	boundary.Abortf("component_type: unknown type identity %q", id)
	return 0
}

//export set_component_id
func set_component_id(name *C.char, id C.uint16_t) {
	ctx.Registry().Set(C.GoString(name), bind.ComponentID(id))
}

//export resource_init
func resource_init(name *C.char, dest unsafe.Pointer) C.int32_t {
	id := C.GoString(name)
{{- range .Types}}{{if .Resource}}
	if id == {{quote .Name}} {
		return C.int32_t(boundary.Run("resource_init", func() {
			*(*{{.Expr}})(dest) = bind.NewDefault[{{.Expr}}]()
		}))
	}
{{- end}}{{end}}
	return C.int32_t(boundary.StatusFault)
}

func slots(args *C.gb_arg, n C.size_t) []abi.Arg {
	if args == nil {
		return nil
	}
	return unsafe.Slice((*abi.Arg)(unsafe.Pointer(args)), int(n))
}
{{range .Systems}}
var system{{.Index}}Args = []abi.ArgType{ {{- join .ArgTypes ", " -}} }

func system{{.Index}}(args []abi.Arg) boundary.Status {
	if err := abi.CheckArgs({{quote .Name}}, system{{.Index}}Args, args); err != nil {
		return abi.Reject(err)
	}
	return boundary.Run({{quote .Name}}, func() {
		{{.Call}}(
{{- range .Args}}
			{{.Expr}},
{{- end}}
		)
	})
}

//export gamebind_system_{{.Index}}
func gamebind_system_{{.Index}}(args *C.gb_arg, n C.size_t) C.int32_t {
	return C.int32_t(system{{.Index}}(slots(args, n)))
}
{{end}}
//export systems_len
func systems_len() C.size_t {
	return {{len .Systems}}
}

//export system_name
func system_name(index C.size_t) *C.char {
	if int(index) >= len(systemNames) {
		boundary.Abortf("system_name: system index %d out of range", index)
		return nil
	}
	return systemNames[index]
}

//export system_is_once
func system_is_once(index C.size_t) C.bool {
	switch index {
{{- range .Systems}}
	case {{.Index}}:
		return {{.Once}}
{{- end}}
	}
	boundary.Abortf("system_is_once: system index %d out of range", index)
	return false
}

//export system_fn
func system_fn(index C.size_t) C.gb_system_fn {
	if int(index) >= len(systemNames) {
		boundary.Abortf("system_fn: system index %d out of range", index)
		return nil
	}
	return C.gamebind_system_at(index)
}

//export system_args_len
func system_args_len(index C.size_t) C.size_t {
	switch index {
{{- range .Systems}}
	case {{.Index}}:
		return {{len .Args}}
{{- end}}
	}
	boundary.Abortf("system_args_len: system index %d out of range", index)
	return 0
}

//export system_arg_type
func system_arg_type(index, arg C.size_t) C.int32_t {
	switch index {
{{- range .Systems}}
	case {{.Index}}:
		switch arg {
{{- range $ai, $a := .Args}}
		case {{$ai}}:
			return C.int32_t({{$a.Type}})
{{- end}}
		}
{{- end}}
	}
	boundary.Abortf("system_arg_type: no argument %d of system %d", arg, index)
	return 0
}

//export system_arg_component
func system_arg_component(index, arg C.size_t) *C.char {
	switch index {
{{- range .Systems}}
	case {{.Index}}:
		switch arg {
{{- range $ai, $a := .Args}}{{if not $a.Query}}
		case {{$ai}}:
			return names[{{$a.NameIndex}}]
{{- end}}{{end}}
		}
{{- end}}
	}
	boundary.Abortf("system_arg_component: no direct argument %d of system %d", arg, index)
	return nil
}

//export system_query_args_len
func system_query_args_len(index, arg C.size_t) C.size_t {
	switch index {
{{- range .Systems}}
	case {{.Index}}:
		switch arg {
{{- range $ai, $a := .Args}}{{if $a.Query}}
		case {{$ai}}:
			return {{len $a.Elems}}
{{- end}}{{end}}
		}
{{- end}}
	}
	boundary.Abortf("system_query_args_len: no query argument %d of system %d", arg, index)
	return 0
}

//export system_query_arg_type
func system_query_arg_type(index, arg, elem C.size_t) C.int32_t {
	switch index {
{{- range .Systems}}
	case {{.Index}}:
		switch arg {
{{- range $ai, $a := .Args}}{{if $a.Query}}
		case {{$ai}}:
			switch elem {
{{- range $ei, $e := $a.Elems}}
			case {{$ei}}:
				return C.int32_t({{$e.Type}})
{{- end}}
			}
{{- end}}{{end}}
		}
{{- end}}
	}
	boundary.Abortf("system_query_arg_type: no element %d of query argument %d of system %d", elem, arg, index)
	return 0
}

var layoutOnce sync.Once

// checkLayouts verifies that every multi-element query row is a run of
// pointer-sized cells.
func checkLayouts() {
	const ptr = unsafe.Sizeof(uintptr(0))
{{- range $l := .Layouts}}
	{
		var row {{$l.Shape}}
{{- range $l.Pairs}}
		if unsafe.Offsetof(row.{{.Next}})-unsafe.Offsetof(row.{{.Prev}}) != ptr {
			boundary.Abortf("query row layout violated: %s arg %d, fields %s and %s", {{quote $l.System}}, {{$l.Arg}}, {{quote .Prev}}, {{quote .Next}})
		}
{{- end}}
	}
{{- end}}
}

//export system_query_arg_component
func system_query_arg_component(index, arg, elem C.size_t) *C.char {
	layoutOnce.Do(checkLayouts)
	switch index {
{{- range .Systems}}
	case {{.Index}}:
		switch arg {
{{- range $ai, $a := .Args}}{{if $a.Query}}
		case {{$ai}}:
			switch elem {
{{- range $ei, $e := $a.Elems}}
			case {{$ei}}:
				return names[{{$e.NameIndex}}]
{{- end}}
			}
{{- end}}{{end}}
		}
{{- end}}
	}
	boundary.Abortf("system_query_arg_component: no element %d of query argument %d of system %d", elem, arg, index)
	return nil
}

//export gamebind_row
func gamebind_row(row unsafe.Pointer, user C.uintptr_t) C.int32_t {
	fn := cgo.Handle(user).Value().(bind.RowFunc)
	return C.int32_t(fn(row))
}

//export set_callback_fn
func set_callback_fn(kind C.int32_t, fn unsafe.Pointer) {
	var cb any
	switch bind.CallbackKind(kind) {
	case bind.CallbackGet, bind.CallbackGetMut:
		cb = bind.GetFunc(func(q unsafe.Pointer, e bind.EntityID, id bind.ComponentID) unsafe.Pointer {
			return C.gamebind_call_get(fn, q, C.uint64_t(e), C.uint16_t(id))
		})
	case bind.CallbackGetFirst, bind.CallbackGetFirstMut:
		cb = bind.GetFirstFunc(func(q unsafe.Pointer, id bind.ComponentID) unsafe.Pointer {
			return C.gamebind_call_get_first(fn, q, C.uint16_t(id))
		})
	case bind.CallbackForEach, bind.CallbackParForEach:
		cb = bind.ForEachFunc(func(q unsafe.Pointer, row bind.RowFunc) {
			h := cgo.NewHandle(row)
			defer h.Delete()
			C.gamebind_call_for_each(fn, q, C.uintptr_t(h))
		})
	}
	if err := ctx.Callbacks().Set(bind.CallbackKind(kind), cb); err != nil {
		boundary.Abortf("set_callback_fn: %v", err)
	}
}

// cEngine forwards Engine calls to the host's gb_engine table. Component
// values are pinned for the duration of each call.
type cEngine struct {
	e *C.gb_engine
}

func (c cEngine) Spawn(components []bind.ComponentRef) bind.EntityID {
	var pin runtime.Pinner
	defer pin.Unpin()
	var first *C.gb_component_ref
	if len(components) > 0 {
		for _, ref := range components {
			if ref.Ptr != nil {
				pin.Pin(ref.Ptr)
			}
		}
		pin.Pin(&components[0])
		first = (*C.gb_component_ref)(unsafe.Pointer(&components[0]))
	}
	return bind.EntityID(C.gamebind_engine_spawn(c.e, first, C.size_t(len(components))))
}

func (c cEngine) Despawn(entity bind.EntityID) {
	C.gamebind_engine_despawn(c.e, C.gb_entity_id(entity))
}

func (c cEngine) SetComponentValue(entity bind.EntityID, component bind.ComponentRef) {
	var pin runtime.Pinner
	defer pin.Unpin()
	if component.Ptr != nil {
		pin.Pin(component.Ptr)
	}
	ref := &component
	pin.Pin(ref)
	C.gamebind_engine_set_component_value(c.e, C.gb_entity_id(entity), (*C.gb_component_ref)(unsafe.Pointer(ref)))
}

func (c cEngine) LoadAsset(path string) bind.AssetID {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	return bind.AssetID(C.gamebind_engine_load_asset(c.e, cs))
}
{{- if eq .Package "main"}}

func main() {}
{{- end}}
`

const cTemplate = `// Code generated by gamebind abigen. DO NOT EDIT.
{{- if .BuildTags}}

//go:build {{.BuildTags}}
{{- end}}

#include "_cgo_export.h"

void *gamebind_call_get(void *fn, void *query, uint64_t entity, uint16_t id) {
	return ((gb_get_fn)fn)(query, entity, id);
}

void *gamebind_call_get_first(void *fn, void *query, uint16_t id) {
	return ((gb_get_first_fn)fn)(query, id);
}

static int32_t gamebind_row_adapter(void **row, void *user_data) {
	return gamebind_row((void *)row, (uintptr_t)user_data);
}

void gamebind_call_for_each(void *fn, void *query, uintptr_t user) {
	((gb_for_each_fn)fn)(query, gamebind_row_adapter, (void *)user);
}

gb_entity_id gamebind_engine_spawn(gb_engine *e, gb_component_ref *components, size_t len) {
	return e->spawn(e->handle, components, len);
}

void gamebind_engine_despawn(gb_engine *e, gb_entity_id entity) {
	e->despawn(e->handle, entity);
}

void gamebind_engine_set_component_value(gb_engine *e, gb_entity_id entity, gb_component_ref *component) {
	e->set_component_value(e->handle, entity, component);
}

gb_asset_id gamebind_engine_load_asset(gb_engine *e, const char *path) {
	return e->load_asset(e->handle, path);
}
{{if .Systems}}
static const gb_system_fn gamebind_systems[] = {
{{- range .Systems}}
	gamebind_system_{{.Index}},
{{- end}}
};

gb_system_fn gamebind_system_at(size_t index) {
	return gamebind_systems[index];
}
{{- else}}
gb_system_fn gamebind_system_at(size_t index) {
	(void)index;
	return NULL;
}
{{- end}}
`

const headerTemplate = `/* Code generated by gamebind abigen. DO NOT EDIT. */
#ifndef {{guard .HeaderFile}}
#define {{guard .HeaderFile}}

#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>

#ifdef __cplusplus
extern "C" {
#endif

#define GAMEBIND_PROTOCOL_VERSION {{.Version}}u
#define GAMEBIND_FINGERPRINT {{printf "%#x" .Fingerprint}}ull

#define GAMEBIND_VERSION_MAJOR(v) ((uint32_t)(v) >> 25)
#define GAMEBIND_VERSION_MINOR(v) (((uint32_t)(v) >> 15) & 0x3ffu)
#define GAMEBIND_VERSION_PATCH(v) ((uint32_t)(v) & 0x7fffu)

typedef uint16_t gb_component_id;
typedef uint64_t gb_entity_id;
typedef uint32_t gb_asset_id;

typedef enum {
	GB_COMPONENT = 0,
	GB_RESOURCE = 1
} gb_component_type;

typedef enum {
	GB_ARG_MUT = 0,
	GB_ARG_REF = 1,
	GB_ARG_QUERY = 2
} gb_arg_type;

typedef enum {
	GB_QUERY_GET_FN = 0,
	GB_QUERY_GET_MUT_FN = 1,
	GB_QUERY_GET_FIRST_FN = 2,
	GB_QUERY_GET_FIRST_MUT_FN = 3,
	GB_QUERY_FOR_EACH_FN = 4,
	GB_QUERY_PAR_FOR_EACH_FN = 5
} gb_callback_type;

/* One argument slot: its gb_arg_type and the pointer it carries. */
typedef struct {
	int32_t type;
	void *ptr;
} gb_arg;

typedef struct {
	gb_component_id id;
	size_t size;
	const void *ptr;
} gb_component_ref;

typedef int32_t (*gb_system_fn)(gb_arg *args, size_t len);
typedef int32_t (*gb_row_fn)(void **row, void *user_data);
typedef void *(*gb_get_fn)(void *query, gb_entity_id entity, gb_component_id id);
typedef void *(*gb_get_first_fn)(void *query, gb_component_id id);
typedef void (*gb_for_each_fn)(void *query, gb_row_fn row, void *user_data);

/* The Engine resource. Pass a pointer to it for Engine arguments. */
typedef struct {
	void *handle;
	gb_entity_id (*spawn)(void *handle, gb_component_ref *components, size_t len);
	void (*despawn)(void *handle, gb_entity_id entity);
	void (*set_component_value)(void *handle, gb_entity_id entity, gb_component_ref *component);
	gb_asset_id (*load_asset)(void *handle, const char *path);
} gb_engine;

/*
 * Types declared by this module, as laid out on the generating platform:
{{- range .Types}}
 *   {{.Name}} {{.Kind}} size={{.Size}} align={{.Align}}
{{- end}}
 */

#ifndef GAMEBIND_NO_PROTOTYPES
uint32_t abi_version(void);
uint64_t abi_fingerprint(void);
const char *component_string_id(size_t index);
size_t component_size(const char *name);
size_t component_align(const char *name);
int32_t component_type(const char *name);
void set_component_id(const char *name, gb_component_id id);
int32_t resource_init(const char *name, void *dest);
size_t systems_len(void);
const char *system_name(size_t index);
bool system_is_once(size_t index);
gb_system_fn system_fn(size_t index);
size_t system_args_len(size_t index);
int32_t system_arg_type(size_t index, size_t arg);
const char *system_arg_component(size_t index, size_t arg);
size_t system_query_args_len(size_t index, size_t arg);
int32_t system_query_arg_type(size_t index, size_t arg, size_t elem);
const char *system_query_arg_component(size_t index, size_t arg, size_t elem);
void set_callback_fn(int32_t kind, void *fn);
#endif

#ifdef __cplusplus
}
#endif

#endif
`
