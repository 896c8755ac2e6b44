//go:build darwin || linux || freebsd

package dylib

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wippyai/gamebind/abi"
	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/errors"
)

// Library is a c-shared gameplay module opened with dlopen. It serves the
// descriptor surface and id assignment; systems are driven by native hosts.
type Library struct {
	path   string
	handle uintptr

	abiVersion              func() uint32
	abiFingerprint          func() uint64
	componentStringID       func(index uintptr) unsafe.Pointer
	componentSize           func(name string) uintptr
	componentAlign          func(name string) uintptr
	componentType           func(name string) int32
	setComponentID          func(name string, id uint16)
	systemsLen              func() uintptr
	systemName              func(index uintptr) string
	systemIsOnce            func(index uintptr) bool
	systemArgsLen           func(index uintptr) uintptr
	systemArgType           func(index, arg uintptr) int32
	systemArgComponent      func(index, arg uintptr) string
	systemQueryArgsLen      func(index, arg uintptr) uintptr
	systemQueryArgType      func(index, arg, elem uintptr) int32
	systemQueryArgComponent func(index, arg, elem uintptr) string
}

var _ abi.Descriptor = (*Library)(nil)

// Open loads the library at path and binds its exported functions. A missing
// symbol is reported as an error rather than a panic.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "dlopen "+path)
	}

	l := &Library{path: path, handle: handle}
	bindings := []struct {
		fn   any
		name string
	}{
		{&l.abiVersion, "abi_version"},
		{&l.abiFingerprint, "abi_fingerprint"},
		{&l.componentStringID, "component_string_id"},
		{&l.componentSize, "component_size"},
		{&l.componentAlign, "component_align"},
		{&l.componentType, "component_type"},
		{&l.setComponentID, "set_component_id"},
		{&l.systemsLen, "systems_len"},
		{&l.systemName, "system_name"},
		{&l.systemIsOnce, "system_is_once"},
		{&l.systemArgsLen, "system_args_len"},
		{&l.systemArgType, "system_arg_type"},
		{&l.systemArgComponent, "system_arg_component"},
		{&l.systemQueryArgsLen, "system_query_args_len"},
		{&l.systemQueryArgType, "system_query_arg_type"},
		{&l.systemQueryArgComponent, "system_query_arg_component"},
	}
	for _, b := range bindings {
		sym, err := purego.Dlsym(handle, b.name)
		if err != nil {
			purego.Dlclose(handle)
			return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
				Cause(err).
				Detail("%s does not export %s", path, b.name).
				Build()
		}
		purego.RegisterFunc(b.fn, sym)
	}

	if err := abi.CheckVersion(l.abiVersion()); err != nil {
		purego.Dlclose(handle)
		return nil, err
	}
	Logger().Debug("library opened",
		zap.String("path", path),
		zap.String("protocol", abi.FormatVersion(l.abiVersion())))
	return l, nil
}

// Close unloads the library. Go runtimes embedded in c-shared libraries
// cannot be unloaded on every platform, so Close may leave it mapped.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	if err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "dlclose "+l.path)
	}
	return nil
}

func (l *Library) Path() string { return l.path }

func (l *Library) Version() uint32 { return l.abiVersion() }

func (l *Library) Fingerprint() uint64 { return l.abiFingerprint() }

func (l *Library) ComponentStringID(index int) (string, bool) {
	p := l.componentStringID(uintptr(index))
	if p == nil {
		return "", false
	}
	return goString(p), true
}

func (l *Library) ComponentSize(name string) uintptr { return l.componentSize(name) }

func (l *Library) ComponentAlign(name string) uintptr { return l.componentAlign(name) }

func (l *Library) ComponentType(name string) abi.ComponentType {
	return abi.ComponentType(l.componentType(name))
}

// SetComponentID forwards an id assignment. Unknown names are ignored by the
// module.
func (l *Library) SetComponentID(name string, id bind.ComponentID) {
	l.setComponentID(name, uint16(id))
}

func (l *Library) SystemsLen() int { return int(l.systemsLen()) }

func (l *Library) SystemName(index int) string { return l.systemName(uintptr(index)) }

func (l *Library) SystemIsOnce(index int) bool { return l.systemIsOnce(uintptr(index)) }

func (l *Library) SystemArgsLen(index int) int { return int(l.systemArgsLen(uintptr(index))) }

func (l *Library) SystemArgType(index, arg int) abi.ArgType {
	return abi.ArgType(l.systemArgType(uintptr(index), uintptr(arg)))
}

func (l *Library) SystemArgComponent(index, arg int) string {
	return l.systemArgComponent(uintptr(index), uintptr(arg))
}

func (l *Library) SystemQueryArgsLen(index, arg int) int {
	return int(l.systemQueryArgsLen(uintptr(index), uintptr(arg)))
}

func (l *Library) SystemQueryArgType(index, arg, elem int) abi.ArgType {
	return abi.ArgType(l.systemQueryArgType(uintptr(index), uintptr(arg), uintptr(elem)))
}

func (l *Library) SystemQueryArgComponent(index, arg, elem int) string {
	return l.systemQueryArgComponent(uintptr(index), uintptr(arg), uintptr(elem))
}

// goString copies a NUL-terminated C string.
func goString(p unsafe.Pointer) string {
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}
