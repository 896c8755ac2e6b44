package schema

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/errors"
)

var engineType = reflect.TypeFor[bind.Engine]()

func analyzeSystem(fn any, order Order) (*SystemDesc, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, errors.New(errors.PhaseAnalysis, errors.KindInvalidSignature).
			Type(fmt.Sprintf("%T", fn)).
			Detail("system must be a function").
			Build()
	}

	fullName := runtime.FuncForPC(rv.Pointer()).Name()
	pkg, ident, ok := splitFuncName(fullName)
	if !ok {
		return nil, errors.InvalidSignature(fullName, -1,
			"system must be an exported top-level function")
	}
	name := pkg + "." + ident

	ft := rv.Type()
	if ft.IsVariadic() {
		return nil, errors.InvalidSignature(name, -1, "system must not be variadic")
	}
	if ft.NumOut() != 0 {
		return nil, errors.InvalidSignature(name, -1, "system must not return values")
	}

	sys := &SystemDesc{
		Func:  rv,
		Name:  name,
		Pkg:   pkg,
		Ident: ident,
		Order: order,
		Args:  make([]ArgDesc, 0, ft.NumIn()),
	}
	for i := 0; i < ft.NumIn(); i++ {
		arg, err := classifyParam(ft.In(i))
		if err != nil {
			return nil, annotate(err, name, i)
		}
		sys.Args = append(sys.Args, arg)
	}
	return sys, nil
}

// splitFuncName splits a runtime function name into import path and
// identifier. Closures, methods and generic instantiations are rejected.
func splitFuncName(full string) (pkg, ident string, ok bool) {
	slash := strings.LastIndex(full, "/")
	dot := strings.Index(full[slash+1:], ".")
	if dot < 0 {
		return "", "", false
	}
	dot += slash + 1
	// The runtime escapes dots in the last path element.
	pkg, ident = strings.ReplaceAll(full[:dot], "%2e", "."), full[dot+1:]
	if pkg == "" || !isExportedIdent(ident) {
		return "", "", false
	}
	return pkg, ident, true
}

func isExportedIdent(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsUpper(r) {
		return false
	}
	for _, c := range s {
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// paramError is a classification failure before the system name is known.
type paramError struct {
	typ    string
	detail string
}

func (e *paramError) Error() string { return e.typ + ": " + e.detail }

func badParam(t reflect.Type, detail string) error {
	return &paramError{typ: t.String(), detail: detail}
}

func annotate(err error, system string, arg int) error {
	pe, ok := err.(*paramError)
	if !ok {
		return err
	}
	b := errors.New(errors.PhaseAnalysis, errors.KindInvalidSignature).
		System(system).
		Arg(arg).
		Type(pe.typ).
		Detail("%s", pe.detail)
	return b.Build()
}

func classifyParam(t reflect.Type) (ArgDesc, error) {
	if t.Kind() == reflect.Pointer {
		if _, isHandle := bind.ParamOf(t.Elem()); isHandle {
			return ArgDesc{}, badParam(t, "queries and handles must be taken by value")
		}
		d, err := directData(t.Elem(), true)
		if err != nil {
			return ArgDesc{}, err
		}
		return ArgDesc{Param: t, Direct: d}, nil
	}

	info, ok := bind.ParamOf(t)
	if !ok {
		return ArgDesc{}, badParam(t, "unsupported parameter; want *T, bind.Ref[T], bind.Query[S] or bind.Engine")
	}

	switch info.Kind {
	case bind.ParamEngine:
		return ArgDesc{
			Param:  t,
			Direct: DirectDesc{Type: engineType, Name: bind.TypeName(engineType)},
			Engine: true,
		}, nil
	case bind.ParamRef:
		d, err := directData(info.Type, false)
		if err != nil {
			return ArgDesc{}, err
		}
		return ArgDesc{Param: t, Direct: d}, nil
	case bind.ParamQuery:
		elems, err := queryElems(info.Type)
		if err != nil {
			return ArgDesc{}, err
		}
		return ArgDesc{Param: t, Shape: info.Type, Elems: elems, Query: true}, nil
	}
	return ArgDesc{}, badParam(t, "unsupported handle")
}

// queryElem classifies one row element: *T or bind.Ref[T].
func queryElem(t reflect.Type) (DirectDesc, bool, error) {
	if t.Kind() == reflect.Pointer {
		if _, isHandle := bind.ParamOf(t.Elem()); isHandle {
			return DirectDesc{}, true, badParam(t, "query elements must be *T or bind.Ref[T]")
		}
		d, err := directData(t.Elem(), true)
		return d, true, err
	}
	if info, ok := bind.ParamOf(t); ok {
		if info.Kind != bind.ParamRef {
			return DirectDesc{}, true, badParam(t, "query elements must be *T or bind.Ref[T]")
		}
		d, err := directData(info.Type, false)
		return d, true, err
	}
	return DirectDesc{}, false, nil
}

func queryElems(shape reflect.Type) ([]DirectDesc, error) {
	if d, ok, err := queryElem(shape); ok {
		if err != nil {
			return nil, err
		}
		return []DirectDesc{d}, nil
	}

	if shape.Kind() != reflect.Struct {
		return nil, badParam(shape, "query row must be *T, bind.Ref[T] or a struct of them")
	}
	if shape.Name() != "" && !isExportedIdent(shape.Name()) {
		return nil, badParam(shape, "query row type must be exported")
	}
	if shape.NumField() == 0 {
		return nil, badParam(shape, "query row must name at least one component")
	}

	elems := make([]DirectDesc, 0, shape.NumField())
	seen := make(map[string]bool, shape.NumField())
	for i := 0; i < shape.NumField(); i++ {
		f := shape.Field(i)
		if !f.IsExported() {
			return nil, badParam(shape, "query row field "+f.Name+" must be exported")
		}
		d, ok, err := queryElem(f.Type)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, badParam(shape, "query row field "+f.Name+" must be *T or bind.Ref[T]")
		}
		if seen[d.Name] {
			return nil, badParam(shape, "query names "+d.Name+" twice")
		}
		seen[d.Name] = true
		elems = append(elems, d)
	}
	return elems, nil
}

func directData(t reflect.Type, mutable bool) (DirectDesc, error) {
	if t == engineType {
		return DirectDesc{}, badParam(t, "the engine is taken as bind.Engine by value")
	}
	if err := checkNamedPlain(t); err != nil {
		return DirectDesc{}, badParam(t, err.Error())
	}
	return DirectDesc{Type: t, Name: bind.TypeName(t), Mutable: mutable}, nil
}
