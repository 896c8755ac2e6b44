package abigen

import (
	"fmt"
	"go/token"
	"path"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/wippyai/gamebind/bind"
	"github.com/wippyai/gamebind/errors"
)

const (
	bindPath     = "github.com/wippyai/gamebind/bind"
	abiPath      = "github.com/wippyai/gamebind/abi"
	boundaryPath = "github.com/wippyai/gamebind/boundary"
)

// reserved holds identifiers the generated file declares or imports itself.
var reserved = map[string]bool{
	"C": true, "unsafe": true, "runtime": true, "cgo": true, "sync": true,
	"abi": true, "bind": true, "boundary": true,
	"ctx": true, "names": true, "systemNames": true, "slots": true,
	"cEngine": true, "layoutOnce": true, "checkLayouts": true, "main": true,
}

type importSpec struct {
	Alias string
	Path  string
}

// importer assigns package aliases for the generated file.
type importer struct {
	byPath map[string]string
	taken  map[string]bool
}

func newImporter() *importer {
	return &importer{
		byPath: map[string]string{
			bindPath:     "bind",
			abiPath:      "abi",
			boundaryPath: "boundary",
		},
		taken: map[string]bool{},
	}
}

func (im *importer) alias(pkgPath string) (string, error) {
	if a, ok := im.byPath[pkgPath]; ok {
		return a, nil
	}
	if pkgPath == "main" || strings.HasSuffix(pkgPath, "/main") {
		return "", errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
			Detail("package %s cannot be imported by the generated module", pkgPath).
			Build()
	}

	base := sanitize(path.Base(pkgPath))
	a := base
	for n := 2; reserved[a] || im.taken[a] || token.IsKeyword(a); n++ {
		a = base + strconv.Itoa(n)
	}
	im.taken[a] = true
	im.byPath[pkgPath] = a
	return a, nil
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "pkg" + out
	}
	return out
}

// imports returns the third-party imports in path order, excluding the
// gamebind packages the template always imports.
func (im *importer) imports() []importSpec {
	var out []importSpec
	for p, a := range im.byPath {
		switch p {
		case bindPath, abiPath, boundaryPath:
			continue
		}
		out = append(out, importSpec{Alias: a, Path: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// expr renders t as a Go type expression valid in the generated package.
func (im *importer) expr(t reflect.Type) (string, error) {
	if t.Kind() != reflect.Pointer {
		if info, ok := bind.ParamOf(t); ok {
			switch info.Kind {
			case bind.ParamEngine:
				return "bind.Engine", nil
			case bind.ParamRef, bind.ParamQuery:
				inner, err := im.expr(info.Type)
				if err != nil {
					return "", err
				}
				if info.Kind == bind.ParamRef {
					return "bind.Ref[" + inner + "]", nil
				}
				return "bind.Query[" + inner + "]", nil
			}
		}
	}

	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name(), nil
		}
		a, err := im.alias(t.PkgPath())
		if err != nil {
			return "", err
		}
		return a + "." + t.Name(), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner, err := im.expr(t.Elem())
		return "*" + inner, err
	case reflect.Array:
		inner, err := im.expr(t.Elem())
		return fmt.Sprintf("[%d]%s", t.Len(), inner), err
	case reflect.Struct:
		return im.structExpr(t)
	}
	return "", errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
		Type(t.String()).
		Detail("type cannot be named by generated code").
		Build()
}

func (im *importer) structExpr(t reflect.Type) (string, error) {
	if t.NumField() == 0 {
		return "struct{}", nil
	}
	fields := make([]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			return "", errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
				Type(t.String()).
				Detail("unexported field %s cannot be spelled outside its package", f.Name).
				Build()
		}
		ft, err := im.expr(f.Type)
		if err != nil {
			return "", err
		}
		field := f.Name + " " + ft
		if f.Anonymous {
			field = ft
		}
		if f.Tag != "" {
			field += " " + strconv.Quote(string(f.Tag))
		}
		fields[i] = field
	}
	return "struct{ " + strings.Join(fields, "; ") + " }", nil
}

func quote(s string) string { return strconv.Quote(s) }
