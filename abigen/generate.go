package abigen

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"strings"
	"text/template"

	"github.com/wippyai/gamebind/abi"
	"github.com/wippyai/gamebind/errors"
	"github.com/wippyai/gamebind/schema"
)

// Output holds the three generated files.
type Output struct {
	Go     []byte
	C      []byte
	Header []byte
}

type genType struct {
	Name      string
	Expr      string
	Kind      string
	NameIndex int
	Size      uintptr
	Align     uintptr
	Resource  bool
}

type genElem struct {
	Type      string
	NameIndex int
}

type genArg struct {
	Type      string
	Expr      string
	Elems     []genElem
	NameIndex int
	Query     bool
}

type genSystem struct {
	Name     string
	Call     string
	ArgTypes []string
	Args     []genArg
	Index    int
	Once     bool
}

type genPair struct {
	Prev, Next string
}

type genLayout struct {
	Shape  string
	System string
	Pairs  []genPair
	Arg    int
}

type genData struct {
	Package     string
	BuildTags   string
	HeaderFile  string
	Imports     []importSpec
	Names       []string
	Types       []genType
	Systems     []genSystem
	Layouts     []genLayout
	Fingerprint uint64
	Version     uint32
}

var funcs = template.FuncMap{
	"quote": quote,
	"join":  strings.Join,
	"guard": headerGuard,
}

var (
	goTmpl     = template.Must(template.New("go").Funcs(funcs).Parse(goTemplate))
	cTmpl      = template.Must(template.New("c").Funcs(funcs).Parse(cTemplate))
	headerTmpl = template.Must(template.New("h").Funcs(funcs).Parse(headerTemplate))
)

// Generate emits the boundary for model. The output is deterministic: the same
// model and config always produce the same bytes.
func Generate(model *schema.Model, cfg Config) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	data, err := prepare(model, cfg)
	if err != nil {
		return nil, err
	}

	var goSrc bytes.Buffer
	if err := goTmpl.Execute(&goSrc, data); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "render Go source")
	}
	formatted, err := format.Source(goSrc.Bytes())
	if err != nil {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
			Cause(err).
			Detail("generated Go source does not parse").
			Value(goSrc.String()).
			Build()
	}

	var cSrc, header bytes.Buffer
	if err := cTmpl.Execute(&cSrc, data); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "render C source")
	}
	if err := headerTmpl.Execute(&header, data); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "render header")
	}

	return &Output{Go: formatted, C: cSrc.Bytes(), Header: header.Bytes()}, nil
}

func prepare(model *schema.Model, cfg Config) (*genData, error) {
	im := newImporter()

	names := append(model.IDNames(), cfg.ExtraNames...)
	slices.Sort(names)
	names = slices.Compact(names)
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	data := &genData{
		Package:     cfg.Package,
		BuildTags:   cfg.buildConstraint(),
		HeaderFile:  cfg.HeaderFile,
		Names:       names,
		Fingerprint: model.Fingerprint(),
		Version:     abi.ProtocolVersion,
	}

	for _, t := range model.Types {
		expr, err := im.expr(t.Type)
		if err != nil {
			return nil, err
		}
		data.Types = append(data.Types, genType{
			Name:      t.Name,
			Expr:      expr,
			Kind:      t.Kind.String(),
			NameIndex: index[t.Name],
			Size:      t.Size,
			Align:     t.Align,
			Resource:  t.Kind == schema.KindResource,
		})
	}

	for i, s := range model.Systems {
		gs, err := prepareSystem(im, index, i, s)
		if err != nil {
			return nil, err
		}
		data.Systems = append(data.Systems, *gs)
	}

	for _, row := range model.QueryRows() {
		shape, err := im.expr(row.Shape)
		if err != nil {
			return nil, err
		}
		l := genLayout{Shape: shape, System: model.Systems[row.System].Name, Arg: row.Arg}
		for f := 1; f < row.Shape.NumField(); f++ {
			l.Pairs = append(l.Pairs, genPair{Prev: row.Shape.Field(f - 1).Name, Next: row.Shape.Field(f).Name})
		}
		data.Layouts = append(data.Layouts, l)
	}

	data.Imports = im.imports()
	return data, nil
}

func prepareSystem(im *importer, index map[string]int, i int, s schema.SystemDesc) (*genSystem, error) {
	alias, err := im.alias(s.Pkg)
	if err != nil {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
			System(s.Name).
			Cause(err).
			Detail("system package cannot be imported").
			Build()
	}
	gs := &genSystem{
		Name:  s.Name,
		Call:  alias + "." + s.Ident,
		Index: i,
		Once:  s.Order == schema.Once,
	}

	for ai, a := range s.Args {
		at := abi.ArgTypeOf(a)
		slot := fmt.Sprintf("args[%d].Ptr", ai)
		ga := genArg{Type: argConst(at), Query: a.Query}

		switch {
		case a.Query:
			shape, err := im.expr(a.Shape)
			if err != nil {
				return nil, err
			}
			ga.Expr = fmt.Sprintf("bind.NewQuery[%s](ctx, %s)", shape, slot)
			for _, e := range a.Elems {
				ga.Elems = append(ga.Elems, genElem{
					Type:      argConst(directArgType(e)),
					NameIndex: index[e.Name],
				})
			}
		case a.Engine:
			ga.Expr = fmt.Sprintf("ctx.Engine(%s)", slot)
			ga.NameIndex = index[a.Direct.Name]
		default:
			typ, err := im.expr(a.Direct.Type)
			if err != nil {
				return nil, err
			}
			if a.Direct.Mutable {
				ga.Expr = fmt.Sprintf("(*%s)(%s)", typ, slot)
			} else {
				ga.Expr = fmt.Sprintf("bind.RefAt[%s](%s)", typ, slot)
			}
			ga.NameIndex = index[a.Direct.Name]
		}

		gs.ArgTypes = append(gs.ArgTypes, ga.Type)
		gs.Args = append(gs.Args, ga)
	}
	return gs, nil
}

func directArgType(d schema.DirectDesc) abi.ArgType {
	if d.Mutable {
		return abi.ArgMut
	}
	return abi.ArgRef
}

func argConst(t abi.ArgType) string {
	switch t {
	case abi.ArgMut:
		return "abi.ArgMut"
	case abi.ArgRef:
		return "abi.ArgRef"
	}
	return "abi.ArgQuery"
}

func headerGuard(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
