package inspect

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/gamebind/abi"
)

// Manifest is everything a module's descriptor functions report, read once.
type Manifest struct {
	Protocol    string   `yaml:"protocol"`
	Fingerprint string   `yaml:"fingerprint"`
	Types       []Type   `yaml:"types"`
	Systems     []System `yaml:"systems"`
	Version     uint32   `yaml:"-"`
}

type Type struct {
	Name  string  `yaml:"name"`
	Kind  string  `yaml:"kind"`
	Size  uintptr `yaml:"size"`
	Align uintptr `yaml:"align"`
}

type System struct {
	Name  string `yaml:"name"`
	Order string `yaml:"order"`
	Args  []Arg  `yaml:"args,omitempty"`
	Index int    `yaml:"index"`
}

// Arg is one system argument. Direct arguments carry a component, queries
// carry elements.
type Arg struct {
	Access    string `yaml:"access"`
	Component string `yaml:"component,omitempty"`
	Elems     []Arg  `yaml:"elems,omitempty"`
}

// Read walks the descriptor surface of d. It only calls functions with
// in-range indices, so it never triggers an abort on a well-formed module.
func Read(d abi.Descriptor) *Manifest {
	m := &Manifest{
		Version:     d.Version(),
		Protocol:    abi.FormatVersion(d.Version()),
		Fingerprint: fmt.Sprintf("%016x", d.Fingerprint()),
	}

	for i := 0; ; i++ {
		name, ok := d.ComponentStringID(i)
		if !ok {
			break
		}
		m.Types = append(m.Types, Type{
			Name:  name,
			Kind:  d.ComponentType(name).String(),
			Size:  d.ComponentSize(name),
			Align: d.ComponentAlign(name),
		})
	}

	for i := 0; i < d.SystemsLen(); i++ {
		s := System{Index: i, Name: d.SystemName(i), Order: "per_frame"}
		if d.SystemIsOnce(i) {
			s.Order = "once"
		}
		for a := 0; a < d.SystemArgsLen(i); a++ {
			typ := d.SystemArgType(i, a)
			arg := Arg{Access: typ.String()}
			if typ != abi.ArgQuery {
				arg.Component = d.SystemArgComponent(i, a)
			} else {
				for e := 0; e < d.SystemQueryArgsLen(i, a); e++ {
					arg.Elems = append(arg.Elems, Arg{
						Access:    d.SystemQueryArgType(i, a, e).String(),
						Component: d.SystemQueryArgComponent(i, a, e),
					})
				}
			}
			s.Args = append(s.Args, arg)
		}
		m.Systems = append(m.Systems, s)
	}
	return m
}

// Compatible reports whether this build of gamebind can drive the module.
func (m *Manifest) Compatible() bool {
	return abi.Compatible(m.Version)
}

// Components and Resources split Types by kind.
func (m *Manifest) Components() []Type { return m.kind("component") }

func (m *Manifest) Resources() []Type { return m.kind("resource") }

func (m *Manifest) kind(k string) []Type {
	var out []Type
	for _, t := range m.Types {
		if t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

// YAML renders the manifest as a YAML document.
func (m *Manifest) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a Arg) String() string {
	if a.Access != abi.ArgQuery.String() {
		return a.Access + " " + short(a.Component)
	}
	elems := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		elems[i] = e.String()
	}
	return "query(" + strings.Join(elems, ", ") + ")"
}

// Signature renders the system as short name and argument list.
func (s System) Signature() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	return short(s.Name) + "(" + strings.Join(args, ", ") + ")"
}

// short drops the import path from a scope-qualified name.
func short(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
