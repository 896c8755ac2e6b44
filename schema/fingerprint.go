package schema

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Canonical renders the model as a stable text listing, one declaration per
// line.
func (m *Model) Canonical() string {
	var b strings.Builder
	for _, t := range m.Types {
		fmt.Fprintf(&b, "type %s %s size=%d align=%d\n", t.Name, t.Kind, t.Size, t.Align)
	}
	for i, s := range m.Systems {
		fmt.Fprintf(&b, "system %d %s %s", i, s.Name, s.Order)
		for _, a := range s.Args {
			b.WriteByte(' ')
			b.WriteString(a.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Fingerprint is the xxhash-64 digest of Canonical. Two builds of a module
// with the same fingerprint expose the same surface.
func (m *Model) Fingerprint() uint64 {
	return xxhash.Sum64String(m.Canonical())
}

func (d DirectDesc) String() string {
	if d.Mutable {
		return "mut " + d.Name
	}
	return "ref " + d.Name
}

func (a ArgDesc) String() string {
	if !a.Query {
		return a.Direct.String()
	}
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "query(" + strings.Join(parts, ", ") + ")"
}
