package structus

import (
	"fmt"
	"strings"
)

// String renders the instance as "Type{a: 1, b: <unassigned>}".
func (i *Instance) String() string {
	return i.render(func(v any) string { return fmt.Sprintf("%v", v) }, false)
}

// Inspect is String with Go-syntax values and a "(default)" marker on members
// whose value came from their default.
func (i *Instance) Inspect() string {
	return i.render(func(v any) string {
		if inst, ok := v.(*Instance); ok && inst != nil {
			return inst.Inspect()
		}
		return fmt.Sprintf("%#v", v)
	}, true)
}

// GoString implements fmt.GoStringer.
func (i *Instance) GoString() string { return i.Inspect() }

func (i *Instance) render(format func(any) string, marks bool) string {
	b := &strings.Builder{}
	b.WriteString(i.schema.displayName())
	b.WriteByte('{')
	for idx, name := range i.schema.members {
		if idx > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		v, ok := i.values[name]
		if !ok {
			b.WriteString("<unassigned>")
			continue
		}
		b.WriteString(format(v))
		if marks && i.flags[name]&flagDefaulted != 0 {
			b.WriteString(" (default)")
		}
	}
	b.WriteByte('}')
	return b.String()
}
