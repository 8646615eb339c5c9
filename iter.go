package structus

import (
	"iter"
	"slices"
)

// Pair is a member name with its stored value.
type Pair struct {
	Name  string
	Value any
}

// EachMember iterates member names in declaration order.
func (s *Schema) EachMember() iter.Seq[string] {
	return slices.Values(slices.Clone(s.members))
}

// EachMember iterates the instance's member names in declaration order.
func (i *Instance) EachMember() iter.Seq[string] { return i.schema.EachMember() }

// EachPair iterates name/value pairs in declaration order. Values are the raw
// stored values (nil when unassigned); reader validation is not applied.
func (i *Instance) EachPair() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, name := range i.schema.members {
			if !yield(name, i.values[name]) {
				return
			}
		}
	}
}

// EachPairWithIndex is EachPair with member positions.
func (i *Instance) EachPairWithIndex() iter.Seq2[int, Pair] {
	return func(yield func(int, Pair) bool) {
		for idx, name := range i.schema.members {
			if !yield(idx, Pair{Name: name, Value: i.values[name]}) {
				return
			}
		}
	}
}

// Values returns the stored values in declaration order.
func (i *Instance) Values() []any {
	out := make([]any, len(i.schema.members))
	for idx, name := range i.schema.members {
		out[idx] = i.values[name]
	}
	return out
}

// ValuesAt returns the values at the given keys through Get.
func (i *Instance) ValuesAt(keys ...any) ([]any, error) {
	out := make([]any, len(keys))
	for idx, k := range keys {
		v, err := i.Get(k)
		if err != nil {
			return nil, err
		}
		out[idx] = v
	}
	return out, nil
}

// ToMap returns the members as a map. With assignedOnly, unassigned members
// are left out; otherwise they map to nil.
func (i *Instance) ToMap(assignedOnly bool) map[string]any {
	out := make(map[string]any, len(i.schema.members))
	for _, name := range i.schema.members {
		v, ok := i.values[name]
		if !ok && assignedOnly {
			continue
		}
		out[name] = v
	}
	return out
}
