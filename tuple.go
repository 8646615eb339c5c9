package structus

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// TupleType is a plain positional record type derived from a schema: member
// names only, with no conditions, adjusters or defaults.
type TupleType struct {
	name    string
	members []string
}

// Name returns the tuple type name.
func (t *TupleType) Name() string { return t.name }

// Members returns the member names in order.
func (t *TupleType) Members() []string { return slices.Clone(t.members) }

// New builds a tuple. Missing trailing values are nil.
func (t *TupleType) New(values ...any) (Tuple, error) {
	if len(values) > len(t.members) {
		return Tuple{}, fmt.Errorf("structus: tuple %s takes at most %d values, got %d", t.name, len(t.members), len(values))
	}
	vs := make([]any, len(t.members))
	copy(vs, values)
	return Tuple{typ: t, values: vs}, nil
}

// Tuple is a value of a TupleType.
type Tuple struct {
	typ    *TupleType
	values []any
}

// Type returns the tuple's type.
func (t Tuple) Type() *TupleType { return t.typ }

// Len returns the number of members.
func (t Tuple) Len() int { return len(t.values) }

// At returns the value at position idx.
func (t Tuple) At(idx int) any { return t.values[idx] }

// Field returns the value of the named member.
func (t Tuple) Field(name string) (any, bool) {
	idx := slices.Index(t.typ.members, name)
	if idx < 0 {
		return nil, false
	}
	return t.values[idx], true
}

// Values returns a copy of the values.
func (t Tuple) Values() []any { return slices.Clone(t.values) }

func (t Tuple) String() string {
	parts := make([]string, len(t.values))
	for idx, v := range t.values {
		parts[idx] = fmt.Sprintf("%s=%v", t.typ.members[idx], v)
	}
	return t.typ.name + "(" + strings.Join(parts, ", ") + ")"
}

// Namespace caches tuple types by name. It is safe for concurrent use.
type Namespace struct {
	mu    sync.Mutex
	types map[string]*TupleType
}

// NewNamespace returns an empty Namespace.
func NewNamespace() *Namespace {
	return &Namespace{types: map[string]*TupleType{}}
}

// Tuples is the process-wide namespace used by Schema.TupleType.
var Tuples = NewNamespace()

// Lookup returns the cached tuple type called name.
func (n *Namespace) Lookup(name string) (*TupleType, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	t, ok := n.types[name]
	return t, ok
}

// Names returns the cached names, sorted.
func (n *Namespace) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.types))
	for k := range n.types {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// resolve returns the cached type when its members match exactly, and
// replaces it otherwise.
func (n *Namespace) resolve(name string, members []string) *TupleType {
	n.mu.Lock()
	defer n.mu.Unlock()
	if t, ok := n.types[name]; ok && slices.Equal(t.members, members) {
		return t
	}
	t := &TupleType{name: name, members: slices.Clone(members)}
	n.types[name] = t
	return t
}

// TupleType closes s and returns the matching tuple type. Anonymous schemas
// get an uncached type; named ones are cached in Tuples under the last
// segment of their name.
func (s *Schema) TupleType() (*TupleType, error) {
	s.Close()
	if len(s.members) == 0 {
		iss := issueFor(s, "", CodeInvalidArgument, nil, nil)
		iss[0].Hint = "no defined members"
		return nil, iss
	}
	name := s.name
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		return &TupleType{members: slices.Clone(s.members)}, nil
	}
	return Tuples.resolve(name, s.members), nil
}

// ToTuple converts the instance into its schema's tuple type.
func (i *Instance) ToTuple() (Tuple, error) {
	t, err := i.schema.TupleType()
	if err != nil {
		return Tuple{}, err
	}
	return t.New(i.Values()...)
}
