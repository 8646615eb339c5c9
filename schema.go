package structus

import (
	"fmt"
	"slices"
	"sort"
	"sync/atomic"

	"github.com/reoring/structus/internal/naming"
)

// schemaSeq hands out identities used by Hash.
var schemaSeq atomic.Uint64

type entry struct {
	spec    *MemberSpec // nil for aliases
	aliasOf string
}

// Schema is a named record type: an ordered table of members, each with its
// own condition, adjuster, default and validation flags.
//
// A Schema is open until Close (or Freeze) is called; afterwards member and
// alias declarations fail with ErrClosedType. Declarations are not safe for
// concurrent use; a closed Schema may be shared freely.
type Schema struct {
	id       uint64
	name     string
	parent   *Schema
	members  []string // declaration order, without aliases
	keys     []string // declaration order, aliases included
	entries  map[string]entry
	nested   map[string]*Schema
	closed   bool
	frozen   bool
	observer Observer
}

func newSchema(name string) *Schema {
	return &Schema{
		id:      schemaSeq.Add(1),
		name:    name,
		entries: map[string]entry{},
		nested:  map[string]*Schema{},
	}
}

// New returns an open schema. Plain members may be pre-declared by name; New
// panics if one of them cannot be declared.
func New(name string, members ...string) *Schema {
	s := newSchema(name)
	for _, m := range members {
		s.MustHas(m)
	}
	return s
}

// Define builds a schema with build and closes it. A build that declares no
// members is rejected.
func Define(name string, build func(*Schema) error) (*Schema, error) {
	s := newSchema(name)
	if build != nil {
		if err := build(s); err != nil {
			return nil, err
		}
	}
	if len(s.members) == 0 {
		iss := issueFor(s, "", CodeInvalidArgument, nil, nil)
		iss[0].Hint = "no members declared"
		return nil, iss
	}
	s.Close()
	return s, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(name string, build func(*Schema) error) *Schema {
	s, err := Define(name, build)
	if err != nil {
		panic(err)
	}
	return s
}

// Has declares a member.
func (s *Schema) Has(name string, opts ...Option) error {
	if err := s.checkDeclarable(name); err != nil {
		return err
	}
	spec := newMemberSpec(name)
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(spec); err != nil {
			return issueFor(s, name, CodeInvalidOption, nil, err)
		}
	}
	s.add(spec)
	log().Debug().Str("schema", s.displayName()).Str("member", name).Msg("member declared")
	s.observe().Declared(s.displayName(), name)
	return nil
}

// MustHas is like Has but panics on error.
func (s *Schema) MustHas(name string, opts ...Option) *Schema {
	if err := s.Has(name, opts...); err != nil {
		panic(err)
	}
	return s
}

// AliasMember registers alias as another name for original. Aliases resolve
// to the same stored value; an alias of an alias resolves to the original.
func (s *Schema) AliasMember(alias, original string) error {
	if s.closed {
		return issueFor(s, alias, CodeClosedType, nil, nil)
	}
	target, err := s.Autonym(original)
	if err != nil {
		return err
	}
	if err := s.checkDeclarable(alias); err != nil {
		return err
	}
	s.entries[alias] = entry{aliasOf: target}
	s.keys = append(s.keys, alias)
	spec := s.entries[target].spec
	spec.aliases = append(spec.aliases, alias)
	log().Debug().Str("schema", s.displayName()).Str("alias", alias).Str("member", target).Msg("alias declared")
	return nil
}

func (s *Schema) checkDeclarable(name string) error {
	if s.closed {
		return issueFor(s, name, CodeClosedType, nil, nil)
	}
	if !naming.Valid(name) {
		iss := issueFor(s, name, CodeInvalidArgument, name, nil)
		iss[0].Hint = "member names must be non-empty and free of control characters"
		return iss
	}
	if _, dup := s.entries[name]; dup {
		return issueFor(s, name, CodeDuplicateMember, nil, nil)
	}
	return nil
}

func (s *Schema) add(spec *MemberSpec) {
	s.entries[spec.name] = entry{spec: spec}
	s.members = append(s.members, spec.name)
	s.keys = append(s.keys, spec.name)
}

// Close prevents further declarations. It is idempotent.
func (s *Schema) Close() *Schema {
	if !s.closed {
		s.closed = true
		log().Debug().Str("schema", s.displayName()).Int("members", len(s.members)).Msg("schema closed")
	}
	return s
}

// Closed reports whether declarations are still accepted.
func (s *Schema) Closed() bool { return s.closed }

// Freeze closes the schema and additionally pins its observer.
func (s *Schema) Freeze() *Schema {
	s.Close()
	if !s.frozen {
		s.frozen = true
		log().Debug().Str("schema", s.displayName()).Msg("schema frozen")
	}
	return s
}

// Frozen reports whether Freeze has been called.
func (s *Schema) Frozen() bool { return s.frozen }

// Derive returns an open schema that starts with a copy of s's members,
// aliases and nested types. Declarations on either side do not affect the
// other.
func (s *Schema) Derive(name string) *Schema {
	d := newSchema(name)
	d.parent = s
	d.observer = s.observer
	for _, k := range s.keys {
		e := s.entries[k]
		if e.spec != nil {
			e = entry{spec: e.spec.clone()}
		}
		d.entries[k] = e
	}
	d.members = slices.Clone(s.members)
	d.keys = slices.Clone(s.keys)
	for k, v := range s.nested {
		d.nested[k] = v
	}
	log().Debug().Str("schema", d.displayName()).Str("parent", s.displayName()).Msg("schema derived")
	return d
}

// Parent returns the schema s was derived from, or nil.
func (s *Schema) Parent() *Schema { return s.parent }

// IsA reports whether s is other or was derived from it.
func (s *Schema) IsA(other *Schema) bool {
	for it := s; it != nil; it = it.parent {
		if it == other {
			return true
		}
	}
	return false
}

// Name returns the schema name as given to New or Define.
func (s *Schema) Name() string { return s.name }

func (s *Schema) String() string { return s.displayName() }

func (s *Schema) displayName() string {
	if s == nil || s.name == "" {
		return "(anonymous)"
	}
	return s.name
}

// Members returns member names in declaration order, without aliases.
func (s *Schema) Members() []string { return slices.Clone(s.members) }

// Keys returns member names, with aliases interleaved in declaration order
// when aliased is true.
func (s *Schema) Keys(aliased bool) []string {
	if aliased {
		return slices.Clone(s.keys)
	}
	return s.Members()
}

// Aliases returns a copy of the alias table (alias to original).
func (s *Schema) Aliases() map[string]string {
	out := map[string]string{}
	for k, e := range s.entries {
		if e.spec == nil {
			out[k] = e.aliasOf
		}
	}
	return out
}

// Len returns the number of members, without aliases.
func (s *Schema) Len() int { return len(s.members) }

// HasMember reports whether name is a member or an alias.
func (s *Schema) HasMember(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Autonym resolves an alias to its original member name.
func (s *Schema) Autonym(name string) (string, error) {
	e, ok := s.entries[name]
	if !ok {
		return "", issueFor(s, name, CodeUnknownMember, nil, nil)
	}
	if e.spec == nil {
		return e.aliasOf, nil
	}
	return name, nil
}

// Member returns the declaration behind name (aliases resolve).
func (s *Schema) Member(name string) (*MemberSpec, bool) {
	e, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	if e.spec == nil {
		e = s.entries[e.aliasOf]
	}
	return e.spec, true
}

func (s *Schema) spec(name string) *MemberSpec {
	m, _ := s.Member(name)
	return m
}

// HasCondition reports whether the member is restricted.
func (s *Schema) HasCondition(name string) bool {
	m, ok := s.Member(name)
	return ok && m.HasCondition()
}

// HasDefault reports whether the member carries a default.
func (s *Schema) HasDefault(name string) bool {
	m, ok := s.Member(name)
	return ok && m.HasDefault()
}

// HasAdjuster reports whether the member carries an adjuster.
func (s *Schema) HasAdjuster(name string) bool {
	m, ok := s.Member(name)
	return ok && m.HasAdjuster()
}

// Index returns the position of a member (aliases resolve).
func (s *Schema) Index(name string) (int, error) {
	n, err := s.Autonym(name)
	if err != nil {
		return -1, err
	}
	return slices.Index(s.members, n), nil
}

// Nested returns the sub-type registered by HasNested under typeName.
func (s *Schema) Nested(typeName string) (*Schema, bool) {
	n, ok := s.nested[typeName]
	return n, ok
}

// NestedTypes returns the registered sub-type names, sorted.
func (s *Schema) NestedTypes() []string {
	out := make([]string, 0, len(s.nested))
	for k := range s.nested {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Observe attaches an observer used instead of the process-wide one. A frozen
// schema refuses the change.
func (s *Schema) Observe(o Observer) error {
	if s.frozen {
		return issueFor(s, "", CodeFrozen, nil, fmt.Errorf("cannot change observer of frozen schema"))
	}
	s.observer = o
	return nil
}

func (s *Schema) observe() Observer {
	if s.observer != nil {
		return s.observer
	}
	return currentObserver()
}
