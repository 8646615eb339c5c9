package structus

import (
	"github.com/reoring/structus/internal/naming"
	"github.com/reoring/structus/rules"
)

// HasNested declares a member whose values are instances of a sub-schema
// built by build. The sub-schema is registered under the PascalCase form of
// name (see Nested) and is named "<Parent>.<TypeName>". The member defaults
// to a fresh sub-schema instance built from the sub-schema's own defaults.
//
// The condition and default are fixed, so opts may only restate the default
// WriterValidation(true).
func (s *Schema) HasNested(name string, build func(*Schema) error, opts ...Option) error {
	if err := s.checkDeclarable(name); err != nil {
		return err
	}
	scratch := newMemberSpec(name)
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(scratch); err != nil {
			return issueFor(s, name, CodeInvalidOption, nil, err)
		}
	}
	if !scratch.isPlain() {
		iss := issueFor(s, name, CodeInvalidOption, nil, nil)
		iss[0].Hint = "nested members take no options"
		return iss
	}
	typeName := naming.PascalCase(name)
	if _, taken := s.nested[typeName]; taken {
		iss := issueFor(s, name, CodeDuplicateMember, nil, nil)
		iss[0].Hint = "nested type " + typeName + " already declared"
		return iss
	}
	qualified := typeName
	if s.name != "" {
		qualified = s.name + "." + typeName
	}
	sub, err := Define(qualified, build)
	if err != nil {
		return err
	}
	spec := newMemberSpec(name)
	spec.cond = InstanceOf(sub)
	spec.hasDefault = true
	spec.factory = func() (any, error) { return sub.New() }
	spec.nested = sub
	s.nested[typeName] = sub
	s.add(spec)
	log().Debug().Str("schema", s.displayName()).Str("member", name).Str("type", qualified).Msg("nested member declared")
	s.observe().Declared(s.displayName(), name)
	return nil
}

type instanceOf struct{ schema *Schema }

// InstanceOf holds for non-nil instances of schema or of a schema derived
// from it.
func InstanceOf(schema *Schema) rules.Condition { return instanceOf{schema: schema} }

func (c instanceOf) Check(v any) rules.Result {
	inst, ok := v.(*Instance)
	return rules.Passed(ok && inst != nil && inst.schema.IsA(c.schema))
}

func (c instanceOf) String() string { return "INSTANCE_OF(" + c.schema.displayName() + ")" }
