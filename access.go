package structus

import "fmt"

// Accessor is a typed handle on one member.
type Accessor[T any] struct {
	schema *Schema
	name   string
}

// Field returns a typed accessor for a member of s (aliases resolve).
func Field[T any](s *Schema, name string) (Accessor[T], error) {
	n, err := s.Autonym(name)
	if err != nil {
		return Accessor[T]{}, err
	}
	return Accessor[T]{schema: s, name: n}, nil
}

// MustField is like Field but panics on error.
func MustField[T any](s *Schema, name string) Accessor[T] {
	a, err := Field[T](s, name)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the member name.
func (a Accessor[T]) Name() string { return a.name }

// Get reads the member. Unassigned or nil values yield the zero T; values of
// another type fail with ErrInvalidArgument.
func (a Accessor[T]) Get(inst *Instance) (T, error) {
	var zero T
	if err := a.check(inst); err != nil {
		return zero, err
	}
	v, err := inst.Get(a.name)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		iss := issueFor(inst.schema, a.name, CodeInvalidArgument, v, nil)
		iss[0].Hint = fmt.Sprintf("stored %T, accessor expects %T", v, zero)
		return zero, iss
	}
	return t, nil
}

// Set writes the member through Instance.Set.
func (a Accessor[T]) Set(inst *Instance, v T) error {
	if err := a.check(inst); err != nil {
		return err
	}
	return inst.Set(a.name, v)
}

func (a Accessor[T]) check(inst *Instance) error {
	if inst == nil || !inst.schema.IsA(a.schema) {
		iss := issueFor(a.schema, a.name, CodeInvalidArgument, nil, nil)
		iss[0].Hint = "instance is not of the accessor's schema"
		return iss
	}
	return nil
}
