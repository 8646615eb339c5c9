package structus

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/reoring/structus/adjust"
	"github.com/reoring/structus/rules"
)

// MemberSpec is the declaration of one member. It is shared by every instance
// of the declaring schema and is read-only once the schema is closed.
type MemberSpec struct {
	name             string
	cond             rules.Condition
	adjuster         adjust.Adjuster
	hasDefault       bool
	literal          any
	factory          func() (any, error)
	readerValidation bool
	writerValidation bool
	aliases          []string
	nested           *Schema
}

func newMemberSpec(name string) *MemberSpec {
	return &MemberSpec{name: name, writerValidation: true}
}

// Name returns the member name.
func (m *MemberSpec) Name() string { return m.name }

// Condition returns the member's condition, or nil for unrestricted members.
func (m *MemberSpec) Condition() rules.Condition { return m.cond }

// Adjuster returns the member's adjuster, or nil.
func (m *MemberSpec) Adjuster() adjust.Adjuster { return m.adjuster }

// HasCondition reports whether the member is restricted.
func (m *MemberSpec) HasCondition() bool { return m.cond != nil }

// HasAdjuster reports whether values are adjusted before validation.
func (m *MemberSpec) HasAdjuster() bool { return m.adjuster != nil }

// HasDefault reports whether the member carries a default.
func (m *MemberSpec) HasDefault() bool { return m.hasDefault }

// DefaultLiteral returns the literal default. Factories report false.
func (m *MemberSpec) DefaultLiteral() (any, bool) {
	if !m.hasDefault || m.factory != nil {
		return nil, false
	}
	return m.literal, true
}

// ReaderValidation reports whether reads re-check the condition.
func (m *MemberSpec) ReaderValidation() bool { return m.readerValidation }

// WriterValidation reports whether writes check the condition.
func (m *MemberSpec) WriterValidation() bool { return m.writerValidation }

// Aliases returns the names registered as aliases of this member.
func (m *MemberSpec) Aliases() []string { return slices.Clone(m.aliases) }

// Nested returns the nested schema of a member declared with HasNested.
func (m *MemberSpec) Nested() *Schema { return m.nested }

func (m *MemberSpec) defaultValue() (any, error) {
	if m.factory != nil {
		return m.factory()
	}
	return m.literal, nil
}

func (m *MemberSpec) clone() *MemberSpec {
	cp := *m
	cp.aliases = slices.Clone(m.aliases)
	return &cp
}

// isPlain reports whether the spec still carries only the declaration
// defaults.
func (m *MemberSpec) isPlain() bool {
	return m.cond == nil && m.adjuster == nil && !m.hasDefault && !m.readerValidation && m.writerValidation
}

// Option configures a member declaration.
type Option func(*MemberSpec) error

// Is restricts the member with a condition.
func Is(c rules.Condition) Option {
	return func(m *MemberSpec) error {
		if c == nil {
			return errors.New("condition must not be nil")
		}
		m.cond = c
		return nil
	}
}

// Via adjusts incoming values before validation.
func Via(a adjust.Adjuster) Option {
	return func(m *MemberSpec) error {
		if a == nil {
			return errors.New("adjuster must not be nil")
		}
		m.adjuster = a
		return nil
	}
}

// Default sets the value assigned at construction to members that receive no
// positional value. v is either a literal or a zero-argument factory of the
// form func() T or func() (T, error); factories run once per construction.
func Default(v any) Option {
	return func(m *MemberSpec) error {
		lit, factory, err := defaultOf(v)
		if err != nil {
			return err
		}
		m.hasDefault = true
		m.literal = lit
		m.factory = factory
		return nil
	}
}

// ReaderValidation toggles re-validation on reads (off by default).
func ReaderValidation(enabled bool) Option {
	return func(m *MemberSpec) error {
		m.readerValidation = enabled
		return nil
	}
}

// WriterValidation toggles validation on writes (on by default).
func WriterValidation(enabled bool) Option {
	return func(m *MemberSpec) error {
		m.writerValidation = enabled
		return nil
	}
}

// Option keys accepted by Options.
const (
	OptionIs               = "is"
	OptionVia              = "via"
	OptionDefault          = "default"
	OptionReaderValidation = "reader_validation"
	OptionWriterValidation = "writer_validation"
)

var validOptionKeys = []string{OptionIs, OptionVia, OptionDefault, OptionReaderValidation, OptionWriterValidation}

// Options applies options given as a map, for declarations built from data.
// Keys outside the documented set and values of the wrong kind are rejected.
func Options(opts map[string]any) Option {
	return func(m *MemberSpec) error {
		var unknown []string
		for k := range opts {
			if !slices.Contains(validOptionKeys, k) {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return fmt.Errorf("unknown option keys: %s", strings.Join(unknown, ", "))
		}
		for _, k := range validOptionKeys {
			v, ok := opts[k]
			if !ok {
				continue
			}
			var o Option
			switch k {
			case OptionIs:
				c, ok := v.(rules.Condition)
				if !ok {
					return fmt.Errorf("option %s: %T is not a condition", k, v)
				}
				o = Is(c)
			case OptionVia:
				a, ok := v.(adjust.Adjuster)
				if !ok {
					return fmt.Errorf("option %s: %T is not an adjuster", k, v)
				}
				o = Via(a)
			case OptionDefault:
				o = Default(v)
			case OptionReaderValidation, OptionWriterValidation:
				b, ok := v.(bool)
				if !ok {
					return fmt.Errorf("option %s: %T is not a bool", k, v)
				}
				if k == OptionReaderValidation {
					o = ReaderValidation(b)
				} else {
					o = WriterValidation(b)
				}
			}
			if err := o(m); err != nil {
				return err
			}
		}
		return nil
	}
}

var errorType = reflect.TypeFor[error]()

func defaultOf(v any) (any, func() (any, error), error) {
	switch f := v.(type) {
	case nil:
		return nil, nil, nil
	case func() any:
		return nil, func() (any, error) { return f(), nil }, nil
	case func() (any, error):
		return nil, f, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func {
		return v, nil, nil
	}
	if rv.IsNil() {
		return nil, nil, errors.New("default factory must not be nil")
	}
	t := rv.Type()
	if t.NumIn() != 0 {
		return nil, nil, fmt.Errorf("default factory must take no arguments, got %s", t)
	}
	switch {
	case t.NumOut() == 1:
		return nil, func() (any, error) { return rv.Call(nil)[0].Interface(), nil }, nil
	case t.NumOut() == 2 && t.Out(1) == errorType:
		return nil, func() (any, error) {
			out := rv.Call(nil)
			if err, _ := out[1].Interface().(error); err != nil {
				return nil, err
			}
			return out[0].Interface(), nil
		}, nil
	default:
		return nil, nil, fmt.Errorf("default factory must return T or (T, error), got %s", t)
	}
}
