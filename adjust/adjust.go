// Package adjust provides adjusters: coercions applied to a value before it
// is validated and stored.
//
// An Adjuster returns the coerced value or an error. Callers in the root
// package report every adjuster failure, whatever its cause, as a single
// "unmanageable value" error; the cause stays reachable through errors.Is/As.
package adjust

import (
	"fmt"
	"strings"

	"github.com/reoring/structus/rules"
)

// Adjuster transforms a value or fails.
type Adjuster interface {
	Adjust(v any) (any, error)
}

type funcAdjuster struct {
	name string
	fn   func(any) (any, error)
}

func (a funcAdjuster) Adjust(v any) (any, error) { return a.fn(v) }

func (a funcAdjuster) String() string { return a.name }

// Func wraps a fallible coercion.
func Func(fn func(any) (any, error)) Adjuster { return funcAdjuster{name: "FUNC", fn: fn} }

// Map wraps an infallible coercion.
func Map(fn func(any) any) Adjuster {
	return funcAdjuster{name: "MAP", fn: func(v any) (any, error) { return fn(v), nil }}
}

// Named is Func with a name used by Describe.
func Named(name string, fn func(any) (any, error)) Adjuster {
	return funcAdjuster{name: name, fn: fn}
}

type injectAdjuster struct{ chain []Adjuster }

// Inject applies adjusters left to right, feeding each result to the next.
func Inject(adjusters ...Adjuster) Adjuster { return injectAdjuster{chain: adjusters} }

func (a injectAdjuster) Adjust(v any) (any, error) {
	for i, it := range a.chain {
		out, err := it.Adjust(v)
		if err != nil {
			return nil, fmt.Errorf("inject step %d: %w", i, err)
		}
		v = out
	}
	return v, nil
}

func (a injectAdjuster) String() string {
	parts := make([]string, len(a.chain))
	for i, it := range a.chain {
		parts[i] = Describe(it)
	}
	return "INJECT(" + strings.Join(parts, ", ") + ")"
}

type whenAdjuster struct {
	cond rules.Condition
	then Adjuster
}

// When applies then only to values satisfying cond. Other values pass through
// unchanged. An error while evaluating cond fails the adjustment.
func When(cond rules.Condition, then Adjuster) Adjuster {
	return whenAdjuster{cond: cond, then: then}
}

func (a whenAdjuster) Adjust(v any) (any, error) {
	ok, err := rules.Holds(a.cond, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return v, nil
	}
	return a.then.Adjust(v)
}

func (a whenAdjuster) String() string {
	return "WHEN(" + rules.Describe(a.cond) + ", " + Describe(a.then) + ")"
}

// Describe renders an adjuster for diagnostics.
func Describe(a Adjuster) string {
	if a == nil {
		return "<none>"
	}
	if s, ok := a.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", a)
}
