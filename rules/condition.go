// Package rules provides the condition algebra used to restrict member values.
//
// A Condition evaluates one value and reports a three-state Result: Pass, Fail
// or Errored. Errored carries the error raised while evaluating and is only
// turned into a plain failure by Catch, CatchAs and Quiet; every other
// combinator hands it up unchanged so the caller sees the original error.
//
//	positive := rules.And(rules.Integer(), rules.Between(1, 10))
//	symbolic := rules.Or(rules.Equal(nil), rules.Match(`^[a-z]+$`))
//	ok, err := rules.Holds(positive, 4)
package rules

import (
	"fmt"
	"strings"
)

// Outcome is the state of a single evaluation.
type Outcome uint8

const (
	Fail    Outcome = iota // The value does not satisfy the condition.
	Pass                   // The value satisfies the condition.
	Errored                // Evaluation raised an error; see Result.Err.
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Errored:
		return "errored"
	default:
		return "fail"
	}
}

// Result is the outcome of Condition.Check.
type Result struct {
	Outcome Outcome
	Err     error
}

// Passed converts a boolean into a Result.
func Passed(ok bool) Result {
	if ok {
		return Result{Outcome: Pass}
	}
	return Result{Outcome: Fail}
}

// Failed builds an Errored result. A nil err yields Fail.
func Failed(err error) Result {
	if err == nil {
		return Result{Outcome: Fail}
	}
	return Result{Outcome: Errored, Err: err}
}

// Bool collapses the result: Errored becomes (false, Err).
func (r Result) Bool() (bool, error) {
	if r.Outcome == Errored {
		return false, r.Err
	}
	return r.Outcome == Pass, nil
}

// Condition is a predicate over a single value.
type Condition interface {
	Check(v any) Result
}

// Holds evaluates c against v and collapses the result.
func Holds(c Condition, v any) (bool, error) {
	return c.Check(v).Bool()
}

// Describe renders a condition for diagnostics.
func Describe(c Condition) string {
	if c == nil {
		return "<unrestricted>"
	}
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}

func describeAll(name string, cs []Condition) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = Describe(c)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
