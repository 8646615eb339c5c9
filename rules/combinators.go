package rules

import (
	"errors"
	"fmt"
)

type andCondition struct{ conds []Condition }

// And holds iff every condition holds. Evaluation stops at the first Fail or
// Errored result.
func And(conds ...Condition) Condition { return andCondition{conds: conds} }

func (c andCondition) Check(v any) Result {
	for _, it := range c.conds {
		if it == nil {
			continue
		}
		if r := it.Check(v); r.Outcome != Pass {
			return r
		}
	}
	return Result{Outcome: Pass}
}

func (c andCondition) String() string { return describeAll("AND", c.conds) }

type orCondition struct{ conds []Condition }

// Or holds iff at least one condition holds. An Errored result stops the
// evaluation.
func Or(conds ...Condition) Condition { return orCondition{conds: conds} }

func (c orCondition) Check(v any) Result {
	for _, it := range c.conds {
		if it == nil {
			continue
		}
		switch r := it.Check(v); r.Outcome {
		case Pass, Errored:
			return r
		}
	}
	return Result{Outcome: Fail}
}

func (c orCondition) String() string { return describeAll("OR", c.conds) }

type nandCondition struct{ and andCondition }

// Nand holds iff not every condition holds.
func Nand(conds ...Condition) Condition { return nandCondition{and: andCondition{conds: conds}} }

func (c nandCondition) Check(v any) Result { return negate(c.and.Check(v)) }

func (c nandCondition) String() string { return describeAll("NAND", c.and.conds) }

type notCondition struct{ cond Condition }

// Not holds iff cond does not. A nil cond is unrestricted, so Not(nil) never
// holds.
func Not(cond Condition) Condition {
	if cond == nil {
		cond = Anything()
	}
	return notCondition{cond: cond}
}

func (c notCondition) Check(v any) Result { return negate(c.cond.Check(v)) }

func (c notCondition) String() string { return "NOT(" + Describe(c.cond) + ")" }

func negate(r Result) Result {
	switch r.Outcome {
	case Pass:
		return Result{Outcome: Fail}
	case Fail:
		return Result{Outcome: Pass}
	default:
		return r
	}
}

type catchCondition struct {
	name  string
	match func(error) bool
	fn    func(any) (bool, error)
}

// Catch evaluates fn and treats errors matching target (errors.Is) as a
// failure. Other errors are reported as Errored.
func Catch(target error, fn func(any) (bool, error)) Condition {
	return catchCondition{
		name:  fmt.Sprintf("CATCH(%v)", target),
		match: func(err error) bool { return errors.Is(err, target) },
		fn:    fn,
	}
}

// CatchAs is Catch keyed by error type: any error in the chain assignable to E
// becomes a failure.
func CatchAs[E error](fn func(any) (bool, error)) Condition {
	var zero E
	return catchCondition{
		name: fmt.Sprintf("CATCH(%T)", zero),
		match: func(err error) bool {
			var target E
			return errors.As(err, &target)
		},
		fn: fn,
	}
}

func (c catchCondition) Check(v any) Result {
	ok, err := c.fn(v)
	if err != nil {
		if c.match(err) {
			return Result{Outcome: Fail}
		}
		return Failed(err)
	}
	return Passed(ok)
}

func (c catchCondition) String() string { return c.name }

type quietCondition struct{ fn func(any) (bool, error) }

// Quiet evaluates fn and treats any error, and any panic, as a failure.
func Quiet(fn func(any) (bool, error)) Condition { return quietCondition{fn: fn} }

func (c quietCondition) Check(v any) (r Result) {
	defer func() {
		if recover() != nil {
			r = Result{Outcome: Fail}
		}
	}()
	ok, err := c.fn(v)
	if err != nil {
		return Result{Outcome: Fail}
	}
	return Passed(ok)
}

func (quietCondition) String() string { return "QUIET" }
