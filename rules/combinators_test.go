package rules_test

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/structus/rules"
)

func holds(t *testing.T, c rules.Condition, v any) bool {
	t.Helper()
	ok, err := rules.Holds(c, v)
	require.NoError(t, err)
	return ok
}

func TestAnd(t *testing.T) {
	c := rules.And(rules.Between(1, 5), rules.Between(3, 10))
	assert.False(t, holds(t, c, 1))
	assert.False(t, holds(t, c, 2))
	assert.True(t, holds(t, c, 3))
	assert.False(t, holds(t, c, []int{}))
}

func TestOr(t *testing.T) {
	c := rules.Or(rules.Between(1, 5), rules.Between(3, 10))
	assert.False(t, holds(t, c, 11))
	assert.True(t, holds(t, c, 1))
	assert.True(t, holds(t, c, 4))
}

func TestNand(t *testing.T) {
	c := rules.Nand(rules.Between(1, 5), rules.Between(3, 10))
	assert.False(t, holds(t, c, 4))
	assert.False(t, holds(t, c, 4.5))
	assert.True(t, holds(t, c, 2))
	assert.True(t, holds(t, c, []int{}))
}

func TestNot(t *testing.T) {
	c := rules.Not(rules.Integer())
	assert.True(t, holds(t, c, struct{}{}))
	assert.False(t, holds(t, c, 1))
}

func TestNot_NilIsUnrestricted(t *testing.T) {
	c := rules.Not(nil)
	assert.NotPanics(t, func() { c.Check(1) })
	assert.False(t, holds(t, c, 1))
	assert.False(t, holds(t, c, nil))
	assert.Equal(t, "NOT(ANYTHING)", rules.Describe(c))
}

type noMethodError struct{ name string }

func (e *noMethodError) Error() string { return "undefined method " + e.name }

func TestCatchAs_SwallowsOnlyMatchingErrors(t *testing.T) {
	noName := func(v any) (bool, error) {
		switch v.(type) {
		case string:
			return true, nil
		case int:
			return false, io.ErrUnexpectedEOF
		}
		return false, &noMethodError{name: "no_name!"}
	}
	c := rules.CatchAs[*noMethodError](noName)

	assert.False(t, holds(t, c, struct{}{}))
	assert.True(t, holds(t, c, "ok"))

	ok, err := rules.Holds(c, 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestCatch_MatchesWithErrorsIs(t *testing.T) {
	c := rules.Catch(fs.ErrNotExist, func(v any) (bool, error) {
		return false, errors.Join(errors.New("lookup"), fs.ErrNotExist)
	})
	r := c.Check("x")
	assert.Equal(t, rules.Fail, r.Outcome)
	assert.NoError(t, r.Err)
}

func TestQuiet_TreatsErrorsAndPanicsAsFalse(t *testing.T) {
	c := rules.Quiet(func(v any) (bool, error) {
		switch n := v.(type) {
		case int:
			return n > 0, nil
		case string:
			return false, errors.New("boom")
		}
		panic("unsupported")
	})
	assert.True(t, holds(t, c, 1))
	assert.False(t, holds(t, c, "x"))
	assert.False(t, holds(t, c, 1.5))
}

func TestErroredPropagatesThroughCombinators(t *testing.T) {
	boom := errors.New("boom")
	bad := rules.Try(func(any) (bool, error) { return false, boom })

	for name, c := range map[string]rules.Condition{
		"and":  rules.And(rules.Anything(), bad),
		"or":   rules.Or(rules.Not(rules.Anything()), bad),
		"nand": rules.Nand(bad),
		"not":  rules.Not(bad),
	} {
		r := c.Check(1)
		assert.Equal(t, rules.Errored, r.Outcome, name)
		assert.ErrorIs(t, r.Err, boom, name)
	}
}

// pick maps a seed onto a pool of conditions, some of them combinators, so the
// laws below are exercised over nested algebra as well as primitives.
func pick(seed uint8) rules.Condition {
	even := rules.Func(func(v any) bool { n, ok := v.(int); return ok && n%2 == 0 })
	pool := []rules.Condition{
		rules.Between(-50, 50),
		rules.Between(0, 100),
		rules.MemberOf(1, 2, 3, 64),
		even,
		rules.Not(even),
		rules.Or(rules.Between(-10, 10), even),
		rules.And(rules.Between(-100, 0), rules.Not(rules.MemberOf(-1))),
		rules.Nand(even, rules.Between(20, 40)),
	}
	return pool[int(seed)%len(pool)]
}

func TestBooleanLaws(t *testing.T) {
	eval := func(c rules.Condition, v int) bool {
		ok, err := rules.Holds(c, v)
		return ok && err == nil
	}
	laws := map[string]func(a, b, c uint8, v int8) bool{
		"and associativity": func(a, b, c uint8, v int8) bool {
			x, y, z := pick(a), pick(b), pick(c)
			return eval(rules.And(x, rules.And(y, z)), int(v)) == eval(rules.And(rules.And(x, y), z), int(v))
		},
		"or associativity": func(a, b, c uint8, v int8) bool {
			x, y, z := pick(a), pick(b), pick(c)
			return eval(rules.Or(x, rules.Or(y, z)), int(v)) == eval(rules.Or(rules.Or(x, y), z), int(v))
		},
		"nand is not-and": func(a, b, _ uint8, v int8) bool {
			x, y := pick(a), pick(b)
			return eval(rules.Nand(x, y), int(v)) == eval(rules.Not(rules.And(x, y)), int(v))
		},
		"de morgan": func(a, b, _ uint8, v int8) bool {
			x, y := pick(a), pick(b)
			return eval(rules.Nand(x, y), int(v)) == eval(rules.Or(rules.Not(x), rules.Not(y)), int(v)) &&
				eval(rules.Not(rules.Or(x, y)), int(v)) == eval(rules.And(rules.Not(x), rules.Not(y)), int(v))
		},
		"double negation": func(a, _, _ uint8, v int8) bool {
			x := pick(a)
			return eval(rules.Not(rules.Not(x)), int(v)) == eval(x, int(v))
		},
	}
	for name, law := range laws {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, quick.Check(law, &quick.Config{MaxCount: 500}))
		})
	}
}

func TestDescribe(t *testing.T) {
	c := rules.And(rules.Type[string](), rules.Not(rules.MemberOf("x")))
	assert.Equal(t, `AND(string, NOT(MEMBER_OF("x")))`, rules.Describe(c))
	assert.Equal(t, "<unrestricted>", rules.Describe(nil))
}
