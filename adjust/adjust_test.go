package adjust_test

import (
	"errors"
	"math/big"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/structus/adjust"
	"github.com/reoring/structus/rules"
)

type symbol string

func toSymbol() adjust.Adjuster {
	return adjust.Func(func(v any) (any, error) {
		s, ok := rules.StringOf(v)
		if !ok {
			return nil, errors.New("no to_sym")
		}
		return symbol(s), nil
	})
}

func TestInject_AppliesLeftToRight(t *testing.T) {
	a := adjust.Inject(adjust.String(), toSymbol())
	got, err := a.Adjust(1)
	require.NoError(t, err)
	assert.Equal(t, symbol("1"), got)

	_, err = toSymbol().Adjust(1)
	assert.Error(t, err)
}

func TestInject_ReportsFailingStep(t *testing.T) {
	a := adjust.Inject(adjust.Trim(), adjust.Int())
	got, err := a.Adjust(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = a.Adjust(" x ")
	require.Error(t, err)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Contains(t, err.Error(), "inject step 1")
}

func TestWhen_OnlyAppliesOnMatch(t *testing.T) {
	a := adjust.When(rules.Type[string](), adjust.Inject(adjust.Chomp(), toSymbol()))

	got, err := a.Adjust("a\n")
	require.NoError(t, err)
	assert.Equal(t, symbol("a"), got)

	got, err = a.Adjust(symbol("b"))
	require.NoError(t, err)
	assert.Equal(t, symbol("b"), got)
}

func TestWhen_ErroredConditionFails(t *testing.T) {
	boom := errors.New("boom")
	a := adjust.When(rules.Try(func(any) (bool, error) { return false, boom }), adjust.Trim())
	_, err := a.Adjust("x")
	assert.ErrorIs(t, err, boom)
}

func TestParse_Int(t *testing.T) {
	a := adjust.Int()

	got, err := a.Adjust("1")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = a.Adjust(7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = a.Adjust("1.0")
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	_, err = a.Adjust(struct{}{})
	assert.ErrorIs(t, err, adjust.ErrNotString)
}

type lowerWord struct{ w string }

func parseLowerWord(s string) (lowerWord, error) {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return lowerWord{}, errors.New("not a lower-case word")
		}
	}
	if s == "" {
		return lowerWord{}, errors.New("empty")
	}
	return lowerWord{w: s}, nil
}

func TestParse_CustomFactory(t *testing.T) {
	a := adjust.Parse(parseLowerWord)

	_, err := a.Adjust("1")
	assert.Error(t, err)

	got, err := a.Adjust("a")
	require.NoError(t, err)
	assert.IsType(t, lowerWord{}, got)
	assert.Equal(t, "PARSE(adjust_test.lowerWord)", adjust.Describe(a))
}

func TestParse_BigIntFloatBool(t *testing.T) {
	n, err := adjust.BigInt().Adjust("123456789012345678901234567890")
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, 0, want.Cmp(n.(*big.Int)))

	f, err := adjust.Float().Adjust("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	b, err := adjust.Bool().Adjust("true")
	require.NoError(t, err)
	assert.Equal(t, true, b)
}

func TestTime_RFC3339(t *testing.T) {
	a := adjust.Time()

	got, err := a.Adjust("2025-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.(time.Time).Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	got, err = a.Adjust("2025-01-01T00:00:00.123Z")
	require.NoError(t, err)
	assert.Equal(t, 123*time.Millisecond, time.Duration(got.(time.Time).Nanosecond()))

	_, err = a.Adjust("2025-01-01")
	assert.Error(t, err)
}

func TestTextAdjusters(t *testing.T) {
	got, err := adjust.Lower().Adjust("ABC")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	got, err = adjust.Upper().Adjust(symbol("abc"))
	require.NoError(t, err)
	assert.Equal(t, "ABC", got)

	_, err = adjust.Trim().Adjust(1)
	assert.ErrorIs(t, err, adjust.ErrNotString)
}
