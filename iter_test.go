package structus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/structus"
)

func TestEachPair(t *testing.T) {
	s := structus.MustDefine("Sth", func(s *structus.Schema) error {
		s.MustHas("name")
		s.MustHas("age")
		return nil
	})
	inst := s.MustNew("a", 10)

	var got []structus.Pair
	for name, v := range inst.EachPair() {
		got = append(got, structus.Pair{Name: name, Value: v})
	}
	assert.Equal(t, []structus.Pair{{Name: "name", Value: "a"}, {Name: "age", Value: 10}}, got)

	var idx []int
	for i, p := range inst.EachPairWithIndex() {
		idx = append(idx, i)
		assert.Equal(t, got[i], p)
	}
	assert.Equal(t, []int{0, 1}, idx)

	for name := range inst.EachPair() {
		assert.Equal(t, "name", name)
		break
	}
}

func TestValuesAtAndToMap(t *testing.T) {
	s := structus.New("Sth", "a", "b", "c")
	require.NoError(t, s.AliasMember("z", "c"))
	inst := s.MustNew(1, 2)

	vs, err := inst.ValuesAt("z", 0)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, 1}, vs)

	_, err = inst.ValuesAt(5)
	assert.ErrorIs(t, err, structus.ErrIndexOutOfRange)

	assert.Equal(t, map[string]any{"a": 1, "b": 2}, inst.ToMap(true))
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": nil}, inst.ToMap(false))
}

func TestStringAndInspect(t *testing.T) {
	s := structus.New("Sth")
	s.MustHas("a")
	s.MustHas("b", structus.Default("x"))
	s.MustHas("c")
	require.NoError(t, s.Has("d"))
	inst := s.MustNew(1)
	require.NoError(t, inst.Unassign("b"))
	require.NoError(t, inst.Set("c", "y"))

	assert.Equal(t, "Sth{a: 1, b: <unassigned>, c: y, d: <unassigned>}", inst.String())

	inst = s.MustNew(1)
	assert.Equal(t, `Sth{a: 1, b: "x" (default), c: <unassigned>, d: <unassigned>}`, inst.Inspect())
}
