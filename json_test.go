package structus_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/structus"
	"github.com/reoring/structus/rules"
)

func TestMarshalJSON_AssignedMembersInOrder(t *testing.T) {
	s := structus.New("Sth", "z", "a", "m")
	inst := s.MustNew("last", nil)

	b, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last","a":null}`, string(b))
}

func TestFromJSON(t *testing.T) {
	s := structus.New("Person")
	s.MustHas("name", structus.Is(rules.Type[string]()))
	s.MustHas("age", structus.Is(rules.Type[int64]()))
	s.MustHas("score", structus.Is(rules.Type[float64]()), structus.Default(0.0))
	require.NoError(t, s.AliasMember("nick", "name"))

	inst, err := s.FromJSON([]byte(`{"nick":"ann","age":41}`))
	require.NoError(t, err)
	assert.Equal(t, []any{"ann", int64(41), 0.0}, inst.Values())

	_, err = s.FromJSON([]byte(`{"age":"x"}`))
	assert.ErrorIs(t, err, structus.ErrInvalidOnWrite)

	_, err = s.FromJSON([]byte(`null`))
	assert.ErrorIs(t, err, structus.ErrInvalidArgument)

	_, err = s.FromJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestFromJSON_Nested(t *testing.T) {
	bank := defineBank(t)
	inst, err := bank.FromJSON([]byte(`{"record":[1,2.5],"account":{"person":{"name":"ann","age":3}}}`))
	require.NoError(t, err)

	rec, _ := inst.Get("record")
	assert.Equal(t, []any{int64(1), 2.5}, rec)

	b, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.JSONEq(t, `{"record":[1,2.5],"account":{"person":{"name":"ann","age":3},"service":{"lank":3}}}`, string(b))
}
