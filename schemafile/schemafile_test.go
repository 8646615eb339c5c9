package schemafile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/structus"
	"github.com/reoring/structus/schemafile"
)

const people = `
types:
  - name: Person
    members:
      - name: name
        is: {type: string}
        via: trim
      - name: age
        is: {and: [{type: int}, {between: [0, 150]}]}
        via: {parse: int}
        default: 0
      - name: role
        is: {member_of: [admin, user]}
        default: user
      - name: tags
        is: {each: string}
      - name: address
        members:
          - name: city
            is: {type: string}
          - name: zip
            is: {pattern: "^[0-9]{3}-[0-9]{4}$"}
    aliases: {nick: name, handle: nick}
---
types:
  - name: Employee
    extends: Person
    members:
      - name: id
        is: {pattern: "^E[0-9]+$"}
        via: {when: {is: {type: string}, via: upper}}
  - name: Draft
    close: false
    members:
      - name: note
        is: {or: [nil, stringable]}
        reader_validation: true
`

func TestParse(t *testing.T) {
	reg, err := schemafile.Parse([]byte(people))
	require.NoError(t, err)
	assert.Equal(t, []string{"Person", "Employee", "Draft"}, reg.Names())
	assert.Len(t, reg.Schemas(), 3)

	person, ok := reg.Lookup("Person")
	require.True(t, ok)
	assert.True(t, person.Closed())
	assert.Equal(t, []string{"name", "age", "role", "tags", "address"}, person.Members())
	assert.Equal(t, map[string]string{"nick": "name", "handle": "name"}, person.Aliases())
	assert.Equal(t, []string{"Address"}, person.NestedTypes())

	employee, _ := reg.Lookup("Employee")
	assert.Same(t, person, employee.Parent())
	assert.Equal(t, append(person.Members(), "id"), employee.Members())

	draft, _ := reg.Lookup("Draft")
	assert.False(t, draft.Closed())
	m, _ := draft.Member("note")
	assert.True(t, m.ReaderValidation())

	p, err := person.New("  ann ")
	require.NoError(t, err)
	assert.Equal(t, []any{"ann", int64(0), "user"}, p.Values()[:3])

	require.NoError(t, p.Set("handle", "bob"))
	name, _ := p.Get("name")
	assert.Equal(t, "bob", name)

	assert.ErrorIs(t, p.Set("age", "200"), structus.ErrInvalidOnWrite)
	require.NoError(t, p.Set("age", "41"))
	assert.ErrorIs(t, p.Set("role", "root"), structus.ErrInvalidOnWrite)
	assert.ErrorIs(t, p.Set("tags", []any{"a", int64(1)}), structus.ErrInvalidOnWrite)

	e := employee.MustNew("carol")
	require.NoError(t, e.Set("id", "e42"))
	id, _ := e.Get("id")
	assert.Equal(t, "E42", id)
	assert.ErrorIs(t, e.Set("id", "x1"), structus.ErrInvalidOnWrite)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"unknown member key": {
			doc:  "types: [{name: A, members: [{name: a, bogus: 1}]}]",
			want: structus.ErrInvalidOption,
		},
		"unknown type key": {
			doc:  "types: [{name: A, colour: red, members: [{name: a}]}]",
			want: structus.ErrInvalidOption,
		},
		"duplicate member": {
			doc:  "types: [{name: A, members: [{name: a}, {name: a}]}]",
			want: structus.ErrDuplicateMember,
		},
		"duplicate type": {
			doc:  "types: [{name: A, members: [{name: a}]}, {name: A, members: [{name: b}]}]",
			want: structus.ErrDuplicateMember,
		},
		"alias of unknown member": {
			doc:  "types: [{name: A, members: [{name: a}], aliases: {b: c}}]",
			want: structus.ErrUnknownMember,
		},
		"options on nested member": {
			doc:  "types: [{name: A, members: [{name: a, default: 1, members: [{name: b}]}]}]",
			want: structus.ErrInvalidOption,
		},
		"missing name": {
			doc:  "types: [{members: [{name: a}]}]",
			want: structus.ErrInvalidArgument,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schemafile.Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	for name, doc := range map[string]string{
		"unknown condition": "types: [{name: A, members: [{name: a, is: {shiny: true}}]}]",
		"unknown type":      "types: [{name: A, members: [{name: a, is: {type: blob}}]}]",
		"bad pattern":       "types: [{name: A, members: [{name: a, is: {pattern: '('}}]}]",
		"bad between":       "types: [{name: A, members: [{name: a, is: {between: [1]}}]}]",
		"two operators":     "types: [{name: A, members: [{name: a, is: {type: int, equal: 1}}]}]",
		"unknown adjuster":  "types: [{name: A, members: [{name: a, via: polish}]}]",
		"unknown parse":     "types: [{name: A, members: [{name: a, via: {parse: color}}]}]",
		"unknown parent":    "types: [{name: A, extends: Z, members: [{name: a}]}]",
		"malformed yaml":    "types: [",
	} {
		_, err := schemafile.Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte(people), 0o600))

	reg, err := schemafile.Load(path)
	require.NoError(t, err)
	_, ok := reg.Lookup("Employee")
	assert.True(t, ok)

	_, err = schemafile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDecodeRecords(t *testing.T) {
	reg, err := schemafile.Parse([]byte(people))
	require.NoError(t, err)
	person, _ := reg.Lookup("Person")

	recs, err := schemafile.DecodeRecords(person, []byte(`[
		{"name": "ann", "age": 41, "address": {"city": "Kyoto", "zip": "600-8216"}},
		{"nick": "bob", "age": 200},
		{"name": "carol", "shoe": 9}
	]`))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	require.NoError(t, recs[0].Err)
	age, _ := recs[0].Instance.Get("age")
	assert.Equal(t, int64(41), age)
	addr, _ := recs[0].Instance.Get("address")
	city, _ := addr.(*structus.Instance).Get("city")
	assert.Equal(t, "Kyoto", city)

	assert.ErrorIs(t, recs[1].Err, structus.ErrInvalidOnWrite)
	assert.ErrorIs(t, recs[2].Err, structus.ErrUnknownMember)
	assert.Equal(t, 2, recs[2].Index)

	single, err := schemafile.DecodeRecords(person, []byte(` {"name": "dan"} `))
	require.NoError(t, err)
	require.Len(t, single, 1)
	require.NoError(t, single[0].Err)

	_, err = schemafile.DecodeRecords(person, []byte(`[{"name": `))
	assert.Error(t, err)
}
