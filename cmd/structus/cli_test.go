package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const types = `
types:
  - name: Person
    members:
      - name: name
        is: {type: string}
      - name: age
        is: {between: [0, 150]}
        via: {parse: int}
        default: 0
      - name: address
        members:
          - name: city
            is: {type: string}
    aliases: {nick: name}
  - name: Employee
    extends: Person
    close: false
    members:
      - name: id
        reader_validation: true
        is: {pattern: "^E[0-9]+$"}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunDescribe(t *testing.T) {
	path := writeFile(t, "types.yaml", types)
	var out bytes.Buffer
	require.NoError(t, runDescribe(&out, path, nil))

	got := out.String()
	assert.Contains(t, got, "Person\n")
	assert.Contains(t, got, "Employee (extends Person) [open]\n")
	assert.Contains(t, got, "default 0")
	assert.Contains(t, got, "via WHEN(STRINGABLE, PARSE(int))")
	assert.Contains(t, got, "INSTANCE_OF(Person.Address)")
	assert.Contains(t, got, "default <factory>")
	assert.Contains(t, got, "aliases: nick -> name")
	assert.Contains(t, got, "  Person.Address\n")
	assert.Contains(t, got, "reader")

	out.Reset()
	require.NoError(t, runDescribe(&out, path, []string{"Employee"}))
	assert.NotContains(t, out.String(), "Person\n")

	assert.Error(t, runDescribe(&out, path, []string{"Nobody"}))
}

func TestRunCheck(t *testing.T) {
	path := writeFile(t, "types.yaml", types)
	records := writeFile(t, "records.json", `[
		{"name": "ann", "age": "41", "address": {"city": "Kyoto"}},
		{"name": 7}
	]`)

	var out bytes.Buffer
	failed, err := runCheck(&out, path, "Person", records)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Contains(t, out.String(), "record 0: ok Person{name: ann, age: 41")
	assert.Contains(t, out.String(), "record 1: FAIL invalid_on_write at Person.name")
	assert.Contains(t, out.String(), "1/2 records ok")

	_, err = runCheck(&out, path, "Nobody", records)
	assert.Error(t, err)
	_, err = runCheck(&out, path, "Person", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCheckCommand_ExitStatus(t *testing.T) {
	path := writeFile(t, "types.yaml", types)
	good := writeFile(t, "good.json", `{"name": "ann"}`)
	bad := writeFile(t, "bad.json", `{"name": 1}`)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"check", "-f", path, "-t", "Person", good})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "1/1 records ok")

	rootCmd.SetArgs([]string{"check", "-f", path, "-t", "Person", bad})
	assert.ErrorIs(t, rootCmd.Execute(), errFailed)
}
