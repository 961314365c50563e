package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
types:
  - name: Digits
    regex: '^[0-9]+$'
  - name: Item
    schema:
      name: string
      qty: integer
  - name: Order
    schema:
      id: string
      items: Item[]
      note: string|undefined
  - name: Stock
    schema:
      Digits: integer
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestValidate_OK(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "catalog.yaml", testCatalog)
	doc := writeFile(t, dir, "order.json", `{"id":"o-1","items":[{"name":"pen","qty":2}]}`)

	out, _, err := execute(t, "", "validate", "-c", cat, "-t", "Order", doc)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestValidate_Invalid(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "catalog.yaml", testCatalog)
	in := `{"id":1,"items":[{"name":"pen","qty":2.5}]}`

	_, errOut, err := execute(t, in, "validate", "-c", cat, "-t", "Order")
	assert.True(t, errors.Is(err, errInvalid))
	assert.Equal(t, "/id expected string\n", errOut)

	_, errOut, err = execute(t, in, "validate", "-c", cat, "-t", "Order", "--collect")
	assert.True(t, errors.Is(err, errInvalid))
	assert.Equal(t, "/id expected string\n/items/0/qty expected integer\n", errOut)

	_, errOut, _ = execute(t, `{"x1":1}`, "validate", "-c", cat, "-t", "Stock", "--lang", "ja")
	assert.Equal(t, "/x1 キーが Digits に一致しません (key \"x1\")\n", errOut)
}

func TestValidate_YAMLInput(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "catalog.yaml", testCatalog)
	doc := writeFile(t, dir, "order.yaml", "id: o-2\nitems:\n  - name: cup\n    qty: 1\n")

	out, _, err := execute(t, "", "validate", "-c", cat, "-t", "Order", "--lang", "en", doc)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestNormalize(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "catalog.yaml", testCatalog)
	in := `{"items":[{"qty":1,"name":"a"}],"id":"o-3"}`

	out, _, err := execute(t, in, "normalize", "-c", cat, "-t", "Order", "--lang", "en", "--indent", "")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[{"qty":1,"name":"a"}],"id":"o-3"}`+"\n", out)

	// collect mode still prints the recovered document
	out, errOut, err := execute(t, `{"id":"o-4","items":[{"name":"b","qty":"x"}]}`,
		"normalize", "-c", cat, "-t", "Order", "--lang", "en", "--indent", "", "--collect", "--recovery", "null")
	assert.True(t, errors.Is(err, errInvalid))
	assert.Equal(t, "/items/0/qty expected integer\n", errOut)
	assert.Equal(t, `{"id":"o-4","items":[{"name":"b","qty":null}]}`+"\n", out)
}

func TestTypes(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "catalog.yaml", testCatalog)

	out, _, err := execute(t, "", "types", "-c", cat, "--lang", "en")
	require.NoError(t, err)
	assert.Equal(t, "Digits\tleaf\nItem\tname,qty\nOrder\tid,items,note\nStock\tDigits keys:Digits normalized\n", out)
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	cat := writeFile(t, dir, "catalog.yaml", testCatalog)

	_, _, err := execute(t, "{}", "validate", "-c", cat, "-t", "Missing", "--lang", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `type "Missing" is not registered`)

	_, _, err = execute(t, `{"id":"o","items":[]} trailing`, "validate", "-c", cat, "-t", "Order")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errInvalid))

	_, _, err = execute(t, `[[[1]]]`, "validate", "-c", cat, "-t", "Order", "--max-depth", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max depth exceeded")

	_, _, err = execute(t, "{}", "validate", "-c", filepath.Join(dir, "nope.yaml"), "-t", "Order")
	require.Error(t, err)
}
