package typelens_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abramin/typelens"
	"github.com/abramin/typelens/internal/typerr"
)

const fixtureSrc = `package fix

// Add returns the sum of a and b.
func Add(a, b int) int { return a + b }

var multiply = func(x, y int) int { return x * y }

var answer = 42
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fix.go")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSrc), 0644))
	return path
}

// fixturePos returns the 1-based line/column of needle's first occurrence.
func fixturePos(t *testing.T, needle string) (line, col int) {
	t.Helper()
	idx := strings.Index(fixtureSrc, needle)
	require.GreaterOrEqual(t, idx, 0, "fixture does not contain %q", needle)
	lineStart := strings.LastIndex(fixtureSrc[:idx], "\n") + 1
	return 1 + strings.Count(fixtureSrc[:lineStart], "\n"), idx - lineStart + 1
}

func TestLookupByName(t *testing.T) {
	path := writeFixture(t)

	res, err := typelens.LookupByName(path, "Add", typelens.Options{})
	require.NoError(t, err)
	require.Equal(t, "func(a int, b int) int", res.Signature)
	require.Equal(t, "int", res.ReturnType)
	require.Equal(t, 4, res.Line)
}

func TestLookupByPosition(t *testing.T) {
	path := writeFixture(t)
	line, col := fixturePos(t, "Add(a, b int)")

	res, err := typelens.LookupByPosition(path, line, col, typelens.Options{})
	require.NoError(t, err)
	require.Equal(t, "func(a int, b int) int", res.Signature)
	require.Equal(t, "func", res.Kind)
	require.Equal(t, "Add", res.Name)
	// The result position round-trips into the declaration's span.
	require.Equal(t, line, res.Line)
}

func TestLookupFunctionShapedVariable(t *testing.T) {
	path := writeFixture(t)

	res, err := typelens.LookupByName(path, "multiply", typelens.Options{})
	require.NoError(t, err)
	require.Contains(t, res.Signature, "int")
	require.Equal(t, "func", res.Kind, "function-shaped initializer wins over var")
}

func TestLookupMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.go")

	_, err := typelens.LookupByPosition(missing, 1, 1, typelens.Options{})
	require.True(t, typerr.IsCode(err, typerr.CodeNotFound))

	_, err = typelens.LookupByName(missing, "Add", typelens.Options{})
	require.True(t, typerr.IsCode(err, typerr.CodeNotFound))

	_, err = typelens.BatchLookupByPosition(missing, []typelens.Position{{Line: 1, Column: 1}}, typelens.Options{})
	require.True(t, typerr.IsCode(err, typerr.CodeNotFound))
}

func TestLookupSymbolNotFound(t *testing.T) {
	path := writeFixture(t)

	_, err := typelens.LookupByName(path, "NoSuchSymbol", typelens.Options{})
	require.True(t, typerr.IsCode(err, typerr.CodeSymbolNotFound))
	require.Contains(t, err.Error(), "NoSuchSymbol")
	require.Contains(t, err.Error(), "fix.go")

	_, err = typelens.LookupByName(path, "Add", typelens.Options{Line: 99})
	require.True(t, typerr.IsCode(err, typerr.CodeSymbolNotFound))
	require.Contains(t, err.Error(), "line 99")
}

func TestLookupPositionNotFound(t *testing.T) {
	path := writeFixture(t)

	_, err := typelens.LookupByPosition(path, 100000, 1, typelens.Options{})
	require.True(t, typerr.IsCode(err, typerr.CodePositionNotFound))

	_, err = typelens.LookupByPosition(path, 1, 10000, typelens.Options{})
	require.True(t, typerr.IsCode(err, typerr.CodePositionNotFound))
}

func TestLookupDocs(t *testing.T) {
	path := writeFixture(t)

	res, err := typelens.LookupByName(path, "Add", typelens.Options{IncludeDocs: true})
	require.NoError(t, err)
	require.Equal(t, "Add returns the sum of a and b.", res.Documentation)

	res, err = typelens.LookupByName(path, "Add", typelens.Options{})
	require.NoError(t, err)
	require.Empty(t, res.Documentation)
}

func TestBatchLookup(t *testing.T) {
	path := writeFixture(t)
	addLine, addCol := fixturePos(t, "Add(a, b int)")
	ansLine, ansCol := fixturePos(t, "answer")

	positions := []typelens.Position{
		{Line: addLine, Column: addCol},
		{Line: 100000, Column: 1}, // out of bounds on purpose
		{Line: ansLine, Column: ansCol},
	}

	batch, err := typelens.BatchLookupByPosition(path, positions, typelens.Options{})
	require.NoError(t, err)
	require.Len(t, batch.Items, len(positions))
	require.Equal(t, 2, batch.SuccessCount)
	require.Equal(t, 1, batch.ErrorCount)

	// Input order is preserved; only the bad position failed.
	require.Equal(t, positions[0], batch.Items[0].Position)
	require.Equal(t, positions[1], batch.Items[1].Position)
	require.Equal(t, positions[2], batch.Items[2].Position)
	require.NotNil(t, batch.Items[0].Result)
	require.NotEmpty(t, batch.Items[1].Err)
	require.Nil(t, batch.Items[1].Result)
	require.Equal(t, "var", batch.Items[2].Result.Kind)
}

func TestLookupIdempotent(t *testing.T) {
	path := writeFixture(t)

	first, err := typelens.LookupByName(path, "Add", typelens.Options{})
	require.NoError(t, err)
	second, err := typelens.LookupByName(path, "Add", typelens.Options{})
	require.NoError(t, err)

	require.Equal(t, first.Signature, second.Signature)
	require.Equal(t, first.ReturnType, second.ReturnType)
}
