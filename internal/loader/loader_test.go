package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abramin/typelens/internal/config"
	"github.com/abramin/typelens/internal/typerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadStandalone(t *testing.T) {
	// No go.mod anywhere above t.TempDir, so the single-file fallback runs.
	dir := t.TempDir()
	path := writeFile(t, dir, "calc.go", `package calc

func Add(a, b int) int { return a + b }
`)

	prog, err := New(nil).Load(path, "")
	require.NoError(t, err)
	require.Equal(t, path, prog.Path)
	require.NotNil(t, prog.File)
	require.NotNil(t, prog.Pkg)
	require.NotEmpty(t, prog.Info.Defs)
	require.Len(t, prog.Syntax, 1)
}

func TestLoadStandaloneToleratesTypeErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.go", `package broken

func Add(a, b int) int { return a + undefined }
`)

	// Best effort: type errors are collected, not fatal.
	prog, err := New(nil).Load(path, "")
	require.NoError(t, err)
	require.NotNil(t, prog.Pkg)
}

func TestLoadStandaloneSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.go", "package broken\n\nfunc {")

	_, err := New(nil).Load(path, "")
	require.Error(t, err)
	require.True(t, typerr.IsCode(err, typerr.CodeProjectConfig))
}

func TestLoadFromModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module fixture\n\ngo 1.21\n")
	path := writeFile(t, dir, "calc.go", `package fixture

func Hello() string { return "hi" }
`)

	prog, err := New(nil).Load(path, "")
	require.NoError(t, err)
	require.Equal(t, path, prog.Path)
	require.NotNil(t, prog.Pkg)
	require.NotEmpty(t, prog.Info.Defs)
}

func TestLoadWithExplicitProjectDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module fixture\n\ngo 1.21\n")
	path := writeFile(t, dir, "calc.go", `package fixture

func Hello() string { return "hi" }
`)

	prog, err := New(nil).Load(path, dir)
	require.NoError(t, err)
	require.NotNil(t, prog.Pkg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(nil).Load(filepath.Join(t.TempDir(), "absent.go"), "")
	require.Error(t, err)
	require.True(t, typerr.IsCode(err, typerr.CodeNotFound))
}

func TestLoadExcludedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "service.pb.go", "package svc\n")

	_, err := New(config.Default()).Load(path, "")
	require.Error(t, err)
	require.True(t, typerr.IsCode(err, typerr.CodeProjectConfig))
	require.Contains(t, err.Error(), "excluded")
}

func TestFindModuleRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module fixture\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	require.Equal(t, dir, findModuleRoot(nested))
	require.Equal(t, dir, findModuleRoot(dir))
}

func TestFindModuleRootAbsent(t *testing.T) {
	// t.TempDir lives under the system temp dir, which has no go.mod.
	require.Equal(t, "", findModuleRoot(t.TempDir()))
}
