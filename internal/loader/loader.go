// Package loader builds a type-checked program for a single entry file.
//
// A Program is request-scoped: every lookup constructs its own and discards
// it when the call returns. There is deliberately no caching across calls;
// callers that need many queries against one file should use the batch
// lookup, which shares a single Program within one call.
package loader

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"github.com/abramin/typelens/internal/config"
	"github.com/abramin/typelens/internal/typerr"
)

// LoadMode defines the packages.Load mode required for hover lookups.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Program is an in-memory, type-checked view of the package containing the
// entry file. It is immutable after construction and must not outlive the
// lookup that built it.
type Program struct {
	Fset   *token.FileSet
	Pkg    *types.Package
	Info   *types.Info
	File   *ast.File   // syntax of the entry file
	Syntax []*ast.File // all files of the package, entry included
	Path   string      // absolute path of the entry file
	Source []byte      // raw bytes of the entry file
}

// TokenFile returns the token.File for the entry file.
func (p *Program) TokenFile() *token.File {
	return p.Fset.File(p.File.Pos())
}

// Loader constructs Programs according to the tool configuration.
type Loader struct {
	cfg *config.Config
}

// New creates a loader.
func New(cfg *config.Config) *Loader {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Loader{cfg: cfg}
}

// Load builds a type-checked Program for the given entry file.
//
// If projectDir is non-empty it is resolved relative to the current working
// directory and used as the load directory. Otherwise the nearest go.mod
// above the entry file decides the project; without one, the file is
// type-checked on its own with permissive fallback settings so a
// best-effort result is still available outside a module.
func (l *Loader) Load(entryFile, projectDir string) (*Program, error) {
	absPath, err := filepath.Abs(entryFile)
	if err != nil {
		return nil, typerr.ProjectConfig(err, "resolving path %s", entryFile)
	}

	if l.cfg.IsExcludedFile(absPath) {
		return nil, typerr.New(typerr.CodeProjectConfig, "file %s is excluded by configuration", absPath)
	}

	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, typerr.Wrap(err, typerr.CodeNotFound, "reading %s", absPath)
	}

	if projectDir == "" {
		projectDir = findModuleRoot(filepath.Dir(absPath))
	} else {
		projectDir, err = filepath.Abs(projectDir)
		if err != nil {
			return nil, typerr.ProjectConfig(err, "resolving project directory")
		}
	}

	if projectDir == "" {
		// No module anywhere above the file: single-file fallback.
		return loadStandalone(absPath, src)
	}
	return l.loadFromModule(absPath, src, projectDir)
}

// loadFromModule loads the package containing the entry file via go/packages.
func (l *Loader) loadFromModule(absPath string, src []byte, projectDir string) (*Program, error) {
	cfg := &packages.Config{
		Mode:       LoadMode,
		Dir:        projectDir,
		Fset:       token.NewFileSet(),
		BuildFlags: l.cfg.Build.Flags,
		Tests:      l.cfg.Build.Tests,
	}
	if len(l.cfg.Build.Env) > 0 {
		cfg.Env = append(os.Environ(), l.cfg.Build.Env...)
	}

	pkgs, err := packages.Load(cfg, "file="+absPath)
	if err != nil {
		return nil, typerr.ProjectConfig(err, "loading project at %s", projectDir)
	}
	if len(pkgs) == 0 {
		return nil, typerr.New(typerr.CodeProjectConfig,
			"entry file %s is not part of any package under %s", absPath, projectDir)
	}

	pkg, file := findEntry(cfg.Fset, pkgs, absPath)
	if pkg == nil {
		// The project loaded, but its configured package set does not
		// contain the entry file. Surface the first load error if any.
		if msg := firstLoadError(pkgs); msg != "" {
			return nil, typerr.New(typerr.CodeProjectConfig,
				"entry file %s is not part of the configured package set: %s", absPath, msg)
		}
		return nil, typerr.New(typerr.CodeProjectConfig,
			"entry file %s is not part of the configured package set", absPath)
	}
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return nil, typerr.New(typerr.CodeProjectConfig,
			"project at %s produced no type information: %s", projectDir, firstLoadError(pkgs))
	}

	return &Program{
		Fset:   cfg.Fset,
		Pkg:    pkg.Types,
		Info:   pkg.TypesInfo,
		File:   file,
		Syntax: pkg.Syntax,
		Path:   absPath,
		Source: src,
	}, nil
}

// loadStandalone parses and type-checks a single file with fallback
// settings: source importer, type errors collected but never fatal.
func loadStandalone(absPath string, src []byte) (*Program, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, absPath, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, typerr.ProjectConfig(err, "parsing %s", absPath)
	}

	info := newTypesInfo()
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(error) {}, // best effort: keep checking past type errors
	}
	pkg, _ := conf.Check(file.Name.Name, fset, []*ast.File{file}, info)
	if pkg == nil {
		pkg = types.NewPackage(file.Name.Name, file.Name.Name)
	}

	return &Program{
		Fset:   fset,
		Pkg:    pkg,
		Info:   info,
		File:   file,
		Syntax: []*ast.File{file},
		Path:   absPath,
		Source: src,
	}, nil
}

func newTypesInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Instances:  make(map[*ast.Ident]types.Instance),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}
}

// findEntry locates the loaded package and syntax tree for the entry file.
func findEntry(fset *token.FileSet, pkgs []*packages.Package, absPath string) (*packages.Package, *ast.File) {
	for _, pkg := range pkgs {
		for _, f := range pkg.Syntax {
			if fset.Position(f.Pos()).Filename == absPath {
				return pkg, f
			}
		}
	}
	return nil, nil
}

// firstLoadError returns the first package-level error message, if any.
func firstLoadError(pkgs []*packages.Package) string {
	var msg string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, err := range pkg.Errors {
			if msg == "" {
				msg = fmt.Sprintf("%s: %s", pkg.PkgPath, err.Msg)
			}
		}
	})
	return msg
}

// findModuleRoot walks upward from dir looking for the nearest go.mod.
// Returns "" when no module encloses the directory.
func findModuleRoot(dir string) string {
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
