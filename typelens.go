// Package typelens answers one question about Go source: what type does
// the compiler infer at this point?
//
// Given a file and either a 1-based position or a symbol name, a lookup
// loads a type-checked program, locates the most relevant syntax node, and
// returns the inferred signature the way an editor hover would. Every
// lookup builds its own program and discards it — there is no cross-call
// caching. BatchLookupByPosition amortizes loading across many positions
// within a single call.
package typelens

import (
	"os"
	"path/filepath"

	"github.com/abramin/typelens/internal/config"
	"github.com/abramin/typelens/internal/extract"
	"github.com/abramin/typelens/internal/loader"
	"github.com/abramin/typelens/internal/nodes"
	"github.com/abramin/typelens/internal/typerr"
)

// Result is the outcome of one lookup.
type Result = extract.Result

// Position is a 1-based line/column pair. Column lineLength+1 (one past
// the last character of the line) is valid.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Options adjust a lookup.
type Options struct {
	// Project overrides the upward go.mod search with an explicit
	// project directory, resolved relative to the working directory.
	Project string
	// Line optionally disambiguates a name lookup.
	Line int
	// IncludeDocs requests the declaration's doc comment in the result.
	IncludeDocs bool
	// Config overrides the tool configuration; nil means defaults.
	Config *config.Config
}

// BatchItem pairs one queried position with either its result or the error
// that position produced.
type BatchItem struct {
	Position Position `json:"position"`
	Result   *Result  `json:"result,omitempty"`
	Err      string   `json:"error,omitempty"`
}

// BatchResult holds per-position outcomes in input order plus counts.
type BatchResult struct {
	Items        []BatchItem `json:"items"`
	SuccessCount int         `json:"successCount"`
	ErrorCount   int         `json:"errorCount"`
}

// LookupByPosition returns the hover result for the node at a 1-based
// line/column in file.
func LookupByPosition(file string, line, column int, opts Options) (*Result, error) {
	prog, err := load(file, opts)
	if err != nil {
		return nil, err
	}
	node := nodes.FindAtPosition(prog, line, column)
	if node == nil {
		return nil, typerr.PositionNotFound(prog.Path, line, column)
	}
	return extract.Extract(prog, node, opts.IncludeDocs)
}

// LookupByName returns the hover result for the first declaration or call
// matching name in file, optionally restricted to opts.Line.
func LookupByName(file, name string, opts Options) (*Result, error) {
	prog, err := load(file, opts)
	if err != nil {
		return nil, err
	}
	node := nodes.FindByName(prog.Fset, prog.File, name, opts.Line)
	if node == nil {
		return nil, typerr.SymbolNotFound(prog.Path, name, opts.Line)
	}
	return extract.Extract(prog, node, opts.IncludeDocs)
}

// BatchLookupByPosition loads the program once and looks up every
// position independently. One failing position never aborts its siblings;
// its error is captured on the item instead. Items preserve input order.
func BatchLookupByPosition(file string, positions []Position, opts Options) (*BatchResult, error) {
	prog, err := load(file, opts)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{Items: make([]BatchItem, 0, len(positions))}
	for _, pos := range positions {
		item := BatchItem{Position: pos}
		node := nodes.FindAtPosition(prog, pos.Line, pos.Column)
		if node == nil {
			item.Err = typerr.PositionNotFound(prog.Path, pos.Line, pos.Column).Error()
		} else if res, err := extract.Extract(prog, node, opts.IncludeDocs); err != nil {
			item.Err = err.Error()
		} else {
			item.Result = res
		}
		if item.Err == "" {
			batch.SuccessCount++
		} else {
			batch.ErrorCount++
		}
		batch.Items = append(batch.Items, item)
	}
	return batch, nil
}

// load checks the target exists before any parsing, then builds the
// request-scoped program.
func load(file string, opts Options) (*loader.Program, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, typerr.Wrap(err, typerr.CodeNotFound, "resolving %s", file)
	}
	if fi, err := os.Stat(absPath); err != nil || fi.IsDir() {
		return nil, typerr.FileNotFound(absPath)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return loader.New(cfg).Load(absPath, opts.Project)
}
