package nodes

import (
	"go/ast"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abramin/typelens/internal/loader"
)

// loadFixture type-checks fixtureSrc through the standalone loader so the
// locator sees the same Program shape lookups use.
func loadFixture(t *testing.T) *loader.Program {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fix.go")
	if err := os.WriteFile(path, []byte(fixtureSrc), 0644); err != nil {
		t.Fatal(err)
	}
	prog, err := loader.New(nil).Load(path, "")
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return prog
}

// fixturePos returns the 1-based line/column of needle within the first
// line containing context.
func fixturePos(t *testing.T, context, needle string) (line, col int) {
	t.Helper()
	idx := strings.Index(fixtureSrc, context)
	if idx < 0 {
		t.Fatalf("fixture does not contain %q", context)
	}
	lineStart := strings.LastIndex(fixtureSrc[:idx], "\n") + 1
	lineEnd := strings.Index(fixtureSrc[lineStart:], "\n") + lineStart
	lineText := fixtureSrc[lineStart:lineEnd]
	nIdx := strings.Index(lineText, needle)
	if nIdx < 0 {
		t.Fatalf("line %q does not contain %q", lineText, needle)
	}
	return 1 + strings.Count(fixtureSrc[:lineStart], "\n"), nIdx + 1
}

func TestFindByNameFirstMatchWins(t *testing.T) {
	fset, file := parseFixture(t)

	// Without a line hint, the declaration is found before the call.
	node := FindByName(fset, file, "Add", 0)
	if _, ok := node.(*ast.FuncDecl); !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", node)
	}

	// With the call's line, the call expression is found instead.
	callLine := fixtureLine(t, "var outs = Add(1, 2)")
	node = FindByName(fset, file, "Add", callLine)
	if _, ok := node.(*ast.CallExpr); !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", node)
	}
}

func TestFindByNameStructFieldYieldsLiteralEntry(t *testing.T) {
	fset, file := parseFixture(t)

	// The struct declares OnStart before the literal assigns it, but a
	// field only matches by name inside an interface, so the
	// composite-literal entry carrying the function value resolves.
	node := FindByName(fset, file, "OnStart", 0)
	if _, ok := node.(*ast.KeyValueExpr); !ok {
		t.Fatalf("expected *ast.KeyValueExpr, got %T", node)
	}

	// Interface methods still resolve to their signature field.
	get := FindByName(fset, file, "Get", 0)
	if _, ok := get.(*ast.Field); !ok {
		t.Fatalf("expected *ast.Field, got %T", get)
	}
}

func TestFindByNameAbsent(t *testing.T) {
	fset, file := parseFixture(t)

	if node := FindByName(fset, file, "NoSuchSymbol", 0); node != nil {
		t.Errorf("expected nil for unknown name, got %T", node)
	}
	// Known name on the wrong line is also absent.
	if node := FindByName(fset, file, "Add", 1); node != nil {
		t.Errorf("expected nil for wrong line, got %T", node)
	}
}

func TestFindAtPositionPromotesDeclaration(t *testing.T) {
	prog := loadFixture(t)

	// Hovering the middle of the function name yields the declaration,
	// not the bare identifier.
	line, col := fixturePos(t, "func Add(a, b int)", "Add")
	node := FindAtPosition(prog, line, col+1)
	if _, ok := node.(*ast.FuncDecl); !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", node)
	}

	line, col = fixturePos(t, "var answer = 42", "answer")
	node = FindAtPosition(prog, line, col)
	if _, ok := node.(*ast.ValueSpec); !ok {
		t.Fatalf("expected *ast.ValueSpec, got %T", node)
	}

	line, col = fixturePos(t, "type Store interface", "Store")
	node = FindAtPosition(prog, line, col)
	if _, ok := node.(*ast.TypeSpec); !ok {
		t.Fatalf("expected *ast.TypeSpec, got %T", node)
	}
}

func TestFindAtPositionPromotesCall(t *testing.T) {
	prog := loadFixture(t)

	// Hovering the callee identifier yields the call expression, so the
	// extractor can report the signature at the call site.
	line, col := fixturePos(t, "return double(3)", "double")
	node := FindAtPosition(prog, line, col)
	call, ok := node.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", node)
	}
	if got := CalleeName(call); got != "double" {
		t.Errorf("CalleeName = %q, want double", got)
	}
}

func TestFindAtPositionPlainExpression(t *testing.T) {
	prog := loadFixture(t)

	// Hovering an argument that is not a name or callee returns the
	// innermost node, with no promotion.
	line, col := fixturePos(t, "var outs = Add(1, 2)", "1")
	node := FindAtPosition(prog, line, col)
	if _, ok := node.(*ast.BasicLit); !ok {
		t.Fatalf("expected *ast.BasicLit, got %T", node)
	}
}

func TestFindAtPositionBounds(t *testing.T) {
	prog := loadFixture(t)

	if node := FindAtPosition(prog, 0, 1); node != nil {
		t.Error("line 0 should be out of bounds")
	}
	if node := FindAtPosition(prog, 100000, 1); node != nil {
		t.Error("line past EOF should be out of bounds")
	}
	if node := FindAtPosition(prog, 1, 0); node != nil {
		t.Error("column 0 should be out of bounds")
	}

	lineText := "	return double(3)"
	line, _ := fixturePos(t, "return double(3)", "return")
	if node := FindAtPosition(prog, line, len(lineText)+2); node != nil {
		t.Error("column past lineLength+1 should be out of bounds")
	}

	// Column lineLength+1 (just before the newline) is valid; inside a
	// function body the enclosing block still spans it.
	if node := FindAtPosition(prog, line, len(lineText)+1); node == nil {
		t.Error("column lineLength+1 should be in bounds")
	}
}

func TestFindAtPositionBoundsCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fix.go")
	src := strings.ReplaceAll(fixtureSrc, "\n", "\r\n")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	prog, err := loader.New(nil).Load(path, "")
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}

	// The carriage return belongs to the line terminator, not the line:
	// the valid boundary stays at lineLength+1, same as LF files.
	lineText := "	return double(3)"
	line, _ := fixturePos(t, "return double(3)", "return")
	if node := FindAtPosition(prog, line, len(lineText)+1); node == nil {
		t.Error("column lineLength+1 should be in bounds")
	}
	if node := FindAtPosition(prog, line, len(lineText)+2); node != nil {
		t.Error("column covering the carriage return should be out of bounds")
	}
}

func TestFindAtPositionWhitespace(t *testing.T) {
	prog := loadFixture(t)

	// Line 2 of the fixture is the blank line after the package clause:
	// in bounds, but no node encloses it.
	if node := FindAtPosition(prog, 2, 1); node != nil {
		t.Errorf("expected nil for blank line, got %T", node)
	}
}
