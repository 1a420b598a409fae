package nodes

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/abramin/typelens/internal/loader"
)

// FindByName resolves a node by symbol name with an optional line hint.
//
// Traversal is pre-order, depth-first, children in source order, and the
// first match wins. That is a heuristic, not a scoping rule: with several
// same-named declarations and no line hint, the earliest in traversal
// order is returned. Returns nil when nothing matches.
func FindByName(fset *token.FileSet, file *ast.File, name string, line int) ast.Node {
	var found ast.Node
	var stack []ast.Node
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return false
		}
		if found != nil {
			return false
		}
		if matchesName(n, name, insideInterface(stack)) || IsCallNamed(n, name) {
			if line == 0 || LineOf(fset, n) == line {
				found = n
				return false
			}
		}
		stack = append(stack, n)
		return true
	})
	return found
}

// insideInterface reports whether an interface type is on the traversal
// stack. It is what tells an interface method signature apart from a
// func-typed struct field: the two are the same *ast.Field shape.
func insideInterface(stack []ast.Node) bool {
	for _, n := range stack {
		if _, ok := n.(*ast.InterfaceType); ok {
			return true
		}
	}
	return false
}

// matchesName reports whether the node declares name as a function-like
// construct or a variable. Multi-name specs match on any of their names.
// Fields only match inside an interface, so a func-typed struct field
// never shadows the composite-literal entry that gives it a value.
func matchesName(n ast.Node, name string, inInterface bool) bool {
	switch d := n.(type) {
	case *ast.FuncDecl:
		return d.Name.Name == name
	case *ast.ValueSpec:
		for _, id := range d.Names {
			if id.Name == name {
				return true
			}
		}
	case *ast.AssignStmt:
		if d.Tok != token.DEFINE {
			return false
		}
		for _, lhs := range d.Lhs {
			if id, ok := lhs.(*ast.Ident); ok && id.Name == name {
				return true
			}
		}
	case *ast.KeyValueExpr:
		if id, ok := d.Key.(*ast.Ident); ok {
			return id.Name == name && Classify(d) == ShapeFieldFuncValue
		}
	case *ast.Field:
		if !inInterface || Classify(d) != ShapeMethodSig {
			return false
		}
		for _, id := range d.Names {
			if id.Name == name {
				return true
			}
		}
	case *ast.TypeSpec:
		return d.Name.Name == name
	}
	return false
}

// FindAtPosition resolves the most useful hoverable node enclosing a
// 1-based line/column.
//
// The smallest enclosing node is the base answer; it is then widened to
// the innermost ancestor whose name or callee identifier spans the
// position, so hovering a declaration's name yields the declaration and
// hovering a callee yields the call (and with it the instantiated
// signature). Returns nil for out-of-bounds positions and for positions
// no node encloses.
func FindAtPosition(prog *loader.Program, line, column int) ast.Node {
	pos, ok := positionToPos(prog, line, column)
	if !ok {
		return nil
	}

	path, _ := astutil.PathEnclosingInterval(prog.File, pos, pos)
	if len(path) == 0 {
		return nil
	}
	if _, isFile := path[0].(*ast.File); isFile {
		// Only the file itself encloses the offset (whitespace between
		// declarations, or end of file).
		return nil
	}

	// Walk root -> innermost so the last promotion seen is the innermost
	// one, mirroring editor hover semantics: prefer the declaration over
	// its bare name, and the call over its callee identifier.
	var promoted ast.Node
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		switch d := n.(type) {
		case *ast.CallExpr:
			if id := CalleeIdent(d); id != nil && spans(id, pos) {
				promoted = d
			}
		case *ast.FuncDecl:
			if spans(d.Name, pos) {
				promoted = d
			}
		case *ast.TypeSpec:
			if spans(d.Name, pos) {
				promoted = d
			}
		case *ast.ValueSpec:
			for _, id := range d.Names {
				if spans(id, pos) {
					promoted = d
				}
			}
		case *ast.Field:
			for _, id := range d.Names {
				if spans(id, pos) {
					promoted = d
				}
			}
		}
	}
	if promoted != nil {
		return promoted
	}
	return path[0]
}

// positionToPos validates a 1-based line/column against the entry file and
// converts it to a token.Pos. Column lineLength+1 (just before the
// newline) is considered in bounds.
func positionToPos(prog *loader.Program, line, column int) (token.Pos, bool) {
	tf := prog.TokenFile()
	if tf == nil || line < 1 || line > tf.LineCount() {
		return token.NoPos, false
	}
	start := tf.Offset(tf.LineStart(line))
	length := lineLength(tf, prog.Source, line, start)
	if column < 1 || column > length+1 {
		return token.NoPos, false
	}
	offset := start + column - 1
	if offset > tf.Size() {
		return token.NoPos, false
	}
	return tf.Pos(offset), true
}

// lineLength computes the length of a 1-based line excluding its line
// terminator. A carriage return before the newline belongs to the
// terminator, so CRLF files keep the same column bounds as LF files.
func lineLength(tf *token.File, src []byte, line, start int) int {
	end := len(src)
	if line < tf.LineCount() {
		end = tf.Offset(tf.LineStart(line+1)) - 1
	}
	if end > start && src[end-1] == '\r' {
		end--
	}
	if end < start {
		end = start
	}
	return end - start
}

// spans reports whether a node's source range contains pos.
func spans(n ast.Node, pos token.Pos) bool {
	return n != nil && n.Pos() <= pos && pos < n.End()
}
