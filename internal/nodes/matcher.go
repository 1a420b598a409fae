// Package nodes classifies and locates syntax nodes for hover lookups.
//
// The matcher half is pure: predicates over a single node, no traversal and
// no checker access. The locator half (locator.go) builds on it.
package nodes

import (
	"go/ast"
	"go/token"
)

// Kind is a coarse category describing what a node represents.
type Kind string

const (
	KindFunc      Kind = "func"
	KindMethod    Kind = "method"
	KindVar       Kind = "var"
	KindConst     Kind = "const"
	KindParam     Kind = "param"
	KindField     Kind = "field"
	KindCall      Kind = "call"
	KindType      Kind = "type"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindIdent     Kind = "ident"
	KindUnknown   Kind = "unknown"
)

// Shape is the closed set of node shapes the extractor knows how to handle.
// Classify maps every node into exactly one, so extraction dispatch is an
// exhaustive switch rather than a chain of type assertions.
type Shape int

const (
	// ShapeOther covers everything the more specific shapes do not.
	ShapeOther Shape = iota
	// ShapeFuncDecl is a top-level function declaration.
	ShapeFuncDecl
	// ShapeMethodDecl is a function declaration with a receiver.
	ShapeMethodDecl
	// ShapeVarFuncInit is a var/const spec or := assignment whose
	// initializer is a function literal.
	ShapeVarFuncInit
	// ShapeFieldFuncValue is a composite-literal key/value entry whose
	// value is a function literal.
	ShapeFieldFuncValue
	// ShapeMethodSig is an interface method signature.
	ShapeMethodSig
	// ShapeCall is a call expression.
	ShapeCall
)

// Classify maps a node into its Shape.
func Classify(n ast.Node) Shape {
	switch d := n.(type) {
	case *ast.CallExpr:
		return ShapeCall
	case *ast.FuncDecl:
		if d.Recv != nil {
			return ShapeMethodDecl
		}
		return ShapeFuncDecl
	case *ast.ValueSpec:
		for _, v := range d.Values {
			if isFuncValue(v) {
				return ShapeVarFuncInit
			}
		}
	case *ast.AssignStmt:
		if d.Tok == token.DEFINE && len(d.Rhs) == 1 && isFuncValue(d.Rhs[0]) {
			return ShapeVarFuncInit
		}
	case *ast.KeyValueExpr:
		if isFuncValue(d.Value) {
			return ShapeFieldFuncValue
		}
	case *ast.Field:
		if _, ok := d.Type.(*ast.FuncType); ok && len(d.Names) > 0 {
			return ShapeMethodSig
		}
	}
	return ShapeOther
}

// isFuncValue reports whether an expression is a function literal,
// unwrapping parentheses.
func isFuncValue(e ast.Expr) bool {
	_, ok := ast.Unparen(e).(*ast.FuncLit)
	return ok
}

// IsFuncLike reports whether a node declares something callable under a
// name: a function or method declaration, a named variable initialized
// with a function literal, a composite-literal entry carrying a function
// literal, or an interface method signature. Entries without a simple
// identifier name (e.g. computed keys) never match.
func IsFuncLike(n ast.Node) bool {
	switch Classify(n) {
	case ShapeFuncDecl, ShapeMethodDecl, ShapeVarFuncInit, ShapeMethodSig:
		return NameOf(n) != ""
	case ShapeFieldFuncValue:
		return NameOf(n) != ""
	}
	return false
}

// IsVariable reports whether a node is a plain variable declaration with a
// simple identifier name, regardless of initializer shape.
func IsVariable(n ast.Node) bool {
	switch d := n.(type) {
	case *ast.ValueSpec:
		return len(d.Names) > 0
	case *ast.AssignStmt:
		if d.Tok != token.DEFINE {
			return false
		}
		for _, lhs := range d.Lhs {
			if _, ok := lhs.(*ast.Ident); ok {
				return true
			}
		}
	}
	return false
}

// IsCallNamed reports whether a node is a call of an identifier matching
// name, directly or through a selector whose final member matches.
func IsCallNamed(n ast.Node, name string) bool {
	call, ok := n.(*ast.CallExpr)
	if !ok {
		return false
	}
	return CalleeName(call) == name && name != ""
}

// LineOf returns the 1-based line of the node's first character.
func LineOf(fset *token.FileSet, n ast.Node) int {
	return fset.Position(n.Pos()).Line
}

// KindOf maps a node to its symbol kind using only the node's own shape:
// a variable whose initializer is a function literal reports KindFunc,
// not KindVar. Shapes the syntax cannot tell apart (const vs var specs,
// parameters vs struct fields) report the broader kind; the extractor
// sharpens them against the checker's objects.
func KindOf(n ast.Node) Kind {
	switch d := n.(type) {
	case *ast.FuncDecl:
		if d.Recv != nil {
			return KindMethod
		}
		return KindFunc
	case *ast.ValueSpec:
		if Classify(d) == ShapeVarFuncInit {
			return KindFunc
		}
		return KindVar
	case *ast.AssignStmt:
		if Classify(d) == ShapeVarFuncInit {
			return KindFunc
		}
		if d.Tok == token.DEFINE {
			return KindVar
		}
		return KindUnknown
	case *ast.KeyValueExpr:
		if Classify(d) == ShapeFieldFuncValue {
			return KindFunc
		}
		return KindField
	case *ast.Field:
		if Classify(d) == ShapeMethodSig {
			return KindMethod
		}
		return KindField
	case *ast.TypeSpec:
		switch d.Type.(type) {
		case *ast.InterfaceType:
			return KindInterface
		case *ast.StructType:
			return KindStruct
		default:
			return KindType
		}
	case *ast.CallExpr:
		return KindCall
	case *ast.Ident:
		return KindIdent
	}
	return KindUnknown
}

// NameOf extracts the declared or referenced identifier text, if any.
// For call expressions it is the callee's name.
func NameOf(n ast.Node) string {
	switch d := n.(type) {
	case *ast.FuncDecl:
		return d.Name.Name
	case *ast.ValueSpec:
		if len(d.Names) > 0 {
			return d.Names[0].Name
		}
	case *ast.AssignStmt:
		for _, lhs := range d.Lhs {
			if id, ok := lhs.(*ast.Ident); ok {
				return id.Name
			}
		}
	case *ast.KeyValueExpr:
		if id, ok := d.Key.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.Field:
		if len(d.Names) > 0 {
			return d.Names[0].Name
		}
	case *ast.TypeSpec:
		return d.Name.Name
	case *ast.CallExpr:
		return CalleeName(d)
	case *ast.Ident:
		return d.Name
	}
	return ""
}

// CalleeName returns the name a call is made through: a bare identifier,
// the final member of a selector, or either of those under an explicit
// generic instantiation like f[int](x).
func CalleeName(call *ast.CallExpr) string {
	if id := CalleeIdent(call); id != nil {
		return id.Name
	}
	return ""
}

// CalleeIdent returns the identifier that names the callee, or nil when
// the callee has no simple name (e.g. a call of a call).
func CalleeIdent(call *ast.CallExpr) *ast.Ident {
	fun := ast.Unparen(call.Fun)
	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun = ast.Unparen(f.X)
	case *ast.IndexListExpr:
		fun = ast.Unparen(f.X)
	}
	switch f := fun.(type) {
	case *ast.Ident:
		return f
	case *ast.SelectorExpr:
		return f.Sel
	}
	return nil
}

// FuncValueOf returns the function literal attached to a VarFuncInit or
// FieldFuncValue node, or nil for other shapes.
func FuncValueOf(n ast.Node) *ast.FuncLit {
	switch d := n.(type) {
	case *ast.ValueSpec:
		for _, v := range d.Values {
			if lit, ok := ast.Unparen(v).(*ast.FuncLit); ok {
				return lit
			}
		}
	case *ast.AssignStmt:
		if len(d.Rhs) == 1 {
			if lit, ok := ast.Unparen(d.Rhs[0]).(*ast.FuncLit); ok {
				return lit
			}
		}
	case *ast.KeyValueExpr:
		if lit, ok := ast.Unparen(d.Value).(*ast.FuncLit); ok {
			return lit
		}
	}
	return nil
}

// NameIdent returns the identifier that names a declaration-shaped node,
// or nil when it has none.
func NameIdent(n ast.Node) *ast.Ident {
	switch d := n.(type) {
	case *ast.FuncDecl:
		return d.Name
	case *ast.ValueSpec:
		if len(d.Names) > 0 {
			return d.Names[0]
		}
	case *ast.AssignStmt:
		for _, lhs := range d.Lhs {
			if id, ok := lhs.(*ast.Ident); ok {
				return id
			}
		}
	case *ast.KeyValueExpr:
		if id, ok := d.Key.(*ast.Ident); ok {
			return id
		}
	case *ast.Field:
		if len(d.Names) > 0 {
			return d.Names[0]
		}
	case *ast.TypeSpec:
		return d.Name
	case *ast.CallExpr:
		return CalleeIdent(d)
	case *ast.Ident:
		return d
	}
	return nil
}
