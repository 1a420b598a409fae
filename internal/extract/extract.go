// Package extract turns a resolved syntax node into a hover result by
// querying the type checker. It is the only component that performs type
// inference, and it never mutates its inputs.
package extract

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/abramin/typelens/internal/loader"
	"github.com/abramin/typelens/internal/nodes"
	"github.com/abramin/typelens/internal/typerr"
)

// Extract produces the hover result for a node resolved by the locator.
//
// go/types is known to panic on pathological inputs while formatting or
// resolving types; any such panic is recovered and reported as a
// CHECKER_INTERNAL error carrying the file, position, and attempted
// operation, never as a raw panic.
func Extract(prog *loader.Program, node ast.Node, includeDocs bool) (res *Result, err error) {
	position := prog.Fset.Position(node.Pos())

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = typerr.CheckerInternal(prog.Path, position.Line, position.Column, "extracting type information", r)
		}
	}()

	info := prog.Info
	res = &Result{
		Line:   position.Line,
		Column: position.Column,
		Kind:   string(refineKind(info, node, nodes.KindOf(node))),
		Name:   nodes.NameOf(node),
	}

	qual := types.RelativeTo(prog.Pkg)

	switch nodes.Classify(node) {
	case nodes.ShapeCall:
		// The checker records the *instantiated* signature for the
		// function expression at the call site, so generic callees
		// report concrete type arguments here.
		call := node.(*ast.CallExpr)
		if tv, ok := info.Types[call.Fun]; ok && tv.Type != nil {
			applyType(res, tv.Type, qual)
		}
		if res.Signature == "" {
			// Resolution failed; fall back to the type of the whole call.
			if tv, ok := info.Types[call]; ok && tv.Type != nil {
				res.Signature = types.TypeString(tv.Type, qual)
			}
		}

	case nodes.ShapeFuncDecl, nodes.ShapeMethodDecl:
		decl := node.(*ast.FuncDecl)
		if obj := info.Defs[decl.Name]; obj != nil {
			applyType(res, obj.Type(), qual)
		}

	case nodes.ShapeVarFuncInit, nodes.ShapeFieldFuncValue:
		if lit := nodes.FuncValueOf(node); lit != nil {
			if tv, ok := info.Types[lit]; ok && tv.Type != nil {
				applyType(res, tv.Type, qual)
			}
		}

	case nodes.ShapeMethodSig:
		field := node.(*ast.Field)
		if obj := info.Defs[field.Names[0]]; obj != nil {
			applyType(res, obj.Type(), qual)
		}

	case nodes.ShapeOther:
		// handled by the shared fallback below
	}

	if res.Signature == "" {
		applyFallbackType(res, prog, node, qual)
	}
	if res.Signature == "" {
		return nil, typerr.New(typerr.CodePositionNotFound,
			"no type information at %s:%d:%d", prog.Path, position.Line, position.Column)
	}

	if includeDocs {
		res.Documentation = documentation(prog, node)
	}
	return res, nil
}

// refineKind sharpens the shape-derived kind with facts only the checker
// carries: a const spec parses like a var spec, a parameter like a struct
// field, and a func-typed struct field like an interface method. The
// declared object settles each of them.
func refineKind(info *types.Info, node ast.Node, kind nodes.Kind) nodes.Kind {
	id := nodes.NameIdent(node)
	if id == nil {
		return kind
	}
	obj := info.Defs[id]
	if obj == nil {
		obj = info.Uses[id]
	}
	switch o := obj.(type) {
	case *types.Const:
		if kind == nodes.KindVar {
			return nodes.KindConst
		}
	case *types.Var:
		switch kind {
		case nodes.KindField:
			if !o.IsField() {
				return nodes.KindParam
			}
		case nodes.KindMethod:
			if o.IsField() {
				return nodes.KindField
			}
			return nodes.KindParam
		}
	}
	return kind
}

// applyType renders a type with full expansion (no truncation) and, for
// signatures, the return type separately.
func applyType(res *Result, typ types.Type, qual types.Qualifier) {
	res.Signature = types.TypeString(typ, qual)
	if sig, ok := typ.Underlying().(*types.Signature); ok {
		res.ReturnType = formatResults(sig.Results(), qual)
	}
}

// formatResults renders a signature's result tuple: empty for none, the
// bare type for one, and a parenthesized tuple for several.
func formatResults(results *types.Tuple, qual types.Qualifier) string {
	switch results.Len() {
	case 0:
		return ""
	case 1:
		return types.TypeString(results.At(0).Type(), qual)
	default:
		return types.TypeString(results, qual)
	}
}

// applyFallbackType takes the type at the node's own name identifier if it
// has one, else at the node itself.
func applyFallbackType(res *Result, prog *loader.Program, node ast.Node, qual types.Qualifier) {
	info := prog.Info
	if id := nodes.NameIdent(node); id != nil {
		if obj := info.Defs[id]; obj != nil && obj.Type() != nil {
			applyType(res, obj.Type(), qual)
			return
		}
		if obj := info.Uses[id]; obj != nil && obj.Type() != nil {
			applyType(res, obj.Type(), qual)
			return
		}
	}
	if expr, ok := node.(ast.Expr); ok {
		if typ := info.TypeOf(expr); typ != nil {
			applyType(res, typ, qual)
		}
	}
}

// documentation resolves the doc comment attached to the declaration the
// node refers to, flattened to plain text. Hovering a use or a call
// follows the checker back to the declaration, provided it lives in one
// of the program's own files.
func documentation(prog *loader.Program, node ast.Node) string {
	// Calls and bare identifiers document the thing they refer to, not
	// whatever declaration happens to enclose the use site.
	switch node.(type) {
	case *ast.CallExpr, *ast.Ident:
		if doc := docForObject(prog, node); doc != "" {
			return doc
		}
		return ""
	}
	if doc := docAt(prog, node.Pos()); doc != "" {
		return doc
	}
	return docForObject(prog, node)
}

// docForObject follows the node's name identifier back to its declaration
// and returns that declaration's doc comment.
func docForObject(prog *loader.Program, node ast.Node) string {
	id := nodes.NameIdent(node)
	if id == nil {
		return ""
	}
	obj := prog.Info.Uses[id]
	if obj == nil {
		obj = prog.Info.Defs[id]
	}
	if obj == nil || !obj.Pos().IsValid() {
		return ""
	}
	return docAt(prog, obj.Pos())
}

// docAt finds the first documented declaration enclosing pos.
func docAt(prog *loader.Program, pos token.Pos) string {
	for _, f := range prog.Syntax {
		if f.Pos() > pos || pos >= f.End() {
			continue
		}
		path, _ := astutil.PathEnclosingInterval(f, pos, pos)
		for _, n := range path {
			if doc := nodeDoc(n); doc != "" {
				return doc
			}
		}
	}
	return ""
}

// nodeDoc returns a node's own doc comment text, if any.
func nodeDoc(n ast.Node) string {
	var group *ast.CommentGroup
	switch d := n.(type) {
	case *ast.FuncDecl:
		group = d.Doc
	case *ast.GenDecl:
		group = d.Doc
	case *ast.ValueSpec:
		group = d.Doc
	case *ast.TypeSpec:
		group = d.Doc
	case *ast.Field:
		group = d.Doc
	}
	if group == nil {
		return ""
	}
	return strings.TrimSpace(group.Text())
}
