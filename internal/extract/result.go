package extract

import (
	"fmt"
	"strings"
)

// Result is the outcome of one hover lookup. It is a plain value owned by
// the caller once returned.
type Result struct {
	Signature     string `json:"signature"`
	ReturnType    string `json:"returnType,omitempty"`
	Line          int    `json:"line"`
	Column        int    `json:"column,omitempty"`
	Kind          string `json:"kind,omitempty"`
	Name          string `json:"name,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// Render formats the result one fact per line, the shape both the CLI and
// the MCP text blocks print.
func (r *Result) Render() string {
	var b strings.Builder
	fmt.Fprintln(&b, r.Signature)
	if r.ReturnType != "" {
		fmt.Fprintf(&b, "returns: %s\n", r.ReturnType)
	}
	if r.Name != "" {
		fmt.Fprintf(&b, "name: %s\n", r.Name)
	}
	if r.Kind != "" {
		fmt.Fprintf(&b, "kind: %s\n", r.Kind)
	}
	if r.Documentation != "" {
		fmt.Fprintf(&b, "docs: %s\n", r.Documentation)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
