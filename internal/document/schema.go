package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is the top-level HCL shape of a graph document file.
type fileRoot struct {
	Nodes       []*nodeBlock `hcl:"node,block"`
	Connections []*connBlock `hcl:"connect,block"`
}

// nodeBlock declares one node instance: `node "<kind>" "<name>" { ... }`.
type nodeBlock struct {
	Kind          string        `hcl:"kind,label"`
	Name          string        `hcl:"name,label"`
	DynamicInputs *int          `hcl:"dynamic_inputs,optional"`
	Params        []*paramBlock `hcl:"param,block"`
}

// paramBlock overrides one input slot's local default:
// `param "<index>" { value = <expr> }`. The optional type attribute pins the
// value to a slot-type keyword (bool, number, string), which matters for
// untyped slots where the expression alone is ambiguous.
type paramBlock struct {
	Slot  string         `hcl:"slot,label"`
	Value hcl.Expression `hcl:"value"`
	Type  *string        `hcl:"type,optional"`
}

// connBlock declares one edge between two slot endpoints.
type connBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// NodeDecl is the decoded form of a node block, with parameter expressions
// already evaluated to values.
type NodeDecl struct {
	Kind          string
	Name          string
	DynamicInputs int
	Params        map[int]cty.Value
}

// ConnDecl is the decoded form of a connect block.
type ConnDecl struct {
	FromNode string
	FromSlot int
	ToNode   string
	ToSlot   int
}

// Document is a fully decoded graph document, merged across all source
// files it was loaded from.
type Document struct {
	Nodes       []NodeDecl
	Connections []ConnDecl
}

// parseEndpoint splits a "node:slot" reference into its parts. The slot
// part is a numeric index so renaming a slot never breaks saved documents.
func parseEndpoint(s string) (string, int, error) {
	name, idxStr, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("malformed endpoint %q: want \"node:slot\"", s)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return "", 0, fmt.Errorf("malformed endpoint %q: slot must be a non-negative index", s)
	}
	return name, idx, nil
}

// formatEndpoint is the inverse of parseEndpoint.
func formatEndpoint(node string, slot int) string {
	return fmt.Sprintf("%s:%d", node, slot)
}
