package document

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/spf13/afero"
	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/vk/geonodego/internal/graph"
	"github.com/vk/geonodego/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Save serializes a graph to path in the document grammar. The output is
// deterministic: nodes in insertion order, params and connections by slot
// index, so saved documents diff cleanly.
func Save(ctx context.Context, fsys afero.Fs, path string, g *graph.Graph) error {
	src := Marshal(g)
	if err := afero.WriteFile(fsys, path, src, 0o644); err != nil {
		return fmt.Errorf("writing document %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Document saved.", "path", path, "bytes", len(src))
	return nil
}

// Marshal renders a graph as document source.
func Marshal(g *graph.Graph) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	nodes := g.Nodes()
	for i, n := range nodes {
		if i > 0 {
			body.AppendNewline()
		}
		writeNodeBlock(body, n)
	}

	var wroteConn bool
	for _, consumer := range nodes {
		inbound := g.Producers(consumer)
		inputs := make([]int, 0, len(inbound))
		for idx := range inbound {
			inputs = append(inputs, idx)
		}
		sort.Ints(inputs)
		for _, idx := range inputs {
			if !wroteConn {
				body.AppendNewline()
				wroteConn = true
			}
			ep := inbound[idx]
			block := body.AppendNewBlock("connect", nil)
			block.Body().SetAttributeValue("from",
				cty.StringVal(formatEndpoint(ep.Producer.Name(), ep.Output)))
			block.Body().SetAttributeValue("to",
				cty.StringVal(formatEndpoint(consumer.Name(), idx)))
		}
	}

	return f.Bytes()
}

func writeNodeBlock(body *hclwrite.Body, n *node.Node) {
	block := body.AppendNewBlock("node", []string{n.Kind(), n.Name()})
	nb := block.Body()

	if n.HasDynamicInputs() && n.DynamicCount() > 0 {
		nb.SetAttributeValue("dynamic_inputs", cty.NumberIntVal(int64(n.DynamicCount())))
	}

	params := n.Params()
	indices := make([]int, 0, len(params))
	for idx := range params {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		val := params[idx]
		if val.Type().IsCapsuleType() {
			// Entities have no document representation.
			continue
		}
		pb := nb.AppendNewBlock("param", []string{strconv.Itoa(idx)})
		pb.Body().SetAttributeValue("value", val)
	}
}
