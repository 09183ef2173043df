package document

import (
	"context"
	"fmt"

	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/vk/geonodego/internal/diag"
	"github.com/vk/geonodego/internal/graph"
	"github.com/vk/geonodego/internal/registry"
	"github.com/vk/geonodego/internal/sched"
	"github.com/vk/geonodego/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Build instantiates a loaded document as a live graph: every node is
// created through the registry, parameter overrides and dynamic input
// counts are applied, then the declared connections are wired.
func Build(ctx context.Context, doc *Document, reg *registry.Registry, loop *sched.Loop, diags *diag.Reporter) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := graph.New(loop, diags)

	for _, decl := range doc.Nodes {
		n, err := reg.NewNode(decl.Kind, decl.Name)
		if err != nil {
			return nil, err
		}
		if err := g.Add(n); err != nil {
			return nil, err
		}

		if decl.DynamicInputs > 0 {
			if !n.HasDynamicInputs() {
				return nil, fmt.Errorf("node %q (kind %q) has no dynamic input group", decl.Name, decl.Kind)
			}
			n.SetDynamicCount(ctx, decl.DynamicInputs)
		}

		for idx, val := range decl.Params {
			spec, ok := n.Input(idx)
			if !ok {
				return nil, fmt.Errorf("node %q has no input slot %d", decl.Name, idx)
			}
			converted, err := convertParam(val, spec.Type)
			if err != nil {
				return nil, fmt.Errorf("node %q, slot %d (%s): %w", decl.Name, idx, spec.Name, err)
			}
			n.SetParam(ctx, idx, converted)
		}
	}

	for _, conn := range doc.Connections {
		producer, ok := g.Node(conn.FromNode)
		if !ok {
			return nil, fmt.Errorf("connection references unknown node %q", conn.FromNode)
		}
		consumer, ok := g.Node(conn.ToNode)
		if !ok {
			return nil, fmt.Errorf("connection references unknown node %q", conn.ToNode)
		}
		if err := g.Connect(ctx, producer, conn.FromSlot, consumer, conn.ToSlot); err != nil {
			return nil, err
		}
	}

	logger.Debug("Graph built from document.",
		"nodes", len(doc.Nodes), "connections", len(doc.Connections))
	return g, nil
}

// convertParam coerces a document parameter to the slot's declared type.
// Untyped slots and entity slots take the value as written; entities cannot
// be expressed in documents anyway, so a mismatch surfaces at read time.
func convertParam(val cty.Value, ty cty.Type) (cty.Value, error) {
	if ty.Equals(cty.DynamicPseudoType) || ty.Equals(value.EntityType) {
		return val, nil
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert %s to %s: %w",
			val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	return converted, nil
}
