// Package value implements the "value" node kind: a single slot holding a
// user-set value, or passing through whatever is connected to it. Its output
// type mirrors the input, so a value node dropped onto any connection keeps
// the connection's type.
package value

import (
	"context"

	"github.com/vk/geonodego/internal/node"
	"github.com/vk/geonodego/internal/registry"
	"github.com/vk/geonodego/internal/slot"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func generate(ctx context.Context, n *node.Node) error {
	n.SetOutput(ctx, 0, n.ReadInput(ctx, 0)...)
	return nil
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(registry.Kind{
		Name:        "value",
		Category:    "Input",
		Description: "Holds a value or passes a connected input through unchanged.",
		Setup: func(n *node.Node) {
			n.DeclareInput(0, "Value", cty.DynamicPseudoType, slot.DefaultNumber(0))
			n.DeclareOutput(0, "Value", cty.DynamicPseudoType, slot.Options{})
			n.DeclareMirror(0, 0)
		},
		Generate: generate,
	})
}
