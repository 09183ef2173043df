// Package merge implements the "merge" node kind: it concatenates the
// sequences arriving on its dynamic input group in slot order.
package merge

import (
	"context"

	"github.com/vk/geonodego/internal/node"
	"github.com/vk/geonodego/internal/registry"
	"github.com/vk/geonodego/internal/slot"
	"github.com/vk/geonodego/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func generate(ctx context.Context, n *node.Node) error {
	var out []value.Value
	start := n.DynamicStart()
	for i := start; i < start+n.DynamicCount(); i++ {
		out = append(out, n.ReadInput(ctx, i)...)
	}
	n.SetOutput(ctx, 0, out...)
	return nil
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(registry.Kind{
		Name:        "merge",
		Category:    "Geometry",
		Description: "Concatenates the sequences on its dynamic inputs in order.",
		Setup: func(n *node.Node) {
			n.EnableDynamicInputs("Geometry", cty.DynamicPseudoType, slot.Options{})
			n.DeclareOutput(0, "Geometry", cty.DynamicPseudoType, slot.Options{})
		},
		Generate: generate,
	})
}
