// Package duplicate implements the "duplicate" node kind: for each incoming
// entity it emits a run of clones, each translated one offset step further.
package duplicate

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
	entities := value.Entities(n.ReadInput(ctx, 0))
	if len(entities) == 0 {
		return nil
	}

	copies := 1
	if v, ok := n.ReadFirstInput(ctx, 1); ok {
		if f, isNum := v.Float(); isNum {
			copies = int(f)
		}
	}
	if copies <= 0 {
		return nil
	}
	dx := readFloat(ctx, n, 2)
	dy := readFloat(ctx, n, 3)
	dz := readFloat(ctx, n, 4)

	var out []value.Value
	for _, src := range entities {
		for i := 0; i < copies; i++ {
			clone := src.Clone()
			clone.Translate(dx*float64(i), dy*float64(i), dz*float64(i))
			out = append(out, value.Entity(clone))
		}
	}
	n.SetOutput(ctx, 0, out...)
	return nil
}

func readFloat(ctx context.Context, n *node.Node, idx int) float64 {
	if v, ok := n.ReadFirstInput(ctx, idx); ok {
		if f, isNum := v.Float(); isNum {
			return f
		}
	}
	return 0
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	min1 := 1.0
	r.RegisterKind(registry.Kind{
		Name:        "duplicate",
		Category:    "Geometry",
		Description: "Emits translated clones of each incoming entity.",
		Setup: func(n *node.Node) {
			n.DeclareInput(0, "Geometry", value.EntityType, slot.Options{})
			copyOpts := slot.DefaultNumber(1)
			copyOpts.Min = &min1
			n.DeclareInput(1, "Copies", cty.Number, copyOpts)
			n.DeclareInput(2, "Offset X", cty.Number, slot.DefaultNumber(0))
			n.DeclareInput(3, "Offset Y", cty.Number, slot.DefaultNumber(0))
			n.DeclareInput(4, "Offset Z", cty.Number, slot.DefaultNumber(0))
			n.DeclareOutput(0, "Geometry", value.EntityType, slot.Options{})
		},
		Generate: generate,
	})
}
