// Package pointgrid implements the "point_grid" node kind: it spawns a
// fresh entity carrying a planar grid of points.
package pointgrid

import (
	"context"
	"fmt"

	"github.com/vk/geonodego/internal/node"
	"github.com/vk/geonodego/internal/registry"
	"github.com/vk/geonodego/internal/slot"
	"github.com/vk/geonodego/internal/spatial"
	"github.com/vk/geonodego/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func generate(ctx context.Context, n *node.Node) error {
	rows := readCount(ctx, n, 0)
	cols := readCount(ctx, n, 1)
	spacing := 1.0
	if v, ok := n.ReadFirstInput(ctx, 2); ok {
		if f, isNum := v.Float(); isNum {
			spacing = f
		}
	}
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}

	e := spatial.NewEntity(fmt.Sprintf("%s grid", n.Name()))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			e.AddPoint(float64(c)*spacing, float64(r)*spacing, 0)
		}
	}
	n.SetOutput(ctx, 0, value.Entity(e))
	return nil
}

func readCount(ctx context.Context, n *node.Node, idx int) int {
	if v, ok := n.ReadFirstInput(ctx, idx); ok {
		if f, isNum := v.Float(); isNum {
			return int(f)
		}
	}
	return 0
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	min1 := 1.0
	r.RegisterKind(registry.Kind{
		Name:        "point_grid",
		Category:    "Generate",
		Description: "Spawns an entity holding a rows-by-columns grid of points.",
		Setup: func(n *node.Node) {
			rowOpts := slot.DefaultNumber(1)
			rowOpts.Min = &min1
			n.DeclareInput(0, "Rows", cty.Number, rowOpts)
			colOpts := slot.DefaultNumber(1)
			colOpts.Min = &min1
			n.DeclareInput(1, "Columns", cty.Number, colOpts)
			n.DeclareInput(2, "Spacing", cty.Number, slot.DefaultNumber(1))
			n.DeclareOutput(0, "Geometry", value.EntityType, slot.Options{})
		},
		Generate: generate,
	})
}
