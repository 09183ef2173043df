// Package calc implements the "calc" node kind: element-wise arithmetic
// over two number sequences.
package calc

import (
	"context"
	"fmt"

	"github.com/vk/geonodego/internal/node"
	"github.com/vk/geonodego/internal/registry"
	"github.com/vk/geonodego/internal/slot"
	"github.com/vk/geonodego/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// generate combines the two operand sequences element-wise. The result has
// the length of the longer operand, with the shorter one's last element
// repeated. Either operand empty means no data, so the result is empty too.
func generate(ctx context.Context, n *node.Node) error {
	a := value.Floats(n.ReadInput(ctx, 0))
	b := value.Floats(n.ReadInput(ctx, 1))
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	op := "add"
	if v, ok := n.ReadFirstInput(ctx, 2); ok {
		if s, isText := v.Text(); isText {
			op = s
		}
	}

	length := len(a)
	if len(b) > length {
		length = len(b)
	}
	out := make([]value.Value, 0, length)
	for i := 0; i < length; i++ {
		x := a[min(i, len(a)-1)]
		y := b[min(i, len(b)-1)]
		r, err := apply(op, x, y)
		if err != nil {
			return err
		}
		out = append(out, value.Number(r))
	}
	n.SetOutput(ctx, 0, out...)
	return nil
}

func apply(op string, x, y float64) (float64, error) {
	switch op {
	case "add":
		return x + y, nil
	case "subtract":
		return x - y, nil
	case "multiply":
		return x * y, nil
	case "divide":
		if y == 0 {
			return 0, nil
		}
		return x / y, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", op)
	}
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(registry.Kind{
		Name:        "calc",
		Category:    "Math",
		Description: "Element-wise arithmetic over two number sequences.",
		Setup: func(n *node.Node) {
			n.DeclareInput(0, "A", cty.Number, slot.DefaultNumber(0))
			n.DeclareInput(1, "B", cty.Number, slot.DefaultNumber(0))
			opOpts := slot.DefaultString("add")
			opOpts.Hint = "enum:add,subtract,multiply,divide"
			n.DeclareInput(2, "Operation", cty.String, opOpts)
			n.DeclareOutput(0, "Result", cty.Number, slot.Options{})
		},
		Generate: generate,
	})
}
