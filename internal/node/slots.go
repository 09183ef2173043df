package node

import (
	"context"
	"fmt"

	"github.com/vk/geonodego/internal/slot"
	"github.com/zclconf/go-cty/cty"
)

// DeclareInput registers input slot metadata at the given index. Indices are
// assigned densely from 0; gaps may exist only transiently while dynamic
// slots are mutated.
func (n *Node) DeclareInput(idx int, name string, ty cty.Type, opts slot.Options) {
	if idx < 0 {
		n.diags.Errorf(context.Background(), "invalid input slot index",
			"node %s: input index %d is negative", n.name, idx)
		return
	}
	n.inputs = growSlots(n.inputs, idx)
	n.inputs[idx] = &slot.Spec{Name: name, Type: ty, Options: opts}
}

// DeclareOutput registers output slot metadata at the given index.
func (n *Node) DeclareOutput(idx int, name string, ty cty.Type, opts slot.Options) {
	if idx < 0 {
		n.diags.Errorf(context.Background(), "invalid output slot index",
			"node %s: output index %d is negative", n.name, idx)
		return
	}
	n.outputs = growSlots(n.outputs, idx)
	n.outputs[idx] = &slot.Spec{Name: name, Type: ty, Options: opts}
}

// DeclareMirror records that the output slot's declared type must always
// track the input slot's effective type. Out-of-range indices are reported
// and ignored.
func (n *Node) DeclareMirror(inputIdx, outputIdx int) {
	ctx := context.Background()
	in := n.input(inputIdx)
	if in == nil {
		n.diags.Errorf(ctx, "mirror declared on missing input slot",
			"node %s: no input slot %d", n.name, inputIdx)
		return
	}
	if n.output(outputIdx) == nil {
		n.diags.Errorf(ctx, "mirror declared on missing output slot",
			"node %s: no output slot %d", n.name, outputIdx)
		return
	}
	for _, m := range in.Mirrors {
		if m == outputIdx {
			return
		}
	}
	in.Mirrors = append(in.Mirrors, outputIdx)
}

// RemoveInput deletes an input slot. A connected slot is severed through the
// owning graph first. Removing a slot that does not exist is reported and
// ignored.
func (n *Node) RemoveInput(ctx context.Context, idx int) bool {
	if n.input(idx) == nil {
		n.diags.Errorf(ctx, "cannot remove input slot",
			"node %s: no input slot %d", n.name, idx)
		return false
	}
	if n.ws != nil {
		n.ws.SeverConnection(ctx, n, idx)
	}
	n.inputs[idx] = nil
	delete(n.params, idx)
	// Re-densify from the tail; interior gaps are allowed only transiently.
	for len(n.inputs) > 0 && n.inputs[len(n.inputs)-1] == nil {
		n.inputs = n.inputs[:len(n.inputs)-1]
	}
	return true
}

// InputCount returns the number of declared input slot indices, including
// transient gaps.
func (n *Node) InputCount() int { return len(n.inputs) }

// OutputCount returns the number of declared output slots.
func (n *Node) OutputCount() int { return len(n.outputs) }

// Input returns the spec for an input slot.
func (n *Node) Input(idx int) (slot.Spec, bool) {
	if s := n.input(idx); s != nil {
		return *s, true
	}
	return slot.Spec{}, false
}

// Output returns the spec for an output slot.
func (n *Node) Output(idx int) (slot.Spec, bool) {
	if s := n.output(idx); s != nil {
		return *s, true
	}
	return slot.Spec{}, false
}

// SetParam stores a locally edited slot value and invalidates this node and
// everything downstream of it, since the next generation may differ.
func (n *Node) SetParam(ctx context.Context, idx int, v cty.Value) {
	if n.input(idx) == nil {
		n.diags.Errorf(ctx, "cannot set value on missing input slot",
			"node %s: no input slot %d", n.name, idx)
		return
	}
	n.params[idx] = v
	n.Reset(ctx)
}

// Param returns the locally edited value for an input slot, if any.
func (n *Node) Param(idx int) (cty.Value, bool) {
	v, ok := n.params[idx]
	return v, ok
}

// Params returns a copy of all locally edited slot values, keyed by input
// index. This is the per-node state the document layer persists.
func (n *Node) Params() map[int]cty.Value {
	out := make(map[int]cty.Value, len(n.params))
	for k, v := range n.params {
		out[k] = v
	}
	return out
}

func (n *Node) input(idx int) *slot.Spec {
	if idx < 0 || idx >= len(n.inputs) {
		return nil
	}
	return n.inputs[idx]
}

func (n *Node) output(idx int) *slot.Spec {
	if idx < 0 || idx >= len(n.outputs) {
		return nil
	}
	return n.outputs[idx]
}

func growSlots(slots []*slot.Spec, idx int) []*slot.Spec {
	for len(slots) <= idx {
		slots = append(slots, nil)
	}
	return slots
}

// slotLabel names a slot for diagnostics and presentation.
func slotLabel(s *slot.Spec, idx int) string {
	if s == nil {
		return fmt.Sprintf("slot %d", idx)
	}
	return fmt.Sprintf("%s (slot %d)", s.Name, idx)
}
