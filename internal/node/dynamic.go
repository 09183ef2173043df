package node

import (
	"context"
	"fmt"

	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/vk/geonodego/internal/slot"
	"github.com/zclconf/go-cty/cty"
)

// dynamicGroup is a variable-arity run of input slots sharing one
// name/type/options triple, occupying indices [start, start+count).
// Only count is persisted; the slot declarations themselves are regenerated
// deterministically from it.
type dynamicGroup struct {
	name  string
	typ   cty.Type
	opts  slot.Options
	start int
	count int
}

// EnableDynamicInputs opts the node into a variable-arity input group. The
// group begins after the inputs declared so far; those remain the node's
// static slots. Enabling twice is reported and ignored.
func (n *Node) EnableDynamicInputs(name string, ty cty.Type, opts slot.Options) {
	if n.dyn != nil {
		n.diags.Errorf(context.Background(), "dynamic inputs already enabled",
			"node %s: dynamic group %q exists", n.name, n.dyn.name)
		return
	}
	n.dyn = &dynamicGroup{name: name, typ: ty, opts: opts, start: len(n.inputs)}
}

// HasDynamicInputs reports whether the node carries a dynamic input group.
func (n *Node) HasDynamicInputs() bool { return n.dyn != nil }

// DynamicStart returns the index of the first dynamic slot. Mirroring and
// other static-slot machinery must not touch indices at or past it.
func (n *Node) DynamicStart() int {
	if n.dyn == nil {
		return len(n.inputs)
	}
	return n.dyn.start
}

// DynamicCount returns the current size of the dynamic group. This is the
// only group state the document layer persists.
func (n *Node) DynamicCount() int {
	if n.dyn == nil {
		return 0
	}
	return n.dyn.count
}

// AddDynamicInput appends one slot to the dynamic group at the next free
// index and rebuilds the node's presentation. It returns the new slot index,
// or -1 when no group is enabled.
func (n *Node) AddDynamicInput(ctx context.Context) int {
	if n.dyn == nil {
		n.diags.Errorf(ctx, "cannot grow dynamic inputs",
			"node %s: no dynamic input group enabled", n.name)
		return -1
	}
	idx := n.dyn.start + n.dyn.count
	n.DeclareInput(idx, fmt.Sprintf("%s %d", n.dyn.name, n.dyn.count+1), n.dyn.typ, n.dyn.opts)
	n.dyn.count++
	ctxlog.FromContext(ctx).Debug("Dynamic input slot added.", "node", n.name, "slot", idx)
	n.refreshPresentation()
	n.Reset(ctx)
	return idx
}

// RemoveDynamicInput removes the highest-indexed slot in the dynamic group,
// severing any connection to it first. Shrinking an empty group is reported
// and ignored.
func (n *Node) RemoveDynamicInput(ctx context.Context) {
	if n.dyn == nil || n.dyn.count == 0 {
		n.diags.Errorf(ctx, "cannot shrink dynamic inputs",
			"node %s: dynamic input group is empty", n.name)
		return
	}
	idx := n.dyn.start + n.dyn.count - 1
	if !n.RemoveInput(ctx, idx) {
		return
	}
	n.dyn.count--
	ctxlog.FromContext(ctx).Debug("Dynamic input slot removed.", "node", n.name, "slot", idx)
	n.refreshPresentation()
	n.Reset(ctx)
}

// SetDynamicCount grows or shrinks the group to the given size. The document
// loader uses it to reconstruct the group from the persisted counter.
func (n *Node) SetDynamicCount(ctx context.Context, count int) {
	if n.dyn == nil {
		n.diags.Errorf(ctx, "cannot size dynamic inputs",
			"node %s: no dynamic input group enabled", n.name)
		return
	}
	if count < 0 {
		n.diags.Errorf(ctx, "cannot size dynamic inputs",
			"node %s: negative count %d", n.name, count)
		return
	}
	for n.dyn.count < count {
		n.AddDynamicInput(ctx)
	}
	for n.dyn.count > count {
		n.RemoveDynamicInput(ctx)
	}
}
