package node

import (
	"context"

	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/vk/geonodego/internal/value"
)

// ReadInput resolves the current value sequence for an input slot. A
// connected slot delegates to the producer's output cache; otherwise the
// custom supplier, the user-edited value, and the declared default are
// consulted in that order. An empty result is the canonical "no input"
// value, not an error — generation logic downstream treats it as "produce
// nothing".
func (n *Node) ReadInput(ctx context.Context, idx int) []value.Value {
	spec := n.input(idx)
	if spec == nil {
		n.diags.Errorf(ctx, "read of missing input slot",
			"node %s: no input slot %d", n.name, idx)
		return nil
	}
	if n.ws != nil {
		if producer, out, ok := n.ws.ResolveProducer(n, idx); ok {
			return producer.ReadOutput(ctx, out)
		}
	}
	if n.supplier != nil {
		if vals, ok := n.supplier(idx); ok {
			return vals
		}
	}
	if v, ok := n.params[idx]; ok {
		return []value.Value{value.Prim(v)}
	}
	if spec.Options.Default != nil {
		return []value.Value{value.Prim(*spec.Options.Default)}
	}
	return nil
}

// ReadFirstInput is a convenience for singular reads: the first value of the
// input sequence, if there is one.
func (n *Node) ReadFirstInput(ctx context.Context, idx int) (value.Value, bool) {
	seq := n.ReadInput(ctx, idx)
	if len(seq) == 0 {
		return value.Value{}, false
	}
	return seq[0], true
}

// ReadOutput returns the cached sequence for an output slot. Reading before
// the node is Ready degrades softly to an empty sequence; the readiness
// protocol is expected to be the only legitimate caller. Every entity in the
// result is a fresh duplicate registered with the graph's disposal registry,
// so no two consumers ever share an entity by identity.
func (n *Node) ReadOutput(ctx context.Context, idx int) []value.Value {
	if n.state != Ready {
		ctxlog.FromContext(ctx).Debug("Output read before readiness, returning empty sequence.",
			"node", n.name, "slot", idx, "state", n.state.String())
		return nil
	}
	if n.output(idx) == nil {
		n.diags.Errorf(ctx, "read of missing output slot",
			"node %s: no output slot %d", n.name, idx)
		return nil
	}
	if idx >= len(n.cache) {
		return nil
	}
	cached := n.cache[idx]
	if len(cached) == 0 {
		return nil
	}
	out := make([]value.Value, len(cached))
	for i, v := range cached {
		out[i] = v.CopyFor(n.registrar())
	}
	return out
}

// SetOutput publishes a value sequence for an output slot. Node kinds call
// it from their generation routine; outside Generating the call is reported
// and ignored so a stray write cannot corrupt a published cache.
func (n *Node) SetOutput(ctx context.Context, idx int, vals ...value.Value) {
	if n.state != Generating {
		n.diags.Errorf(ctx, "output written outside generation",
			"node %s: slot %d written in state %s", n.name, idx, n.state)
		return
	}
	if n.output(idx) == nil {
		n.diags.Errorf(ctx, "write to missing output slot",
			"node %s: no output slot %d", n.name, idx)
		return
	}
	n.cache[idx] = vals
}

func (n *Node) registrar() value.Registrar {
	if n.ws == nil {
		return nil
	}
	return n.ws
}
