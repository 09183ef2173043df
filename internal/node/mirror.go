package node

import (
	"context"

	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// EffectiveInputType is the type an input slot currently carries: the
// connected producer's output type if there is a connection, else the
// input's declared default type.
func (n *Node) EffectiveInputType(idx int) cty.Type {
	spec := n.input(idx)
	if spec == nil {
		return cty.DynamicPseudoType
	}
	if n.ws != nil {
		if producer, out, ok := n.ws.ResolveProducer(n, idx); ok {
			if outSpec := producer.output(out); outSpec != nil {
				return outSpec.Type
			}
		}
	}
	return spec.Type
}

// RefreshMirrors recomputes the effective type of every mirrored static
// input and propagates it to the mirrored output slots. Slots in the dynamic
// group are managed by their counter instead and are skipped. When any
// output type actually changed the node's presentation is rebuilt; the
// return value reports whether that happened.
func (n *Node) RefreshMirrors(ctx context.Context) bool {
	changed := false
	limit := n.DynamicStart()
	for idx, spec := range n.inputs {
		if spec == nil || len(spec.Mirrors) == 0 || idx >= limit {
			continue
		}
		eff := n.EffectiveInputType(idx)
		for _, outIdx := range spec.Mirrors {
			out := n.output(outIdx)
			if out == nil || out.Type.Equals(eff) {
				continue
			}
			ctxlog.FromContext(ctx).Debug("Mirrored output type updated.",
				"node", n.name,
				"input", slotLabel(spec, idx),
				"output", slotLabel(out, outIdx),
				"type", eff.FriendlyName())
			out.Type = eff
			changed = true
		}
	}
	if changed {
		n.refreshPresentation()
	}
	return changed
}
