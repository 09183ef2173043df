package node

import (
	"context"

	"github.com/vk/geonodego/internal/ctxlog"
)

// Reset invalidates this node's cache and cascades forward through every
// downstream consumer, transitively. The cascade is unconditional: it does
// not try to prove the downstream result would actually change.
func (n *Node) Reset(ctx context.Context) {
	n.InvalidateCache(ctx)
	if n.ws == nil {
		return
	}
	for _, consumer := range n.ws.ListConsumers(n) {
		consumer.Reset(ctx)
	}
}

// InvalidateCache drops the cached outputs, disposing any spawned entities
// the cache still owns, and returns the node to Idle. Subscribers from an
// interrupted cycle are kept; they are notified when the node next becomes
// ready.
func (n *Node) InvalidateCache(ctx context.Context) {
	for _, seq := range n.cache {
		for _, v := range seq {
			if v.IsEntity() {
				v.AsEntity().Dispose()
			}
		}
	}
	n.cache = nil
	n.pending = nil
	if n.state != Idle {
		ctxlog.FromContext(ctx).Debug("Cache invalidated.", "node", n.name, "from", n.state.String())
	}
	n.state = Idle
}
