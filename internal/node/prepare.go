package node

import (
	"context"

	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/vk/geonodego/internal/value"
)

// Subscribe registers a one-shot completion callback. It is delivered via
// the run loop the next time the node broadcasts readiness; subscribing does
// not itself trigger evaluation.
func (n *Node) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	n.subscribers = append(n.subscribers, fn)
}

// PrepareOutput asks the node to make its outputs available. A Ready node
// re-broadcasts immediately; a node already in flight does nothing, so
// duplicate requests cannot trigger duplicate generation. Otherwise the node
// subscribes to every connected producer that is not yet ready, asks each to
// prepare asynchronously, and suspends until the last one notifies. With no
// pending producers it generates straight away.
func (n *Node) PrepareOutput(ctx context.Context) {
	logger := ctxlog.FromContext(ctx).With("node", n.name)
	switch n.state {
	case Ready:
		logger.Debug("Already ready, re-broadcasting completion.")
		n.broadcast()
		return
	case Requested, WaitingOnInputs, Generating:
		logger.Debug("Preparation already in flight.", "state", n.state.String())
		return
	}

	n.state = Requested
	n.pending = n.pendingProducers()
	if len(n.pending) == 0 {
		n.generate(ctx)
		return
	}

	logger.Debug("Waiting on upstream producers.", "count", len(n.pending))
	n.state = WaitingOnInputs
	for _, p := range n.pending {
		p.Subscribe(func() { n.onProducerReady(ctx) })
		n.post(func(p *Node) func() {
			return func() { p.PrepareOutput(ctx) }
		}(p))
	}
}

// pendingProducers collects the distinct directly-connected producers that
// are not yet ready. A producer feeding several inputs appears once.
func (n *Node) pendingProducers() []*Node {
	if n.ws == nil {
		return nil
	}
	seen := make(map[*Node]struct{})
	var out []*Node
	for idx := range n.inputs {
		producer, _, ok := n.ws.ResolveProducer(n, idx)
		if !ok || producer.IsReady() {
			continue
		}
		if _, dup := seen[producer]; dup {
			continue
		}
		seen[producer] = struct{}{}
		out = append(out, producer)
	}
	return out
}

// onProducerReady is the aggregation barrier. It runs once per producer
// completion, in whatever order siblings finish, and fires generation on the
// notification that observes the fully ready set. Notifications arriving
// after the node left WaitingOnInputs (a reset, or generation already
// triggered) are stale and ignored.
func (n *Node) onProducerReady(ctx context.Context) {
	if n.state != WaitingOnInputs {
		return
	}
	for _, p := range n.pending {
		if !p.IsReady() {
			return
		}
	}
	n.generate(ctx)
}

// generate runs the node kind's production routine, publishes the cache,
// and broadcasts completion. A generation error degrades to empty outputs.
func (n *Node) generate(ctx context.Context) {
	logger := ctxlog.FromContext(ctx).With("node", n.name)
	n.state = Generating
	n.cache = make([][]value.Value, len(n.outputs))
	if n.gen != nil {
		if err := n.gen(ctx, n); err != nil {
			n.diags.Warnf(ctx, "generation failed, publishing empty outputs",
				"node %s: %v", n.name, err)
			for _, seq := range n.cache {
				for _, v := range seq {
					if v.IsEntity() {
						v.AsEntity().Dispose()
					}
				}
			}
			n.cache = make([][]value.Value, len(n.outputs))
		}
	}
	n.state = Ready
	n.pending = nil
	logger.Debug("Outputs published.")
	n.broadcast()
}

// broadcast drains the subscriber list, posting each completion callback to
// the run loop.
func (n *Node) broadcast() {
	subs := n.subscribers
	n.subscribers = nil
	for _, fn := range subs {
		n.post(fn)
	}
}

func (n *Node) post(fn func()) {
	if n.loop != nil {
		n.loop.Post(fn)
		return
	}
	// Detached nodes (tests, headless construction) run work inline.
	fn()
}
