package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/vk/geonodego/internal/diag"
	"github.com/vk/geonodego/internal/node"
	"github.com/vk/geonodego/internal/sched"
)

// endpoint addresses one slot on one node.
type endpoint struct {
	node *node.Node
	slot int
}

// Graph owns a set of named nodes, the connections between their slots, and
// the disposal arena for entity duplicates.
type Graph struct {
	loop  *sched.Loop
	diags *diag.Reporter

	nodes map[string]*node.Node
	order []string

	// inbound maps a consumer's input slot to the producer endpoint feeding
	// it. The at-most-one-inbound invariant is the map key.
	inbound map[*node.Node]map[int]endpoint

	arena *Arena
}

// New creates an empty graph scheduled on the given loop.
func New(loop *sched.Loop, diags *diag.Reporter) *Graph {
	if diags == nil {
		diags = &diag.Reporter{}
	}
	return &Graph{
		loop:    loop,
		diags:   diags,
		nodes:   make(map[string]*node.Node),
		inbound: make(map[*node.Node]map[int]endpoint),
		arena:   NewArena(),
	}
}

// Loop returns the run loop all evaluation is scheduled on.
func (g *Graph) Loop() *sched.Loop { return g.loop }

// Diagnostics returns the reporter shared by the graph and its nodes.
func (g *Graph) Diagnostics() *diag.Reporter { return g.diags }

// Arena returns the disposal registry for entity duplicates.
func (g *Graph) Arena() *Arena { return g.arena }

// Add registers a node under its instance name and attaches it to this
// container. Names must be unique within the graph.
func (g *Graph) Add(n *node.Node) error {
	if _, exists := g.nodes[n.Name()]; exists {
		return fmt.Errorf("node %q already exists in graph", n.Name())
	}
	n.Attach(g, g.loop, g.diags)
	g.nodes[n.Name()] = n
	g.order = append(g.order, n.Name())
	return nil
}

// Node looks a node up by instance name.
func (g *Graph) Node(name string) (*node.Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*node.Node {
	out := make([]*node.Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Connect wires a producer output slot to a consumer input slot. An existing
// connection into the same input is severed first, keeping at most one
// inbound edge per input slot. A connection that would close a cycle is
// rejected: acyclicity is a correctness precondition of the evaluation
// engine, so it is enforced here at the only place edges are created. On
// success the consumer's mirrored types are recomputed and the consumer's
// subtree is invalidated.
func (g *Graph) Connect(ctx context.Context, producer *node.Node, output int, consumer *node.Node, input int) error {
	if producer == nil || consumer == nil {
		return fmt.Errorf("connect: nil node")
	}
	if !g.owns(producer) || !g.owns(consumer) {
		return fmt.Errorf("connect: %s -> %s: node not in graph", producer.Name(), consumer.Name())
	}
	if _, ok := producer.Output(output); !ok {
		return fmt.Errorf("connect: node %q has no output slot %d", producer.Name(), output)
	}
	if _, ok := consumer.Input(input); !ok {
		return fmt.Errorf("connect: node %q has no input slot %d", consumer.Name(), input)
	}
	if producer == consumer {
		return fmt.Errorf("connect: self-referential connection on %q", producer.Name())
	}
	if g.reaches(producer, consumer) {
		return fmt.Errorf("connect: %s -> %s would create a cycle", producer.Name(), consumer.Name())
	}

	if g.inbound[consumer] == nil {
		g.inbound[consumer] = make(map[int]endpoint)
	}
	g.inbound[consumer][input] = endpoint{node: producer, slot: output}
	ctxlog.FromContext(ctx).Debug("Connection made.",
		"producer", producer.Name(), "output", output,
		"consumer", consumer.Name(), "input", input)

	g.refreshMirrors(ctx, consumer)
	consumer.Reset(ctx)
	return nil
}

// Disconnect removes the connection into a consumer's input slot, if any,
// then recomputes mirrors and invalidates the consumer's subtree.
func (g *Graph) Disconnect(ctx context.Context, consumer *node.Node, input int) {
	if _, ok := g.inbound[consumer][input]; !ok {
		return
	}
	delete(g.inbound[consumer], input)
	ctxlog.FromContext(ctx).Debug("Connection severed.",
		"consumer", consumer.Name(), "input", input)
	g.refreshMirrors(ctx, consumer)
	consumer.Reset(ctx)
}

// refreshMirrors recomputes a node's mirrored slot types and, when an output
// type actually changed, continues into that node's own consumers: a mirrored
// output feeding another mirrored input must propagate through the whole
// chain. The walk is change-gated and the graph acyclic, so it terminates.
func (g *Graph) refreshMirrors(ctx context.Context, n *node.Node) {
	if !n.RefreshMirrors(ctx) {
		return
	}
	for _, consumer := range g.ListConsumers(n) {
		g.refreshMirrors(ctx, consumer)
	}
}

// Remove deletes a node: every connection touching it is severed, its
// consumers are invalidated, its cache (and owned entities) released.
func (g *Graph) Remove(ctx context.Context, name string) error {
	n, ok := g.nodes[name]
	if !ok {
		return fmt.Errorf("remove: no node %q in graph", name)
	}

	consumers := g.ListConsumers(n)
	for _, consumer := range consumers {
		for input, ep := range g.inbound[consumer] {
			if ep.node == n {
				delete(g.inbound[consumer], input)
			}
		}
	}
	delete(g.inbound, n)

	for _, consumer := range consumers {
		g.refreshMirrors(ctx, consumer)
		consumer.Reset(ctx)
	}

	n.InvalidateCache(ctx)
	delete(g.nodes, name)
	for i, existing := range g.order {
		if existing == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	ctxlog.FromContext(ctx).Debug("Node removed.", "node", name)
	return nil
}

// ResetAll invalidates every node and releases the disposal arena. This is
// the graph-wide teardown used when a document is reloaded.
func (g *Graph) ResetAll(ctx context.Context) {
	for _, n := range g.Nodes() {
		n.InvalidateCache(ctx)
	}
	g.arena.Release()
}

// --- node.Workspace ---

// ResolveProducer implements node.Workspace.
func (g *Graph) ResolveProducer(n *node.Node, input int) (*node.Node, int, bool) {
	ep, ok := g.inbound[n][input]
	if !ok {
		return nil, 0, false
	}
	return ep.node, ep.slot, true
}

// ListConsumers implements node.Workspace, returning the distinct nodes
// directly downstream of n in name order.
func (g *Graph) ListConsumers(n *node.Node) []*node.Node {
	seen := make(map[*node.Node]struct{})
	var out []*node.Node
	for consumer, eps := range g.inbound {
		for _, ep := range eps {
			if ep.node == n {
				if _, dup := seen[consumer]; !dup {
					seen[consumer] = struct{}{}
					out = append(out, consumer)
				}
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// SeverConnection implements node.Workspace. Nodes call it when an input
// slot is removed while connected.
func (g *Graph) SeverConnection(ctx context.Context, n *node.Node, input int) {
	g.Disconnect(ctx, n, input)
}

// Inbound describes one connection feeding a consumer input slot.
type Inbound struct {
	Producer *node.Node
	Output   int
}

// Producers returns a consumer's inbound connections keyed by input slot.
// The inspect view and the document saver use it to enumerate edges.
func (g *Graph) Producers(n *node.Node) map[int]Inbound {
	out := make(map[int]Inbound, len(g.inbound[n]))
	for input, ep := range g.inbound[n] {
		out[input] = Inbound{Producer: ep.node, Output: ep.slot}
	}
	return out
}

func (g *Graph) owns(n *node.Node) bool {
	got, ok := g.nodes[n.Name()]
	return ok && got == n
}

// reaches reports whether target is reachable from start by following
// outgoing connections. Used to reject edges that would close a cycle.
func (g *Graph) reaches(target, start *node.Node) bool {
	if target == start {
		return true
	}
	visited := make(map[*node.Node]bool)
	var visit func(n *node.Node) bool
	visit = func(n *node.Node) bool {
		if n == target {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, consumer := range g.ListConsumers(n) {
			if visit(consumer) {
				return true
			}
		}
		return false
	}
	return visit(start)
}
