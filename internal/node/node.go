package node

import (
	"context"

	"github.com/vk/geonodego/internal/diag"
	"github.com/vk/geonodego/internal/sched"
	"github.com/vk/geonodego/internal/slot"
	"github.com/vk/geonodego/internal/spatial"
	"github.com/vk/geonodego/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// State is a node's position in the evaluation cycle.
type State int

const (
	// Idle means the cache is invalid and no evaluation has been requested.
	Idle State = iota
	// Requested means preparation started but upstream producers have not
	// been collected yet.
	Requested
	// WaitingOnInputs means the node is suspended until every subscribed
	// producer broadcasts readiness.
	WaitingOnInputs
	// Generating means the node-kind generation routine is running.
	Generating
	// Ready means the cache holds valid, published output.
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requested:
		return "requested"
	case WaitingOnInputs:
		return "waiting-on-inputs"
	case Generating:
		return "generating"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Workspace is the owning graph container, seen from the node's side.
// All edge storage and topological queries live behind this interface.
type Workspace interface {
	// ResolveProducer looks up the connection feeding the given input slot.
	ResolveProducer(n *Node, input int) (producer *Node, output int, ok bool)
	// ListConsumers returns the nodes directly downstream of n.
	ListConsumers(n *Node) []*Node
	// SeverConnection removes the connection into the given input slot, if any.
	SeverConnection(ctx context.Context, n *Node, input int)
	// RegisterForDisposal takes ownership of an entity duplicate created on read.
	RegisterForDisposal(e *spatial.Entity)
}

// GenerateFunc is the node-kind-specific output production routine. It reads
// inputs through n.ReadInput and publishes through n.SetOutput. An error
// degrades to "no output produced"; it never aborts the graph.
type GenerateFunc func(ctx context.Context, n *Node) error

// Node is one computation unit of the graph.
type Node struct {
	kind     string
	name     string
	category string

	inputs  []*slot.Spec
	outputs []*slot.Spec
	dyn     *dynamicGroup

	// params holds user-edited local slot values, keyed by input index.
	// They are part of the persisted document.
	params map[int]cty.Value
	// supplier, when set, answers input reads before params and declared
	// defaults. It is the hook for node kinds that compute their own input
	// values (the custom widget path).
	supplier func(input int) ([]value.Value, bool)

	cache [][]value.Value
	state State

	// pending is the set of producers subscribed to during the current
	// preparation cycle. The readiness barrier re-scans it on every
	// completion notification.
	pending []*Node
	// subscribers are one-shot completion callbacks, drained on broadcast.
	subscribers []func()

	ws    Workspace
	loop  *sched.Loop
	diags *diag.Reporter
	gen   GenerateFunc

	onPresentation func()
}

// New creates a detached node. Slots are declared by the node kind's setup
// routine; the node joins a graph via Attach.
func New(kind, name, category string, gen GenerateFunc) *Node {
	return &Node{
		kind:     kind,
		name:     name,
		category: category,
		params:   make(map[int]cty.Value),
		diags:    &diag.Reporter{},
		gen:      gen,
	}
}

// Attach binds the node to its owning graph container, the shared run loop,
// and the graph's diagnostic reporter. Called by the container when the node
// is added.
func (n *Node) Attach(ws Workspace, loop *sched.Loop, diags *diag.Reporter) {
	n.ws = ws
	n.loop = loop
	if diags != nil {
		n.diags = diags
	}
}

// Kind returns the node's stable kind identifier.
func (n *Node) Kind() string { return n.kind }

// Name returns the human-readable instance name.
func (n *Node) Name() string { return n.name }

// Category returns the presentation category tag.
func (n *Node) Category() string { return n.category }

// State returns the node's position in the evaluation cycle.
func (n *Node) State() State { return n.state }

// IsReady reports whether the cache holds valid, published output.
func (n *Node) IsReady() bool { return n.state == Ready }

// Diagnostics exposes the reporter this node records misuse against.
func (n *Node) Diagnostics() *diag.Reporter { return n.diags }

// OnPresentationChanged registers the hook invoked whenever the node's
// external slot presentation must be rebuilt (dynamic slots added or
// removed, a mirrored type change).
func (n *Node) OnPresentationChanged(fn func()) {
	n.onPresentation = fn
}

// SetInputSupplier installs the custom input-value hook consulted before
// params and declared defaults.
func (n *Node) SetInputSupplier(fn func(input int) ([]value.Value, bool)) {
	n.supplier = fn
}

func (n *Node) refreshPresentation() {
	if n.onPresentation != nil {
		n.onPresentation()
	}
}
