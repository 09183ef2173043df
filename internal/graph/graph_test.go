package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/geonodego/internal/node"
	"github.com/vk/geonodego/internal/sched"
	"github.com/vk/geonodego/internal/slot"
	"github.com/vk/geonodego/internal/spatial"
	"github.com/vk/geonodego/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func newTestGraph() *Graph {
	return New(sched.NewLoop(), nil)
}

func numberNode(t *testing.T, g *Graph, name string, vals ...float64) *node.Node {
	t.Helper()
	n := node.New("source", name, "test", func(ctx context.Context, n *node.Node) error {
		seq := make([]value.Value, len(vals))
		for i, f := range vals {
			seq[i] = value.Number(f)
		}
		n.SetOutput(ctx, 0, seq...)
		return nil
	})
	n.DeclareInput(0, "value", cty.Number, slot.DefaultNumber(0))
	n.DeclareOutput(0, "value", cty.Number, slot.Options{})
	require.NoError(t, g.Add(n))
	return n
}

func TestAddRejectsDuplicateNames(t *testing.T) {
	g := newTestGraph()
	numberNode(t, g, "a", 1)
	err := g.Add(node.New("source", "a", "test", nil))
	assert.ErrorContains(t, err, "already exists")
	assert.Len(t, g.Nodes(), 1)
}

func TestConnectAndResolve(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()
	a := numberNode(t, g, "a", 1)
	b := numberNode(t, g, "b")

	require.NoError(t, g.Connect(ctx, a, 0, b, 0))

	p, out, ok := g.ResolveProducer(b, 0)
	require.True(t, ok)
	assert.Same(t, a, p)
	assert.Equal(t, 0, out)
	assert.Equal(t, []*node.Node{b}, g.ListConsumers(a))
}

func TestConnectValidation(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()
	a := numberNode(t, g, "a", 1)
	b := numberNode(t, g, "b")
	outsider := node.New("source", "outsider", "test", nil)

	t.Run("missing slots", func(t *testing.T) {
		assert.ErrorContains(t, g.Connect(ctx, a, 7, b, 0), "no output slot")
		assert.ErrorContains(t, g.Connect(ctx, a, 0, b, 7), "no input slot")
	})

	t.Run("foreign node", func(t *testing.T) {
		assert.ErrorContains(t, g.Connect(ctx, outsider, 0, b, 0), "not in graph")
	})

	t.Run("self reference", func(t *testing.T) {
		assert.ErrorContains(t, g.Connect(ctx, a, 0, a, 0), "self-referential")
	})
}

func TestConnectRejectsCycles(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()
	a := numberNode(t, g, "a", 1)
	b := numberNode(t, g, "b")
	c := numberNode(t, g, "c")

	require.NoError(t, g.Connect(ctx, a, 0, b, 0))
	require.NoError(t, g.Connect(ctx, b, 0, c, 0))

	err := g.Connect(ctx, c, 0, a, 0)
	assert.ErrorContains(t, err, "cycle")
	_, _, ok := g.ResolveProducer(a, 0)
	assert.False(t, ok, "rejected edge must not be stored")
}

func TestConnectReplacesExistingInbound(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()
	a := numberNode(t, g, "a", 1)
	b := numberNode(t, g, "b", 2)
	c := numberNode(t, g, "c")

	require.NoError(t, g.Connect(ctx, a, 0, c, 0))
	require.NoError(t, g.Connect(ctx, b, 0, c, 0))

	p, _, ok := g.ResolveProducer(c, 0)
	require.True(t, ok)
	assert.Same(t, b, p, "an input slot holds at most one inbound connection")
	assert.Empty(t, g.ListConsumers(a))
}

func TestStructuralChangeInvalidatesConsumerSubtree(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()
	a := numberNode(t, g, "a", 1)
	b := numberNode(t, g, "b")
	c := numberNode(t, g, "c")
	require.NoError(t, g.Connect(ctx, b, 0, c, 0))

	a.PrepareOutput(ctx)
	c.PrepareOutput(ctx)
	g.Loop().Drain()
	require.True(t, a.IsReady())
	require.True(t, c.IsReady())

	require.NoError(t, g.Connect(ctx, a, 0, b, 0))
	assert.False(t, b.IsReady())
	assert.False(t, c.IsReady())
	assert.True(t, a.IsReady(), "the producer side is untouched")
}

func TestDisconnectRevertsMirrorsAndInvalidates(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()

	text := node.New("text", "text", "test", func(ctx context.Context, n *node.Node) error {
		n.SetOutput(ctx, 0, value.String("hi"))
		return nil
	})
	text.DeclareOutput(0, "out", cty.String, slot.Options{})
	require.NoError(t, g.Add(text))

	pipe := node.New("pipe", "pipe", "test", nil)
	pipe.DeclareInput(0, "in", cty.Number, slot.Options{})
	pipe.DeclareOutput(0, "out", cty.Number, slot.Options{})
	pipe.DeclareMirror(0, 0)
	require.NoError(t, g.Add(pipe))

	require.NoError(t, g.Connect(ctx, text, 0, pipe, 0))
	out, _ := pipe.Output(0)
	assert.True(t, out.Type.Equals(cty.String), "connect must propagate the producer type")

	g.Disconnect(ctx, pipe, 0)
	out, _ = pipe.Output(0)
	assert.True(t, out.Type.Equals(cty.Number), "disconnect must revert to the declared type")
	_, _, ok := g.ResolveProducer(pipe, 0)
	assert.False(t, ok)
}

func TestMirrorChangeCascadesThroughMirrorChain(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()

	text := node.New("text", "text", "test", func(ctx context.Context, n *node.Node) error {
		n.SetOutput(ctx, 0, value.String("hi"))
		return nil
	})
	text.DeclareOutput(0, "out", cty.String, slot.Options{})
	require.NoError(t, g.Add(text))

	mirrored := func(name string) *node.Node {
		n := node.New("pipe", name, "test", nil)
		n.DeclareInput(0, "in", cty.Number, slot.Options{})
		n.DeclareOutput(0, "out", cty.Number, slot.Options{})
		n.DeclareMirror(0, 0)
		require.NoError(t, g.Add(n))
		return n
	}
	v1 := mirrored("v1")
	v2 := mirrored("v2")

	// Wire downstream-first: the upstream connection must still reach v2.
	require.NoError(t, g.Connect(ctx, v1, 0, v2, 0))
	require.NoError(t, g.Connect(ctx, text, 0, v1, 0))

	out, _ := v1.Output(0)
	assert.True(t, out.Type.Equals(cty.String))
	out, _ = v2.Output(0)
	assert.True(t, out.Type.Equals(cty.String), "mirrored type must propagate through the chain")

	g.Disconnect(ctx, v1, 0)
	out, _ = v1.Output(0)
	assert.True(t, out.Type.Equals(cty.Number))
	out, _ = v2.Output(0)
	assert.True(t, out.Type.Equals(cty.Number), "revert must propagate through the chain too")
}

func TestRemoveSeversAndInvalidates(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()
	a := numberNode(t, g, "a", 1)
	b := numberNode(t, g, "b")
	require.NoError(t, g.Connect(ctx, a, 0, b, 0))

	b.PrepareOutput(ctx)
	g.Loop().Drain()
	require.True(t, b.IsReady())

	require.NoError(t, g.Remove(ctx, "a"))

	_, ok := g.Node("a")
	assert.False(t, ok)
	assert.False(t, b.IsReady())
	_, _, connected := g.ResolveProducer(b, 0)
	assert.False(t, connected)

	assert.ErrorContains(t, g.Remove(ctx, "a"), "no node")
}

func TestArenaOwnsReadDuplicates(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()

	spawn := node.New("spawn", "spawn", "generate", func(ctx context.Context, n *node.Node) error {
		n.SetOutput(ctx, 0, value.Entity(spatial.NewEntity("seed")))
		return nil
	})
	spawn.DeclareOutput(0, "shape", value.EntityType, slot.Options{})
	require.NoError(t, g.Add(spawn))

	spawn.PrepareOutput(ctx)
	g.Loop().Drain()

	dup := value.Entities(spawn.ReadOutput(ctx, 0))
	require.Len(t, dup, 1)
	assert.Equal(t, 1, g.Arena().Len())

	g.ResetAll(ctx)
	assert.Zero(t, g.Arena().Len())
	assert.True(t, dup[0].Disposed(), "graph reset must release registered duplicates")
	assert.False(t, spawn.IsReady())
}

func TestEndToEndEvaluationThroughContainer(t *testing.T) {
	g := newTestGraph()
	ctx := context.Background()

	a := numberNode(t, g, "a", 2)
	b := numberNode(t, g, "b", 3)
	sum := node.New("calc", "sum", "math", func(ctx context.Context, n *node.Node) error {
		av := value.Floats(n.ReadInput(ctx, 0))
		bv := value.Floats(n.ReadInput(ctx, 1))
		if len(av) == 0 || len(bv) == 0 {
			return nil
		}
		n.SetOutput(ctx, 0, value.Number(av[0]+bv[0]))
		return nil
	})
	sum.DeclareInput(0, "a", cty.Number, slot.Options{})
	sum.DeclareInput(1, "b", cty.Number, slot.Options{})
	sum.DeclareOutput(0, "result", cty.Number, slot.Options{})
	require.NoError(t, g.Add(sum))
	require.NoError(t, g.Connect(ctx, a, 0, sum, 0))
	require.NoError(t, g.Connect(ctx, b, 0, sum, 1))

	sum.PrepareOutput(ctx)
	g.Loop().Drain()

	assert.Equal(t, []float64{5}, value.Floats(sum.ReadOutput(ctx, 0)))
}
