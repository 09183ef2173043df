package document

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/geonodego/internal/diag"
	"github.com/vk/geonodego/internal/node"
	"github.com/vk/geonodego/internal/registry"
	"github.com/vk/geonodego/internal/sched"
	"github.com/vk/geonodego/internal/slot"
	"github.com/vk/geonodego/internal/value"
	"github.com/zclconf/go-cty/cty"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	r.RegisterKind(registry.Kind{
		Name:     "const",
		Category: "Input",
		Setup: func(n *node.Node) {
			n.DeclareInput(0, "Value", cty.Number, slot.DefaultNumber(0))
			n.DeclareOutput(0, "Value", cty.Number, slot.Options{})
			n.DeclareMirror(0, 0)
		},
		Generate: func(ctx context.Context, n *node.Node) error {
			v, ok := n.ReadFirstInput(ctx, 0)
			if ok {
				n.SetOutput(ctx, 0, v)
			}
			return nil
		},
	})
	r.RegisterKind(registry.Kind{
		Name:     "sum",
		Category: "Math",
		Setup: func(n *node.Node) {
			n.EnableDynamicInputs("Term", cty.Number, slot.Options{})
			n.DeclareOutput(0, "Sum", cty.Number, slot.Options{})
		},
		Generate: func(ctx context.Context, n *node.Node) error {
			total := 0.0
			for i := n.DynamicStart(); i < n.DynamicStart()+n.DynamicCount(); i++ {
				for _, f := range value.Floats(n.ReadInput(ctx, i)) {
					total += f
				}
			}
			n.SetOutput(ctx, 0, value.Number(total))
			return nil
		},
	})
	return r
}

const sampleDoc = `
node "const" "a" {
  param "0" {
    value = 2
  }
}

node "const" "b" {
  param "0" {
    value = 3
  }
}

node "sum" "total" {
  dynamic_inputs = 2
}

connect {
  from = "a:0"
  to   = "total:0"
}

connect {
  from = "b:0"
  to   = "total:1"
}
`

func writeDoc(t *testing.T, fsys afero.Fs, name, src string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, name, []byte(src), 0o644))
}

func TestLoadSingleFile(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	writeDoc(t, fsys, "graph.hcl", sampleDoc)

	doc, err := Load(ctx, fsys, "graph.hcl")
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "const", doc.Nodes[0].Kind)
	assert.Equal(t, "a", doc.Nodes[0].Name)
	two := cty.NumberIntVal(2)
	assert.True(t, two.RawEquals(doc.Nodes[0].Params[0]))
	assert.Equal(t, 2, doc.Nodes[2].DynamicInputs)

	require.Len(t, doc.Connections, 2)
	assert.Equal(t, ConnDecl{FromNode: "a", FromSlot: 0, ToNode: "total", ToSlot: 0}, doc.Connections[0])
	assert.Equal(t, ConnDecl{FromNode: "b", FromSlot: 0, ToNode: "total", ToSlot: 1}, doc.Connections[1])
}

func TestLoadDirectoryMergesFiles(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("graphs", 0o755))
	writeDoc(t, fsys, "graphs/nodes.hcl", `
node "const" "a" {}
node "const" "b" {}
`)
	writeDoc(t, fsys, "graphs/wiring.hcl", `
connect {
  from = "a:0"
  to   = "b:0"
}
`)

	doc, err := Load(ctx, fsys, "graphs")
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Connections, 1)
}

func TestLoadRejectsDuplicateNodeNames(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("graphs", 0o755))
	writeDoc(t, fsys, "graphs/one.hcl", `node "const" "a" {}`)
	writeDoc(t, fsys, "graphs/two.hcl", `node "const" "a" {}`)

	_, err := Load(ctx, fsys, "graphs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "a" declared in both`)
}

func TestLoadParamTypeKeyword(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	writeDoc(t, fsys, "graph.hcl", `
node "const" "a" {
  param "0" {
    value = "4.5"
    type  = "number"
  }
}
`)

	doc, err := Load(ctx, fsys, "graph.hcl")
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	v := doc.Nodes[0].Params[0]
	assert.True(t, v.Type().Equals(cty.Number))
}

func TestLoadRejectsUnknownParamType(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	writeDoc(t, fsys, "graph.hcl", `
node "const" "a" {
  param "0" {
    value = 1
    type  = "vector"
  }
}
`)

	_, err := Load(ctx, fsys, "graph.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown slot type "vector"`)
}

func TestLoadRejectsMalformedEndpoint(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	writeDoc(t, fsys, "graph.hcl", `
connect {
  from = "a"
  to   = "b:0"
}
`)
	_, err := Load(ctx, fsys, "graph.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed endpoint")
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(context.Background(), afero.NewMemMapFs(), "nope.hcl")
	assert.Error(t, err)
}

func TestBuildAndEvaluate(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	writeDoc(t, fsys, "graph.hcl", sampleDoc)

	doc, err := Load(ctx, fsys, "graph.hcl")
	require.NoError(t, err)

	loop := sched.NewLoop()
	diags := &diag.Reporter{}
	g, err := Build(ctx, doc, testRegistry(t), loop, diags)
	require.NoError(t, err)

	total, ok := g.Node("total")
	require.True(t, ok)
	total.PrepareOutput(ctx)
	loop.Drain()

	require.True(t, total.IsReady())
	out := total.ReadOutput(ctx, 0)
	require.Len(t, out, 1)
	got, ok := out[0].Float()
	require.True(t, ok)
	assert.InDelta(t, 5.0, got, 1e-9)
	assert.False(t, diags.HasErrors())
}

func TestBuildUnknownKind(t *testing.T) {
	ctx := context.Background()
	doc := &Document{Nodes: []NodeDecl{{Kind: "nope", Name: "x"}}}
	_, err := Build(ctx, doc, testRegistry(t), sched.NewLoop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown node kind "nope"`)
}

func TestBuildUnknownConnectionNode(t *testing.T) {
	ctx := context.Background()
	doc := &Document{
		Nodes:       []NodeDecl{{Kind: "const", Name: "a"}},
		Connections: []ConnDecl{{FromNode: "a", FromSlot: 0, ToNode: "ghost", ToSlot: 0}},
	}
	_, err := Build(ctx, doc, testRegistry(t), sched.NewLoop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown node "ghost"`)
}

func TestBuildRejectsDynamicCountOnStaticKind(t *testing.T) {
	ctx := context.Background()
	doc := &Document{Nodes: []NodeDecl{{Kind: "const", Name: "a", DynamicInputs: 2}}}
	_, err := Build(ctx, doc, testRegistry(t), sched.NewLoop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dynamic input group")
}

func TestBuildConvertsParamToSlotType(t *testing.T) {
	ctx := context.Background()
	doc := &Document{Nodes: []NodeDecl{{
		Kind:   "const",
		Name:   "a",
		Params: map[int]cty.Value{0: cty.StringVal("4.5")},
	}}}
	g, err := Build(ctx, doc, testRegistry(t), sched.NewLoop(), nil)
	require.NoError(t, err)

	n, _ := g.Node("a")
	v, ok := n.Param(0)
	require.True(t, ok)
	assert.True(t, v.Type().Equals(cty.Number))
}

func TestBuildRejectsUnconvertibleParam(t *testing.T) {
	ctx := context.Background()
	doc := &Document{Nodes: []NodeDecl{{
		Kind:   "const",
		Name:   "a",
		Params: map[int]cty.Value{0: cty.StringVal("not a number")},
	}}}
	_, err := Build(ctx, doc, testRegistry(t), sched.NewLoop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot convert")
}

func TestSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	writeDoc(t, fsys, "graph.hcl", sampleDoc)

	doc, err := Load(ctx, fsys, "graph.hcl")
	require.NoError(t, err)
	g, err := Build(ctx, doc, testRegistry(t), sched.NewLoop(), nil)
	require.NoError(t, err)

	require.NoError(t, Save(ctx, fsys, "saved.hcl", g))

	reloaded, err := Load(ctx, fsys, "saved.hcl")
	require.NoError(t, err)

	require.Len(t, reloaded.Nodes, 3)
	assert.Equal(t, doc.Connections, reloaded.Connections)

	byName := make(map[string]NodeDecl)
	for _, n := range reloaded.Nodes {
		byName[n.Name] = n
	}
	assert.Equal(t, 2, byName["total"].DynamicInputs)
	two := cty.NumberIntVal(2)
	assert.True(t, two.RawEquals(byName["a"].Params[0]))
}
