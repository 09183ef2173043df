package app

import (
	"fmt"

	"github.com/vk/geonodego/internal/graph"
	"github.com/vk/geonodego/internal/slot"
	"github.com/xlab/treeprint"
)

// renderTree renders the graph structure as a tree: one branch per node,
// with its input wiring and output types.
func (a *App) renderTree(g *graph.Graph) string {
	tree := treeprint.New()
	tree.SetValue("graph")

	for _, n := range g.Nodes() {
		branch := tree.AddBranch(fmt.Sprintf("%s (%s)", n.Name(), n.Kind()))
		inbound := g.Producers(n)

		if n.InputCount() > 0 {
			inputs := branch.AddBranch("inputs")
			for i := 0; i < n.InputCount(); i++ {
				spec, ok := n.Input(i)
				if !ok {
					continue
				}
				label := fmt.Sprintf("%d %s %s", i, spec.Name, slot.TypeName(spec.Type))
				if ep, connected := inbound[i]; connected {
					label += fmt.Sprintf(" <- %s:%d", ep.Producer.Name(), ep.Output)
				} else if v, set := n.Param(i); set {
					label += fmt.Sprintf(" = %s", v.GoString())
				}
				inputs.AddNode(label)
			}
		}

		if n.OutputCount() > 0 {
			outputs := branch.AddBranch("outputs")
			for i := 0; i < n.OutputCount(); i++ {
				spec, ok := n.Output(i)
				if !ok {
					continue
				}
				outputs.AddNode(fmt.Sprintf("%d %s %s", i, spec.Name, slot.TypeName(spec.Type)))
			}
		}
	}

	return tree.String()
}
