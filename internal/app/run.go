package app

import (
	"context"
	"fmt"

	"github.com/vk/geonodego/internal/ctxlog"
	"github.com/vk/geonodego/internal/diag"
	"github.com/vk/geonodego/internal/document"
	"github.com/vk/geonodego/internal/graph"
	"github.com/vk/geonodego/internal/node"
	"github.com/vk/geonodego/internal/sched"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	doc, err := document.Load(ctx, a.fsys, appConfig.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph document: %w", err)
	}

	loop := sched.NewLoop()
	diags := &diag.Reporter{}
	g, err := document.Build(ctx, doc, a.registry, loop, diags)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	a.logger.Debug("Graph built.", "node_count", len(g.Nodes()))

	if appConfig.Inspect {
		fmt.Fprint(a.outW, a.renderTree(g))
		return nil
	}

	targets, err := a.resolveTargets(g, appConfig.Target)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		a.logger.Warn("No nodes found in graph, evaluation not required.")
	}

	for _, target := range targets {
		target.PrepareOutput(ctx)
		loop.Drain()
		a.printOutputs(ctx, target)
	}

	for _, d := range diags.Diagnostics() {
		a.logger.Warn("Diagnostic raised during evaluation.", "diagnostic", d.String())
	}

	if appConfig.SavePath != "" {
		if err := document.Save(ctx, a.fsys, appConfig.SavePath, g); err != nil {
			return err
		}
		a.logger.Info("Graph document saved.", "path", appConfig.SavePath)
	}

	g.ResetAll(ctx)
	a.logger.Debug("App.Run method finished.")
	return nil
}

// resolveTargets picks the nodes to evaluate: the named node when a target
// is given, otherwise every sink (a node nothing consumes from).
func (a *App) resolveTargets(g *graph.Graph, target string) ([]*node.Node, error) {
	if target != "" {
		n, ok := g.Node(target)
		if !ok {
			return nil, fmt.Errorf("no node %q in graph", target)
		}
		return []*node.Node{n}, nil
	}
	var sinks []*node.Node
	for _, n := range g.Nodes() {
		if len(g.ListConsumers(n)) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks, nil
}

// printOutputs writes one line per output item, grouped by slot.
func (a *App) printOutputs(ctx context.Context, n *node.Node) {
	fmt.Fprintf(a.outW, "%s (%s)\n", n.Name(), n.Kind())
	for i := 0; i < n.OutputCount(); i++ {
		spec, ok := n.Output(i)
		if !ok {
			continue
		}
		items := n.ReadOutput(ctx, i)
		if len(items) == 0 {
			fmt.Fprintf(a.outW, "  %s: (no data)\n", spec.Name)
			continue
		}
		for _, item := range items {
			fmt.Fprintf(a.outW, "  %s: %s\n", spec.Name, item.String())
		}
	}
}
