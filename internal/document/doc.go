// Package document persists graphs as HCL. A document declares node
// instances (kind, per-slot parameter overrides, dynamic input counts) and
// the connections between their slots; loading one rebuilds the graph
// through the kind registry, and saving one serializes a live graph back to
// the same grammar.
package document
