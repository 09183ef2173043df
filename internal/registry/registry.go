// Package registry is the glue between node-kind identifiers appearing in
// graph documents and the compiled Go code implementing each kind. It is
// populated once at startup by the built-in modules; instantiating a node
// from a document is a registry lookup plus the kind's slot setup.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/geonodego/internal/node"
)

// Kind describes one node kind: its stable identifier, presentation
// category, slot declarations, and generation routine.
type Kind struct {
	// Name is the stable kind identifier used in documents.
	Name string
	// Category groups kinds for presentation.
	Category string
	// Description is shown in kind listings.
	Description string
	// Setup declares the kind's input and output slots on a fresh node.
	Setup func(n *node.Node)
	// Generate is the kind's output-production routine.
	Generate node.GenerateFunc
}

// Registry stores all registered node kinds.
type Registry struct {
	kinds map[string]Kind
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// RegisterKind adds a kind to the registry. Registering the same identifier
// twice is a programmer error and panics at startup.
func (r *Registry) RegisterKind(k Kind) {
	if _, exists := r.kinds[k.Name]; exists {
		panic(fmt.Sprintf("node kind %q already registered", k.Name))
	}
	slog.Debug("Registering node kind.", "kind", k.Name, "category", k.Category)
	r.kinds[k.Name] = k
}

// Kind looks a kind up by identifier.
func (r *Registry) Kind(name string) (Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Kinds returns all registered kinds sorted by identifier.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.kinds))
	for _, k := range r.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NewNode instantiates a node of the given kind with its slots declared.
func (r *Registry) NewNode(kind, name string) (*node.Node, error) {
	k, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}
	n := node.New(k.Name, name, k.Category, k.Generate)
	if k.Setup != nil {
		k.Setup(n)
	}
	return n, nil
}

// Module is the registration hook each built-in node-kind package exports.
type Module interface {
	Register(r *Registry)
}
