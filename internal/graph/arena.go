package graph

import (
	"github.com/google/uuid"
	"github.com/vk/geonodego/internal/spatial"
)

// Arena is the disposal registry for spawned entities. Every entity
// duplicate created on an output read is registered here; the arena owns
// nothing else about them and releases them all at once when the graph is
// reset or torn down.
type Arena struct {
	entities map[uuid.UUID]*spatial.Entity
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{entities: make(map[uuid.UUID]*spatial.Entity)}
}

// Register hands ownership of an entity to the arena. Registering the same
// entity twice is harmless.
func (a *Arena) Register(e *spatial.Entity) {
	if e == nil {
		return
	}
	a.entities[e.ID] = e
}

// Len reports how many entities the arena currently owns.
func (a *Arena) Len() int {
	return len(a.entities)
}

// Release disposes every registered entity and empties the arena.
func (a *Arena) Release() {
	for id, e := range a.entities {
		e.Dispose()
		delete(a.entities, id)
	}
}

// RegisterForDisposal lets the Graph forward node.Workspace registrations
// straight to its arena.
func (g *Graph) RegisterForDisposal(e *spatial.Entity) {
	g.arena.Register(e)
}
