// Package spatial holds the concrete renderable entities that flow through
// the node graph as output values. Entities are plain point-cloud carriers:
// a transform, a set of points, and a free-form attribute bag.
package spatial

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/copystructure"
)

// Vec3 is a point or offset in model space.
type Vec3 [3]float64

// Entity is a spawned spatial object. An Entity must never be shared by
// identity between two owners: hand-offs go through Clone, which deep-copies
// the payload and mints a fresh ID.
type Entity struct {
	ID       uuid.UUID
	Name     string
	Position Vec3
	Rotation Vec3
	Scale    Vec3
	Points   []Vec3
	Attrs    map[string]string

	disposed bool
}

// NewEntity returns an entity with identity scale and a fresh ID.
func NewEntity(name string) *Entity {
	return &Entity{
		ID:    uuid.New(),
		Name:  name,
		Scale: Vec3{1, 1, 1},
		Attrs: map[string]string{},
	}
}

// Clone returns a deep copy of the entity under a new identity. Mutating the
// clone never affects the original, and vice versa.
func (e *Entity) Clone() *Entity {
	points, err := copystructure.Copy(e.Points)
	if err != nil {
		// Points is a slice of fixed arrays; a copy failure is a programmer error.
		panic(fmt.Sprintf("spatial: cannot copy entity points: %v", err))
	}
	attrs, err := copystructure.Copy(e.Attrs)
	if err != nil {
		panic(fmt.Sprintf("spatial: cannot copy entity attributes: %v", err))
	}
	dup := *e
	dup.ID = uuid.New()
	dup.disposed = false
	dup.Points, _ = points.([]Vec3)
	dup.Attrs, _ = attrs.(map[string]string)
	return &dup
}

// Translate offsets the entity's position.
func (e *Entity) Translate(dx, dy, dz float64) {
	e.Position[0] += dx
	e.Position[1] += dy
	e.Position[2] += dz
}

// AddPoint appends a point to the entity's payload.
func (e *Entity) AddPoint(x, y, z float64) {
	e.Points = append(e.Points, Vec3{x, y, z})
}

// Dispose releases the entity's payload. Disposal is idempotent.
func (e *Entity) Dispose() {
	e.disposed = true
	e.Points = nil
	e.Attrs = nil
}

// Disposed reports whether Dispose has been called.
func (e *Entity) Disposed() bool {
	return e.disposed
}

func (e *Entity) String() string {
	return fmt.Sprintf("entity %q (%d points) at %v", e.Name, len(e.Points), e.Position)
}
