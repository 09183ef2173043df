package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/geonodego/internal/spatial"
	"github.com/zclconf/go-cty/cty"
)

type recordingRegistrar struct {
	registered []*spatial.Entity
}

func (r *recordingRegistrar) RegisterForDisposal(e *spatial.Entity) {
	r.registered = append(r.registered, e)
}

func TestPrimitiveAccessors(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		f, ok := Number(5).Float()
		require.True(t, ok)
		assert.Equal(t, 5.0, f)
		_, ok = Number(5).Text()
		assert.False(t, ok)
	})

	t.Run("string", func(t *testing.T) {
		s, ok := String("hi").Text()
		require.True(t, ok)
		assert.Equal(t, "hi", s)
	})

	t.Run("bool", func(t *testing.T) {
		b, ok := Bool(true).Truth()
		require.True(t, ok)
		assert.True(t, b)
	})

	t.Run("zero value is null", func(t *testing.T) {
		var v Value
		assert.False(t, v.IsEntity())
		_, ok := v.Float()
		assert.False(t, ok)
		assert.Equal(t, "null", v.String())
	})
}

func TestType(t *testing.T) {
	assert.True(t, Number(1).Type().Equals(cty.Number))
	assert.True(t, String("x").Type().Equals(cty.String))
	assert.True(t, Bool(false).Type().Equals(cty.Bool))
	assert.True(t, Entity(spatial.NewEntity("e")).Type().Equals(EntityType))
}

func TestCopyForPrimitive(t *testing.T) {
	reg := &recordingRegistrar{}
	v := Number(3)
	cp := v.CopyFor(reg)
	f, ok := cp.Float()
	require.True(t, ok)
	assert.Equal(t, 3.0, f)
	assert.Empty(t, reg.registered, "primitives are not registered for disposal")
}

func TestCopyForEntity(t *testing.T) {
	reg := &recordingRegistrar{}
	ent := spatial.NewEntity("source")
	ent.AddPoint(1, 1, 1)

	cp := v2e(t, Entity(ent).CopyFor(reg))

	assert.NotSame(t, ent, cp)
	assert.NotEqual(t, ent.ID, cp.ID)
	assert.Equal(t, ent.Points, cp.Points)
	require.Len(t, reg.registered, 1)
	assert.Same(t, cp, reg.registered[0])

	// A second read yields yet another identity.
	cp2 := v2e(t, Entity(ent).CopyFor(reg))
	assert.NotEqual(t, cp.ID, cp2.ID)
}

func TestCopyForNilRegistrar(t *testing.T) {
	ent := spatial.NewEntity("source")
	cp := Entity(ent).CopyFor(nil)
	assert.NotEqual(t, ent.ID, cp.AsEntity().ID)
}

func TestSequenceHelpers(t *testing.T) {
	seq := []Value{Number(1), String("skip"), Number(2), Entity(spatial.NewEntity("e"))}
	assert.Equal(t, []float64{1, 2}, Floats(seq))
	assert.Len(t, Entities(seq), 1)
}

func v2e(t *testing.T, v Value) *spatial.Entity {
	t.Helper()
	require.True(t, v.IsEntity())
	return v.AsEntity()
}
