// Package value defines the items that flow between node slots. A slot
// carries an ordered sequence of values; each value is either a primitive
// (bool, number, string — copied trivially) or a spawned spatial entity,
// which must be duplicated whenever it crosses an ownership boundary.
package value

import (
	"fmt"
	"reflect"

	"github.com/vk/geonodego/internal/spatial"
	"github.com/zclconf/go-cty/cty"
)

// EntityType is the slot type for spatial-entity values. Primitive slots use
// cty.Bool, cty.Number and cty.String directly.
var EntityType = cty.Capsule("entity", reflect.TypeOf(spatial.Entity{}))

// Registrar receives ownership hand-offs of entity duplicates so they can be
// released when the owning graph is torn down. The graph's disposal arena is
// the production implementation.
type Registrar interface {
	RegisterForDisposal(e *spatial.Entity)
}

// Value is one produced item. The zero Value is a null primitive.
type Value struct {
	prim cty.Value
	ent  *spatial.Entity
}

// Prim wraps a primitive cty value.
func Prim(v cty.Value) Value {
	return Value{prim: v}
}

// Bool wraps a boolean.
func Bool(b bool) Value { return Prim(cty.BoolVal(b)) }

// Number wraps a scalar.
func Number(f float64) Value { return Prim(cty.NumberFloatVal(f)) }

// String wraps a string.
func String(s string) Value { return Prim(cty.StringVal(s)) }

// Entity wraps a spawned spatial entity. The value holds the entity by
// reference; callers must not alias it across consumers themselves — reads
// through a node's output cache handle duplication.
func Entity(e *spatial.Entity) Value {
	return Value{ent: e}
}

// IsEntity reports whether the value is a spatial entity.
func (v Value) IsEntity() bool { return v.ent != nil }

// AsEntity returns the underlying entity, or nil for primitives.
func (v Value) AsEntity() *spatial.Entity { return v.ent }

// AsPrim returns the underlying primitive, or cty.NilVal for entities.
func (v Value) AsPrim() cty.Value {
	if v.ent != nil {
		return cty.NilVal
	}
	return v.prim
}

// Type returns the slot type this value inhabits.
func (v Value) Type() cty.Type {
	if v.ent != nil {
		return EntityType
	}
	if v.prim == cty.NilVal {
		return cty.DynamicPseudoType
	}
	return v.prim.Type()
}

// CopyFor returns a copy of the value safe to hand to a new owner.
// Primitives are returned as-is; entities are deep-duplicated and the
// duplicate is registered with reg for eventual disposal.
func (v Value) CopyFor(reg Registrar) Value {
	if v.ent == nil {
		return v
	}
	dup := v.ent.Clone()
	if reg != nil {
		reg.RegisterForDisposal(dup)
	}
	return Entity(dup)
}

// Float extracts a scalar, reporting false for non-numbers.
func (v Value) Float() (float64, bool) {
	if v.ent != nil || v.prim == cty.NilVal || v.prim.IsNull() || !v.prim.Type().Equals(cty.Number) {
		return 0, false
	}
	f, _ := v.prim.AsBigFloat().Float64()
	return f, true
}

// Text extracts a string, reporting false for non-strings.
func (v Value) Text() (string, bool) {
	if v.ent != nil || v.prim == cty.NilVal || v.prim.IsNull() || !v.prim.Type().Equals(cty.String) {
		return "", false
	}
	return v.prim.AsString(), true
}

// Truth extracts a boolean, reporting false for non-booleans.
func (v Value) Truth() (bool, bool) {
	if v.ent != nil || v.prim == cty.NilVal || v.prim.IsNull() || !v.prim.Type().Equals(cty.Bool) {
		return false, false
	}
	return v.prim.True(), true
}

func (v Value) String() string {
	if v.ent != nil {
		return v.ent.String()
	}
	if v.prim == cty.NilVal || v.prim.IsNull() {
		return "null"
	}
	switch {
	case v.prim.Type().Equals(cty.String):
		return fmt.Sprintf("%q", v.prim.AsString())
	case v.prim.Type().Equals(cty.Number):
		f, _ := v.prim.AsBigFloat().Float64()
		return fmt.Sprintf("%g", f)
	case v.prim.Type().Equals(cty.Bool):
		return fmt.Sprintf("%t", v.prim.True())
	default:
		return v.prim.GoString()
	}
}

// Floats collapses a sequence to its numeric members, in order.
func Floats(seq []Value) []float64 {
	var out []float64
	for _, v := range seq {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Entities collapses a sequence to its entity members, in order.
func Entities(seq []Value) []*spatial.Entity {
	var out []*spatial.Entity
	for _, v := range seq {
		if v.IsEntity() {
			out = append(out, v.AsEntity())
		}
	}
	return out
}
