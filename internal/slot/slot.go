// Package slot defines the metadata a node declares for each of its typed
// attachment points: a name, a value type, widget options, and — for inputs —
// the output slots whose type must mirror the input's effective type.
package slot

import (
	"github.com/zclconf/go-cty/cty"
)

// Options carries the declaration-time extras for a slot: a default value
// for unconnected inputs and presentation hints for the widget layer.
type Options struct {
	// Default is the locally supplied value used when an input has neither
	// a connection nor a user-set override. Nil means "no data".
	Default *cty.Value
	// Min and Max bound numeric widgets. Nil leaves the bound open.
	Min *float64
	Max *float64
	// Hint is a free-form widget hint ("slider", "filename", ...).
	Hint string
}

// DefaultNumber builds Options with a numeric default.
func DefaultNumber(f float64) Options {
	v := cty.NumberFloatVal(f)
	return Options{Default: &v}
}

// DefaultString builds Options with a string default.
func DefaultString(s string) Options {
	v := cty.StringVal(s)
	return Options{Default: &v}
}

// DefaultBool builds Options with a boolean default.
func DefaultBool(b bool) Options {
	v := cty.BoolVal(b)
	return Options{Default: &v}
}

// Spec declares one input or output slot.
type Spec struct {
	// Name is the human-readable slot label.
	Name string
	// Type is the declared value type. For mirrored outputs this is the
	// current effective type and changes as connections come and go.
	Type cty.Type
	// Options holds defaults and widget hints.
	Options Options
	// Mirrors lists, for an input slot, the output slot indices whose
	// declared type tracks this input's effective type. Empty for outputs
	// and for statically typed inputs.
	Mirrors []int
}
