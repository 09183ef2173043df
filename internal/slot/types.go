// This file maps the slot-type keywords used in graph documents and CLI
// output (`bool`, `number`, `string`, `entity`, `any`) to their cty.Type
// equivalents.

package slot

import (
	"fmt"

	"github.com/vk/geonodego/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// TypeFromName resolves a slot-type keyword to its cty.Type.
func TypeFromName(name string) (cty.Type, error) {
	switch name {
	case "bool":
		return cty.Bool, nil
	case "number":
		return cty.Number, nil
	case "string":
		return cty.String, nil
	case "entity":
		return value.EntityType, nil
	case "any":
		return cty.DynamicPseudoType, nil
	default:
		return cty.DynamicPseudoType, fmt.Errorf("unknown slot type %q", name)
	}
}

// TypeName returns the keyword for a slot type, falling back to the type's
// own friendly name for anything outside the slot grammar.
func TypeName(ty cty.Type) string {
	switch {
	case ty.Equals(cty.Bool):
		return "bool"
	case ty.Equals(cty.Number):
		return "number"
	case ty.Equals(cty.String):
		return "string"
	case ty.Equals(value.EntityType):
		return "entity"
	case ty.Equals(cty.DynamicPseudoType):
		return "any"
	default:
		return ty.FriendlyName()
	}
}
