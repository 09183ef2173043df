package app

import (
	"github.com/vk/geonodego/internal/registry"
	"github.com/vk/geonodego/modules/calc"
	"github.com/vk/geonodego/modules/duplicate"
	"github.com/vk/geonodego/modules/merge"
	"github.com/vk/geonodego/modules/pointgrid"
	"github.com/vk/geonodego/modules/value"
)

// coreModules is the definitive list of all node-kind modules that are
// compiled into the geonodego binary.
var coreModules = []registry.Module{
	&value.Module{},
	&calc.Module{},
	&pointgrid.Module{},
	&duplicate.Module{},
	&merge.Module{},
}
