package app

import (
	"github.com/vk/gridframe/internal/catalog"
	"github.com/vk/gridframe/modules/capacity/genretlin"
	"github.com/vk/gridframe/modules/capacity/genspec"
	"github.com/vk/gridframe/modules/operational/genvar"
	"github.com/vk/gridframe/modules/operational/mustrun"
	"github.com/vk/gridframe/modules/reliability/energyonly"
	"github.com/vk/gridframe/modules/reserve/lfdown"
	"github.com/vk/gridframe/modules/txcapacity/txspec"
	"github.com/vk/gridframe/modules/txoperational/txsimple"
)

// coreModules is the definitive list of all type modules that are compiled
// into the gridframe binary.
var coreModules = []catalog.Module{
	&genspec.Module{},
	&genretlin.Module{},
	&mustrun.Module{},
	&genvar.Module{},
	&energyonly.Module{},
	&txspec.Module{},
	&txsimple.Module{},
	&lfdown.Module{},
}
