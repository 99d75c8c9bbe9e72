package browser

import (
	"github.com/dop251/goja"

	"github.com/rebel-browser/browser-api/api"
	"github.com/rebel-browser/browser-api/common"
)

// mapTiles to the JS module.
func mapTiles(mr moduleRuntime, t api.TilesAPI) mapping {
	return mapping{
		"addObserver": func(observer goja.Value) (func(), error) {
			return mr.addObserver("tiles.addObserver", mr.hasHost, observer, func(notify func(any)) func() {
				return t.AddObserver(func(tiles []common.Tile) { notify(tiles) })
			})
		},
		"addTile":    t.AddTile,
		"removeTile": t.RemoveTile,
		"editTile":   t.EditTile,
	}
}
