package api

import "github.com/rebel-browser/browser-api/common"

// TilesAPI is the public interface of the New Tab Page tiles feature.
type TilesAPI interface {
	AddObserver(fn func([]common.Tile)) func()
	AddTile(url, title string)
	EditTile(oldURL, newURL, newTitle string)
	RemoveTile(url string)
}
