package api

import (
	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/host"
)

// ThemeAPI is the public interface of the theme customization feature.
type ThemeAPI interface {
	AddThemeObserver(fn func(common.Theme)) func()
	Colors() []common.Color
	CommitPendingChanges()
	DefaultBackground() common.BackgroundImage
	DefaultColors() common.ThemeColors
	HasThemeAPI() bool
	PreviewBackgroundImage(collectionID string, image *common.PartialBackgroundImage)
	PreviewColor(colorID int, color host.RGBA)
	RevertPendingChanges()
	ShowOrHideCustomizeMenu()
	State() common.ThemeState
}
