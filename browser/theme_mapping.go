package browser

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/rebel-browser/browser-api/api"
	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/host"
)

// mapTheme to the JS module.
func mapTheme(mr moduleRuntime, t api.ThemeAPI) mapping {
	return mapping{
		"hasThemeAPI": t.HasThemeAPI,
		"getDefaultBackground": func() goja.Value {
			return mr.toJSValue(t.DefaultBackground())
		},
		"getDefaultColors": func() goja.Value {
			return mr.toJSValue(t.DefaultColors())
		},
		"getColors": func() goja.Value {
			colors := t.Colors()
			if colors == nil {
				colors = []common.Color{}
			}
			return mr.toJSValue(colors)
		},
		"getState": func() string {
			return t.State().String()
		},
		"addThemeObserver": func(observer goja.Value) (func(), error) {
			return mr.addObserver("theme.addThemeObserver", mr.hasHost, observer, func(notify func(any)) func() {
				return t.AddThemeObserver(func(th common.Theme) { notify(th) })
			})
		},
		"showOrHideCustomizeMenu": t.ShowOrHideCustomizeMenu,
		"previewBackgroundImage": func(collectionID string, image goja.Value) error {
			if !gojaValueExists(image) {
				t.PreviewBackgroundImage(collectionID, nil)
				return nil
			}
			var bg common.PartialBackgroundImage
			if err := exportTo(image, &bg); err != nil {
				return fmt.Errorf("theme.previewBackgroundImage: %w", err)
			}
			t.PreviewBackgroundImage(collectionID, &bg)
			return nil
		},
		"previewColor": func(colorID int, color []int) {
			var rgba host.RGBA
			copy(rgba[:], color)
			t.PreviewColor(colorID, rgba)
		},
		"commitPendingChanges": t.CommitPendingChanges,
		"revertPendingChanges": t.RevertPendingChanges,
	}
}
