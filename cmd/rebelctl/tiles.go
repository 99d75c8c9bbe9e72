package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/common"
)

var tilesCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "tiles",
	Short: "List the New Tab Page tiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		if !s.api.HasHost() {
			return errNoHost
		}

		tiles, ok := currentTiles(s)
		w := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintln(w, faint("tiles are not available yet"))
			return nil
		}
		for i, t := range tiles {
			fmt.Fprintln(w, formatTile(i, t))
		}

		return writeSnapshot(cmd, "tiles", tiles)
	},
}

// currentTiles returns the tiles the observer receives on registration. ok
// is false while the browser has not loaded them.
func currentTiles(s *session) (tiles []common.Tile, ok bool) {
	remove := s.api.Tiles().AddObserver(func(t []common.Tile) { tiles, ok = t, true })
	remove()
	return tiles, ok
}

var tilesAddCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "add <url> [title]",
	Short: "Add a custom tile",
	Long: `Add a custom tile. https:// is prepended to a URL that does not start
with one of the http, https, chrome or rebel schemes.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateTiles(cmd, func(t *common.TilesAPI) {
			title := ""
			if len(args) > 1 {
				title = args[1]
			}
			t.AddTile(args[0], title)
		})
	},
}

var tilesRemoveCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "remove <url>",
	Short: "Remove a custom tile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateTiles(cmd, func(t *common.TilesAPI) { t.RemoveTile(args[0]) })
	},
}

var tilesEditCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "edit <url> <new-url> <new-title>",
	Short: "Change the URL and the title of a custom tile",
	Long: `Change the URL and the title of a custom tile. Passing the tile's
current URL as <new-url> only changes the title.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateTiles(cmd, func(t *common.TilesAPI) { t.EditTile(args[0], args[1], args[2]) })
	},
}

// mutateTiles applies fn and prints the tiles the browser reports afterwards.
func mutateTiles(cmd *cobra.Command, fn func(*common.TilesAPI)) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	if !s.api.HasHost() {
		return errNoHost
	}

	changed := make(chan []common.Tile, 8)
	remove := s.api.Tiles().AddObserver(func(t []common.Tile) { changed <- t })
	defer remove()
	drain(changed)

	fn(s.api.Tiles())
	tiles, err := wait(cmd, s, changed)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for i, t := range tiles {
		fmt.Fprintln(w, formatTile(i, t))
	}
	return writeSnapshot(cmd, "tiles", tiles)
}

func init() { //nolint:gochecknoinits
	tilesCmd.AddCommand(tilesAddCmd, tilesRemoveCmd, tilesEditCmd)
	rootCmd.AddCommand(tilesCmd)
}
