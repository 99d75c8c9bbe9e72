package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/common"
)

var themeCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "theme",
	Short: "Show the New Tab Page theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		var th common.Theme
		remove := s.api.Theme().AddThemeObserver(func(t common.Theme) { th = t })
		remove()

		printTheme(cmd.OutOrStdout(), th)
		return writeSnapshot(cmd, "theme", th)
	},
}

var themeColorsCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "colors",
	Short: "List the theme colors available for selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		colors := s.api.Theme().Colors()
		if colors == nil {
			return errors.New("the browser has no theme API")
		}
		w := cmd.OutOrStdout()
		for _, c := range colors {
			fmt.Fprintf(w, "%3d  %s  %s\n", c.ColorID, formatRGBA(c.Color), bold(c.Label))
		}

		return writeSnapshot(cmd, "colors", colors)
	},
}

var themeSetColorCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "set-color <color-id>",
	Short: "Select one of the available theme colors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrapf(err, "invalid color id %q", args[0])
		}
		theme := s.api.Theme()
		for _, c := range theme.Colors() {
			if c.ColorID != id {
				continue
			}
			theme.PreviewColor(c.ColorID, c.Color)
			theme.CommitPendingChanges()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("selected"), bold(c.Label))
			return nil
		}

		return errors.Errorf("no theme color %d", id)
	},
}

var themeCustomizeCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "customize",
	Short: "Show or hide the browser's customization menu",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		if !s.api.Theme().HasThemeAPI() {
			return errors.New("the browser has no theme API")
		}
		s.api.Theme().ShowOrHideCustomizeMenu()
		return nil
	},
}

func init() { //nolint:gochecknoinits
	themeCmd.AddCommand(themeColorsCmd, themeSetColorCmd, themeCustomizeCmd)
	rootCmd.AddCommand(themeCmd)
}
