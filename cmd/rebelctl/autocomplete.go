package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/keyboard"
)

var autocompleteOpts struct { //nolint:gochecknoglobals
	open           int
	preventInline  bool
	backgroundTab  bool
}

var autocompleteCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "autocomplete <query>",
	Short: "Show the browser's suggestions for a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		if !s.caps.Search {
			return errors.New("the browser has no search API")
		}

		ac := s.api.Autocomplete()
		results := make(chan common.AutocompleteResult, 8)
		remove := ac.AddObserver(func(r common.AutocompleteResult) {
			if r.Input == args[0] {
				results <- r
			}
		})
		defer remove()

		ac.Query(args[0], autocompleteOpts.preventInline)
		defer ac.Stop()
		res, err := wait(cmd, s, results)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for i, m := range res.Matches {
			fmt.Fprintln(w, formatMatch(i, m))
		}

		if i := autocompleteOpts.open; i >= 0 {
			if i >= len(res.Matches) {
				return errors.Errorf("no match %d", i)
			}
			var modifiers keyboard.ModifierKey
			if autocompleteOpts.backgroundTab {
				modifiers = keyboard.ModifierKeyControl
			}
			ac.OpenMatch(i, res.Matches[i].DestinationURL, false, modifiers)
			fmt.Fprintf(w, "%s %s\n", green("opened"), res.Matches[i].DestinationURL)
		}

		return writeSnapshot(cmd, "autocomplete", res)
	},
}

func init() { //nolint:gochecknoinits
	flags := autocompleteCmd.Flags()
	flags.IntVar(&autocompleteOpts.open, "open", -1, "open the match with this index")
	flags.BoolVar(&autocompleteOpts.preventInline, "prevent-inline", false, "do not ask for inline autocompletion")
	flags.BoolVar(&autocompleteOpts.backgroundTab, "background-tab", false, "open the match in a background tab")
	rootCmd.AddCommand(autocompleteCmd)
}
