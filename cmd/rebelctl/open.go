package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "open <url>",
	Short: "Load a chrome:// or rebel:// page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		if !s.api.HasHost() {
			return errNoHost
		}
		if !s.api.LoadInternalURL(args[0]) {
			return errors.Errorf("%q is not a chrome:// or rebel:// URL", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("opened"), args[0])

		return nil
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(openCmd)
}
