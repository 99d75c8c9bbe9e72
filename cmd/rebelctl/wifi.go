package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/common"
)

var wifiOpts struct { //nolint:gochecknoglobals
	all    bool
	update bool
}

var wifiCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "wifi",
	Short: "Show the WiFi network the browser's device is connected to",
	Long: `Show the WiFi network the browser's device is connected to, or with
--all every network it knows about. With --update the browser rescans before
answering.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		network := s.api.Network()
		if !network.HasNetworkAPI() {
			return errors.New("the browser has no network API")
		}

		// The observer is called right away with the current list when it is
		// not empty, and again after every update.
		statuses := make(chan []common.WiFiStatus, 8)
		remove := network.AddAllWiFiStatusObserver(func(l []common.WiFiStatus) { statuses <- l })
		defer remove()

		var list []common.WiFiStatus
		select {
		case list = <-statuses:
		default:
		}
		if wifiOpts.update {
			drain(statuses)
			network.UpdateWiFiStatus()
			if list, err = wait(cmd, s, statuses); err != nil {
				return err
			}
		}

		w := cmd.OutOrStdout()
		if !wifiOpts.all {
			for _, st := range list {
				if st.IsConnected() {
					fmt.Fprintln(w, formatWiFiStatus(st))
					return writeSnapshot(cmd, "wifi", st)
				}
			}
			fmt.Fprintln(w, faint("not connected"))
			return writeSnapshot(cmd, "wifi", nil)
		}

		for _, st := range list {
			fmt.Fprintln(w, formatWiFiStatus(st))
		}
		return writeSnapshot(cmd, "wifi", list)
	},
}

func drain[T any](ch <-chan T) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func init() { //nolint:gochecknoinits
	wifiCmd.Flags().BoolVarP(&wifiOpts.all, "all", "a", false, "show every known network")
	wifiCmd.Flags().BoolVarP(&wifiOpts.update, "update", "u", false, "ask the browser to rescan first")
	rootCmd.AddCommand(wifiCmd)
}
