package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/common"
)

type infoReport struct {
	HasHost     bool            `json:"hasHost"`
	Platform    string          `json:"platform"`
	Version     string          `json:"version"`
	Desktop     bool            `json:"desktop"`
	SystemArch  int             `json:"systemArch"`
	BrowserArch int             `json:"browserArch"`
	Features    map[string]bool `json:"features"`
}

func bitness(has, is64, is32 bool) int {
	switch {
	case !has:
		return unknown
	case is64:
		return 64
	case is32:
		return 32
	}
	return unknown
}

func newInfoReport(s *session) infoReport {
	p := s.api.Platform()
	return infoReport{
		HasHost:     s.api.HasHost(),
		Platform:    p.Type().String(),
		Version:     p.Version(),
		Desktop:     p.IsDesktop(),
		SystemArch:  bitness(p.HasSystemArchitecture(), p.Is64BitSystem(), p.Is32BitSystem()),
		BrowserArch: bitness(p.HasBrowserArchitecture(), p.Is64BitBrowser(), p.Is32BitBrowser()),
		Features: map[string]bool{
			"autocomplete": s.caps.Search,
			"network":      s.api.Network().HasNetworkAPI(),
			"platformInfo": s.caps.PlatformInfo,
			"theme":        s.api.Theme().HasThemeAPI(),
			"tiles":        s.caps.Handle,
		},
	}
}

var infoCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "info",
	Short: "Show the browser platform and the native features it supports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		r := newInfoReport(s)
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n", bold("rebel host:"), yesNo(r.HasHost))
		fmt.Fprintf(w, "%s %s %s\n", bold("platform:"), r.Platform, faint(platformKind(s.api.Platform())))
		if r.Version != "" {
			fmt.Fprintf(w, "%s %s\n", bold("version:"), r.Version)
		}
		fmt.Fprintf(w, "%s %s system, %s browser\n", bold("architecture:"), formatBitness(r.SystemArch), formatBitness(r.BrowserArch))
		for _, name := range []string{"autocomplete", "network", "platformInfo", "theme", "tiles"} {
			fmt.Fprintf(w, "  %-13s %s\n", name, yesNo(r.Features[name]))
		}

		return writeSnapshot(cmd, "info", r)
	},
}

func platformKind(p *common.PlatformAPI) string {
	switch {
	case p.IsDesktop():
		return "(desktop)"
	case p.IsMobile():
		return "(mobile)"
	}
	return ""
}

func formatBitness(bits int) string {
	if bits == unknown {
		return faint("unknown")
	}
	return fmt.Sprintf("%d-bit", bits)
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(infoCmd)
}
