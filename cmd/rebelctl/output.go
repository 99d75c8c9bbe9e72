package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/storage"
)

//nolint:gochecknoglobals
var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// unknown is the value the browser reports for metrics it does not know.
const unknown = -1

func yesNo(b bool) string {
	if b {
		return green("yes")
	}
	return faint("no")
}

func formatConnectionState(state string) string {
	switch state {
	case common.ConnectionStateConnected:
		return green(state)
	case common.ConnectionStateNotConnected:
		return faint(state)
	}
	return yellow(state)
}

// formatWiFiStatus renders s on one line, leaving out what the browser does
// not know.
func formatWiFiStatus(s common.WiFiStatus) string {
	parts := []string{bold(s.SSID), formatConnectionState(s.ConnectionState)}
	if s.SignalLevel != unknown && s.MaxSignalLevel > 0 {
		parts = append(parts, fmt.Sprintf("signal %g/%g", s.SignalLevel, s.MaxSignalLevel))
	}
	if s.RSSI != unknown {
		parts = append(parts, fmt.Sprintf("%g dBm", s.RSSI))
	}
	if s.Frequency != unknown {
		parts = append(parts, humanize.SI(s.Frequency*1e6, "Hz"))
	}
	if s.LinkSpeed != unknown {
		parts = append(parts, humanize.SI(s.LinkSpeed*1e6, "bps"))
	}
	if s.RxMbps != unknown && s.TxMbps != unknown {
		parts = append(parts, fmt.Sprintf("rx %s tx %s",
			humanize.SI(s.RxMbps*1e6, "bps"), humanize.SI(s.TxMbps*1e6, "bps")))
	}
	if s.BSSID != "" {
		parts = append(parts, faint(s.BSSID))
	}

	return strings.Join(parts, "  ")
}

func formatTile(i int, t common.Tile) string {
	title := t.Title
	if title == "" {
		title = faint("(untitled)")
	}
	return fmt.Sprintf("%2d. %s  %s", i+1, bold(title), t.URL)
}

func formatRGBA(c host.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c[0], c[1], c[2], c[3])
}

func printTheme(w io.Writer, th common.Theme) {
	fmt.Fprintf(w, "%s %s\n", bold("dark mode:"), yesNo(th.DarkModeEnabled))

	bg := th.Background
	switch {
	case bg.ImageURL != "":
		fmt.Fprintf(w, "%s %s %s\n", bold("background:"), bg.ImageURL, faint(bg.ImageAlignment+", "+bg.ImageTiling))
		if bg.CollectionID != "" {
			fmt.Fprintf(w, "  %s %s\n", faint("collection"), bg.CollectionID)
		}
		if line := strings.TrimSpace(bg.AttributionLine1 + " " + bg.AttributionLine2); line != "" {
			fmt.Fprintf(w, "  %s %s\n", faint("by"), line)
		}
	default:
		fmt.Fprintf(w, "%s %s\n", bold("background:"), faint("none"))
	}

	if th.Colors.ColorID == unknown {
		fmt.Fprintf(w, "%s %s\n", bold("color:"), faint("default"))
		return
	}
	fmt.Fprintf(w, "%s %d %s\n", bold("color:"), th.Colors.ColorID, formatRGBA(th.Colors.Color))
}

func formatMatch(i int, m common.AutocompleteMatch) string {
	kind := m.Type
	if m.IsSearchType {
		kind = "search"
	}
	line := fmt.Sprintf("%2d. %s  %s", i, bold(m.Contents), m.DestinationURL)
	if m.Description != "" {
		line += "  " + faint(m.Description)
	}
	if kind != "" {
		line += "  " + yellow("["+kind+"]")
	}
	return line
}

// writeSnapshot persists data when --output is set. An --output ending in
// .json names the file, anything else the directory of a timestamped file.
func writeSnapshot(cmd *cobra.Command, kind string, data any) error {
	if opts.output == "" {
		return nil
	}

	now := time.Now()
	path := opts.output
	if !strings.HasSuffix(path, ".json") {
		path = storage.SnapshotPath(path, kind, now)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	n, err := storage.WriteSnapshot(ctx, &storage.LocalPersister{}, path, storage.Snapshot{
		Kind:    kind,
		TakenAt: now,
		Data:    data,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s snapshot written to %s (%s)\n", kind, path, humanize.Bytes(uint64(n)))

	return nil
}
