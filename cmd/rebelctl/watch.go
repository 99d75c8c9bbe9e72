package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/cdp"
	"github.com/rebel-browser/browser-api/common"
)

// eventPrinter serializes the output of observers called from the host's
// dispatch goroutine and the command's own.
type eventPrinter struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func (p *eventPrinter) printf(kind, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "%s %s %s\n", faint(p.now().Format("15:04:05")), yellow(fmt.Sprintf("%-12s", kind)), fmt.Sprintf(format, args...))
}

// watch registers observers printing every change s reports and returns a
// function removing them.
func (p *eventPrinter) watch(s *session) func() {
	removers := []func(){
		s.api.Network().AddWiFiStatusObserver(func(st common.WiFiStatus) {
			p.printf("wifi", "%s", formatWiFiStatus(st))
		}),
		s.api.Tiles().AddObserver(func(tiles []common.Tile) {
			p.printf("tiles", "%d tiles", len(tiles))
		}),
		s.api.Theme().AddThemeObserver(func(th common.Theme) {
			bg := th.Background.ImageURL
			if bg == "" {
				bg = "no background"
			}
			p.printf("theme", "dark mode %s, %s, color %d", yesNo(th.DarkModeEnabled), bg, th.Colors.ColorID)
		}),
		s.api.Autocomplete().AddObserver(func(r common.AutocompleteResult) {
			p.printf("autocomplete", "%q: %d matches", r.Input, len(r.Matches))
		}),
	}

	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

var watchCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "watch",
	Short: "Print the changes the browser reports until interrupted",
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

		p := &eventPrinter{w: cmd.OutOrStdout(), now: time.Now}
		defer p.watch(s)()

		select {
		case <-cmd.Context().Done():
			return nil
		case <-s.client.Done():
			p.printf("browser", "%s", red("connection lost"))
			return cdp.ErrClosed
		}
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(watchCmd)
}
