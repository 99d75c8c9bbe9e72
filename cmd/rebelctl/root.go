package main

import (
	"regexp"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/env"
	"github.com/rebel-browser/browser-api/log"
)

type rootOptions struct {
	url     string
	launch  string
	output  string
	noColor bool
	verbose bool
}

var opts rootOptions //nolint:gochecknoglobals

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "rebelctl",
	Short: "Inspect and drive the native features of a Rebel browser",
	Long: `rebelctl attaches to the first page of a Rebel browser over the Chrome
DevTools Protocol and talks to the browser through the page's window.rebel
object, the same way the browser's own pages do.

The DevTools endpoint is read from --url or REBEL_CDP_URL, for example
ws://127.0.0.1:9222/devtools/browser/<id>. Without one, the browser at
--launch or REBEL_BROWSER_PATH is started with a temporary profile for the
duration of the command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if opts.noColor {
			color.NoColor = true
		}
	},
}

func init() { //nolint:gochecknoinits
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.url, "url", "", "DevTools websocket URL of the browser (overrides REBEL_CDP_URL)")
	flags.StringVar(&opts.launch, "launch", "", "browser executable to start when no DevTools URL is set (overrides REBEL_BROWSER_PATH)")
	flags.StringVarP(&opts.output, "output", "o", "", "write a JSON snapshot to this file, or to a timestamped file in this directory")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
}

// loadConfig reads the environment and applies the command-line overrides.
func loadConfig() (*env.Config, error) {
	cfg, err := env.Load()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if opts.url != "" {
		cfg.CDP.URL = opts.url
	}
	if opts.launch != "" {
		cfg.Browser.Path = opts.launch
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.CDP.URL == "" && cfg.Browser.Path == "" {
		return nil, errors.Errorf("no DevTools endpoint: set --url or %[1]s_CDP_URL, or --launch or %[1]s_BROWSER_PATH", env.Prefix)
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *env.Config) (*log.Logger, error) {
	lr := logrus.New()
	lr.SetOutput(cmd.ErrOrStderr())

	var filter *regexp.Regexp
	if cfg.Log.CategoryFilter != "" {
		var err error
		if filter, err = regexp.Compile(cfg.Log.CategoryFilter); err != nil {
			return nil, errors.Wrapf(err, "invalid %s_LOG_CATEGORY_FILTER", env.Prefix)
		}
	}
	logger := log.New(lr, filter)
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, errors.Wrapf(err, "invalid %s_LOG_LEVEL", env.Prefix)
	}

	return logger, nil
}
