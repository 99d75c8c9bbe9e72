package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rebel-browser/browser-api/browserprocess"
	"github.com/rebel-browser/browser-api/cdp"
	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/env"
	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/log"
)

var errNoHost = errors.New("the page is not a Rebel browser page") //nolint:gochecknoglobals

// session is a connection to the first page of the browser and the browser
// API backed by its host object.
type session struct {
	cfg    *env.Config
	logger *log.Logger
	client *cdp.Client
	host   *cdp.Host
	proc   *browserprocess.Process
	api    *common.BrowserAPI
	caps   host.Capabilities
	cancel context.CancelFunc
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	s := &session{cfg: cfg, logger: logger, cancel: cancel}
	if err := s.attach(ctx); err != nil {
		s.close()
		return nil, err
	}

	return s, nil
}

func (s *session) attach(ctx context.Context) error {
	actx, cancel := context.WithTimeout(ctx, s.cfg.CDP.Timeout)
	defer cancel()

	wsURL := s.cfg.CDP.URL
	if wsURL == "" {
		b := s.cfg.Browser
		proc, err := browserprocess.Launch(ctx, b.Path, b.Args, b.StartURL, s.logger)
		if err != nil {
			return err //nolint:wrapcheck
		}
		s.proc, wsURL = proc, proc.WSURL()
	}

	s.client = cdp.NewClient(ctx, s.logger)
	if err := s.client.Connect(wsURL); err != nil {
		return err //nolint:wrapcheck
	}

	actx, err := s.attachToPage(actx)
	if err != nil {
		return err
	}
	// Commands sent by the host must not inherit the attach timeout.
	pctx := cdp.WithSessionID(ctx, cdp.GetSessionID(actx))

	environment, err := cdp.Environment(actx, s.client)
	if err != nil {
		s.logger.Warnf("rebelctl:attach", "reading page environment: %v", err)
	}
	if s.cfg.UserAgent != "" {
		environment = environment.WithUserAgent(s.cfg.UserAgent)
	}

	var handle host.Handle
	s.host, err = cdp.Attach(pctx, s.client, s.cfg.CDP.Timeout, s.logger)
	switch {
	case errors.Is(err, cdp.ErrNoHost):
		s.logger.Warnf("rebelctl:attach", "the page is not a Rebel browser page, native features are unavailable")
	case err != nil:
		return err //nolint:wrapcheck
	default:
		handle = s.host
	}
	s.api = common.NewBrowserAPI(handle, environment, s.logger)
	s.caps = host.Probe(handle)

	return nil
}

// attachToPage attaches to the first page, waiting for a freshly launched
// browser to open it.
func (s *session) attachToPage(ctx context.Context) (context.Context, error) {
	for {
		pctx, err := s.client.AttachToPage(ctx)
		if !errors.Is(err, cdp.ErrNoPage) || s.proc == nil {
			return pctx, err //nolint:wrapcheck
		}

		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return nil, errors.Wrap(err, "waiting for the browser to open a page")
		}
	}
}

func (s *session) close() {
	if s.host != nil {
		s.host.Close()
	}
	if s.client != nil {
		s.client.Disconnect()
	}
	if s.proc != nil {
		s.proc.Close()
	}
	s.cancel()
}

// wait blocks until ch receives or the configured timeout passes. It gives
// up early when the command is interrupted or the browser goes away.
func wait[T any](cmd *cobra.Command, s *session, ch <-chan T) (T, error) {
	var zero T

	timer := time.NewTimer(s.cfg.CDP.Timeout)
	defer timer.Stop()

	select {
	case v := <-ch:
		return v, nil
	case <-cmd.Context().Done():
		return zero, cmd.Context().Err() //nolint:wrapcheck
	case <-s.client.Done():
		return zero, cdp.ErrClosed
	case <-timer.C:
		return zero, errors.Errorf("no answer from the browser within %s", s.cfg.CDP.Timeout)
	}
}
