// Package browserprocess launches a Rebel browser with its DevTools endpoint
// enabled and manages the lifetime of the process.
package browserprocess

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rebel-browser/browser-api/log"
)

const devToolsActivePort = "DevToolsActivePort"

// Process is a browser launched by Launch.
type Process struct {
	cmd     *exec.Cmd
	wsURL   string
	dataDir string
	done    chan struct{}
	logger  *log.Logger
}

// Launch starts the browser at path with a temporary profile, opening
// startURL, and waits until its DevTools endpoint is known. The process is
// killed when ctx is done.
func Launch(ctx context.Context, path string, args []string, startURL string, logger *log.Logger) (*Process, error) {
	dataDir, err := os.MkdirTemp("", "rebel-profile-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating the user data directory")
	}

	flags := append([]string{
		"--remote-debugging-port=0",
		"--user-data-dir=" + dataDir,
		"--no-first-run",
		"--no-default-browser-check",
	}, args...)
	if startURL != "" {
		flags = append(flags, startURL)
	}

	cmd := exec.CommandContext(ctx, path, flags...)
	if err := cmd.Start(); err != nil {
		_ = os.RemoveAll(dataDir)
		if os.IsNotExist(err) {
			return nil, errors.Errorf("browser executable does not exist: %s", path)
		}
		return nil, errors.Wrapf(err, "starting %s", path)
	}

	p := &Process{
		cmd:     cmd,
		dataDir: dataDir,
		done:    make(chan struct{}),
		logger:  logger,
	}
	register(logger, cmd.Process.Pid)
	go p.wait()

	if p.wsURL, err = readDevToolsURL(ctx, dataDir, p.done); err != nil {
		p.Close()
		return nil, err
	}
	logger.Debugf("BrowserProcess:Launch", "pid:%d wsURL:%q", p.Pid(), p.wsURL)

	return p, nil
}

func (p *Process) wait() {
	defer close(p.done)

	if err := p.cmd.Wait(); err != nil {
		p.logger.Debugf("BrowserProcess:wait", "process with PID %d ended: %v", p.Pid(), err)
	}
	unregister(p.Pid())
	if err := os.RemoveAll(p.dataDir); err != nil {
		p.logger.Errorf("BrowserProcess:wait", "cleaning up the user data directory: %v", err)
	}
}

// WSURL returns the websocket URL of the browser's DevTools endpoint.
func (p *Process) WSURL() string {
	return p.wsURL
}

// Pid returns the browser process ID.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done is closed once the process has exited and its profile is removed.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Close kills the browser and waits for it to exit.
func (p *Process) Close() {
	select {
	case <-p.done:
		return
	default:
	}
	if err := p.cmd.Process.Kill(); err != nil {
		p.logger.Debugf("BrowserProcess:Close", "killing PID %d: %v", p.Pid(), err)
	}
	<-p.done
}

// readDevToolsURL returns the DevTools websocket URL the browser writes, as
// a port and a path line, to the DevToolsActivePort file of its profile.
func readDevToolsURL(ctx context.Context, dataDir string, exited <-chan struct{}) (string, error) {
	fpath := filepath.Join(dataDir, devToolsActivePort)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		lines, err := readLines(fpath)
		switch {
		case err == nil && len(lines) >= 2:
			return "ws://127.0.0.1:" + lines[0] + lines[1], nil
		case err != nil && !os.IsNotExist(err):
			return "", errors.Wrapf(err, "reading %q", fpath)
		}

		select {
		case <-ticker.C:
		case <-exited:
			return "", errors.New("browser exited before opening its DevTools endpoint")
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), "waiting for the DevTools endpoint")
		}
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer f.Close() //nolint:errcheck

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	return lines, s.Err() //nolint:wrapcheck
}
