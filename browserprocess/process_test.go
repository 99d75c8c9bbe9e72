package browserprocess

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebel-browser/browser-api/log"
)

// fakeBrowser writes the DevToolsActivePort file into the profile given with
// --user-data-dir, like a browser does once its endpoint listens.
const fakeBrowser = `#!/bin/sh
for a in "$@"; do
	case "$a" in
	--user-data-dir=*) dir="${a#--user-data-dir=}" ;;
	esac
done
printf '45678\n/devtools/browser/abc\n' > "$dir/DevToolsActivePort"
exec sleep 30
`

func writeScript(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("needs a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "rebel")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700)) //nolint:gosec
	return path
}

func TestLaunch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := Launch(ctx, writeScript(t, fakeBrowser), []string{"--headless"}, "rebel://newtab", log.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:45678/devtools/browser/abc", p.WSURL())
	assert.Positive(t, p.Pid())

	p.Close()
	select {
	case <-p.Done():
	default:
		t.Fatal("Close returned before the process exited")
	}
	_, err = os.Stat(p.dataDir)
	assert.True(t, os.IsNotExist(err), "the profile is removed")

	p.Close()
}

func TestLaunchExitsEarly(t *testing.T) {
	t.Parallel()

	_, err := Launch(context.Background(), writeScript(t, "#!/bin/sh\nexit 3\n"), nil, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited before opening")
}

func TestLaunchMissingExecutable(t *testing.T) {
	t.Parallel()

	_, err := Launch(context.Background(), filepath.Join(t.TempDir(), "missing"), nil, "", nil)
	require.Error(t, err)
}

func TestReadDevToolsURL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, devToolsActivePort)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(path, []byte("9222\n"), 0o600)
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(path, []byte("9222\n/devtools/browser/xyz\n"), 0o600)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url, err := readDevToolsURL(ctx, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/xyz", url)

	ctx, cancel = context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = readDevToolsURL(ctx, t.TempDir(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
