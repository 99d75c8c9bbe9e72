package browserprocess

import (
	"os"
	"sync"

	"github.com/rebel-browser/browser-api/log"
)

var (
	processRegister   = map[int]struct{}{} //nolint:gochecknoglobals
	processRegisterMu sync.Mutex           //nolint:gochecknoglobals
)

func register(logger *log.Logger, pid int) {
	processRegisterMu.Lock()
	defer processRegisterMu.Unlock()

	logger.Debugf("BrowserProcess:register", "registered browser process pid %d", pid)
	processRegister[pid] = struct{}{}
}

func unregister(pid int) {
	processRegisterMu.Lock()
	defer processRegisterMu.Unlock()

	delete(processRegister, pid)
}

// ForceProcessShutdown kills every browser launched by this process that is
// still running. It is meant for exit paths that skip Process.Close.
func ForceProcessShutdown() {
	processRegisterMu.Lock()
	defer processRegisterMu.Unlock()

	for pid := range processRegister {
		p, err := os.FindProcess(pid)
		if err != nil {
			continue
		}
		// no need to check the error since we're already exiting.
		_ = p.Kill()
		_ = p.Release()
	}
}
