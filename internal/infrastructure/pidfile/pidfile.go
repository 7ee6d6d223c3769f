package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile enforces a single running watch session per data directory.
// Two concurrent watchers would race on cache invalidation and double
// every recompute, so the second acquire fails instead.
type PIDFile struct {
	path string
}

// New creates a PID file manager for the given path
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire writes the current process id to the file. It fails when the
// file names a live process; a stale file from a dead process is
// replaced silently.
func (p *PIDFile) Acquire() error {
	if _, err := os.Stat(p.path); err == nil {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return fmt.Errorf("failed to read existing PID file: %w", err)
		}

		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			// Garbage in the file: treat as stale
			_ = os.Remove(p.path)
		} else if isProcessRunning(pid) {
			return fmt.Errorf("another watch session is already running (PID %d)", pid)
		} else {
			_ = os.Remove(p.path)
		}
	}

	if err := os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file; already gone is fine
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes a pid with signal 0, which checks existence
// without delivering anything. EPERM means the process exists but
// belongs to someone else.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
