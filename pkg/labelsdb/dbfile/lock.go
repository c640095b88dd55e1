package dbfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// ErrLocked reports that another live process is editing the database
var ErrLocked = errors.New("database is locked by another process")

const lockSuffix = ".lock"

// Lock guards one database file for a single editing session.
// The lock file next to the database holds the owner's PID.
type Lock struct {
	path   string
	logger hclog.Logger
}

// LockPath returns the lock file path for a database
func LockPath(dbPath string) string {
	return dbPath + lockSuffix
}

// Acquire takes the edit lock for dbPath. Locks left by dead processes or
// with unreadable contents are removed first. A lock held by a running
// process fails with ErrLocked.
func Acquire(dbPath string, logger hclog.Logger) (*Lock, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	lockPath := LockPath(dbPath)

	if data, err := os.ReadFile(lockPath); err == nil {
		contents := strings.TrimSpace(string(data))
		if pid, err := strconv.Atoi(contents); err == nil && pid > 0 {
			if isProcessRunning(pid) {
				logger.Debug("🔒 Lock held by active process", "pid", pid)
				return nil, fmt.Errorf("%w (pid %d, lock file %s)", ErrLocked, pid, lockPath)
			}
			logger.Info("🧹 Removing stale lock from dead process", "pid", pid)
		} else {
			logger.Info("🧹 Removing invalid lock file (couldn't parse PID)")
		}
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing stale lock: %w", err)
		}
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, lockPath)
		}
		return nil, err
	}
	defer file.Close()

	pid := os.Getpid()
	if _, err := fmt.Fprintf(file, "%d\n", pid); err != nil {
		os.Remove(lockPath)
		return nil, err
	}

	logger.Debug("🔒 Acquired edit lock", "path", lockPath, "pid", pid)
	return &Lock{path: lockPath, logger: logger}, nil
}

// Release removes the lock file. Releasing twice is harmless.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		l.logger.Debug("⚠️ Failed to remove lock file", "error", err)
		return err
	}
	l.logger.Debug("🔓 Released edit lock", "path", l.path)
	l.path = ""
	return nil
}
