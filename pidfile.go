package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const (
	pidFilePerms = 0o644
	pidDirPerms  = 0o755
)

// errNoWatch is returned by requestRescan when no watch owns the PID file.
var errNoWatch = errors.New("no running watch")

// watchLock is the exclusive flock a running watch holds on its PID file.
// It keeps two watchers from processing the same library.
type watchLock struct {
	path string
	f    *os.File
}

// acquireWatchLock creates path, locks it without blocking and records the
// current PID in it. A held lock means another watch is running; its PID is
// named in the error when the file is readable.
func acquireWatchLock(path string) (*watchLock, error) {
	if path == "" {
		return nil, errors.New("watch PID file path is empty: set watch.pid_file or HOME")
	}

	if err := os.MkdirAll(filepath.Dir(path), pidDirPerms); err != nil {
		return nil, fmt.Errorf("creating watch PID directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, pidFilePerms)
	if err != nil {
		return nil, fmt.Errorf("opening watch PID file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()

		if pid, readErr := readWatchPID(path); readErr == nil {
			return nil, fmt.Errorf("another watch is already running (PID %d holds %s)", pid, path)
		}

		return nil, fmt.Errorf("another watch is already running (could not lock %s)", path)
	}

	lock := &watchLock{path: path, f: f}

	if err := lock.writePID(); err != nil {
		f.Close()

		return nil, err
	}

	return lock, nil
}

// writePID replaces the file content with the current PID and syncs it, so
// `rescan` can read it as soon as the lock is held.
func (l *watchLock) writePID() error {
	if err := l.f.Truncate(0); err != nil {
		return fmt.Errorf("truncating watch PID file: %w", err)
	}

	if _, err := l.f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0); err != nil {
		return fmt.Errorf("writing watch PID file: %w", err)
	}

	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("syncing watch PID file: %w", err)
	}

	return nil
}

// Release removes the PID file and drops the lock.
func (l *watchLock) Release() {
	os.Remove(l.path)
	l.f.Close()
}

// readWatchPID returns the PID recorded in path.
func readWatchPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading watch PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in %s: %w", path, err)
	}

	return pid, nil
}

// requestRescan sends SIGHUP to the watch recorded in path, which makes it
// queue every library folder, and returns that watch's PID. A PID file left
// by a dead process is removed.
func requestRescan(path string) (int, error) {
	pid, err := readWatchPID(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: no PID file at %s", errNoWatch, path)
		}

		return 0, err
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, fmt.Errorf("finding watch process %d: %w", pid, err)
	}

	if err := proc.Signal(syscall.Signal(0)); err != nil {
		os.Remove(path)

		return 0, fmt.Errorf("%w: PID %d has exited, removed stale %s", errNoWatch, pid, path)
	}

	if err := proc.Signal(syscall.SIGHUP); err != nil {
		return 0, fmt.Errorf("signaling watch (PID %d): %w", pid, err)
	}

	return pid, nil
}
