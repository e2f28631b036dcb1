//go:build !windows

package shm

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// flockMutex is the non-Windows backend for Mutex. It is not what
// OpenKneeboard ships in production (the protocol is Windows-only, per
// spec §1: consumers are DLLs injected into Windows game processes),
// but it gives every platform-independent piece of this module's
// protocol logic — sequence numbers, caching, kind matching, abandoned
// recovery — a real cross-process primitive to run against in tests on
// any OS, the same role hal/noop plays for the teacher's GPU pipeline
// tests.
//
// Abandonment is emulated with a one-byte "clean release" flag in the
// lock file: flock itself is released automatically by the kernel when
// the owning process dies (its file descriptor closes), but unlike a
// Windows mutex it carries no abandoned-indicator of its own. We
// recover the same signal by writing 1 ("dirty: currently held, not
// yet released") right after acquiring, and 0 ("cleanly released")
// right before releasing; if the byte reads 1 on a fresh acquire, the
// previous holder never got to clear it, meaning it died while holding
// the lock.
type flockMutex struct {
	file *os.File
}

func lockFilePath(name string) string {
	// name may contain path separators (e.g. "OpenKneeboard/1.0.0.0-s64");
	// flatten it into a single safe filename.
	safe := filepath.Clean(name)
	safe = filepath.Base(safe) + "-" + fmt.Sprintf("%x", []byte(name))
	return filepath.Join(os.TempDir(), "openkneeboard-"+safe+".lock")
}

func newPlatformMutex(name string) (platformMutex, error) {
	path := lockFilePath(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shm: open lock file %q: %w", path, err)
	}
	return &flockMutex{file: f}, nil
}

func (m *flockMutex) readDirtyFlag() (bool, error) {
	var b [1]byte
	n, err := m.file.ReadAt(b[:], 0)
	if n == 0 {
		// Never written; not dirty.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return b[0] == 1, nil
}

func (m *flockMutex) writeDirtyFlag(dirty bool) error {
	var b [1]byte
	if dirty {
		b[0] = 1
	}
	_, err := m.file.WriteAt(b[:], 0)
	return err
}

func (m *flockMutex) waitAcquire() (abandoned bool, err error) {
	if err := unix.Flock(int(m.file.Fd()), unix.LOCK_EX); err != nil {
		return false, fmt.Errorf("flock(LOCK_EX): %w", err)
	}
	dirty, err := m.readDirtyFlag()
	if err != nil {
		unix.Flock(int(m.file.Fd()), unix.LOCK_UN)
		return false, err
	}
	if err := m.writeDirtyFlag(true); err != nil {
		unix.Flock(int(m.file.Fd()), unix.LOCK_UN)
		return false, err
	}
	return dirty, nil
}

func (m *flockMutex) tryAcquire() (ok, abandoned bool, err error) {
	if err := unix.Flock(int(m.file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if err == unix.EWOULDBLOCK {
			return false, false, nil
		}
		return false, false, fmt.Errorf("flock(LOCK_EX|LOCK_NB): %w", err)
	}
	dirty, err := m.readDirtyFlag()
	if err != nil {
		unix.Flock(int(m.file.Fd()), unix.LOCK_UN)
		return false, false, err
	}
	if err := m.writeDirtyFlag(true); err != nil {
		unix.Flock(int(m.file.Fd()), unix.LOCK_UN)
		return false, false, err
	}
	return true, dirty, nil
}

func (m *flockMutex) release() error {
	if err := m.writeDirtyFlag(false); err != nil {
		return err
	}
	if err := unix.Flock(int(m.file.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("flock(LOCK_UN): %w", err)
	}
	return nil
}

func (m *flockMutex) close() error {
	return m.file.Close()
}
