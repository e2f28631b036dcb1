//go:build !windows

package shm

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// posixRegion backs Region with an mmap'd, file-backed region under
// the system temp directory. It is the non-Windows counterpart to
// winRegion described in SPEC_FULL.md §2.4: real enough to exercise
// the protocol's state machine cross-process on any OS, even though
// production OpenKneeboard only ever runs this path on Windows.
type posixRegion struct {
	file *os.File
	data []byte
}

func sectionFilePath(name string) string {
	safe := filepath.Clean(name)
	safe = filepath.Base(safe) + "-" + fmt.Sprintf("%x", []byte(name))
	return filepath.Join(os.TempDir(), "openkneeboard-section-"+safe)
}

func newPlatformRegion(name string, size int) (platformRegion, error) {
	path := sectionFilePath(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open section file %q: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("truncate section file %q: %w", path, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap section file %q: %w", path, err)
	}
	return &posixRegion{file: f, data: data}, nil
}

func (r *posixRegion) bytes() []byte {
	return r.data
}

func (r *posixRegion) close() error {
	err1 := unix.Munmap(r.data)
	err2 := r.file.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
