package shm

import "github.com/Cornflakes-code/OpenKneeboard/diag"

// platformMutex is implemented per-OS (mutex_windows.go, mutex_other.go)
// and provides the raw named-mutex primitive. Mutex layers the
// documented misuse checks (spec §4.3: double-lock and unlock-without-
// lock must fail loudly) on top of it.
type platformMutex interface {
	// waitAcquire blocks until the mutex is acquired. abandoned reports
	// whether the previous owner died while holding it.
	waitAcquire() (abandoned bool, err error)
	// tryAcquire attempts to acquire without blocking.
	tryAcquire() (ok bool, abandoned bool, err error)
	release() error
	close() error
}

// noCopy marks a type that must not be copied after first use, matched
// by `go vet`'s copylocks check. Mutex embeds this because the spec
// requires the guard to be movable-but-not-copyable: in Go, values are
// always movable, and noCopy enforces the non-copy half.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Mutex is a named cross-process mutex guarding all mutation of, and
// all consistent reads of, the shared control region. It does not
// implement sync.Locker, since Lock reports whether the previous owner
// abandoned the mutex. Lock panics instead of blocking forever on
// programmer error (double-lock) since that always indicates a bug
// rather than contention.
type Mutex struct {
	noCopy
	name     string
	platform platformMutex
	held     bool
}

// newMutex wraps a platform mutex primitive already opened/created for
// name, purely for diagnostics.
func newMutex(name string, p platformMutex) *Mutex {
	return &Mutex{name: name, platform: p}
}

// NewMutex creates or opens the named cross-process mutex.
func NewMutex(name string) (*Mutex, error) {
	p, err := newPlatformMutex(name)
	if err != nil {
		return nil, err
	}
	return newMutex(name, p), nil
}

// Lock blocks until the mutex is acquired. It reports whether the
// previous owner died while holding it (an abandoned-mutex recovery,
// spec §4.3/§5); callers must zero the header in that case, since its
// contents cannot be trusted.
//
// Lock panics if this Mutex already holds the lock: double-locking
// from the same holder is always a programmer error (spec §4.3).
func (m *Mutex) Lock() (abandoned bool) {
	if m.held {
		panic(errAlreadyLocked)
	}
	abandoned, err := m.platform.waitAcquire()
	if err != nil {
		panic("shm: " + m.name + ": " + err.Error())
	}
	m.held = true
	diag.Logger().Debug("shm: mutex acquired", "name", m.name, "abandoned", abandoned)
	return abandoned
}

// TryLock attempts to acquire the mutex without blocking. ok is false
// if another owner currently holds it; abandoned has the same meaning
// as in Lock and is only meaningful when ok is true.
//
// TryLock panics if this Mutex already holds the lock.
func (m *Mutex) TryLock() (ok, abandoned bool) {
	if m.held {
		panic(errAlreadyLocked)
	}
	ok, abandoned, err := m.platform.tryAcquire()
	if err != nil {
		panic("shm: " + m.name + ": " + err.Error())
	}
	if ok {
		m.held = true
		diag.Logger().Debug("shm: mutex try-acquired", "name", m.name, "abandoned", abandoned)
	}
	return ok, abandoned
}

// Unlock releases the mutex. It panics if this Mutex does not
// currently hold the lock (spec §4.3: unlock-without-lock always fails).
func (m *Mutex) Unlock() {
	if !m.held {
		panic(errNotLocked)
	}
	if err := m.platform.release(); err != nil {
		panic("shm: " + m.name + ": " + err.Error())
	}
	m.held = false
	diag.Logger().Debug("shm: mutex released", "name", m.name)
}

// HaveLock reports whether this Mutex currently holds the lock.
func (m *Mutex) HaveLock() bool { return m.held }

// Close releases the underlying OS handle. The mutex must not be held
// when Close is called.
func (m *Mutex) Close() error {
	if m.held {
		panic("shm: closing mutex " + m.name + " while holding the lock")
	}
	return m.platform.close()
}
