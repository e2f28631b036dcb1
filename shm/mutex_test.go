package shm

import (
	"fmt"
	"sync"
	"testing"
)

func uniqueMutexName(t *testing.T) string {
	return fmt.Sprintf("openkneeboard-test-mutex-%s-%d", t.Name(), mutexNameCounter())
}

var mutexCounterMu sync.Mutex
var mutexCounter int

func mutexNameCounter() int {
	mutexCounterMu.Lock()
	defer mutexCounterMu.Unlock()
	mutexCounter++
	return mutexCounter
}

func TestMutexLockUnlock(t *testing.T) {
	m, err := NewMutex(uniqueMutexName(t))
	if err != nil {
		t.Fatalf("NewMutex: %v", err)
	}
	defer m.Close()

	if m.HaveLock() {
		t.Fatalf("new mutex should not be held")
	}
	abandoned := m.Lock()
	if abandoned {
		t.Fatalf("first lock of a fresh mutex should never be abandoned")
	}
	if !m.HaveLock() {
		t.Fatalf("HaveLock should be true after Lock")
	}
	m.Unlock()
	if m.HaveLock() {
		t.Fatalf("HaveLock should be false after Unlock")
	}
}

func TestMutexDoubleLockPanics(t *testing.T) {
	m, err := NewMutex(uniqueMutexName(t))
	if err != nil {
		t.Fatalf("NewMutex: %v", err)
	}
	defer func() {
		m.Unlock()
		m.Close()
	}()

	m.Lock()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected double-lock to panic")
		}
	}()
	m.Lock()
}

func TestMutexUnlockWithoutLockPanics(t *testing.T) {
	m, err := NewMutex(uniqueMutexName(t))
	if err != nil {
		t.Fatalf("NewMutex: %v", err)
	}
	defer m.Close()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected unlock-without-lock to panic")
		}
	}()
	m.Unlock()
}

func TestMutexTryLockFailsWhenHeldElsewhere(t *testing.T) {
	name := uniqueMutexName(t)

	owner, err := NewMutex(name)
	if err != nil {
		t.Fatalf("NewMutex: %v", err)
	}
	defer owner.Close()
	owner.Lock()
	defer owner.Unlock()

	contender, err := NewMutex(name)
	if err != nil {
		t.Fatalf("NewMutex (contender): %v", err)
	}
	defer contender.Close()

	ok, _ := contender.TryLock()
	if ok {
		t.Fatalf("TryLock should fail while another holder owns the mutex")
	}
}
