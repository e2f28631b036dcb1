package shm

import (
	"crypto/rand"
	"encoding/binary"
)

// NewSessionID returns a session identifier that mixes the producer's
// process ID into the high 32 bits and a random value into the low 32
// bits, so that even across rapid producer restarts on the same PID
// (e.g. after a crash-and-relaunch script), two sessions are
// overwhelmingly unlikely to collide.
func NewSessionID(producerPID uint32) uint64 {
	var b [4]byte
	// crypto/rand never fails on supported platforms for a read this
	// small; a failure here would indicate a broken OS entropy source,
	// which is not a condition this library can recover from.
	if _, err := rand.Read(b[:]); err != nil {
		panic("shm: failed to read random session salt: " + err.Error())
	}
	r := binary.LittleEndian.Uint32(b[:])
	return uint64(producerPID)<<32 | uint64(r)
}
