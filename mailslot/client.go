package mailslot

import (
	"sync"
	"time"

	"github.com/Cornflakes-code/OpenKneeboard/diag"
)

// reopenBackoff is the minimum interval between open attempts after a
// failed open, so a missing consumer (no app running) does not cause
// every Send to block on a syscall (spec §4.8: "do not re-attempt to
// open within one second of the last failed open").
const reopenBackoff = time.Second

// conn is implemented per-OS: winConn (client_windows.go) is a
// real mailslot handle; unixConn (client_other.go) is a
// best-effort Unix-domain datagram socket standing in for it, so the
// client state machine below is exercised on any OS.
type conn interface {
	write(packet []byte) error
	close() error
}

// Client sends Packet values over the named command channel. A single
// Client is safe for concurrent use; writes are serialized.
type Client struct {
	name string

	mu          sync.Mutex
	handle      conn
	lastAttempt time.Time
}

// NewClient returns a Client for the named mailslot/channel. It does
// not open the connection eagerly: the first Send attempts to open
// it, matching the original implementation's lazy, retry-on-demand
// behavior.
func NewClient(name string) *Client {
	return &Client{name: name}
}

// Send encodes p and writes it as a single datagram. Failures are
// logged, never returned: spec §4.8/§7 treat mailslot delivery as
// best-effort, since no consumer may be listening.
func (c *Client) Send(p Packet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	packet := p.Encode()

	if c.handle == nil {
		if !c.tryOpenLocked() {
			return
		}
	}

	if err := c.handle.write(packet); err == nil {
		return
	}

	c.handle.close()
	c.handle = nil

	if !c.tryOpenLocked() {
		diag.Logger().Debug("mailslot: send failed, could not reopen", "name", c.name)
		return
	}
	if err := c.handle.write(packet); err != nil {
		diag.Logger().Debug("mailslot: send failed after reopen", "name", c.name, "error", err)
	}
}

// tryOpenLocked opens the connection, honoring reopenBackoff after a
// failed open. Caller must hold c.mu.
func (c *Client) tryOpenLocked() bool {
	if !c.lastAttempt.IsZero() && time.Since(c.lastAttempt) < reopenBackoff {
		return false
	}

	h, err := openConn(c.name)
	if err != nil {
		c.lastAttempt = time.Now()
		diag.Logger().Debug("mailslot: open failed", "name", c.name, "error", err)
		return false
	}
	c.handle = h
	return true
}

// Close releases the underlying connection, if open.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return nil
	}
	err := c.handle.close()
	c.handle = nil
	return err
}
