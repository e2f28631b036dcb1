// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package mailslot

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// CreateMailslotW has no golang.org/x/sys/windows binding, so it is
// bound directly the way the teacher's hal/dx12/d3d12 package binds
// D3D12CreateDevice: a LazyDLL/LazyProc pair resolved on first use.
var (
	kernel32        = syscall.NewLazyDLL("kernel32.dll")
	createMailslotW = kernel32.NewProc("CreateMailslotW")
)

// winConn is a real mailslot client handle, opened for write against
// an existing mailslot created by the app (spec §4.8: "open the
// mailslot for write").
type winConn struct {
	handle windows.Handle
}

func openConn(name string) (conn, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("mailslot: encode name: %w", err)
	}
	h, err := windows.CreateFile(
		namePtr,
		windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("mailslot: CreateFile(%q): %w", name, err)
	}
	return &winConn{handle: h}, nil
}

func (c *winConn) write(packet []byte) error {
	var written uint32
	if err := windows.WriteFile(c.handle, packet, &written, nil); err != nil {
		return fmt.Errorf("mailslot: WriteFile: %w", err)
	}
	if int(written) != len(packet) {
		return fmt.Errorf("mailslot: short write: wrote %d of %d bytes", written, len(packet))
	}
	return nil
}

func (c *winConn) close() error {
	return windows.CloseHandle(c.handle)
}

// Listener is the app-side receiving end: it creates the mailslot
// (Listen returns an error if CreateMailslotW fails, including when the
// name already exists) and delivers each decoded Packet to Packets.
// Malformed datagrams are dropped silently, per spec §4.8/§6: "Readers
// (the app) treat malformed packets as no-ops."
type Listener struct {
	handle  windows.Handle
	Packets chan Packet

	stop chan struct{}
}

// Listen creates the named mailslot and starts delivering packets.
func Listen(name string) (*Listener, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("mailslot: encode name: %w", err)
	}
	const maxMessageSize = 0 // no limit
	h, _, callErr := createMailslotW.Call(
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(maxMessageSize),
		uintptr(0xFFFFFFFF), // MAILSLOT_WAIT_FOREVER
		0,
	)
	if windows.Handle(h) == windows.InvalidHandle {
		return nil, fmt.Errorf("mailslot: CreateMailslotW(%q): %w", name, callErr)
	}

	l := &Listener{
		handle:  windows.Handle(h),
		Packets: make(chan Packet, 16),
		stop:    make(chan struct{}),
	}
	go l.readLoop()
	return l, nil
}

func (l *Listener) readLoop() {
	buf := make([]byte, 64*1024)
	for {
		select {
		case <-l.stop:
			close(l.Packets)
			return
		default:
		}
		var read uint32
		if err := windows.ReadFile(l.handle, buf, &read, nil); err != nil {
			continue
		}
		if p, ok := Decode(buf[:read]); ok {
			select {
			case l.Packets <- p:
			case <-l.stop:
				close(l.Packets)
				return
			}
		}
	}
}

// Close stops delivering packets and releases the mailslot handle.
func (l *Listener) Close() error {
	close(l.stop)
	return windows.CloseHandle(l.handle)
}
