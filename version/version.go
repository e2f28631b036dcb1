// Package version derives the cross-process names used by the shared
// control region, its mutex, the texture ring and the mailslot.
//
// Every name embeds the full {project, major, minor, patch, build}
// tuple, and the section name additionally embeds the size of the
// header struct. This tuple is the entire compatibility contract
// between producer and consumer builds: bumping any component changes
// every name, so an incompatible build can never accidentally attach
// to another build's section, mutex, textures or mailslot.
package version

import "fmt"

// Tuple identifies a build for naming purposes.
type Tuple struct {
	Project string
	Major   uint16
	Minor   uint16
	Patch   uint16
	Build   uint32
}

// String renders the tuple as "<major>.<minor>.<patch>.<build>".
func (t Tuple) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", t.Major, t.Minor, t.Patch, t.Build)
}

// Current is the version tuple baked into this build, with development
// defaults (1.0.0.0). It is a struct variable, so -ldflags -X cannot
// set it; a different tuple needs a source change.
var Current = Tuple{
	Project: "OpenKneeboard",
	Major:   1,
	Minor:   0,
	Patch:   0,
	Build:   0,
}

// SectionName returns the name of the named file mapping that holds the
// shared control region, salted with headerSize so that any change to
// the header layout (a field added, removed or reordered) changes the
// mapping name and therefore can never alias an incompatible reader or
// writer.
func (t Tuple) SectionName(headerSize int) string {
	return fmt.Sprintf("%s/%s-s%x", t.Project, t, headerSize)
}

// MutexName returns the name of the cross-process mutex guarding the
// section named by SectionName.
func (t Tuple) MutexName(headerSize int) string {
	return t.SectionName(headerSize) + ".mutex"
}

// TextureName returns the name of the shared texture holding layer
// layerIndex of ring slot (sequenceNumber mod textureCount) for the
// given session.
func (t Tuple) TextureName(sessionID uint64, layerIndex uint8, sequenceNumber uint32, textureCount uint32) string {
	slot := sequenceNumber % textureCount
	return fmt.Sprintf(
		`Local\%s-%s--texture-s%x-l%d-b%d`,
		t.Project, t, sessionID, layerIndex, slot,
	)
}

// MailslotName returns the name of the one-way remote-event mailslot.
// Unlike the other names, the mailslot is versioned by a separate,
// coarser "wire protocol version" rather than the full build tuple,
// since its wire format (see package mailslot) changes far less often
// than the header layout.
func (t Tuple) MailslotName() string {
	return fmt.Sprintf(`\\.\mailslot\%s.events.v1.3`, t.Project)
}
