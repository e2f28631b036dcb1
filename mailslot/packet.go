// Package mailslot implements the one-way command channel described
// in spec §4.8: a length-prefixed, name/value packet format sent as
// single mailslot datagrams, plus the well-known JSON event payloads
// carried as packet values.
package mailslot

import (
	"fmt"
	"strconv"
)

// Packet is a single name/value command. Name identifies the event
// (a remote-action name, or one of the well-known event names in
// events.go); Value carries the event's payload, often a JSON object.
type Packet struct {
	Name  string
	Value string
}

// minEncodedLen is the length of an envelope with empty name and
// value: "00000000!" + "!" + "00000000!" + "!".
const minEncodedLen = len("00000000!") + len("!") + len("00000000!") + len("!")

// Encode renders p as the wire format from spec §4.8:
// "{:08x}!<name>!{:08x}!<value>!".
func (p Packet) Encode() []byte {
	return []byte(fmt.Sprintf("%08x!%s!%08x!%s!", len(p.Name), p.Name, len(p.Value), p.Value))
}

// Decode parses a packet previously produced by Encode. It returns
// ok=false, never an error, for any malformed input: spec §4.8
// requires malformed packets to be discarded silently rather than
// surfaced as an error to the caller.
func Decode(data []byte) (p Packet, ok bool) {
	if len(data) == 0 || data[len(data)-1] != '!' {
		return Packet{}, false
	}
	if len(data) < minEncodedLen {
		return Packet{}, false
	}

	nameLen, ok := hex8(data[0:8])
	if !ok || data[8] != '!' {
		return Packet{}, false
	}
	const nameOffset = 9
	if uint64(len(data)) < 8+nameLen+8+4 {
		return Packet{}, false
	}
	name := string(data[nameOffset : nameOffset+int(nameLen)])

	valueLenOffset := nameOffset + int(nameLen) + 1
	if data[valueLenOffset-1] != '!' {
		return Packet{}, false
	}
	if uint64(len(data)) < uint64(valueLenOffset)+10 {
		return Packet{}, false
	}
	valueLen, ok := hex8(data[valueLenOffset : valueLenOffset+8])
	if !ok || data[valueLenOffset+8] != '!' {
		return Packet{}, false
	}
	valueOffset := valueLenOffset + 8 + 1

	if uint64(len(data)) != uint64(valueOffset)+valueLen+1 {
		return Packet{}, false
	}
	value := string(data[valueOffset : valueOffset+int(valueLen)])

	return Packet{Name: name, Value: value}, true
}

// hex8 parses exactly 8 hex digits, the fixed-width length fields
// spec §4.8 requires.
func hex8(b []byte) (uint64, bool) {
	if len(b) != 8 {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b), 16, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}
