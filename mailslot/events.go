package mailslot

import "encoding/json"

// Well-known event names carried in Packet.Name (spec §4.8's "remote
// user actions" and "tab/profile/brightness control events"),
// recovered from the original implementation's GameEvent consumers
// (SPEC_FULL.md §4).
const (
	EventSetTabByID       = "com.fredemmott.openkneeboard/SetTabByID"
	EventSetTabByName     = "com.fredemmott.openkneeboard/SetTabByName"
	EventSetTabByIndex    = "com.fredemmott.openkneeboard/SetTabByIndex"
	EventSetProfileByID   = "com.fredemmott.openkneeboard/SetProfileByID"
	EventSetProfileByName = "com.fredemmott.openkneeboard/SetProfileByName"
	EventSetBrightness    = "com.fredemmott.openkneeboard/SetBrightness"

	// EventRemoteUserAction carries a single action name as the value
	// with no JSON envelope (spec §4.8: "remote user actions (a single
	// action name)").
	EventRemoteUserAction = "com.fredemmott.openkneeboard/RemoteUserAction"
)

// SetTabByIDEvent switches the visible tab by its stable ID.
type SetTabByIDEvent struct {
	ID         string `json:"mID"`
	PageNumber uint   `json:"mPageNumber"`
	Kneeboard  uint8  `json:"mKneeboard"`
}

// SetTabByNameEvent switches the visible tab by its display name.
type SetTabByNameEvent struct {
	Name       string `json:"mName"`
	PageNumber uint   `json:"mPageNumber"`
	Kneeboard  uint8  `json:"mKneeboard"`
}

// SetTabByIndexEvent switches the visible tab by its position in the
// tab list.
type SetTabByIndexEvent struct {
	Index      uint  `json:"mIndex"`
	PageNumber uint  `json:"mPageNumber"`
	Kneeboard  uint8 `json:"mKneeboard"`
}

// SetProfileByIDEvent switches the active profile by its stable ID.
type SetProfileByIDEvent struct {
	ID string `json:"mID"`
}

// SetProfileByNameEvent switches the active profile by its display
// name.
type SetProfileByNameEvent struct {
	Name string `json:"mName"`
}

// BrightnessMode selects whether SetBrightnessEvent's value is an
// absolute level or a relative adjustment.
type BrightnessMode string

const (
	BrightnessAbsolute BrightnessMode = "Absolute"
	BrightnessRelative BrightnessMode = "Relative"
)

// SetBrightnessEvent adjusts kneeboard backlight brightness.
type SetBrightnessEvent struct {
	Brightness float32        `json:"mBrightness"`
	Mode       BrightnessMode `json:"mMode"`
}

// encodeValue marshals an event payload to its JSON wire value. Panics
// on a marshal error, since every type above is a plain data struct
// with no cyclic or unsupported fields; a failure here is a programmer
// error (an incompatible field type), not a runtime condition.
func encodeValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic("mailslot: failed to marshal event payload: " + err.Error())
	}
	return string(b)
}

// NewSetTabByID returns the packet for a SetTabByIDEvent.
func NewSetTabByID(e SetTabByIDEvent) Packet {
	return Packet{Name: EventSetTabByID, Value: encodeValue(e)}
}

// NewSetTabByName returns the packet for a SetTabByNameEvent.
func NewSetTabByName(e SetTabByNameEvent) Packet {
	return Packet{Name: EventSetTabByName, Value: encodeValue(e)}
}

// NewSetTabByIndex returns the packet for a SetTabByIndexEvent.
func NewSetTabByIndex(e SetTabByIndexEvent) Packet {
	return Packet{Name: EventSetTabByIndex, Value: encodeValue(e)}
}

// NewSetProfileByID returns the packet for a SetProfileByIDEvent.
func NewSetProfileByID(e SetProfileByIDEvent) Packet {
	return Packet{Name: EventSetProfileByID, Value: encodeValue(e)}
}

// NewSetProfileByName returns the packet for a SetProfileByNameEvent.
func NewSetProfileByName(e SetProfileByNameEvent) Packet {
	return Packet{Name: EventSetProfileByName, Value: encodeValue(e)}
}

// NewSetBrightness returns the packet for a SetBrightnessEvent.
func NewSetBrightness(e SetBrightnessEvent) Packet {
	return Packet{Name: EventSetBrightness, Value: encodeValue(e)}
}

// NewRemoteUserAction returns the packet for a bare named action, with
// no JSON envelope.
func NewRemoteUserAction(action string) Packet {
	return Packet{Name: EventRemoteUserAction, Value: action}
}

// MultiEvent is a JSON array of [name, value] pairs posted atomically
// as a single datagram (spec §4.8: "a multi-event envelope (a JSON
// array of [name, value] pairs posted atomically)").
type MultiEvent [][2]string

// NewMultiEvent builds the single Packet carrying every (name, value)
// pair in events, encoded as a JSON array and posted as one datagram.
func NewMultiEvent(events ...Packet) Packet {
	pairs := make(MultiEvent, len(events))
	for i, e := range events {
		pairs[i] = [2]string{e.Name, e.Value}
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		panic("mailslot: failed to marshal multi-event envelope: " + err.Error())
	}
	return Packet{Name: "com.fredemmott.openkneeboard/MultiEvent", Value: string(b)}
}

// DecodeMultiEvent parses a MultiEvent packet's value back into its
// constituent Packets.
func DecodeMultiEvent(value string) ([]Packet, error) {
	var pairs MultiEvent
	if err := json.Unmarshal([]byte(value), &pairs); err != nil {
		return nil, err
	}
	out := make([]Packet, len(pairs))
	for i, pair := range pairs {
		out[i] = Packet{Name: pair[0], Value: pair[1]}
	}
	return out, nil
}
