// Package queue implements the bounded, fixed-capacity message queue that
// every registered thread owns (spec component C3).
package queue

// MaxPayload is the fixed payload size carried by every Message, per the
// wire's {type, content_size, payload} framing.
const MaxPayload = 1024

// Type identifies the kind of a Message.
type Type uint32

const (
	TypeRelay Type = iota + 1
	TypeControl
	TypeData
	TypeTest
	TypeFileChunk
)

func (t Type) String() string {
	switch t {
	case TypeRelay:
		return "Relay"
	case TypeControl:
		return "Control"
	case TypeData:
		return "Data"
	case TypeTest:
		return "Test"
	case TypeFileChunk:
		return "FileChunk"
	default:
		return "Unknown"
	}
}

// Message is the fixed-size unit carried by every queue. Content beyond
// ContentSize is undefined and must never be inspected by a reader; this is
// why Payload() returns a slice instead of the raw array.
//
// The source's second, "aspirational" header variant adds id/flags fields
// used only to generate random, never-consulted message IDs; this type does
// not carry them, per the Open Question resolution in SPEC_FULL.md.
type Message struct {
	MType       Type
	ContentSize uint32
	payload     [MaxPayload]byte
}

// NewMessage builds a Message from a byte slice, failing if it would
// overflow the fixed payload.
func NewMessage(t Type, data []byte) (Message, error) {
	if len(data) > MaxPayload {
		return Message{}, ErrBufferOverflow
	}
	var m Message
	m.MType = t
	m.ContentSize = uint32(len(data))
	copy(m.payload[:], data)
	return m, nil
}

// Payload returns the meaningful bytes of the message (first ContentSize
// bytes only).
func (m *Message) Payload() []byte {
	n := m.ContentSize
	if n > MaxPayload {
		n = MaxPayload
	}
	return m.payload[:n]
}
