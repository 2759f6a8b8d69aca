package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address and zero or more arguments.
type Message struct {
	Address   string
	Arguments []interface{}
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// NewMessageFromData returns a new Message decoded from data.
func NewMessageFromData(data []byte) (msg *Message, err error) {
	msg = &Message{}
	if err = msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

// Append appends the given arguments to the arguments list.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return fmt.Errorf("Append: unsupported type: %T", a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Clear clears the OSC address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments)
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, err := m.TypeTags()
	if err != nil {
		return m.Address
	}

	var sb strings.Builder
	sb.WriteString(m.Address)
	sb.WriteByte(' ')
	sb.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case bool, int32, int64, float32, float64, string:
			fmt.Fprintf(&sb, " %v", arg)

		case nil:
			sb.WriteString(" Nil")

		case []byte:
			sb.WriteString(" blob")

		case Timetag:
			fmt.Fprintf(&sb, " %d", arg.TimeTag())
		}
	}

	return sb.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The result
// has the following format:
// 1. OSC Address
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) MarshalBinary() ([]byte, error) {
	if !strings.HasPrefix(m.Address, "/") {
		return nil, fmt.Errorf("MarshalBinary: address must start with '/': %q", m.Address)
	}

	typetags, err := m.TypeTags()
	if err != nil {
		return nil, fmt.Errorf("MarshalBinary: %w", err)
	}

	data := new(bytes.Buffer)
	writePaddedString(m.Address, data)
	writePaddedString(typetags, data)

	var buf [bit64Size]byte
	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		case bool, nil:
			continue
		case int32:
			binary.BigEndian.PutUint32(buf[:bit32Size], uint32(t))
			data.Write(buf[:bit32Size])
		case float32:
			binary.BigEndian.PutUint32(buf[:bit32Size], math.Float32bits(t))
			data.Write(buf[:bit32Size])
		case int64:
			binary.BigEndian.PutUint64(buf[:], uint64(t))
			data.Write(buf[:])
		case float64:
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(t))
			data.Write(buf[:])
		case Timetag:
			binary.BigEndian.PutUint64(buf[:], uint64(t))
			data.Write(buf[:])
		case string:
			writePaddedString(t, data)
		case []byte:
			writeBlob(t, data)
		}
	}

	if data.Len() > MaxPacketSize {
		return nil, fmt.Errorf("MarshalBinary: packet too large: %d", data.Len())
	}

	return data.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) == 0 || data[0] != '/' {
		return fmt.Errorf("UnmarshalBinary: data not a valid OSC message")
	}

	if (len(data) % bit32Size) != 0 {
		return fmt.Errorf("UnmarshalBinary: data isn't mod 4")
	}

	// First, read the OSC address
	addr, n, err := parsePaddedString(data)
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}

	m.Address = addr
	m.Arguments = nil
	if err = m.parseArguments(data[n:]); err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}

	return nil
}

// parseArguments reads the type tag string and all arguments from data.
func (m *Message) parseArguments(data []byte) error {
	// A message without a type tag string carries no arguments
	if len(data) == 0 {
		return nil
	}

	typetags, n, err := parsePaddedString(data)
	if err != nil {
		return fmt.Errorf("parseArguments: %w", err)
	}
	data = data[n:]

	// If the typetag doesn't start with ',', it's not valid
	if len(typetags) == 0 || typetags[0] != ',' {
		return fmt.Errorf("unsupported typetag string: %s", typetags)
	}

	if len(typetags) == 1 {
		return nil
	}

	args := make([]interface{}, 0, len(typetags)-1)

	for _, c := range typetags[1:] {
		switch TypeTag(c) {
		default:
			return fmt.Errorf("unsupported typetag: %c", c)

		case TypeInt32:
			if len(data) < bit32Size {
				return fmt.Errorf("parseArguments: not enough bytes to read int32")
			}
			args = append(args, int32(binary.BigEndian.Uint32(data[:bit32Size])))
			data = data[bit32Size:]

		case TypeInt64:
			if len(data) < bit64Size {
				return fmt.Errorf("parseArguments: not enough bytes to read int64")
			}
			args = append(args, int64(binary.BigEndian.Uint64(data[:bit64Size])))
			data = data[bit64Size:]

		case TypeFloat32:
			if len(data) < bit32Size {
				return fmt.Errorf("parseArguments: not enough bytes to read float32")
			}
			args = append(args, math.Float32frombits(binary.BigEndian.Uint32(data[:bit32Size])))
			data = data[bit32Size:]

		case TypeFloat64:
			if len(data) < bit64Size {
				return fmt.Errorf("parseArguments: not enough bytes to read float64")
			}
			args = append(args, math.Float64frombits(binary.BigEndian.Uint64(data[:bit64Size])))
			data = data[bit64Size:]

		case TypeTimeTag:
			if len(data) < bit64Size {
				return fmt.Errorf("parseArguments: not enough bytes to read timetag")
			}
			args = append(args, Timetag(binary.BigEndian.Uint64(data[:bit64Size])))
			data = data[bit64Size:]

		case TypeString:
			str, n, err := parsePaddedString(data)
			if err != nil {
				return fmt.Errorf("parseArguments: %w", err)
			}
			args = append(args, str)
			data = data[n:]

		case TypeBlob:
			blob, n, err := parseBlob(data)
			if err != nil {
				return fmt.Errorf("parseArguments: %w", err)
			}
			if n > len(data) {
				return fmt.Errorf("parseArguments: blob padding exceeds message")
			}
			args = append(args, blob)
			data = data[n:]

		case TypeNil:
			args = append(args, nil)

		case TypeTrue:
			args = append(args, true)

		case TypeFalse:
			args = append(args, false)
		}
	}

	m.Arguments = args
	return nil
}
