package osc

import (
	"encoding"
	"fmt"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// ParsePacket parses the given data into an OSC Message or Bundle.
func ParsePacket(data []byte) (Packet, error) {
	return parsePacket(data)
}

func parsePacket(data []byte) (Packet, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("ParsePacket: empty packet")
	}

	switch data[0] {
	case '/':
		return NewMessageFromData(data)
	case '#':
		return NewBundleFromData(data)
	default:
		return nil, fmt.Errorf("ParsePacket: invalid packet")
	}
}

// Walk calls fn for every message contained in p, descending into bundles
// depth first in element order. It stops at the first error fn returns.
func Walk(p Packet, fn func(msg *Message) error) error {
	switch t := p.(type) {
	case *Message:
		return fn(t)
	case *Bundle:
		for _, elem := range t.Elements {
			if err := Walk(elem, fn); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("Walk: invalid Packet: %T", p)
	}
}
