package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	bit32Size = 4
	bit64Size = 8

	// MaxPacketSize is the largest packet the codec will produce or accept.
	MaxPacketSize = 65507

	// secondsFrom1900To1970 is the offset between the NTP and Unix epochs.
	secondsFrom1900To1970 = 2208988800
)

////
// De/Encoding functions
////

// parseBlob parses an OSC blob from data. Padding bytes are consumed but not
// returned. The returned int is the number of bytes read from data.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, fmt.Errorf("parseBlob: %w", io.ErrUnexpectedEOF)
	}

	// First, get the length
	blobLen := int(binary.BigEndian.Uint32(data[:bit32Size]))
	data = data[bit32Size:]

	if blobLen < 0 || blobLen > len(data) {
		return nil, 0, fmt.Errorf("parseBlob: invalid blob length %d", blobLen)
	}

	n := bit32Size + blobLen
	n += padBytesNeeded(n)

	blob := make([]byte, blobLen)
	copy(blob, data)

	return blob, n, nil
}

// writeBlob writes data as an OSC blob into b. If the length of data isn't
// 32-bit aligned, padding bytes are added. Returns the number of bytes written.
func writeBlob(data []byte, b *bytes.Buffer) int {
	var size [bit32Size]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(data)))
	b.Write(size[:])
	b.Write(data)

	n := bit32Size + len(data)
	pad := padBytesNeeded(n)
	b.Write(padding[:pad])

	return n + pad
}

// parsePaddedString reads a null terminated, padded string from data and
// returns the string and the number of bytes consumed.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, fmt.Errorf("parsePaddedString: %w", io.EOF)
	}

	n := pos + 1
	n += padBytesNeeded(n)
	if n > len(data) {
		return "", 0, fmt.Errorf("parsePaddedString: %w", io.ErrUnexpectedEOF)
	}

	return string(data[:pos]), n, nil
}

// writePaddedString writes a string with its null terminator and padding
// bytes to the buffer. Returns the number of written bytes.
func writePaddedString(str string, b *bytes.Buffer) int {
	b.WriteString(str)

	n := len(str) + 1
	pad := padBytesNeeded(n)
	b.Write(padding[:pad+1])

	return n + pad
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}

var padding = [bit32Size]byte{}
