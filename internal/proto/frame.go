// Package proto implements the fixed-size wire frame exchanged between a
// client application and the scheduler over the local stream socket.
package proto

import (
	"encoding/binary"
	"errors"
)

// RequestType enumerates the four frame kinds on the wire.
type RequestType uint32

const (
	Run RequestType = iota
	Block
	Ack
	Done
)

func (r RequestType) String() string {
	switch r {
	case Run:
		return "RUN"
	case Block:
		return "BLOCK"
	case Ack:
		return "ACK"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Size is the on-wire size of a Frame: pid int32, request uint32, time_ms
// uint32, host-endian, native alignment on the reference platform.
const Size = 12

// ByteOrder is the native byte order this codec encodes with. The wire
// format has no byte-order marker (spec note: two machines of different
// endianness are not interoperable), so this must match whatever built the
// peer binary; little-endian is the reference platform's order.
var ByteOrder = binary.LittleEndian

// Frame is the fixed ternary record defined by the wire protocol.
type Frame struct {
	Pid     int32
	Request RequestType
	TimeMs  uint32
}

// ErrShort is returned when a read or write transferred fewer bytes than
// Size; the spec treats this as a fatal protocol error for the connection,
// never as something to retry or reassemble.
var ErrShort = errors.New("proto: short read/write")

// Marshal encodes f into a Size-byte buffer.
func Marshal(f Frame) [Size]byte {
	var buf [Size]byte
	ByteOrder.PutUint32(buf[0:4], uint32(f.Pid))
	ByteOrder.PutUint32(buf[4:8], uint32(f.Request))
	ByteOrder.PutUint32(buf[8:12], f.TimeMs)
	return buf
}

// Unmarshal decodes a Size-byte buffer into a Frame.
func Unmarshal(buf [Size]byte) Frame {
	return Frame{
		Pid:     int32(ByteOrder.Uint32(buf[0:4])),
		Request: RequestType(ByteOrder.Uint32(buf[4:8])),
		TimeMs:  ByteOrder.Uint32(buf[8:12]),
	}
}
