//go:build linux

package transport

import (
	"errors"
	"io"
	"syscall"

	"github.com/ossim/ossim/internal/proto"
)

// ErrWouldBlock means a write could not be completed without blocking and
// no retry/timeout machinery exists for it (spec.md §5: "no timeouts...
// Implementations MAY enforce write timeouts but the reference semantics
// do not"). The caller treats it the same as a short write: fatal for that
// connection.
var ErrWouldBlock = errors.New("transport: write would block")

// ReadFrame attempts a single non-blocking read of exactly one frame from
// fd, generalizing the teacher's tryRead to the protocol's fixed record
// size instead of an arbitrary buffer.
//
// Return contract:
//   - (frame, true, nil): a full frame was read.
//   - (zero, false, nil): EAGAIN/EWOULDBLOCK — nothing to read this tick.
//   - (zero, false, io.EOF): the peer closed the connection.
//   - (zero, false, err): a short read or other fatal error; the spec
//     treats a partial frame as a protocol error, not something to buffer
//     and retry.
func ReadFrame(fd int) (proto.Frame, bool, error) {
	var buf [proto.Size]byte
	for {
		n, err := syscall.Read(fd, buf[:])
		switch err {
		case syscall.EINTR:
			continue
		case syscall.EAGAIN:
			return proto.Frame{}, false, nil
		case nil:
			if n == 0 {
				return proto.Frame{}, false, io.EOF
			}
			if n != proto.Size {
				return proto.Frame{}, false, proto.ErrShort
			}
			return proto.Unmarshal(buf), true, nil
		default:
			return proto.Frame{}, false, err
		}
	}
}

// WriteFrame writes exactly one frame to fd. A short write, or EAGAIN with
// nothing written, is reported as a fatal connection error per spec.md
// §6.1's "all-or-nothing" rule — the codec performs no partial-write
// retry or buffering.
func WriteFrame(fd int, f proto.Frame) error {
	buf := proto.Marshal(f)
	for {
		n, err := syscall.Write(fd, buf[:])
		switch err {
		case syscall.EINTR:
			continue
		case syscall.EAGAIN:
			return ErrWouldBlock
		case nil:
			if n != proto.Size {
				return proto.ErrShort
			}
			return nil
		default:
			return err
		}
	}
}
