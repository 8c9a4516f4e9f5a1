package burst

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/ossim/ossim/internal/proto"
)

// Session is a demo client's connection to the scheduler: one blocking
// Unix-domain socket, used the way app.c/app-io.c use theirs — send a
// request, block for ACK, block for DONE.
type Session struct {
	conn net.Conn
	pid  int32
}

// Dial connects to the scheduler's socket and records the caller's own
// pid to stamp onto outgoing frames, mirroring app.c's use of getpid().
func Dial(socketPath string) (*Session, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, err
	}
	return &Session{conn: conn, pid: int32(os.Getpid())}, nil
}

// Close closes the underlying connection.
func (s *Session) Close() error { return s.conn.Close() }

// Burst sends a RUN for burstMs, blocks for the scheduler's ACK and then
// DONE, and — if blockMs is non-zero — immediately follows with a BLOCK
// for blockMs, again waiting for ACK/DONE. It returns the simulated clock
// reading at the first ACK (the burst's start time) and at the final
// DONE, matching app-io.c's handle_process_requests bookkeeping.
func (s *Session) Burst(burstMs, blockMs uint32) (startMs, endMs uint32, err error) {
	startMs, endMs, err = s.exchange(proto.Run, burstMs)
	if err != nil {
		return 0, 0, err
	}
	if blockMs == 0 {
		return startMs, endMs, nil
	}
	_, endMs, err = s.exchange(proto.Block, blockMs)
	return startMs, endMs, err
}

// exchange sends one RUN or BLOCK request and waits for its ACK then
// DONE, returning the simulated clock at each.
func (s *Session) exchange(req proto.RequestType, timeMs uint32) (ackMs, doneMs uint32, err error) {
	if err := s.send(proto.Frame{Pid: s.pid, Request: req, TimeMs: timeMs}); err != nil {
		return 0, 0, err
	}

	ack, err := s.recv()
	if err != nil {
		return 0, 0, err
	}
	if ack.Request != proto.Ack {
		return 0, 0, fmt.Errorf("burst: expected ACK, got %s", ack.Request)
	}

	done, err := s.recv()
	if err != nil {
		return 0, 0, err
	}
	if done.Request != proto.Done {
		return 0, 0, fmt.Errorf("burst: expected DONE, got %s", done.Request)
	}

	return ack.TimeMs, done.TimeMs, nil
}

func (s *Session) send(f proto.Frame) error {
	buf := proto.Marshal(f)
	n, err := s.conn.Write(buf[:])
	if err != nil {
		return err
	}
	if n != proto.Size {
		return proto.ErrShort
	}
	return nil
}

func (s *Session) recv() (proto.Frame, error) {
	var buf [proto.Size]byte
	if _, err := io.ReadFull(s.conn, buf[:]); err != nil {
		return proto.Frame{}, err
	}
	return proto.Unmarshal(buf), nil
}
