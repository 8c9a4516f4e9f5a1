//go:build linux

// Package transport owns the listening Unix-domain socket and the raw,
// non-blocking per-client read/write primitives the scheduler's tick loop
// polls directly, following spec.md §4.C.
//
// The non-blocking syscall.Read/syscall.Write-with-EAGAIN technique is
// adapted from the teacher package's tryRead/tryWrite, narrowed from an
// arbitrary streaming buffer down to the protocol's fixed 12-byte frame:
// there is no event-notifying poller here because the scheduler's tick
// loop already re-scans every open connection once per (half-)tick, which
// is itself the readiness poll spec.md §4.D calls for.
package transport

import (
	"errors"
	"os"
	"syscall"
)

// Backlog matches spec.md §4.C's MAX_CLIENTS listen backlog.
const Backlog = 128

// ErrTooManyFiles signals EMFILE/ENFILE during an accept drain: the spec
// calls for logging and stopping the drain for this tick, not retrying.
var ErrTooManyFiles = errors.New("transport: too many open files")

// Listener is the scheduler's well-known local stream socket.
type Listener struct {
	fd   int
	path string
}

// Listen creates (or recreates) the Unix-domain socket at path, puts it in
// non-blocking mode, and starts listening with Backlog pending connections,
// matching ossim.c's setup_server_socket.
func Listen(path string) (*Listener, error) {
	// A stale socket file from a previous, uncleanly-terminated run must be
	// removed before bind(2); absence of the file is not an error.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	fd, err := syscall.Socket(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}

	addr := &syscall.SockaddrUnix{Name: path}
	if err := syscall.Bind(fd, addr); err != nil {
		syscall.Close(fd)
		return nil, os.NewSyscallError("bind", err)
	}

	if err := syscall.Listen(fd, Backlog); err != nil {
		syscall.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}

	if err := setNonblock(fd); err != nil {
		syscall.Close(fd)
		return nil, err
	}

	return &Listener{fd: fd, path: path}, nil
}

// Close shuts down the listening socket and removes the socket file.
func (l *Listener) Close() error {
	err := syscall.Close(l.fd)
	if rmErr := os.Remove(l.path); err == nil && rmErr != nil && !os.IsNotExist(rmErr) {
		err = rmErr
	}
	return err
}

// AcceptAll drains every pending connection in one call, as spec.md §4.C's
// accept_all(). Each accepted fd is already non-blocking and close-on-exec
// (via accept4's flags, doing atomically what ossim.c does with two
// separate fcntl calls). EINTR and ECONNABORTED are retried transparently;
// EAGAIN/EWOULDBLOCK ends the drain with a nil error; EMFILE/ENFILE ends
// the drain and returns ErrTooManyFiles so the caller can log it and
// continue — it is not fatal to the scheduler.
func (l *Listener) AcceptAll() ([]int, error) {
	var accepted []int
	for {
		fd, _, err := syscall.Accept4(l.fd, syscall.SOCK_NONBLOCK|syscall.SOCK_CLOEXEC)
		if err == nil {
			accepted = append(accepted, fd)
			continue
		}
		switch err {
		case syscall.EINTR, syscall.ECONNABORTED:
			continue
		case syscall.EAGAIN:
			return accepted, nil
		case syscall.EMFILE, syscall.ENFILE:
			return accepted, ErrTooManyFiles
		default:
			return accepted, os.NewSyscallError("accept4", err)
		}
	}
}

func setNonblock(fd int) error {
	if err := syscall.SetNonblock(fd, true); err != nil {
		return os.NewSyscallError("setnonblock", err)
	}
	return nil
}

// Close releases a single client fd, e.g. on disconnect or burst
// completion for policies that free the PCB outright.
func Close(fd int) error {
	return syscall.Close(fd)
}
