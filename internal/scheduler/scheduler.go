//go:build linux

package scheduler

import (
	"container/list"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/ossim/ossim/internal/config"
	"github.com/ossim/ossim/internal/metrics"
	"github.com/ossim/ossim/internal/obslog"
	"github.com/ossim/ossim/internal/pcb"
	"github.com/ossim/ossim/internal/proto"
	"github.com/ossim/ossim/internal/transport"
)

// Scheduler is the tick-driven core loop of spec.md §4.D. It owns the
// command/ready/blocked queues, the CPU slot, the simulated clock, and
// the listening socket; all mutation happens on the goroutine that calls
// Run, so no locking is needed on any of these fields (spec.md §5).
type Scheduler struct {
	listener *transport.Listener
	policy   Policy

	command pcb.Queue
	ready   pcb.Queue
	blocked pcb.Queue
	cpu     CPUSlot

	nowMs  uint32
	tickMs uint32
	nextPid int32

	log     *obslog.Logger
	metrics *metrics.Metrics

	doneCPU   *fdDeliverer
	doneBlock *fdDeliverer
}

// New binds a Scheduler to cfg.SocketPath and policy. The listening
// socket is created (and any stale one unlinked) before New returns.
func New(cfg config.Config, policy Policy, log *obslog.Logger, m *metrics.Metrics) (*Scheduler, error) {
	ln, err := transport.Listen(cfg.SocketPath)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		listener:  ln,
		policy:    policy,
		tickMs:    cfg.TickMs,
		log:       log,
		metrics:   m,
		doneCPU:   &fdDeliverer{log: log, metrics: m, kind: "cpu"},
		doneBlock: &fdDeliverer{log: log, metrics: m, kind: "block"},
	}, nil
}

// Close releases the listening socket.
func (s *Scheduler) Close() error {
	return s.listener.Close()
}

// Run executes the tick loop until ctx is canceled, per spec.md §4.D. It
// returns nil on clean cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		s.tick(ctx)
	}
}

// tick performs one full iteration of spec.md §4.D's numbered steps.
func (s *Scheduler) tick(ctx context.Context) {
	// 1. accept_all()
	s.acceptAll()

	// 2. poll_command_queue()
	s.pollCommandQueue()

	// 3. heartbeat
	if s.nowMs%1000 == 0 {
		s.log.Heartbeat(s.nowMs / 1000)
		if s.metrics != nil {
			s.metrics.HeartbeatSeconds.Inc()
		}
	}

	// 4. age_blocked_queue()
	s.ageBlockedQueue()

	// 5. short sleep, then give just-unblocked clients a chance to issue
	// their next burst within the same tick.
	s.sleepHalfTick(ctx)
	s.acceptAll()
	s.pollCommandQueue()

	// 6. invoke the policy
	prevPid, hadTask := int32(0), !s.cpu.Empty()
	if hadTask {
		prevPid = s.cpu.Task.Pid
	}

	var done Deliverer = s.doneCPU
	s.policy.Tick(s.nowMs, s.tickMs, &s.ready, &s.command, &s.cpu, done)

	if s.metrics != nil {
		s.metrics.Ticks.Inc()
		s.metrics.QueueDepth.WithLabelValues("command").Set(float64(s.command.Len()))
		s.metrics.QueueDepth.WithLabelValues("ready").Set(float64(s.ready.Len()))
		s.metrics.QueueDepth.WithLabelValues("blocked").Set(float64(s.blocked.Len()))

		// A dispatch is the CPU slot newly holding a PCB it didn't hold
		// before this policy call — covers both "filled an empty slot"
		// and "preempted one task for another" in a single check.
		if task := s.cpu.Task; task != nil && (!hadTask || task.Pid != prevPid) {
			s.metrics.Dispatches.WithLabelValues(s.policy.Name(), strconv.Itoa(int(task.Pid))).Inc()
		}
	}

	// 7. short sleep, advance the clock
	s.sleepHalfTick(ctx)
	s.nowMs += s.tickMs
}

func (s *Scheduler) sleepHalfTick(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(s.tickMs/2) * time.Millisecond):
	}
}

// acceptAll drains every pending connection into the command queue with a
// freshly assigned, monotonically increasing pid, per spec.md §4.C.
func (s *Scheduler) acceptAll() {
	fds, err := s.listener.AcceptAll()
	for _, fd := range fds {
		s.nextPid++
		task := pcb.New(s.nextPid, fd, 0)
		s.command.Enqueue(task)
		s.log.ClientConnected(task.Pid, fd)
		if s.metrics != nil {
			s.metrics.ClientsConnected.Inc()
		}
	}
	if err == transport.ErrTooManyFiles {
		s.log.AcceptDrainStopped(err)
	}
}

// pollCommandQueue implements spec.md §4.C's poll_command_queue /
// §4.D step 2's dispatch table in one pass.
func (s *Scheduler) pollCommandQueue() {
	s.command.Each(func(_ *list.Element, task *pcb.PCB) bool {
		frame, ok, err := transport.ReadFrame(task.Fd)
		switch {
		case err == nil && !ok:
			// EAGAIN: nothing to read yet, leave on command_queue.
			return true
		case err == io.EOF || err != nil:
			// Departed client or fatal protocol error: reclaim the PCB.
			s.log.ClientDisconnected(task.Pid, task.Fd, err)
			_ = transport.Close(task.Fd)
			if s.metrics != nil {
				s.metrics.ClientsConnected.Dec()
				if err != io.EOF {
					s.metrics.ProtocolErrors.Inc()
				}
			}
			return false
		}

		switch frame.Request {
		case proto.Run:
			task.TimeMs = frame.TimeMs
			task.ElapsedTimeMs = 0
			task.Status = pcb.StatusRunning
			s.ready.Enqueue(task)
			s.ack(task)
			return false
		case proto.Block:
			task.TimeMs = frame.TimeMs
			task.Status = pcb.StatusBlocked
			task.LastUpdateTimeMs = s.nowMs
			s.blocked.Enqueue(task)
			s.ack(task)
			return false
		default:
			s.log.ProtocolError(task.Pid, task.Fd, "unexpected request "+frame.Request.String())
			if s.metrics != nil {
				s.metrics.ProtocolErrors.Inc()
			}
			return true
		}
	})
}

func (s *Scheduler) ack(task *pcb.PCB) {
	err := transport.WriteFrame(task.Fd, proto.Frame{
		Pid:     task.Pid,
		Request: proto.Ack,
		TimeMs:  s.nowMs,
	})
	if err != nil {
		s.log.ClientDisconnected(task.Pid, task.Fd, err)
	}
}

// ageBlockedQueue implements spec.md §4.D step 4.
func (s *Scheduler) ageBlockedQueue() {
	s.blocked.Each(func(_ *list.Element, task *pcb.PCB) bool {
		if task.LastUpdateTimeMs < s.nowMs {
			if task.TimeMs > s.tickMs {
				task.TimeMs -= s.tickMs
			} else {
				task.TimeMs = 0
			}
			task.LastUpdateTimeMs = s.nowMs
		}

		if task.TimeMs != 0 {
			return true
		}

		if err := s.doneBlock.Done(task, s.nowMs); err != nil {
			_ = transport.Close(task.Fd)
			if s.metrics != nil {
				s.metrics.ClientsConnected.Dec()
			}
			return false
		}
		task.Status = pcb.StatusCommand
		s.command.Enqueue(task)
		return false
	})
}
