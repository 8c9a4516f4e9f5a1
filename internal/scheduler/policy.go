// Package scheduler drives the simulated clock and the tick loop that
// accepts clients, routes their RUN/BLOCK requests between the command,
// ready, and blocked queues, ages blocked tasks, and invokes the selected
// scheduling policy, per spec.md §4.D.
package scheduler

import (
	"github.com/ossim/ossim/internal/pcb"
)

// CPUSlot is the scheduler's single optional reference to the PCB
// currently occupying the CPU — the explicit field spec.md §9 recommends
// in place of the original's pointer-to-pointer cpu_task parameter.
type CPUSlot struct {
	Task *pcb.PCB
}

// Empty reports whether no PCB currently occupies the CPU.
func (c *CPUSlot) Empty() bool { return c.Task == nil }

// Deliverer is how a policy sends a DONE frame back to a finishing PCB's
// client and releases that PCB's resources. Policies never touch raw fds
// directly; this keeps every policy a pure function over queues plus one
// narrow side-effect seam, which is what makes them independently
// testable against a fake Deliverer.
type Deliverer interface {
	// Done sends DONE(now) to task's client. A non-nil error means the
	// connection is gone; the caller still proceeds to Free.
	Done(task *pcb.PCB, now uint32) error
	// Free releases task's socket fd. Called when a policy frees a PCB
	// outright (FIFO/SJF/RR) rather than re-parking it to the command
	// queue (MLFQ).
	Free(task *pcb.PCB)
}

// Policy is the common entry contract every scheduling algorithm
// implements, per spec.md §4.E:
//
//	policy(now_ms, ready_q, cpu_slot[, command_q])
//
// A call to Tick must, in order: advance the running PCB (if any) by
// tickMs; detect burst completion and emit DONE via d; optionally
// preempt; and fill an empty cpu slot from ready. The scheduler always
// passes its command queue; only policies that re-park finished PCBs
// (MLFQ) use it, and others may ignore it (tests pass nil for those).
type Policy interface {
	// Name identifies the policy for metrics labeling and the §4.F
	// selector's error message.
	Name() string
	Tick(now uint32, tickMs uint32, ready, command *pcb.Queue, cpu *CPUSlot, d Deliverer)
}
