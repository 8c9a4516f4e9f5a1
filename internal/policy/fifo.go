// Package policy implements the four pluggable scheduling algorithms of
// spec.md §4.E: FIFO, SJF, RR, and MLFQ. Each is a pure function over the
// ready queue and CPU slot it's handed, plus one narrow Deliverer seam
// for emitting DONE and freeing a finished PCB — no policy holds a
// pointer to the scheduler itself.
package policy

import (
	"github.com/ossim/ossim/internal/pcb"
	"github.com/ossim/ossim/internal/scheduler"
)

// FIFO is the non-preemptive, arrival-order policy of spec.md §4.E.1.
type FIFO struct{}

// NewFIFO constructs a FIFO policy. It carries no state between ticks.
func NewFIFO() *FIFO { return &FIFO{} }

func (*FIFO) Name() string { return "FIFO" }

func (*FIFO) Tick(now, tickMs uint32, ready, _ *pcb.Queue, cpu *scheduler.CPUSlot, d scheduler.Deliverer) {
	if task := cpu.Task; task != nil {
		task.ElapsedTimeMs += tickMs
		if task.ElapsedTimeMs >= task.TimeMs {
			_ = d.Done(task, now)
			d.Free(task)
			cpu.Task = nil
		}
	}

	if cpu.Empty() {
		cpu.Task = ready.Dequeue()
	}
}
