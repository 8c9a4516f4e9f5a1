package policy

import (
	"container/list"

	"github.com/ossim/ossim/internal/pcb"
	"github.com/ossim/ossim/internal/scheduler"
)

// SJF is the non-preemptive shortest-remaining-time-first policy of
// spec.md §4.E.2. Running-task aging and completion are identical to
// FIFO; only the CPU-slot-fill step differs, picking the ready PCB with
// the minimum time_ms - elapsed_time_ms, first-in-queue-order breaking
// ties.
type SJF struct{}

// NewSJF constructs an SJF policy. It carries no state between ticks.
func NewSJF() *SJF { return &SJF{} }

func (*SJF) Name() string { return "SJF" }

func (*SJF) Tick(now, tickMs uint32, ready, _ *pcb.Queue, cpu *scheduler.CPUSlot, d scheduler.Deliverer) {
	if task := cpu.Task; task != nil {
		task.ElapsedTimeMs += tickMs
		if task.ElapsedTimeMs >= task.TimeMs {
			_ = d.Done(task, now)
			d.Free(task)
			cpu.Task = nil
		}
	}

	if cpu.Empty() && ready.Len() > 0 {
		var shortest *list.Element
		var shortestRemaining uint32
		ready.Each(func(elem *list.Element, p *pcb.PCB) bool {
			if shortest == nil || p.RemainingMs() < shortestRemaining {
				shortest = elem
				shortestRemaining = p.RemainingMs()
			}
			return true // never remove while scanning
		})
		cpu.Task = ready.Remove(shortest)
	}
}
