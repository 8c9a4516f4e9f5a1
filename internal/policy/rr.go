package policy

import (
	"github.com/ossim/ossim/internal/pcb"
	"github.com/ossim/ossim/internal/scheduler"
)

// DefaultQuantumMs is the fixed Round Robin quantum from spec.md §4.E.3,
// used when NewRR is given a zero quantumMs (e.g. existing call sites
// and tests that don't care about a config override).
const DefaultQuantumMs = 500

// RR is the preemptive, fixed-quantum policy of spec.md §4.E.3.
//
// currentSliceRemaining used to be a file-scope static in the original
// source; spec.md §9 calls for it to live on the policy instead, which is
// what makes two RR instances (e.g. in two test cases) independent.
type RR struct {
	quantumMs             uint32
	currentSliceRemaining uint32
}

// NewRR constructs an RR policy with the given quantum — the operator's
// rr_quantum_ms from internal/config, or DefaultQuantumMs if quantumMs
// is zero.
func NewRR(quantumMs uint32) *RR {
	if quantumMs == 0 {
		quantumMs = DefaultQuantumMs
	}
	return &RR{quantumMs: quantumMs}
}

func (*RR) Name() string { return "RR" }

func (r *RR) Tick(now, tickMs uint32, ready, _ *pcb.Queue, cpu *scheduler.CPUSlot, d scheduler.Deliverer) {
	if task := cpu.Task; task != nil {
		task.ElapsedTimeMs += tickMs
		if r.currentSliceRemaining > tickMs {
			r.currentSliceRemaining -= tickMs
		} else {
			r.currentSliceRemaining = 0
		}

		switch {
		case task.ElapsedTimeMs >= task.TimeMs:
			_ = d.Done(task, now)
			d.Free(task)
			cpu.Task = nil
			r.currentSliceRemaining = 0
		case r.currentSliceRemaining == 0:
			ready.Enqueue(task)
			cpu.Task = nil
		}
	}

	if cpu.Empty() && ready.Len() > 0 {
		cpu.Task = ready.Dequeue()
		r.currentSliceRemaining = r.quantumMs
	}
}
