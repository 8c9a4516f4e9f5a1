package policy

import (
	"github.com/ossim/ossim/internal/pcb"
	"github.com/ossim/ossim/internal/scheduler"
)

// mlfqLevels is the number of feedback queues, Q0..Q2, per spec.md §4.E.4.
const mlfqLevels = 3

// DefaultMLFQQuantaMs are the per-level quanta Q0, Q1, Q2 NewMLFQ falls
// back to when given a zero quanta array; demotion-only, no priority
// boosting, per spec.md §4.E.4.
var DefaultMLFQQuantaMs = [mlfqLevels]uint32{500, 1000, 2000}

// MLFQ is the preemptive, demotion-only multi-level feedback queue policy
// of spec.md §4.E.4. Unlike FIFO/SJF/RR it does not free a PCB on burst
// completion: it re-parks to the command queue so a multi-burst client
// can issue its next RUN/BLOCK, per the spec's resolved Open Question.
type MLFQ struct {
	levels         [mlfqLevels]pcb.Queue
	currentLevel   int
	currentSliceMs uint32
	quanta         [mlfqLevels]uint32
}

// NewMLFQ constructs an MLFQ policy with empty feedback queues at the
// given per-level quanta — the operator's mlfq_quanta_ms from
// internal/config, or DefaultMLFQQuantaMs if quanta is the zero value.
func NewMLFQ(quanta [mlfqLevels]uint32) *MLFQ {
	if quanta == ([mlfqLevels]uint32{}) {
		quanta = DefaultMLFQQuantaMs
	}
	return &MLFQ{quanta: quanta}
}

func (*MLFQ) Name() string { return "MLFQ" }

func (m *MLFQ) Tick(now, tickMs uint32, ready, command *pcb.Queue, cpu *scheduler.CPUSlot, d scheduler.Deliverer) {
	if task := cpu.Task; task != nil {
		task.ElapsedTimeMs += tickMs
		m.currentSliceMs += tickMs

		switch {
		case task.ElapsedTimeMs >= task.TimeMs:
			_ = d.Done(task, now)
			task.Status = pcb.StatusCommand
			task.TimeMs = 0
			task.ElapsedTimeMs = 0
			command.Enqueue(task)
			cpu.Task = nil
			m.currentSliceMs = 0
		case m.currentSliceMs >= m.quanta[m.currentLevel]:
			target := m.currentLevel
			if target < mlfqLevels-1 {
				target++
			}
			task.QueueLevel = target
			m.levels[target].Enqueue(task)
			cpu.Task = nil
			m.currentSliceMs = 0
		}
	}

	// New arrivals always enter Q0, per spec.md §4.E.4.
	for {
		task := ready.Dequeue()
		if task == nil {
			break
		}
		task.QueueLevel = 0
		m.levels[0].Enqueue(task)
	}

	if cpu.Empty() {
		for level := 0; level < mlfqLevels; level++ {
			if task := m.levels[level].Dequeue(); task != nil {
				cpu.Task = task
				m.currentLevel = level
				m.currentSliceMs = 0
				break
			}
		}
	}
}
