package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ossim/ossim/internal/pcb"
	"github.com/ossim/ossim/internal/scheduler"
)

func TestMLFQ_NewArrivalsEnterQ0(t *testing.T) {
	m := NewMLFQ(DefaultMLFQQuantaMs)
	d := &fakeDeliverer{}

	ready := &pcb.Queue{}
	command := &pcb.Queue{}
	a := pcb.New(1, -1, 10000)
	ready.Enqueue(a)

	cpu := &scheduler.CPUSlot{}
	m.Tick(0, 100, ready, command, cpu, d)

	require.NotNil(t, cpu.Task)
	require.Equal(t, a.Pid, cpu.Task.Pid)
	require.Equal(t, 0, m.currentLevel)
	require.Equal(t, 0, a.QueueLevel)
}

func TestMLFQ_DemotesRatherThanFreesOnQuantumExpiry(t *testing.T) {
	m := NewMLFQ(DefaultMLFQQuantaMs)
	d := &fakeDeliverer{}

	ready := &pcb.Queue{}
	command := &pcb.Queue{}
	task := pcb.New(1, -1, 10000)
	ready.Enqueue(task)
	cpu := &scheduler.CPUSlot{}

	// Dispatch into Q0 (quantum 500ms).
	m.Tick(0, 100, ready, command, cpu, d)
	require.Equal(t, task.Pid, cpu.Task.Pid)

	var now uint32
	const tickMs = 100
	for i := 0; i < 4; i++ {
		now += tickMs
		m.Tick(now, tickMs, ready, command, cpu, d)
		require.NotNil(t, cpu.Task, "task keeps running until its Q0 quantum expires")
	}

	// Fifth tick exhausts the 500ms Q0 quantum: demote to Q1, never free.
	now += tickMs
	m.Tick(now, tickMs, ready, command, cpu, d)

	require.Empty(t, d.freed, "MLFQ demotion must not free the PCB")
	require.Equal(t, 1, task.QueueLevel, "task must be demoted from Q0 to Q1")
}

func TestMLFQ_NeverDemotesBelowLowestLevel(t *testing.T) {
	m := NewMLFQ(DefaultMLFQQuantaMs)
	m.currentLevel = mlfqLevels - 1
	d := &fakeDeliverer{}

	task := pcb.New(1, -1, 100000)
	task.QueueLevel = mlfqLevels - 1
	m.currentSliceMs = m.quanta[mlfqLevels-1] - 20
	cpu := &scheduler.CPUSlot{Task: task}
	ready := &pcb.Queue{}
	command := &pcb.Queue{}

	m.Tick(1000, 10, ready, command, cpu, d)

	require.NotNil(t, cpu.Task, "quantum not yet exhausted")
	m.Tick(1010, 10, ready, command, cpu, d)

	require.Equal(t, mlfqLevels-1, task.QueueLevel, "the lowest level has nowhere further to demote to")
}

func TestMLFQ_CompletionReParksToCommandInsteadOfFreeing(t *testing.T) {
	m := NewMLFQ(DefaultMLFQQuantaMs)
	d := &fakeDeliverer{}

	task := pcb.New(7, -1, 30)
	task.ElapsedTimeMs = 20
	task.Status = pcb.StatusRunning
	cpu := &scheduler.CPUSlot{Task: task}
	ready := &pcb.Queue{}
	command := &pcb.Queue{}

	m.Tick(500, 10, ready, command, cpu, d)

	require.Nil(t, cpu.Task)
	require.Empty(t, d.freed, "MLFQ never frees a finished PCB outright")
	require.Len(t, d.doneCalls, 1)
	require.Equal(t, 1, command.Len(), "a finished burst re-parks to the command queue for its next RUN/BLOCK")
	require.Equal(t, pcb.StatusCommand, command.Front().Value.(*pcb.PCB).Status)
}
