package policy

import "github.com/ossim/ossim/internal/pcb"

// fakeDeliverer records Done/Free calls without touching a real socket,
// so policy behavior can be tested as the pure function over queues and
// the CPU slot that spec.md §4.E describes.
type fakeDeliverer struct {
	doneCalls []doneCall
	freed     []int32
}

type doneCall struct {
	pid int32
	now uint32
}

func (f *fakeDeliverer) Done(task *pcb.PCB, now uint32) error {
	f.doneCalls = append(f.doneCalls, doneCall{pid: task.Pid, now: now})
	return nil
}

func (f *fakeDeliverer) Free(task *pcb.PCB) {
	f.freed = append(f.freed, task.Pid)
}
