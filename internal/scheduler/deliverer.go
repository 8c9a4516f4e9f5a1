//go:build linux

package scheduler

import (
	"github.com/ossim/ossim/internal/metrics"
	"github.com/ossim/ossim/internal/obslog"
	"github.com/ossim/ossim/internal/pcb"
	"github.com/ossim/ossim/internal/proto"
	"github.com/ossim/ossim/internal/transport"
)

// fdDeliverer is the production Deliverer: it writes real DONE frames
// over the PCB's raw fd and closes that fd on Free.
type fdDeliverer struct {
	log     *obslog.Logger
	metrics *metrics.Metrics
	kind    string // "cpu" or "block", for the BurstsCompleted counter
}

func (d *fdDeliverer) Done(task *pcb.PCB, now uint32) error {
	err := transport.WriteFrame(task.Fd, proto.Frame{
		Pid:     task.Pid,
		Request: proto.Done,
		TimeMs:  now,
	})
	if err != nil {
		d.log.ClientDisconnected(task.Pid, task.Fd, err)
		return err
	}
	if d.metrics != nil {
		d.metrics.BurstsCompleted.WithLabelValues(d.kind).Inc()
	}
	return nil
}

func (d *fdDeliverer) Free(task *pcb.PCB) {
	_ = transport.Close(task.Fd)
	if d.metrics != nil {
		d.metrics.ClientsConnected.Dec()
	}
}
