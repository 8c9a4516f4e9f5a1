// Command app-io is the burst/block demo client: it reads a burst-list
// CSV (spec.md §6.3) and drives a RUN/BLOCK/RUN/... sequence against the
// scheduler, reporting elapsed/CPU/blocked time on completion. Go rework
// of original_source/scheduler_examples/app-io.c, out of spec.md's core
// scope (§1) the same way app.c is.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ossim/ossim/internal/burst"
	"github.com/ossim/ossim/internal/config"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <burst-file.csv>\n", os.Args[0])
		os.Exit(1)
	}

	burstFile := os.Args[1]
	name := basenameNoExt(burstFile)

	bursts, err := burst.ReadFile(burstFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read burst file:", err)
		os.Exit(1)
	}

	sess, err := burst.Dial(config.DefaultSocketPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect:", err)
		os.Exit(1)
	}
	defer sess.Close()

	var startMs, endMs uint32
	var cpuMs, blockedMs uint32
	for i, b := range bursts {
		start, end, err := sess.Burst(b.BurstMs, b.BlockMs)
		if err != nil {
			fmt.Fprintln(os.Stderr, "burst:", err)
			os.Exit(1)
		}
		if i == 0 {
			startMs = start
		}
		endMs = end
		cpuMs += b.BurstMs
		blockedMs += b.BlockMs
	}

	elapsed := float64(endMs-startMs) / 1000.0
	cpu := float64(cpuMs) / 1000.0
	blocked := float64(blockedMs) / 1000.0
	fmt.Printf("Application %s finished at time %d ms, Elapsed: %.03f seconds, CPU: %.03f seconds, BLOCKED: %.03f seconds\n",
		name, endMs, elapsed, cpu, blocked)
}

func basenameNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
