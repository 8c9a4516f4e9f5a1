// Command app is a minimal demo client: it connects to the scheduler,
// requests one CPU burst, and reports how long it actually took. It is a
// Go rework of original_source/scheduler_examples/app.c, kept outside
// spec.md's core (§1 lists the demo applications as out of scope) and
// exists here mainly so the wire protocol has a second real process to
// talk to in tests.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ossim/ossim/internal/burst"
	"github.com/ossim/ossim/internal/config"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <name> <time_s>\n", os.Args[0])
		os.Exit(1)
	}

	name := os.Args[1]
	seconds, err := strconv.Atoi(os.Args[2])
	if err != nil || seconds < 0 {
		fmt.Fprintf(os.Stderr, "Invalid number: %s\n", os.Args[2])
		os.Exit(1)
	}

	sess, err := burst.Dial(config.DefaultSocketPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect:", err)
		os.Exit(1)
	}
	defer sess.Close()

	fmt.Printf("Application %s started, will need the CPU for %d seconds\n", name, seconds)

	burstMs := uint32(seconds) * 1000
	start, end, err := sess.Burst(burstMs, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "burst:", err)
		os.Exit(1)
	}

	elapsed := float64(end-start) / 1000.0
	fmt.Printf("Application %s finished at time %d ms, Elapsed: %.03f seconds, CPU: %.03f seconds\n",
		name, end, elapsed, float64(seconds))
}
