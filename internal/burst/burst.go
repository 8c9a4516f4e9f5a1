// Package burst parses the burst-list CSV format spec.md §6.3 documents
// for completeness (it is consumed only by the app-io demo client, never
// by the scheduler core) and provides the small client-side helpers
// cmd/app and cmd/app-io use to drive RUN/BLOCK exchanges end to end.
//
// Grounded on original_source/scheduler_examples/burst_queue.c's
// burst_t/read_queue_from_file, reworked as a slice instead of a manually
// linked list — there is no scheduler-side FIFO-removal requirement here
// the way there is for pcb.Queue, so a plain slice is the idiomatic
// choice.
package burst

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MaxPages mirrors msg.h's MAX_PAGES; pages are accepted but unused by
// the core, carried here only for format fidelity.
const MaxPages = 32

// Burst is one line of a burst-list CSV: burst_ms[,block_ms[,nice[,[pages...]]]].
type Burst struct {
	BurstMs uint32
	BlockMs uint32
	Nice    int
	Pages   []uint32
}

// ReadFile parses every non-blank, non-'#' line of path into a Burst, in
// file order.
func ReadFile(path string) ([]Burst, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var bursts []Burst
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		b, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("burst: %s:%d: %w", path, lineNo, err)
		}
		bursts = append(bursts, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return bursts, nil
}

func parseLine(line string) (Burst, error) {
	fields := strings.Split(line, ",")
	if len(fields) == 0 || strings.TrimSpace(fields[0]) == "" {
		return Burst{}, fmt.Errorf("missing burst_ms")
	}

	var b Burst
	burstMs, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
	if err != nil {
		return Burst{}, fmt.Errorf("burst_ms: %w", err)
	}
	b.BurstMs = uint32(burstMs)

	if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
		blockMs, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 32)
		if err != nil {
			return Burst{}, fmt.Errorf("block_ms: %w", err)
		}
		b.BlockMs = uint32(blockMs)
	}

	if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
		nice, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return Burst{}, fmt.Errorf("nice: %w", err)
		}
		b.Nice = nice
	}

	for _, raw := range fields[minInt(3, len(fields)):] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if len(b.Pages) >= MaxPages {
			break
		}
		page, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Burst{}, fmt.Errorf("page: %w", err)
		}
		b.Pages = append(b.Pages, uint32(page))
	}

	return b, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
