package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ossim/ossim/internal/scheduler"
)

// registry maps a policy name to its constructor, per spec.md §4.F. Every
// constructor takes the operator-tunable RR quantum and MLFQ per-level
// quanta (internal/config's RRQuantumMs/MLFQQuantaMs); FIFO and SJF
// simply ignore them, having no quantum of their own.
var registry = map[string]func(rrQuantumMs uint32, mlfqQuantaMs [3]uint32) scheduler.Policy{
	"FIFO": func(uint32, [3]uint32) scheduler.Policy { return NewFIFO() },
	"SJF":  func(uint32, [3]uint32) scheduler.Policy { return NewSJF() },
	"RR":   func(rrQuantumMs uint32, _ [3]uint32) scheduler.Policy { return NewRR(rrQuantumMs) },
	"MLFQ": func(_ uint32, mlfqQuantaMs [3]uint32) scheduler.Policy { return NewMLFQ(mlfqQuantaMs) },
}

// ErrUnknownPolicy is returned by Get when name isn't in the registry.
type ErrUnknownPolicy struct {
	Name  string
	Known []string
}

func (e *ErrUnknownPolicy) Error() string {
	return fmt.Sprintf("scheduler %s not recognized. Available options are: %s",
		e.Name, strings.Join(e.Known, ", "))
}

// Names returns the registry's keys, sorted, for error messages and help
// text.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get constructs the named policy, case-insensitively, applying
// rrQuantumMs/mlfqQuantaMs to whichever of RR/MLFQ is selected. An
// unrecognized name returns *ErrUnknownPolicy listing the known names,
// matching spec.md §4.F's "print the list of known names" behavior.
func Get(name string, rrQuantumMs uint32, mlfqQuantaMs [3]uint32) (scheduler.Policy, error) {
	ctor, ok := registry[strings.ToUpper(name)]
	if !ok {
		return nil, &ErrUnknownPolicy{Name: name, Known: Names()}
	}
	return ctor(rrQuantumMs, mlfqQuantaMs), nil
}
