package stat

import (
	"fmt"
	"sync"
)

// AdvisoryKind classifies non-fatal conditions a kernel can report while
// still returning a well-defined (possibly NaN) result.
type AdvisoryKind int

const (
	// ConstantInput: zero-variance input to a correlation-type kernel.
	ConstantInput AdvisoryKind = iota
	// NearConstantInput: variance so small the result is numerically poor.
	NearConstantInput
	// DegenerateGroup: a group with too few observations (ANOVA family).
	DegenerateGroup
	// ExactFallback: an exact combinatorial computation was replaced by an
	// asymptotic approximation.
	ExactFallback
	// BadInputSizes: input sizes that make the result unreliable.
	BadInputSizes
)

func (k AdvisoryKind) String() string {
	switch k {
	case ConstantInput:
		return "constant_input"
	case NearConstantInput:
		return "near_constant_input"
	case DegenerateGroup:
		return "degenerate_group"
	case ExactFallback:
		return "exact_fallback"
	case BadInputSizes:
		return "bad_input_sizes"
	default:
		return "unknown"
	}
}

// Advisory is one non-fatal notification. Pos is the output coordinate of
// the broadcast slice that raised it; nil for scalar or flattened
// evaluations.
type Advisory struct {
	Kind    AdvisoryKind
	Message string
	Pos     []int
}

// Diagnostics collects advisories as an explicit secondary output rather
// than a process-wide warning registry. It is safe for concurrent use so
// parallel broadcast slices can report into one collector.
type Diagnostics struct {
	mu         sync.Mutex
	advisories []Advisory
}

func (d *Diagnostics) add(kind AdvisoryKind, format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.advisories = append(d.advisories, Advisory{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// addAll appends advisories tagged with the coordinate of the slice they
// came from.
func (d *Diagnostics) addAll(pos []int, advisories []Advisory) {
	if len(advisories) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range advisories {
		a.Pos = append([]int(nil), pos...)
		d.advisories = append(d.advisories, a)
	}
}

// Advisories returns a copy of the collected advisories.
func (d *Diagnostics) Advisories() []Advisory {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Advisory(nil), d.advisories...)
}

// Has reports whether any advisory of the given kind was collected.
func (d *Diagnostics) Has(kind AdvisoryKind) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range d.advisories {
		if a.Kind == kind {
			return true
		}
	}
	return false
}
