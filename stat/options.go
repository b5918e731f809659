package stat

import "statkit/domain/core"

// Alternative selects the tail of a hypothesis test.
type Alternative int

const (
	TwoSided Alternative = iota
	Less
	Greater
)

// ParseAlternative maps the wire names onto an Alternative.
func ParseAlternative(s string) (Alternative, error) {
	switch s {
	case "two-sided", "":
		return TwoSided, nil
	case "less":
		return Less, nil
	case "greater":
		return Greater, nil
	default:
		return 0, core.NewInvalidArgument("alternative must be one of 'two-sided', 'less' or 'greater', got %q", s)
	}
}

func (a Alternative) String() string {
	switch a {
	case TwoSided:
		return "two-sided"
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "unknown"
	}
}

func (a Alternative) validate() error {
	if a < TwoSided || a > Greater {
		return core.NewInvalidArgument("alternative must be one of 'two-sided', 'less' or 'greater'")
	}
	return nil
}

// Method selects between exact combinatorial and asymptotic p-value
// computation. Auto switches to the asymptotic approximation when the exact
// computation would be too expensive or its assumptions (such as no ties)
// are violated, emitting an ExactFallback advisory.
type Method int

const (
	MethodAuto Method = iota
	MethodExact
	MethodAsymptotic
)

// ParseMethod maps the wire names onto a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "auto", "":
		return MethodAuto, nil
	case "exact":
		return MethodExact, nil
	case "asymptotic":
		return MethodAsymptotic, nil
	default:
		return 0, core.NewInvalidArgument("method must be one of 'auto', 'exact' or 'asymptotic', got %q", s)
	}
}

func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodExact:
		return "exact"
	case MethodAsymptotic:
		return "asymptotic"
	default:
		return "unknown"
	}
}

func (m Method) validate() error {
	if m < MethodAuto || m > MethodAsymptotic {
		return core.NewInvalidArgument("method must be one of 'auto', 'exact' or 'asymptotic'")
	}
	return nil
}
