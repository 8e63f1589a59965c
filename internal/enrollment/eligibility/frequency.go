package eligibility

import "fmt"

// FrequencyPolicy is a program's sessions-per-week requirement: an exact
// count, a min/max range, or unconstrained.
type FrequencyPolicy struct {
	Exact *int
	Min   *int
	Max   *int

	// DropIn programs (zero monthly fee, positive per-session fee) have no
	// frequency requirement at all.
	DropIn bool
}

// ValidateClassFrequency checks a class's weekly scheduled session count
// against the program's cadence policy. The returned message names the exact
// mismatch for admin tooling.
func ValidateClassFrequency(policy FrequencyPolicy, scheduledSessions int) (bool, string) {
	if policy.DropIn {
		return true, ""
	}

	if policy.Exact != nil {
		if scheduledSessions != *policy.Exact {
			return false, fmt.Sprintf(
				"program requires exactly %d session(s) per week, but %d are scheduled",
				*policy.Exact, scheduledSessions)
		}
		return true, ""
	}

	if policy.Min != nil && scheduledSessions < *policy.Min {
		return false, fmt.Sprintf(
			"program requires at least %d session(s) per week, but %d are scheduled",
			*policy.Min, scheduledSessions)
	}
	if policy.Max != nil && scheduledSessions > *policy.Max {
		return false, fmt.Sprintf(
			"program allows at most %d session(s) per week, but %d are scheduled",
			*policy.Max, scheduledSessions)
	}
	return true, ""
}
