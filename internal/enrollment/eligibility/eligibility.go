// Package eligibility evaluates whether a student may enroll in a program.
//
// Everything here is a pure function over already-fetched data: the caller
// supplies the student snapshot, the program's rules, the completed-program
// set and the belt history. Capacity is not checked here: it needs a live row
// count and belongs to the enrollment service's transaction.
package eligibility

import (
	"fmt"
	"sort"
	"time"
)

// RequirementType tags a single evaluated rule.
type RequirementType string

const (
	RequirementAge           RequirementType = "age"
	RequirementBeltRank      RequirementType = "belt_rank"
	RequirementPrerequisites RequirementType = "prerequisites"
	RequirementGender        RequirementType = "gender"
	RequirementSpecialNeeds  RequirementType = "special_needs"
)

// Requirement is one evaluated rule with the student's actual value, so UIs
// can explain exactly why an enrollment is blocked.
type Requirement struct {
	Type        RequirementType `json:"type"`
	Requirement string          `json:"requirement"`
	Actual      string          `json:"actual"`
	Satisfied   bool            `json:"satisfied"`
}

// Result is the full eligibility evaluation.
type Result struct {
	Eligible        bool          `json:"eligible"`
	Requirements    []Requirement `json:"requirements"`
	Warnings        []string      `json:"warnings,omitempty"`
	Recommendations []string      `json:"recommendations,omitempty"`
}

// StudentSnapshot is the already-fetched student state the rules run against.
type StudentSnapshot struct {
	BirthDate           time.Time
	Gender              string
	SpecialNeeds        bool
	CompletedProgramIDs []string
	BeltAwards          []BeltAwardRecord
}

// BeltAwardRecord is one promotion on the student's record.
type BeltAwardRecord struct {
	Rank      string
	AwardedAt time.Time
}

// ProgramRules is the subset of a program definition the validator needs.
type ProgramRules struct {
	Name string

	MinAge *int
	MaxAge *int

	MinBeltRank     *string
	MaxBeltRank     *string
	EnforceBeltRank bool

	PrerequisiteProgramIDs []string
	PrerequisiteNames      map[string]string // id -> display name, optional

	GenderRestriction    string // "none", "male", "female"
	SupportsSpecialNeeds bool
}

// CurrentRank returns the student's rank as of the most recent award,
// defaulting to the lowest rank with no awards on record.
func CurrentRank(awards []BeltAwardRecord) BeltRank {
	if len(awards) == 0 {
		return BeltWhite
	}
	latest := awards[0]
	for _, award := range awards[1:] {
		if award.AwardedAt.After(latest.AwardedAt) {
			latest = award
		}
	}
	return ParseBeltRank(latest.Rank)
}

// AgeOn computes a calendar age: the naive year difference, minus one when
// the birthday later in the calendar year has not yet passed.
func AgeOn(birthDate, on time.Time) int {
	age := on.Year() - birthDate.Year()
	if on.Month() < birthDate.Month() ||
		(on.Month() == birthDate.Month() && on.Day() < birthDate.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// Check evaluates every applicable rule and ANDs the outcomes. The
// requirement list is ordered and stable for rendering.
func Check(student StudentSnapshot, program ProgramRules, now time.Time) Result {
	var result Result

	result.Requirements = append(result.Requirements, checkAge(student, program, now))

	if program.EnforceBeltRank && (program.MinBeltRank != nil || program.MaxBeltRank != nil) {
		req, recommendation := checkBeltRank(student, program)
		result.Requirements = append(result.Requirements, req)
		if recommendation != "" {
			result.Recommendations = append(result.Recommendations, recommendation)
		}
	}

	if len(program.PrerequisiteProgramIDs) > 0 {
		req, recommendations := checkPrerequisites(student, program)
		result.Requirements = append(result.Requirements, req)
		result.Recommendations = append(result.Recommendations, recommendations...)
	}

	if program.GenderRestriction != "" && program.GenderRestriction != "none" {
		result.Requirements = append(result.Requirements, checkGender(student, program))
	}

	if student.SpecialNeeds && !program.SupportsSpecialNeeds {
		// Non-blocking: staff decide case by case.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s does not list special-needs support; review before enrolling", program.Name))
	}

	result.Eligible = true
	for _, req := range result.Requirements {
		if !req.Satisfied {
			result.Eligible = false
			break
		}
	}
	return result
}

func checkAge(student StudentSnapshot, program ProgramRules, now time.Time) Requirement {
	age := AgeOn(student.BirthDate, now)

	satisfied := true
	if program.MinAge != nil && age < *program.MinAge {
		satisfied = false
	}
	if program.MaxAge != nil && age > *program.MaxAge {
		satisfied = false
	}

	var requirement string
	switch {
	case program.MinAge != nil && program.MaxAge != nil:
		requirement = fmt.Sprintf("age %d to %d", *program.MinAge, *program.MaxAge)
	case program.MinAge != nil:
		requirement = fmt.Sprintf("age %d or older", *program.MinAge)
	case program.MaxAge != nil:
		requirement = fmt.Sprintf("age %d or younger", *program.MaxAge)
	default:
		requirement = "no age requirement"
	}

	return Requirement{
		Type:        RequirementAge,
		Requirement: requirement,
		Actual:      fmt.Sprintf("%d years old", age),
		Satisfied:   satisfied,
	}
}

func checkBeltRank(student StudentSnapshot, program ProgramRules) (Requirement, string) {
	rank := CurrentRank(student.BeltAwards)

	satisfied := true
	var recommendation string

	var minRank, maxRank BeltRank
	if program.MinBeltRank != nil {
		minRank = ParseBeltRank(*program.MinBeltRank)
		if !rank.AtLeast(minRank) {
			satisfied = false
			recommendation = fmt.Sprintf("advance to %s to qualify for %s", minRank.Display(), program.Name)
		}
	}
	if program.MaxBeltRank != nil {
		maxRank = ParseBeltRank(*program.MaxBeltRank)
		if !rank.AtMost(maxRank) {
			satisfied = false
		}
	}

	var requirement string
	switch {
	case program.MinBeltRank != nil && program.MaxBeltRank != nil:
		requirement = fmt.Sprintf("%s to %s", minRank.Display(), maxRank.Display())
	case program.MinBeltRank != nil:
		requirement = fmt.Sprintf("%s or above", minRank.Display())
	default:
		requirement = fmt.Sprintf("%s or below", maxRank.Display())
	}

	return Requirement{
		Type:        RequirementBeltRank,
		Requirement: requirement,
		Actual:      rank.Display(),
		Satisfied:   satisfied,
	}, recommendation
}

func checkPrerequisites(student StudentSnapshot, program ProgramRules) (Requirement, []string) {
	completed := make(map[string]struct{}, len(student.CompletedProgramIDs))
	for _, id := range student.CompletedProgramIDs {
		completed[id] = struct{}{}
	}

	var missing []string
	for _, id := range program.PrerequisiteProgramIDs {
		if _, ok := completed[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)

	var recommendations []string
	for _, id := range missing {
		name := id
		if display, ok := program.PrerequisiteNames[id]; ok && display != "" {
			name = display
		}
		recommendations = append(recommendations, fmt.Sprintf("complete %s before enrolling in %s", name, program.Name))
	}

	return Requirement{
		Type:        RequirementPrerequisites,
		Requirement: fmt.Sprintf("%d prerequisite program(s) completed", len(program.PrerequisiteProgramIDs)),
		Actual:      fmt.Sprintf("%d of %d completed", len(program.PrerequisiteProgramIDs)-len(missing), len(program.PrerequisiteProgramIDs)),
		Satisfied:   len(missing) == 0,
	}, recommendations
}

func checkGender(student StudentSnapshot, program ProgramRules) Requirement {
	return Requirement{
		Type:        RequirementGender,
		Requirement: fmt.Sprintf("restricted to %s students", program.GenderRestriction),
		Actual:      student.Gender,
		Satisfied:   student.Gender == program.GenderRestriction,
	}
}
