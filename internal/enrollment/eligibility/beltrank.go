package eligibility

import "strings"

// BeltRank is a totally ordered progression level. Colored belts come first,
// then numbered black-belt degrees.
type BeltRank string

const (
	BeltWhite  BeltRank = "white"
	BeltYellow BeltRank = "yellow"
	BeltOrange BeltRank = "orange"
	BeltGreen  BeltRank = "green"
	BeltBlue   BeltRank = "blue"
	BeltPurple BeltRank = "purple"
	BeltRed    BeltRank = "red"
	BeltBrown  BeltRank = "brown"
	BeltBlack  BeltRank = "black"
)

// beltOrder lists every rank in progression order. Black-belt degrees follow
// the plain black belt.
var beltOrder = []BeltRank{
	BeltWhite,
	BeltYellow,
	BeltOrange,
	BeltGreen,
	BeltBlue,
	BeltPurple,
	BeltRed,
	BeltBrown,
	BeltBlack,
	"black_1st_dan",
	"black_2nd_dan",
	"black_3rd_dan",
	"black_4th_dan",
	"black_5th_dan",
}

var beltIndex = func() map[BeltRank]int {
	m := make(map[BeltRank]int, len(beltOrder))
	for i, r := range beltOrder {
		m[r] = i
	}
	return m
}()

// ParseBeltRank normalizes a stored rank string. Unknown ranks resolve to the
// lowest rank so a student with a malformed history is never over-ranked.
func ParseBeltRank(raw string) BeltRank {
	rank := BeltRank(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := beltIndex[rank]; ok {
		return rank
	}
	return BeltWhite
}

// Ordinal returns the rank's position in the progression.
func (r BeltRank) Ordinal() int {
	if i, ok := beltIndex[r]; ok {
		return i
	}
	return 0
}

// AtLeast reports whether r is at or above the given rank.
func (r BeltRank) AtLeast(other BeltRank) bool {
	return r.Ordinal() >= other.Ordinal()
}

// AtMost reports whether r is at or below the given rank.
func (r BeltRank) AtMost(other BeltRank) bool {
	return r.Ordinal() <= other.Ordinal()
}

// Next returns the following rank, or the same rank at the top of the ladder.
func (r BeltRank) Next() BeltRank {
	i := r.Ordinal()
	if i+1 < len(beltOrder) {
		return beltOrder[i+1]
	}
	return r
}

// Display renders a rank for humans, e.g. "Blue Belt".
func (r BeltRank) Display() string {
	name := strings.ReplaceAll(string(r), "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 1 {
		return words[0] + " Belt"
	}
	return strings.Join(words, " ")
}
