package money

import (
	"math"
	"strings"
)

// The schema migrated from float-dollar columns to integer-cent columns table
// by table, with no atomic cutover. These tables still carry legacy numeric
// columns populated in dollars; everything else stores cents.
var legacyDollarTables = map[string]struct{}{
	"programs":            {},
	"classes":             {},
	"products":            {},
	"events":              {},
	"event_registrations": {},
}

// Fields that buck their table's dollar default and were always cents.
// Keyed "table.field".
var centsFieldExceptions = map[string]struct{}{
	"event_registrations.payment_amount": {},
}

// IsLegacyDollars reports whether the pre-migration numeric column for this
// table/field was populated in dollars. The exception set wins over the table
// default.
func IsLegacyDollars(table, field string) bool {
	if _, ok := centsFieldExceptions[table+"."+field]; ok {
		return false
	}
	_, ok := legacyDollarTables[table]
	return ok
}

// CentsFromRow resolves a logical money field on a raw row to integer cents,
// whatever migration phase the table is in.
//
// Precedence: a numeric `<field>_cents` sibling is authoritative; otherwise
// the legacy field is read and scaled by 100 only when the table/field pair is
// dollar-denominated; a missing or non-numeric value resolves to 0.
func CentsFromRow(table, field string, row map[string]any) int64 {
	if row == nil {
		return 0
	}

	if v, ok := numericValue(row[field+"_cents"]); ok {
		return int64(math.Round(v))
	}

	v, ok := numericValue(row[field])
	if !ok {
		return 0
	}
	if strings.HasSuffix(field, "_cents") {
		return int64(math.Round(v))
	}
	if IsLegacyDollars(table, field) {
		return int64(math.Round(v * 100))
	}
	return int64(math.Round(v))
}

// MoneyFromRow is CentsFromRow wrapped as a Money value.
func MoneyFromRow(table, field string, row map[string]any) Money {
	return FromCents(CentsFromRow(table, field, row))
}
