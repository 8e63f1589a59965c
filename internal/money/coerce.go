package money

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// To coerces an arbitrary value to Money.
//
// Raw numbers are interpreted as DOLLARS, not cents; serialized objects carry
// cents in their amount field. The asymmetry is intentional API surface:
// numbers arrive from forms and spreadsheets in major units, objects arrive
// from our own serialization.
func To(value any) (Money, error) {
	switch v := value.(type) {
	case Money:
		return v, nil
	case *Money:
		if v == nil {
			return FromCents(0), nil
		}
		return *v, nil
	case int:
		return FromDollars(float64(v))
	case int32:
		return FromDollars(float64(v))
	case int64:
		return FromDollars(float64(v))
	case float32:
		return FromDollars(float64(v))
	case float64:
		return FromDollars(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Money{}, fmt.Errorf("money: cannot parse %q as an amount", v.String())
		}
		return FromDollars(f)
	case map[string]any:
		return fromSerializedMap(v)
	case []byte:
		return fromString(string(v))
	case string:
		return fromString(v)
	case nil:
		return FromCents(0), nil
	default:
		return Money{}, fmt.Errorf("money: cannot convert %T to a money value", value)
	}
}

func fromString(raw string) (Money, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return FromCents(0), nil
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return FromDollars(f)
	}

	if strings.HasPrefix(trimmed, "{") {
		var m Money
		if err := json.Unmarshal([]byte(trimmed), &m); err == nil {
			return m, nil
		}
	}

	return Money{}, fmt.Errorf("money: cannot parse %q as an amount", raw)
}

func fromSerializedMap(raw map[string]any) (Money, error) {
	amount, ok := numericValue(raw["amount"])
	if !ok {
		return Money{}, fmt.Errorf("money: serialized value missing numeric amount")
	}
	currency := DefaultCurrency
	if c, ok := raw["currency"].(string); ok && c != "" {
		currency = c
	}
	m, err := FromFloatCents(amount)
	if err != nil {
		return Money{}, err
	}
	return FromCentsIn(m.Cents(), currency), nil
}

// numericValue unwraps the numeric types a scanned database row or decoded
// JSON document can carry.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
