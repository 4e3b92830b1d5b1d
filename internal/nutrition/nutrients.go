// Package nutrition holds the pure nutrient arithmetic used by the API:
// scaling a food by a serving count, summing records with optional fields,
// goal derivation from a biometric profile, and month/calendar roll-ups.
// Nothing in this package performs I/O.
package nutrition

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidQuantity is returned by ValidQuantity for non-positive or
// non-finite serving counts.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// Amount is an optional nutrient quantity. The zero value means "no data",
// which is distinct from a defined zero.
type Amount struct {
	Value float64
	Valid bool
}

// Some returns a defined Amount.
func Some(v float64) Amount { return Amount{Value: v, Valid: true} }

// FromPtr converts a nullable column value into an Amount.
func FromPtr(p *float64) Amount {
	if p == nil {
		return Amount{}
	}
	return Some(*p)
}

// Ptr is the inverse of FromPtr.
func (a Amount) Ptr() *float64 {
	if !a.Valid {
		return nil
	}
	v := a.Value
	return &v
}

// IsZero reports whether the amount is absent. encoding/json uses it for
// `omitzero` so absent nutrients are left out of responses.
func (a Amount) IsZero() bool { return !a.Valid }

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = Amount{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Some(v)
	return nil
}

// add follows the union-with-absence rule: absent + absent stays absent,
// otherwise the missing side counts as zero.
func (a Amount) add(b Amount) Amount {
	if !a.Valid && !b.Valid {
		return Amount{}
	}
	return Some(a.Value + b.Value)
}

func (a Amount) scale(q float64) Amount {
	if !a.Valid {
		return Amount{}
	}
	return Some(a.Value * q)
}

func (a Amount) round(places int) Amount {
	if !a.Valid {
		return Amount{}
	}
	return Some(roundTo(a.Value, places))
}

// Nutrients is the calorie and nutrient content of one unit of food, or the
// total of several. Calories, Carbs, Protein and TotalFat are always present;
// the rest may be absent.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	TotalFat float64 `json:"total_fat"`

	Fiber        Amount `json:"fiber,omitzero"`
	Sugar        Amount `json:"sugar,omitzero"`
	Sodium       Amount `json:"sodium,omitzero"`
	Cholesterol  Amount `json:"cholesterol,omitzero"`
	SaturatedFat Amount `json:"saturated_fat,omitzero"`
	TransFat     Amount `json:"trans_fat,omitzero"`
}

// ValidQuantity checks a serving count before it is handed to Scale.
func ValidQuantity(q float64) error {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return fmt.Errorf("%w (got %v)", ErrInvalidQuantity, q)
	}
	return nil
}

// Scale multiplies every field by q. It does not validate q; callers run
// ValidQuantity first.
func Scale(n Nutrients, q float64) Nutrients {
	return Nutrients{
		Calories:     n.Calories * q,
		Carbs:        n.Carbs * q,
		Protein:      n.Protein * q,
		TotalFat:     n.TotalFat * q,
		Fiber:        n.Fiber.scale(q),
		Sugar:        n.Sugar.scale(q),
		Sodium:       n.Sodium.scale(q),
		Cholesterol:  n.Cholesterol.scale(q),
		SaturatedFat: n.SaturatedFat.scale(q),
		TransFat:     n.TransFat.scale(q),
	}
}

// Add returns the field-wise sum of a and b.
func Add(a, b Nutrients) Nutrients {
	return Nutrients{
		Calories:     a.Calories + b.Calories,
		Carbs:        a.Carbs + b.Carbs,
		Protein:      a.Protein + b.Protein,
		TotalFat:     a.TotalFat + b.TotalFat,
		Fiber:        a.Fiber.add(b.Fiber),
		Sugar:        a.Sugar.add(b.Sugar),
		Sodium:       a.Sodium.add(b.Sodium),
		Cholesterol:  a.Cholesterol.add(b.Cholesterol),
		SaturatedFat: a.SaturatedFat.add(b.SaturatedFat),
		TransFat:     a.TransFat.add(b.TransFat),
	}
}

// Sum aggregates records at full precision. An empty input yields zero core
// fields and absent optional fields.
func Sum(records ...Nutrients) Nutrients {
	var total Nutrients
	for _, r := range records {
		total = Add(total, r)
	}
	return total
}

// Rounded is the display form: whole calories, one decimal for everything else.
func (n Nutrients) Rounded() Nutrients {
	return Nutrients{
		Calories:     RoundCalories(n.Calories),
		Carbs:        roundTo(n.Carbs, 1),
		Protein:      roundTo(n.Protein, 1),
		TotalFat:     roundTo(n.TotalFat, 1),
		Fiber:        n.Fiber.round(1),
		Sugar:        n.Sugar.round(1),
		Sodium:       n.Sodium.round(1),
		Cholesterol:  n.Cholesterol.round(1),
		SaturatedFat: n.SaturatedFat.round(1),
		TransFat:     n.TransFat.round(1),
	}
}

// RoundCalories rounds to the nearest whole calorie.
func RoundCalories(c float64) float64 {
	return math.Round(c)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
