package model

import (
	"encoding/json"
	"strconv"
)

// Value is a field value that distinguishes "missing" from "present".
//
// Design decision: We keep a strict missing sentinel in the core data model
// instead of empty strings or zero numbers, so downstream consumers can tell
// "absent" from "present-but-blank" and a missing dose is never silently
// reported as 0. The "-" rendering for spreadsheets lives entirely in the
// output writers via Render.
//
// The zero Value is the missing sentinel.
type Value struct {
	present bool
	numeric bool
	number  float64
	unit    string
	text    string
}

// Missing returns the missing sentinel. The zero Value is equivalent;
// this constructor exists for readability at call sites.
func Missing() Value {
	return Value{}
}

// Text creates a present text value.
func Text(s string) Value {
	return Value{present: true, text: s}
}

// Number creates a present numeric value. Pass an empty unit for unit-less
// measurements.
func Number(n float64, unit string) Value {
	return Value{present: true, numeric: true, number: n, unit: unit}
}

// Present reports whether the value carries data.
func (v Value) Present() bool {
	return v.present
}

// Float returns the numeric magnitude and whether the value is a present
// numeric measurement.
func (v Value) Float() (float64, bool) {
	return v.number, v.present && v.numeric
}

// Unit returns the unit string of a numeric value. Empty for unit-less
// measurements and non-numeric values.
func (v Value) Unit() string {
	return v.unit
}

// Render returns the display form of the value, or the given placeholder
// when missing. Numeric values render as "12.5 mGy" (no unit suffix when
// the unit is absent).
func (v Value) Render(missing string) string {
	if !v.present {
		return missing
	}
	if v.numeric {
		s := strconv.FormatFloat(v.number, 'f', -1, 64)
		if v.unit != "" {
			return s + " " + v.unit
		}
		return s
	}
	return v.text
}

// String implements fmt.Stringer for debugging output.
func (v Value) String() string {
	return v.Render("(missing)")
}

// numericJSON is the wire form of a numeric value. Text values travel as a
// plain JSON string so the two kinds stay distinguishable on decode and a
// numeric-looking text field (a patient ID with leading zeros) is never
// re-typed into a number.
type numericJSON struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// MarshalJSON encodes missing values as null, numeric values as an object
// with magnitude and unit, and text values as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.present:
		return []byte("null"), nil
	case v.numeric:
		return json.Marshal(numericJSON{Value: v.number, Unit: v.unit})
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON decodes null as the missing sentinel, objects as numeric
// values, and strings as text values.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var n numericJSON
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Number(n.Value, n.Unit)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}
