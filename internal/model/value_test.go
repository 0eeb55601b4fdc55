package model

import (
	"encoding/json"
	"testing"
)

// TestValueMissing tests the missing sentinel semantics.
func TestValueMissing(t *testing.T) {
	t.Parallel()

	var zero Value
	if zero.Present() {
		t.Error("zero Value must be missing")
	}
	if Missing().Present() {
		t.Error("Missing() must not be present")
	}
	if _, ok := zero.Float(); ok {
		t.Error("missing value must not read as a number")
	}
	if got := zero.Render("-"); got != "-" {
		t.Errorf("got %q, expected placeholder", got)
	}
}

// TestValueRender tests display rendering of present values.
func TestValueRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"number with unit", Number(12.5, "mGy"), "12.5 mGy"},
		{"unit-less number", Number(44, ""), "44"},
		{"trailing zeros trimmed", Number(805.10, "mGy.cm"), "805.1 mGy.cm"},
		{"text", Text("Chest Routine"), "Chest Routine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.v.Render("-"); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

// TestValueJSON tests the null-for-missing JSON contract both ways.
func TestValueJSON(t *testing.T) {
	t.Parallel()

	t.Run("missing marshals to null", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Missing())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "null" {
			t.Errorf("got %s, expected null", data)
		}
	})

	t.Run("null unmarshals to missing", func(t *testing.T) {
		t.Parallel()
		var v Value
		if err := json.Unmarshal([]byte("null"), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Present() {
			t.Error("expected missing")
		}
	})

	t.Run("numeric survives a round trip", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Number(805.1, "mGy.cm"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"value":805.1,"unit":"mGy.cm"}` {
			t.Errorf("unexpected wire form: %s", data)
		}
		var v Value
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f, ok := v.Float(); !ok || f != 805.1 {
			t.Errorf("got %v (present=%v), expected 805.1", f, ok)
		}
		if v.Unit() != "mGy.cm" {
			t.Errorf("got unit %q, expected mGy.cm", v.Unit())
		}
	})

	t.Run("text survives a round trip", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Text("IEC Body Dosimetry Phantom"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var v Value
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := v.Render("-"); got != "IEC Body Dosimetry Phantom" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("numeric-looking text keeps its type", func(t *testing.T) {
		t.Parallel()

		// Hospital identifiers commonly carry leading zeros. They must
		// come back as the same text, never re-typed into a number.
		for _, s := range []string{"007", "0012345", "120 kV"} {
			data, err := json.Marshal(Text(s))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var v Value
			if err := json.Unmarshal(data, &v); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := v.Float(); ok {
				t.Errorf("%q decoded as numeric", s)
			}
			if got := v.Render("-"); got != s {
				t.Errorf("round trip changed the value: %q -> %q", s, got)
			}
		}
	})
}
