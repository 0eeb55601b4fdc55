package record

import (
	"testing"
	"time"
)

// TestParseDICOMDate tests DICOM DA parsing.
func TestParseDICOMDate(t *testing.T) {
	t.Parallel()

	t.Run("valid date", func(t *testing.T) {
		t.Parallel()
		got, ok := parseDICOMDate("19800115")
		if !ok {
			t.Fatal("expected parse to succeed")
		}
		want := time.Date(1980, time.January, 15, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, expected %v", got, want)
		}
	})

	t.Run("invalid inputs", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "1980", "notadate", "19801315"} {
			if _, ok := parseDICOMDate(s); ok {
				t.Errorf("expected %q to fail", s)
			}
		}
	})
}

// TestParseDICOMTime tests DICOM TM parsing including fractional seconds.
func TestParseDICOMTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		h, m, s int
		ok      bool
	}{
		{"132041", 13, 20, 41, true},
		{"132041.000000", 13, 20, 41, true},
		{"0000", 0, 0, 0, false},
		{"", 0, 0, 0, false},
		{"256161", 0, 0, 0, false},
	}
	for _, tt := range tests {
		h, m, s, ok := parseDICOMTime(tt.in)
		if ok != tt.ok {
			t.Errorf("%q: got ok=%v, expected %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && (h != tt.h || m != tt.m || s != tt.s) {
			t.Errorf("%q: got %02d:%02d:%02d, expected %02d:%02d:%02d",
				tt.in, h, m, s, tt.h, tt.m, tt.s)
		}
	}
}

// TestFormatDateTime tests the combined date-time rendering and its
// degradation to date-only.
func TestFormatDateTime(t *testing.T) {
	t.Parallel()

	if got := formatDateTime("20250505", "132041").Render("-"); got != "May 5, 2025, 13:20:41" {
		t.Errorf("got %q", got)
	}
	if got := formatDateTime("20250505", "").Render("-"); got != "May 5, 2025" {
		t.Errorf("got %q, expected date-only form", got)
	}
	if got := formatDateTime("", "132041").Render("-"); got != "-" {
		t.Errorf("got %q, expected missing", got)
	}
}

// TestAgeAt tests the calendar truncation rule directly.
func TestAgeAt(t *testing.T) {
	t.Parallel()

	birth := time.Date(1980, time.January, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		exam time.Time
		want int
	}{
		{time.Date(2024, time.May, 28, 0, 0, 0, 0, time.UTC), 44},
		{time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC), 43},
		{time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 44},
		{time.Date(1980, time.June, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		if got := ageAt(birth, tt.exam); got != tt.want {
			t.Errorf("exam %v: got %d, expected %d", tt.exam, got, tt.want)
		}
	}
}
