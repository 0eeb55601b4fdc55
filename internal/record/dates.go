package record

import (
	"strings"
	"time"

	"github.com/glhrmbg/ctdose/internal/model"
)

// Output date layouts. Locale-independent and fixed: downstream spreadsheets
// are compared across hospitals and must not depend on the machine locale.
const (
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006, 15:04:05"
)

// parseDICOMDate parses a DICOM DA value (YYYYMMDD). Returns the zero time
// when the value is absent or malformed.
func parseDICOMDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", s[:8])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseDICOMTime parses a DICOM TM value (HHMMSS with optional fraction).
// Only whole seconds are kept.
func parseDICOMTime(s string) (hour, minute, second int, ok bool) {
	s = strings.TrimSpace(s)
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		s = s[:dot]
	}
	if len(s) < 6 {
		return 0, 0, 0, false
	}
	t, err := time.Parse("150405", s[:6])
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Hour(), t.Minute(), t.Second(), true
}

// formatDate renders a DICOM date as "Jan 2, 2006", or the missing sentinel
// when the input does not parse.
func formatDate(date string) model.Value {
	t, ok := parseDICOMDate(date)
	if !ok {
		return model.Missing()
	}
	return model.Text(t.Format(dateLayout))
}

// formatDateTime renders a DICOM date plus optional time as
// "Jan 2, 2006, 15:04:05", degrading to the date-only form when the time is
// absent or malformed.
func formatDateTime(date, tod string) model.Value {
	t, ok := parseDICOMDate(date)
	if !ok {
		return model.Missing()
	}
	h, m, s, ok := parseDICOMTime(tod)
	if !ok {
		return model.Text(t.Format(dateLayout))
	}
	stamped := time.Date(t.Year(), t.Month(), t.Day(), h, m, s, 0, time.UTC)
	return model.Text(stamped.Format(dateTimeLayout))
}

// ageAt computes whole years between birth and exam using calendar-date
// truncation: the age increments only once the birthday has passed in the
// exam year.
func ageAt(birth, exam time.Time) int {
	age := exam.Year() - birth.Year()
	if exam.Month() < birth.Month() ||
		(exam.Month() == birth.Month() && exam.Day() < birth.Day()) {
		age--
	}
	return age
}
