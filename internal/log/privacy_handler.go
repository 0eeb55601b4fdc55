package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// phiKeys contains attribute keys that should always be masked.
// These keys carry patient identifying information from DICOM attributes.
var phiKeys = map[string]bool{
	// Demographics
	"patient_name":  true,
	"patientname":   true,
	"patient_id":    true,
	"patientid":     true,
	"birth_date":    true,
	"birthdate":     true,
	"patient_birth": true,
	"patient_sex":   true,

	// Study identifiers that resolve to a person within an institution
	"accession_number": true,
	"accession":        true,
	"study_id":         true,

	// Free-text fields that routinely contain names
	"operator_name":     true,
	"physician_name":    true,
	"referring":         true,
	"other_patient_ids": true,
}

// phiPatterns contains regex patterns for values that look like PHI
// regardless of their key.
var phiPatterns = []*regexp.Regexp{
	// DICOM person names: caret-separated components (DOE^JOHN^M)
	regexp.MustCompile(`^[^\^\s]+\^[^\^]*(\^[^\^]*)*$`),
}

// MaskValue is the string used to replace masked values.
const MaskValue = "***MASKED***"

// PrivacyHandler wraps an slog.Handler to mask patient identifying
// information. It intercepts log records and masks attribute values that
// match PHI key names or value patterns before passing them to the
// underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components receive a plain *slog.Logger and stay unaware of masking
type PrivacyHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewPrivacyHandler creates a new PrivacyHandler wrapping the given handler.
// All log attributes will be masked before being passed to the underlying
// handler. If handler is nil, the returned PrivacyHandler will use
// slog.Default().Handler().
func NewPrivacyHandler(handler slog.Handler) *PrivacyHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PrivacyHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PrivacyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying handler.
func (h *PrivacyHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are masked before being added.
func (h *PrivacyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &PrivacyHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *PrivacyHandler) WithGroup(name string) slog.Handler {
	return &PrivacyHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *PrivacyHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if phiKeys[keyLower] || containsPHIKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if isPHIValue(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
	}

	return a
}

// containsPHIKeyword checks if the key contains PHI keywords.
// Note: We intentionally exclude the bare "id" keyword as it causes false
// positives (e.g., "event_id", "step_id"). Specific identifier keys like
// "patient_id" and "study_id" are covered by the phiKeys map.
func containsPHIKeyword(key string) bool {
	phiKeywords := []string{
		"patient", "birth", "physician", "operator_name",
	}

	for _, keyword := range phiKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isPHIValue checks if a value matches PHI patterns.
func isPHIValue(value string) bool {
	for _, pattern := range phiPatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewPrivacyLogger creates a new slog.Logger with PHI masking.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewPrivacyLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewPrivacyHandler(textHandler))
}

// NewPrivacyJSONLogger creates a new slog.Logger with PHI masking that
// outputs JSON format. Useful for structured log aggregation.
func NewPrivacyJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewPrivacyHandler(jsonHandler))
}
