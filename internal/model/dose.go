package model

// ExamDoseRecord is the aggregation output for one exam: one consolidated
// value per field role plus exam-level metadata read from the report tree.
// Fields the aggregator never observed stay as the missing sentinel.
type ExamDoseRecord struct {
	// === Consolidated dose fields ===

	// TotalDLP is the exam's total dose-length product. An explicitly coded
	// total takes precedence over the sum of per-event DLP values.
	TotalDLP Value `json:"total_dlp"`

	// CTDIvol is the consolidated CTDIvol for the exam (last non-missing
	// value in document order; see the registry note on code 113830).
	CTDIvol Value `json:"ctdivol"`

	// SSDE is the size-specific dose estimate.
	SSDE Value `json:"ssde"`

	// PhantomType is the calibration phantom (head/body).
	PhantomType Value `json:"phantom_type"`

	// Protocol is the acquisition protocol name.
	Protocol Value `json:"protocol"`

	// ScanMode is the acquisition type (helical, axial, ...).
	ScanMode Value `json:"scan_mode"`

	// TubeCurrent is the X-ray tube current.
	TubeCurrent Value `json:"tube_current"`

	// KVP is the peak tube voltage.
	KVP Value `json:"kvp"`

	// Comment is the free-text acquisition comment, used downstream as the
	// series description.
	Comment Value `json:"comment"`

	// ScanningLength is the consolidated scanning length.
	ScanningLength Value `json:"scanning_length"`

	// === Exam-level metadata ===

	// StartTime and EndTime bound the accumulated irradiation window.
	StartTime Value `json:"start_time"`
	EndTime   Value `json:"end_time"`

	// TotalEvents is the reported number of irradiation events.
	TotalEvents Value `json:"total_events"`

	// Device observer identification from the report header.
	DeviceName         Value `json:"device_name"`
	DeviceManufacturer Value `json:"device_manufacturer"`
	DeviceModel        Value `json:"device_model"`
	DeviceSerial       Value `json:"device_serial"`
	DeviceLocation     Value `json:"device_location"`

	// Events is the per-event breakdown in document order. Writers that
	// emit one row per acquisition consume this; the consolidated fields
	// above never depend on it.
	Events []EventDose `json:"events,omitempty"`
}

// EventDose holds the measurements observed inside one irradiation-event
// subtree. Zero-or-one value per field role.
type EventDose struct {
	// Index is the zero-based position of the event in document order.
	Index int `json:"index"`

	// EventUID is the irradiation event UID when present.
	EventUID Value `json:"event_uid"`

	Protocol       Value `json:"protocol"`
	ScanMode       Value `json:"scan_mode"`
	TargetRegion   Value `json:"target_region"`
	Comment        Value `json:"comment"`
	CTDIvol        Value `json:"ctdivol"`
	DLP            Value `json:"dlp"`
	SSDE           Value `json:"ssde"`
	PhantomType    Value `json:"phantom_type"`
	TubeCurrent    Value `json:"tube_current"`
	KVP            Value `json:"kvp"`
	ScanningLength Value `json:"scanning_length"`
}

// Empty reports whether the record carries no dose payload at all: every
// consolidated field is missing and no per-event measurements were seen.
// A document may legitimately produce an empty record (wrong SR type);
// the record builder decides whether to discard it.
func (r *ExamDoseRecord) Empty() bool {
	for _, v := range []Value{
		r.TotalDLP, r.CTDIvol, r.SSDE, r.PhantomType, r.Protocol,
		r.ScanMode, r.TubeCurrent, r.KVP, r.Comment, r.ScanningLength,
		r.StartTime, r.EndTime, r.TotalEvents,
		r.DeviceName, r.DeviceManufacturer, r.DeviceModel,
		r.DeviceSerial, r.DeviceLocation,
	} {
		if v.Present() {
			return false
		}
	}
	return len(r.Events) == 0
}
