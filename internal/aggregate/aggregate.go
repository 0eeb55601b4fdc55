package aggregate

import (
	"log/slog"

	"github.com/glhrmbg/ctdose/internal/model"
	"github.com/glhrmbg/ctdose/internal/registry"
	"github.com/glhrmbg/ctdose/internal/walker"
)

// Aggregator folds the classified measurement stream of one exam into a
// single ExamDoseRecord. Combination rules come from the registry entries,
// never from inline branching on concept codes.
type Aggregator struct {
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger. The aggregator logs only warnings
// (conflicting explicit totals); it never fails on ambiguous input.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an Aggregator with the given options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Aggregate consumes the classified measurements of one exam, in document
// order, and produces the consolidated dose record.
//
// Total DLP is two-tier: an explicitly coded total always wins over the sum
// of per-event DLP values, because reports carrying both would otherwise be
// double counted. Two conflicting explicit totals resolve last-wins with a
// warning. A stream with no recognized measurements at all yields an empty
// record (every field missing) rather than an error: a document may
// legitimately carry no dose payload, and the record builder decides whether
// to discard it.
func (a *Aggregator) Aggregate(measurements []walker.Classified) *model.ExamDoseRecord {
	rec := &model.ExamDoseRecord{}
	st := state{}

	for _, m := range measurements {
		v := nodeValue(m.Node)
		switch m.Entry.Rule {
		case registry.RuleMarker:
			if m.Entry.Role == registry.RoleCTAcquisition {
				st.ensureEvent(rec, m.Context.EventIndex)
			}
		case registry.RuleExplicitTotal:
			if v.Present() {
				if st.explicitTotal.Present() {
					a.logger.Warn("conflicting explicit total values; keeping the last one",
						"concept", m.Entry.Name,
						"previous", st.explicitTotal.String(),
						"replacement", v.String(),
					)
				}
				st.explicitTotal = v
			}
		case registry.RuleSum:
			if f, ok := v.Float(); ok {
				st.dlpSum += f
				if st.dlpUnit == "" {
					st.dlpUnit = v.Unit()
				}
				st.dlpCount++
			}
		case registry.RuleFirstNonNull:
			if target := consolidated(rec, m.Entry.Role); target != nil && v.Present() && !target.Present() {
				*target = v
			}
		case registry.RuleLastNonNull:
			if target := consolidated(rec, m.Entry.Role); target != nil && v.Present() {
				*target = v
			}
		}

		// Per-event breakdown, independent of the consolidated fields.
		if m.Context.EventIndex >= 0 && v.Present() {
			ev := st.ensureEvent(rec, m.Context.EventIndex)
			if target := perEvent(ev, m.Entry.Role); target != nil {
				*target = v
			}
		}
	}

	switch {
	case st.explicitTotal.Present():
		rec.TotalDLP = st.explicitTotal
	case st.dlpCount > 0:
		rec.TotalDLP = model.Number(st.dlpSum, st.dlpUnit)
	}

	return rec
}

// state is the per-Aggregate accumulator.
type state struct {
	explicitTotal model.Value
	dlpSum        float64
	dlpUnit       string
	dlpCount      int
}

// ensureEvent grows the per-event slice so that index exists, creating
// intermediate events as needed, and returns the event at that index.
func (s *state) ensureEvent(rec *model.ExamDoseRecord, index int) *model.EventDose {
	for len(rec.Events) <= index {
		rec.Events = append(rec.Events, model.EventDose{Index: len(rec.Events)})
	}
	return &rec.Events[index]
}

// nodeValue converts a content node payload into a record value. Containers
// carry no value by invariant and yield the missing sentinel.
func nodeValue(n *model.ContentNode) model.Value {
	switch n.Type {
	case model.ValueTypeNumeric:
		return model.Number(n.Number, n.Unit)
	case model.ValueTypeText, model.ValueTypeCode:
		if n.Text == "" {
			return model.Missing()
		}
		return model.Text(n.Text)
	case model.ValueTypeDateTime:
		if n.DateTime == "" {
			return model.Missing()
		}
		return model.Text(n.DateTime)
	default:
		return model.Missing()
	}
}

// consolidated returns the consolidated record field for a role, or nil when
// the role has no exam-level destination.
func consolidated(rec *model.ExamDoseRecord, role registry.Role) *model.Value {
	switch role {
	case registry.RoleMeanCTDIvol:
		return &rec.CTDIvol
	case registry.RoleSSDE:
		return &rec.SSDE
	case registry.RolePhantomType:
		return &rec.PhantomType
	case registry.RoleAcquisitionProtocol:
		return &rec.Protocol
	case registry.RoleAcquisitionType:
		return &rec.ScanMode
	case registry.RoleTubeCurrent:
		return &rec.TubeCurrent
	case registry.RoleKVP:
		return &rec.KVP
	case registry.RoleComment:
		return &rec.Comment
	case registry.RoleScanningLength:
		return &rec.ScanningLength
	case registry.RoleStartIrradiation:
		return &rec.StartTime
	case registry.RoleEndIrradiation:
		return &rec.EndTime
	case registry.RoleTotalEvents:
		return &rec.TotalEvents
	case registry.RoleDeviceName:
		return &rec.DeviceName
	case registry.RoleDeviceManufacturer:
		return &rec.DeviceManufacturer
	case registry.RoleDeviceModel:
		return &rec.DeviceModel
	case registry.RoleDeviceSerial:
		return &rec.DeviceSerial
	case registry.RoleDeviceLocation:
		return &rec.DeviceLocation
	default:
		return nil
	}
}

// perEvent returns the event-level field for a role, or nil when the role is
// not tracked per event.
func perEvent(ev *model.EventDose, role registry.Role) *model.Value {
	switch role {
	case registry.RoleMeanCTDIvol:
		return &ev.CTDIvol
	case registry.RoleDLP:
		return &ev.DLP
	case registry.RoleSSDE:
		return &ev.SSDE
	case registry.RolePhantomType:
		return &ev.PhantomType
	case registry.RoleAcquisitionProtocol:
		return &ev.Protocol
	case registry.RoleAcquisitionType:
		return &ev.ScanMode
	case registry.RoleTargetRegion:
		return &ev.TargetRegion
	case registry.RoleComment:
		return &ev.Comment
	case registry.RoleTubeCurrent:
		return &ev.TubeCurrent
	case registry.RoleKVP:
		return &ev.KVP
	case registry.RoleScanningLength:
		return &ev.ScanningLength
	case registry.RoleIrradiationEventUID:
		return &ev.EventUID
	default:
		return nil
	}
}
