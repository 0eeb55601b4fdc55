package registry

import "github.com/glhrmbg/ctdose/internal/model"

// Role identifies the semantic field a concept code maps to.
type Role int

const (
	// RoleNone is the zero Role; Lookup never returns it for a hit.
	RoleNone Role = iota

	// === Containers ===

	// RoleCTAcquisition marks an irradiation-event container (113819).
	// The walker counts these to derive the event index.
	RoleCTAcquisition

	// RoleAccumulatedDose marks the CT accumulated dose data container (113811).
	RoleAccumulatedDose

	// RoleCTDose marks the per-event dose container (113829).
	RoleCTDose

	// RoleAcquisitionParams marks the acquisition parameters container (113822).
	RoleAcquisitionParams

	// RoleXRaySourceParams marks the X-ray source parameters container (113831).
	RoleXRaySourceParams

	// === Accumulated dose ===

	RoleTotalDLP
	RoleTotalEvents
	RoleStartIrradiation
	RoleEndIrradiation

	// === Per-event dose ===

	RoleMeanCTDIvol
	RoleDLP
	RoleSSDE
	RolePhantomType
	RoleCTDIvolAlert

	// === Acquisition detail ===

	RoleAcquisitionProtocol
	RoleAcquisitionType
	RoleTargetRegion
	RoleProcedureContext
	RoleIrradiationEventUID
	RoleComment
	RoleExposureTime
	RoleScanningLength
	RoleSingleCollimation
	RoleTotalCollimation
	RoleNumXRaySources
	RolePitchFactor

	// === X-ray source ===

	RoleXRaySourceID
	RoleKVP
	RoleMaxTubeCurrent
	RoleTubeCurrent
	RoleExposureTimePerRotation

	// === Device observer context ===

	RoleDeviceName
	RoleDeviceManufacturer
	RoleDeviceModel
	RoleDeviceSerial
	RoleDeviceLocation
)

// Rule is the combination rule the aggregator applies when a field role is
// observed more than once in one exam.
type Rule int

const (
	// RuleMarker applies to containers: the node itself carries no value,
	// only structural meaning.
	RuleMarker Rule = iota

	// RuleExplicitTotal marks an explicitly coded total that takes
	// precedence over any per-event sum. When two explicit totals
	// conflict, the last one wins and a warning is logged.
	RuleExplicitTotal

	// RuleSum adds per-event values into an exam total, used only when no
	// explicit total is present.
	RuleSum

	// RuleLastNonNull keeps the last present value in document order.
	RuleLastNonNull

	// RuleFirstNonNull keeps the first present value in document order,
	// used for the device observer header block which appears once at the
	// top of the report.
	RuleFirstNonNull
)

// Entry describes what a concept code means: its field role, the value type
// the decoder is expected to deliver, the combination rule, and a display
// name for logging.
type Entry struct {
	Role Role
	Type model.ValueType
	Rule Rule
	Name string
}

// concepts is the registry content, fixed at build time. It is the single
// source of truth for "what a code means": traversal logic never branches on
// code values inline, so supporting a new code is a one-line edit here.
//
// The table deliberately covers only the CT dose template; everything else
// is a silent mapping miss.
var concepts = map[string]Entry{
	// Device observer context (TID 1002).
	"121013": {Role: RoleDeviceName, Type: model.ValueTypeText, Rule: RuleFirstNonNull, Name: "Device Observer Name"},
	"121014": {Role: RoleDeviceManufacturer, Type: model.ValueTypeText, Rule: RuleFirstNonNull, Name: "Device Observer Manufacturer"},
	"121015": {Role: RoleDeviceModel, Type: model.ValueTypeText, Rule: RuleFirstNonNull, Name: "Device Observer Model Name"},
	"121016": {Role: RoleDeviceSerial, Type: model.ValueTypeText, Rule: RuleFirstNonNull, Name: "Device Observer Serial Number"},
	"121017": {Role: RoleDeviceLocation, Type: model.ValueTypeText, Rule: RuleFirstNonNull, Name: "Device Observer Physical Location"},

	// Accumulated irradiation data.
	"113809": {Role: RoleStartIrradiation, Type: model.ValueTypeDateTime, Rule: RuleFirstNonNull, Name: "Start of X-Ray Irradiation"},
	"113810": {Role: RoleEndIrradiation, Type: model.ValueTypeDateTime, Rule: RuleLastNonNull, Name: "End of X-Ray Irradiation"},
	"113811": {Role: RoleAccumulatedDose, Type: model.ValueTypeContainer, Rule: RuleMarker, Name: "CT Accumulated Dose Data"},
	"113812": {Role: RoleTotalEvents, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Total Number of Irradiation Events"},
	"113813": {Role: RoleTotalDLP, Type: model.ValueTypeNumeric, Rule: RuleExplicitTotal, Name: "CT Dose Length Product Total"},

	// Irradiation event (CT acquisition) container and detail.
	"113819": {Role: RoleCTAcquisition, Type: model.ValueTypeContainer, Rule: RuleMarker, Name: "CT Acquisition"},
	"125203": {Role: RoleAcquisitionProtocol, Type: model.ValueTypeText, Rule: RuleLastNonNull, Name: "Acquisition Protocol"},
	"123014": {Role: RoleTargetRegion, Type: model.ValueTypeCode, Rule: RuleLastNonNull, Name: "Target Region"},
	"113820": {Role: RoleAcquisitionType, Type: model.ValueTypeCode, Rule: RuleLastNonNull, Name: "CT Acquisition Type"},
	"G-C32C": {Role: RoleProcedureContext, Type: model.ValueTypeCode, Rule: RuleLastNonNull, Name: "Procedure Context"},
	"113769": {Role: RoleIrradiationEventUID, Type: model.ValueTypeText, Rule: RuleLastNonNull, Name: "Irradiation Event UID"},
	"121106": {Role: RoleComment, Type: model.ValueTypeText, Rule: RuleLastNonNull, Name: "Comment"},

	// Acquisition parameters.
	"113822": {Role: RoleAcquisitionParams, Type: model.ValueTypeContainer, Rule: RuleMarker, Name: "CT Acquisition Parameters"},
	"113823": {Role: RoleNumXRaySources, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Number of X-Ray Sources"},
	"113824": {Role: RoleExposureTime, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Exposure Time"},
	"113825": {Role: RoleScanningLength, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Scanning Length"},
	"113826": {Role: RoleSingleCollimation, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Nominal Single Collimation Width"},
	"113827": {Role: RoleTotalCollimation, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Nominal Total Collimation Width"},
	"113828": {Role: RolePitchFactor, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Pitch Factor"},

	// X-ray source parameters.
	"113831": {Role: RoleXRaySourceParams, Type: model.ValueTypeContainer, Rule: RuleMarker, Name: "CT X-Ray Source Parameters"},
	"113832": {Role: RoleXRaySourceID, Type: model.ValueTypeText, Rule: RuleLastNonNull, Name: "Identification of the X-Ray Source"},
	"113733": {Role: RoleKVP, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "KVP"},
	"113833": {Role: RoleMaxTubeCurrent, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Maximum X-Ray Tube Current"},
	"113734": {Role: RoleTubeCurrent, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "X-Ray Tube Current"},
	"113834": {Role: RoleExposureTimePerRotation, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Exposure Time per Rotation"},

	// Per-event dose.
	"113829": {Role: RoleCTDose, Type: model.ValueTypeContainer, Rule: RuleMarker, Name: "CT Dose"},
	// The standard names 113830 "Mean CTDIvol", but scanners emit one value
	// per irradiation event and the consolidated exam figure is a selection,
	// not an arithmetic mean. We keep the last non-missing value in document
	// order: the final recorded value supersedes earlier partial acquisitions.
	"113830": {Role: RoleMeanCTDIvol, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Mean CTDIvol"},
	"113835": {Role: RolePhantomType, Type: model.ValueTypeCode, Rule: RuleLastNonNull, Name: "CTDIw Phantom Type"},
	"113838": {Role: RoleDLP, Type: model.ValueTypeNumeric, Rule: RuleSum, Name: "DLP"},
	"113904": {Role: RoleCTDIvolAlert, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "CTDIvol Alert Value"},
	"113930": {Role: RoleSSDE, Type: model.ValueTypeNumeric, Rule: RuleLastNonNull, Name: "Size Specific Dose Estimation"},
}

// Lookup resolves a concept code. The second return value reports whether the
// code is known; an unknown code is a silent miss by design, never an error,
// because the registry is deliberately partial.
func Lookup(code string) (Entry, bool) {
	e, ok := concepts[code]
	return e, ok
}

// IsEventContainer reports whether the code marks an irradiation-event
// container. The walker uses this to assign event indexes during traversal.
func IsEventContainer(code string) bool {
	e, ok := concepts[code]
	return ok && e.Role == RoleCTAcquisition
}

// Size returns the number of registered concept codes.
func Size() int {
	return len(concepts)
}
