package model

// ValueType identifies the payload kind of a ContentNode.
// The decoder guarantees every node carries exactly one of these kinds;
// the core never validates binary encoding.
type ValueType int

const (
	// ValueTypeContainer is a structural node. Containers never carry a
	// payload; their meaning comes from the concept code or from position
	// (e.g. the nth irradiation event).
	ValueTypeContainer ValueType = iota

	// ValueTypeText is a free-text payload (protocol names, comments,
	// device identifiers).
	ValueTypeText

	// ValueTypeNumeric is a measured value with a magnitude and an
	// optional unit string.
	ValueTypeNumeric

	// ValueTypeCode is a coded answer; the payload is the code meaning
	// (e.g. "IEC Body Dosimetry Phantom").
	ValueTypeCode

	// ValueTypeDateTime is a timestamp payload in DICOM datetime form.
	ValueTypeDateTime
)

// String returns the string representation of a ValueType.
func (v ValueType) String() string {
	switch v {
	case ValueTypeContainer:
		return "CONTAINER"
	case ValueTypeText:
		return "TEXT"
	case ValueTypeNumeric:
		return "NUMERIC"
	case ValueTypeCode:
		return "CODE"
	case ValueTypeDateTime:
		return "DATETIME"
	default:
		return "UNKNOWN"
	}
}

// ContentNode is one node of a decoded structured-report content tree.
//
// A dose SR is self-describing: leaves are identified by numeric concept
// codes rather than fixed field names, and the same code may appear once per
// irradiation event. The tree is owned exclusively by the walker invocation
// that processes it and is discarded after aggregation, so memory stays
// bounded to one document regardless of corpus size.
type ContentNode struct {
	// Code is the concept code naming this node's meaning (e.g. "113830").
	// Empty for purely structural containers.
	Code string

	// Type is the payload kind.
	Type ValueType

	// Text holds TEXT payloads and the code meaning of CODE payloads.
	Text string

	// Number is the magnitude of NUMERIC payloads.
	Number float64

	// Unit is the unit string of NUMERIC payloads. Empty when the source
	// measurement carried no unit; the aggregator decides unit policy.
	Unit string

	// DateTime holds DATETIME payloads in raw DICOM form
	// (YYYYMMDDHHMMSS with optional fraction).
	DateTime string

	// Children are the node's child nodes in document order.
	Children []*ContentNode
}

// Container creates a structural node with the given concept code and children.
func Container(code string, children ...*ContentNode) *ContentNode {
	return &ContentNode{Code: code, Type: ValueTypeContainer, Children: children}
}

// TextNode creates a TEXT leaf.
func TextNode(code, text string) *ContentNode {
	return &ContentNode{Code: code, Type: ValueTypeText, Text: text}
}

// NumericNode creates a NUMERIC leaf. Pass an empty unit for unit-less
// measurements.
func NumericNode(code string, number float64, unit string) *ContentNode {
	return &ContentNode{Code: code, Type: ValueTypeNumeric, Number: number, Unit: unit}
}

// CodeNode creates a CODE leaf whose payload is the code meaning.
func CodeNode(code, meaning string) *ContentNode {
	return &ContentNode{Code: code, Type: ValueTypeCode, Text: meaning}
}

// DateTimeNode creates a DATETIME leaf with a raw DICOM datetime payload.
func DateTimeNode(code, dt string) *ContentNode {
	return &ContentNode{Code: code, Type: ValueTypeDateTime, DateTime: dt}
}

// Leaf reports whether the node has no children.
func (n *ContentNode) Leaf() bool {
	return len(n.Children) == 0
}
