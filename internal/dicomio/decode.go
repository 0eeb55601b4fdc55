package dicomio

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/glhrmbg/ctdose/internal/model"
	"github.com/glhrmbg/ctdose/internal/record"
)

// Decoder parses DICOM structured report files into content trees.
type Decoder struct {
	logger *slog.Logger
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithLogger sets the logger used for decode warnings.
func WithLogger(l *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		d.logger = l
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// attributeTags maps the flat attribute keys consumed by the record builder
// to their top-level dataset tags.
var attributeTags = map[string]tag.Tag{
	record.AttrPatientID:       tag.PatientID,
	record.AttrPatientName:     tag.PatientName,
	record.AttrPatientSex:      tag.PatientSex,
	record.AttrPatientBirth:    tag.PatientBirthDate,
	record.AttrStudyID:         tag.StudyID,
	record.AttrAccessionNumber: tag.AccessionNumber,
	record.AttrStudyDate:       tag.StudyDate,
	record.AttrStudyTime:       tag.StudyTime,
	record.AttrInstitution:     tag.InstitutionName,
	record.AttrContentDate:     tag.ContentDate,
	record.AttrContentTime:     tag.ContentTime,
}

// DecodeFile reads the structured report at path and returns its content
// tree together with the flat top-level attribute set. It returns
// ErrNotDICOM for files without the DICM magic and ErrNotStructuredReport
// for DICOM files that are not structured reports.
func (d *Decoder) DecodeFile(path string) (*model.ContentNode, map[string]string, error) {
	if !IsDICOM(path) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotDICOM, path)
	}

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dicomio: parse %s: %w", path, err)
	}
	return d.Decode(&ds)
}

// Decode turns an already parsed dataset into a content tree and attribute
// set. Split out from DecodeFile so tests can feed synthetic datasets.
func (d *Decoder) Decode(ds *dicom.Dataset) (*model.ContentNode, map[string]string, error) {
	if modality := elementString(ds, tag.Modality); modality != "SR" {
		return nil, nil, fmt.Errorf("%w: modality %q", ErrNotStructuredReport, modality)
	}

	charset := elementString(ds, tag.SpecificCharacterSet)

	attrs := make(map[string]string, len(attributeTags))
	for key, t := range attributeTags {
		if s := elementString(ds, t); s != "" {
			attrs[key] = normalizeText(charset, s)
		}
	}

	root := &model.ContentNode{
		Code: codeFromSequence(ds, tag.ConceptNameCodeSequence),
		Type: model.ValueTypeContainer,
	}
	content, err := ds.FindElementByTag(tag.ContentSequence)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no content sequence", ErrNotStructuredReport)
	}
	for _, item := range sequenceItems(content) {
		node := d.decodeItem(item, charset)
		if node != nil {
			root.Children = append(root.Children, node)
		}
	}
	return root, attrs, nil
}

// decodeItem converts one content sequence item into a tree node. Items
// the decoder cannot make sense of are dropped with a warning rather than
// failing the document; a single malformed vendor item must not cost the
// rest of the report.
func (d *Decoder) decodeItem(elems []*dicom.Element, charset string) *model.ContentNode {
	code := itemCode(elems, tag.ConceptNameCodeSequence)
	valueType := itemString(elems, tag.ValueType)

	switch valueType {
	case "CONTAINER":
		node := model.Container(code)
		if content := findElement(elems, tag.ContentSequence); content != nil {
			for _, item := range sequenceItems(content) {
				if child := d.decodeItem(item, charset); child != nil {
					node.Children = append(node.Children, child)
				}
			}
		}
		return node

	case "NUM":
		raw, unit, ok := measuredValue(elems)
		if !ok {
			d.logger.Warn("numeric content item without a measured value", "code", code)
			return nil
		}
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			d.logger.Warn("numeric content item with unparseable value",
				"code", code, "value", raw)
			return nil
		}
		return model.NumericNode(code, number, unit)

	case "TEXT":
		return model.TextNode(code, normalizeText(charset, itemString(elems, tag.TextValue)))

	case "CODE":
		meaning := itemCodeMeaning(elems, tag.ConceptCodeSequence)
		return model.CodeNode(code, normalizeText(charset, meaning))

	case "DATETIME":
		return model.DateTimeNode(code, itemString(elems, tag.DateTime))

	case "DATE":
		return model.DateTimeNode(code, itemString(elems, tag.Date))

	case "UIDREF":
		return model.TextNode(code, itemString(elems, tag.UID))

	case "PNAME":
		return model.TextNode(code, normalizeText(charset, itemString(elems, tag.PersonName)))

	default:
		d.logger.Debug("skipping content item with unsupported value type",
			"code", code, "value_type", valueType)
		return nil
	}
}

// measuredValue extracts the numeric value string and unit code from a NUM
// item's measured value sequence.
func measuredValue(elems []*dicom.Element) (number, unit string, ok bool) {
	mvs := findElement(elems, tag.MeasuredValueSequence)
	if mvs == nil {
		return "", "", false
	}
	items := sequenceItems(mvs)
	if len(items) == 0 {
		return "", "", false
	}
	number = strings.TrimSpace(itemString(items[0], tag.NumericValue))
	if number == "" {
		return "", "", false
	}
	if units := findElement(items[0], tag.MeasurementUnitsCodeSequence); units != nil {
		unitItems := sequenceItems(units)
		if len(unitItems) > 0 {
			unit = itemString(unitItems[0], tag.CodeValue)
			if unit == "" {
				unit = itemString(unitItems[0], tag.CodeMeaning)
			}
		}
	}
	return number, unit, true
}

// codeFromSequence reads the code value from a top-level code sequence.
func codeFromSequence(ds *dicom.Dataset, t tag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	items := sequenceItems(el)
	if len(items) == 0 {
		return ""
	}
	return itemString(items[0], tag.CodeValue)
}

// itemCode reads the code value from a code sequence nested in a content
// item.
func itemCode(elems []*dicom.Element, t tag.Tag) string {
	seq := findElement(elems, t)
	if seq == nil {
		return ""
	}
	items := sequenceItems(seq)
	if len(items) == 0 {
		return ""
	}
	return itemString(items[0], tag.CodeValue)
}

// itemCodeMeaning reads the human-readable meaning from a nested code
// sequence, falling back to the code value when the meaning is absent.
func itemCodeMeaning(elems []*dicom.Element, t tag.Tag) string {
	seq := findElement(elems, t)
	if seq == nil {
		return ""
	}
	items := sequenceItems(seq)
	if len(items) == 0 {
		return ""
	}
	if meaning := itemString(items[0], tag.CodeMeaning); meaning != "" {
		return meaning
	}
	return itemString(items[0], tag.CodeValue)
}

// sequenceItems unpacks a sequence element into its per-item element
// slices. Non-sequence elements yield nil.
func sequenceItems(el *dicom.Element) [][]*dicom.Element {
	seq, ok := el.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil
	}
	items := make([][]*dicom.Element, 0, len(seq))
	for _, item := range seq {
		if elems, ok := item.GetValue().([]*dicom.Element); ok {
			items = append(items, elems)
		}
	}
	return items
}

// findElement locates a tag within one sequence item's element list.
func findElement(elems []*dicom.Element, t tag.Tag) *dicom.Element {
	for _, el := range elems {
		if el.Tag == t {
			return el
		}
	}
	return nil
}

// itemString reads a tag within a sequence item as a trimmed string.
func itemString(elems []*dicom.Element, t tag.Tag) string {
	return stringValue(findElement(elems, t))
}

// elementString reads a top-level tag as a trimmed string.
func elementString(ds *dicom.Dataset, t tag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	return stringValue(el)
}

func stringValue(el *dicom.Element) string {
	if el == nil {
		return ""
	}
	ss, ok := el.Value.GetValue().([]string)
	if !ok || len(ss) == 0 {
		return ""
	}
	return strings.TrimSpace(ss[0])
}
