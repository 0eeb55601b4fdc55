package model

import "testing"

func sampleRecord() *ConsolidatedRecord {
	return &ConsolidatedRecord{
		SourceFile:  "dose.dcm",
		PatientID:   Text("PAT001"),
		PatientName: Text("DOE JOHN"),
		Sex:         Text("M"),
		BirthDate:   Text("Jan 15, 1980"),
		Age:         Number(44, ""),
		ExamDate:    Text("May 28, 2024, 13:20:41"),
		Exams: []ExamDoseRecord{
			{
				TotalDLP:    Number(805.1, "mGy.cm"),
				Protocol:    Text("Chest Routine"),
				ScanMode:    Text("Spiral Acquisition"),
				KVP:         Text("120 kV"),
				TubeCurrent: Text("210 mA"),
				Events: []EventDose{
					{
						Index:       0,
						Protocol:    Text("Scout"),
						CTDIvol:     Number(0.1, "mGy"),
						DLP:         Number(5.2, "mGy.cm"),
						PhantomType: Text("IEC Body Dosimetry Phantom"),
					},
					{
						Index:   1,
						CTDIvol: Number(15.5, "mGy"),
						DLP:     Number(799.9, "mGy.cm"),
						SSDE:    Number(18.2, "mGy"),
					},
				},
			},
		},
	}
}

// TestColumnsShape pins the consolidated table layout.
func TestColumnsShape(t *testing.T) {
	t.Parallel()

	if len(Columns) != 17 {
		t.Fatalf("got %d columns, expected 17", len(Columns))
	}
	if Columns[0] != "Patient ID" || Columns[16] != "Avg scan size" {
		t.Errorf("unexpected column boundaries: %q ... %q", Columns[0], Columns[16])
	}
}

// TestRowsPerEvent tests that Rows emits one row per irradiation event.
func TestRowsPerEvent(t *testing.T) {
	t.Parallel()

	rec := sampleRecord()
	rows := rec.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, expected 2", len(rows))
	}
	for i, row := range rows {
		if len(row) != len(Columns) {
			t.Fatalf("row %d has %d cells, expected %d", i, len(row), len(Columns))
		}
		if got := row[0].Render("-"); got != "PAT001" {
			t.Errorf("row %d patient ID = %q", i, got)
		}
	}

	// Event values win over the exam-level consolidation.
	if got := rows[0][5].Render("-"); got != "Scout" {
		t.Errorf("row 0 protocol = %q, expected the event value", got)
	}
	if got := rows[1][5].Render("-"); got != "Chest Routine" {
		t.Errorf("row 1 protocol = %q, expected the exam fallback", got)
	}
	if got := rows[1][11].Render("-"); got != "15.5 mGy" {
		t.Errorf("row 1 CTDIvol = %q", got)
	}
	// Total DLP repeats on every row of the exam.
	for i, row := range rows {
		if got := row[13].Render("-"); got != "805.1 mGy.cm" {
			t.Errorf("row %d total DLP = %q", i, got)
		}
	}
}

// TestRowsDemographicsOnly tests the fallback row for dose-less records.
func TestRowsDemographicsOnly(t *testing.T) {
	t.Parallel()

	rec := &ConsolidatedRecord{PatientID: Text("PAT002"), Sex: Text("F")}
	rows := rec.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, expected a single fallback row", len(rows))
	}
	if got := rows[0][0].Render("-"); got != "PAT002" {
		t.Errorf("patient ID = %q", got)
	}
	if rows[0][11].Present() {
		t.Error("CTDIvol must be missing on a demographics-only row")
	}
}
