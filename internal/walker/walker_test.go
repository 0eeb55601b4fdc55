package walker

import (
	"errors"
	"testing"

	"github.com/glhrmbg/ctdose/internal/model"
	"github.com/glhrmbg/ctdose/internal/registry"
)

// doseReport builds a small but structurally faithful dose report tree:
// a device header, an accumulated dose container and two irradiation events.
func doseReport() *model.ContentNode {
	return model.Container("",
		model.TextNode("121013", "CT_SCANNER_01"),
		model.Container("113811",
			model.NumericNode("113812", 2, "events"),
			model.NumericNode("113813", 805.1, "mGy.cm"),
		),
		model.Container("113819",
			model.TextNode("125203", "Chest Routine"),
			model.Container("113829",
				model.NumericNode("113830", 10.2, "mGy"),
				model.NumericNode("113838", 320.5, "mGy.cm"),
			),
		),
		model.Container("113819",
			model.TextNode("125203", "Chest Contrast"),
			model.Container("113829",
				model.NumericNode("113830", 15.5, "mGy"),
				model.NumericNode("113838", 484.6, "mGy.cm"),
			),
		),
	)
}

// chain builds a root whose single branch is n nested codeless containers
// with one recognized numeric leaf at the bottom.
func chain(n int) *model.ContentNode {
	leaf := model.NumericNode("113830", 1.0, "mGy")
	node := leaf
	for i := 0; i < n-1; i++ {
		node = model.Container("", node)
	}
	return model.Container("", node)
}

// TestWalkDocumentOrder tests that classification follows pre-order.
func TestWalkDocumentOrder(t *testing.T) {
	t.Parallel()

	got, err := New().Collect(doseReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantRoles := []registry.Role{
		registry.RoleDeviceName,
		registry.RoleAccumulatedDose,
		registry.RoleTotalEvents,
		registry.RoleTotalDLP,
		registry.RoleCTAcquisition,
		registry.RoleAcquisitionProtocol,
		registry.RoleCTDose,
		registry.RoleMeanCTDIvol,
		registry.RoleDLP,
		registry.RoleCTAcquisition,
		registry.RoleAcquisitionProtocol,
		registry.RoleCTDose,
		registry.RoleMeanCTDIvol,
		registry.RoleDLP,
	}
	if len(got) != len(wantRoles) {
		t.Fatalf("got %d measurements, expected %d", len(got), len(wantRoles))
	}
	for i, c := range got {
		if c.Entry.Role != wantRoles[i] {
			t.Errorf("measurement %d: got role %d, expected %d", i, c.Entry.Role, wantRoles[i])
		}
	}
}

// TestWalkEventIndex tests that each measurement carries the index of its
// enclosing irradiation event.
func TestWalkEventIndex(t *testing.T) {
	t.Parallel()

	got, err := New().Collect(doseReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("header measurements are outside any event", func(t *testing.T) {
		t.Parallel()
		for _, c := range got {
			switch c.Entry.Role {
			case registry.RoleDeviceName, registry.RoleTotalDLP, registry.RoleTotalEvents:
				if c.Context.EventIndex != -1 {
					t.Errorf("%s: got event index %d, expected -1", c.Entry.Name, c.Context.EventIndex)
				}
			}
		}
	})

	t.Run("per-event CTDIvol values carry their event index", func(t *testing.T) {
		t.Parallel()
		var indexes []int
		for _, c := range got {
			if c.Entry.Role == registry.RoleMeanCTDIvol {
				indexes = append(indexes, c.Context.EventIndex)
			}
		}
		if len(indexes) != 2 || indexes[0] != 0 || indexes[1] != 1 {
			t.Errorf("got CTDIvol event indexes %v, expected [0 1]", indexes)
		}
	})

	t.Run("event container carries its own index", func(t *testing.T) {
		t.Parallel()
		var indexes []int
		for _, c := range got {
			if c.Entry.Role == registry.RoleCTAcquisition {
				indexes = append(indexes, c.Context.EventIndex)
			}
		}
		if len(indexes) != 2 || indexes[0] != 0 || indexes[1] != 1 {
			t.Errorf("got event container indexes %v, expected [0 1]", indexes)
		}
	})
}

// TestWalkUnknownCodes tests that unrecognized nodes emit nothing but are
// still traversed for recognized descendants.
func TestWalkUnknownCodes(t *testing.T) {
	t.Parallel()

	root := model.Container("",
		model.Container("999999",
			model.NumericNode("113733", 120, "kV"),
		),
		model.TextNode("888888", "ignored"),
	)

	got, err := New().Collect(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d measurements, expected 1", len(got))
	}
	if got[0].Entry.Role != registry.RoleKVP {
		t.Errorf("got role %d, expected KVP", got[0].Entry.Role)
	}
}

// TestWalkDepthCeiling tests the traversal depth guard boundary.
func TestWalkDepthCeiling(t *testing.T) {
	t.Parallel()

	t.Run("depth 50 succeeds", func(t *testing.T) {
		t.Parallel()
		got, err := New().Collect(chain(DefaultMaxDepth))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("got %d measurements, expected 1", len(got))
		}
	})

	t.Run("depth 51 fails with StructuralError", func(t *testing.T) {
		t.Parallel()
		_, err := New().Collect(chain(DefaultMaxDepth + 1))
		var structErr *StructuralError
		if !errors.As(err, &structErr) {
			t.Fatalf("got %v, expected *StructuralError", err)
		}
		if structErr.MaxDepth != DefaultMaxDepth {
			t.Errorf("got max depth %d, expected %d", structErr.MaxDepth, DefaultMaxDepth)
		}
	})

	t.Run("custom ceiling", func(t *testing.T) {
		t.Parallel()
		w := New(WithMaxDepth(3))
		if _, err := w.Collect(chain(4)); err == nil {
			t.Error("expected error past custom ceiling")
		}
		if _, err := w.Collect(chain(3)); err != nil {
			t.Errorf("unexpected error at custom ceiling: %v", err)
		}
	})
}

// TestWalkUnitlessNumeric tests that numeric nodes without units pass through.
func TestWalkUnitlessNumeric(t *testing.T) {
	t.Parallel()

	root := model.Container("", model.NumericNode("113830", 7.5, ""))
	got, err := New().Collect(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d measurements, expected 1", len(got))
	}
	if got[0].Node.Unit != "" {
		t.Errorf("got unit %q, expected empty", got[0].Node.Unit)
	}
	if got[0].Node.Number != 7.5 {
		t.Errorf("got %v, expected 7.5", got[0].Node.Number)
	}
}

// TestWalkVisitorError tests that a visitor error aborts the walk.
func TestWalkVisitorError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("stop")
	calls := 0
	err := New().Walk(doseReport(), func(Classified) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, expected sentinel", err)
	}
	if calls != 1 {
		t.Errorf("got %d visits, expected 1", calls)
	}
}

// TestWalkNilRoot tests that a nil tree yields nothing.
func TestWalkNilRoot(t *testing.T) {
	t.Parallel()

	got, err := New().Collect(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d measurements, expected 0", len(got))
	}
}
