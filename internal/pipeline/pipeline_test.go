package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/glhrmbg/ctdose/internal/model"
)

// recordingStep appends its name to a shared trace when executed.
type recordingStep struct {
	name    string
	trace   *[]string
	err     error
	discard bool
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, ex *model.Extraction) error {
	*s.trace = append(*s.trace, s.name)
	if s.discard {
		ex.Discarded = true
	}
	return s.err
}

func TestPipelineExecutesInOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "first", trace: &trace},
		&recordingStep{name: "second", trace: &trace},
		&recordingStep{name: "third", trace: &trace},
	)

	ex := model.NewExtraction("a.dcm")
	if err := p.Execute(context.Background(), ex); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(trace) != len(want) {
		t.Fatalf("got trace %v, expected %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("step %d = %q, expected %q", i, trace[i], want[i])
		}
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	var trace []string
	boom := errors.New("boom")
	p := New()
	p.AddSteps(
		&recordingStep{name: "first", trace: &trace},
		&recordingStep{name: "failing", trace: &trace, err: boom},
		&recordingStep{name: "unreached", trace: &trace},
	)

	ex := model.NewExtraction("a.dcm")
	if err := p.Execute(context.Background(), ex); !errors.Is(err, boom) {
		t.Fatalf("got %v, expected the step error", err)
	}
	if !errors.Is(ex.Err, boom) {
		t.Error("step error must be recorded on the extraction")
	}
	if len(trace) != 2 {
		t.Errorf("got trace %v, expected execution to stop after the failure", trace)
	}
}

func TestPipelineStopsOnDiscard(t *testing.T) {
	t.Parallel()

	var trace []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "discarding", trace: &trace, discard: true},
		&recordingStep{name: "unreached", trace: &trace},
	)

	ex := model.NewExtraction("a.dcm")
	if err := p.Execute(context.Background(), ex); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ex.Discarded {
		t.Error("extraction must be marked discarded")
	}
	if len(trace) != 1 {
		t.Errorf("got trace %v, expected later steps skipped", trace)
	}
}

func TestPipelineRespectsCancellation(t *testing.T) {
	t.Parallel()

	var trace []string
	p := New()
	p.AddSteps(&recordingStep{name: "unreached", trace: &trace})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := model.NewExtraction("a.dcm")
	if err := p.Execute(ctx, ex); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, expected context.Canceled", err)
	}
	if len(trace) != 0 {
		t.Errorf("got trace %v, expected no step to run", trace)
	}
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var trace []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "decode", trace: &trace},
		&recordingStep{name: "dose", trace: &trace},
	)
	if p.StepCount() != 2 {
		t.Errorf("got %d steps", p.StepCount())
	}
	names := p.StepNames()
	if names[0] != "decode" || names[1] != "dose" {
		t.Errorf("got %v", names)
	}
}
