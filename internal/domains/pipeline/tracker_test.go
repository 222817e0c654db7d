package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestTrackerTransitions(t *testing.T) {
	tr := NewTracker(StageValidation, StageTranscription, StageTranslation)
	clock := time.Unix(0, 0)
	tr.now = func() time.Time { return clock }

	tr.Begin(StageValidation)
	clock = clock.Add(2 * time.Second)
	tr.Complete(StageValidation)

	tr.Begin(StageTranscription)
	tr.Fail(StageTranscription, errors.New("timeout"))
	// terminal states stay put
	tr.Complete(StageTranscription)

	tr.Skip(StageTranslation)

	reports := tr.Reports()
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[0].Status != StateCompleted || reports[0].Duration != 2 {
		t.Errorf("unexpected validation report %+v", reports[0])
	}
	if reports[1].Status != StateFailed || reports[1].Error != "timeout" {
		t.Errorf("unexpected transcription report %+v", reports[1])
	}
	if reports[2].Status != StateSkipped {
		t.Errorf("unexpected translation report %+v", reports[2])
	}
	if tr.State(StageAudioGeneration) != StatePending {
		t.Error("unknown stages read as pending")
	}
}

func TestStageErrorMessage(t *testing.T) {
	cause := errors.New("401")
	err := &StageError{Stage: StageTranslation, Err: cause}
	if err.Error() != "text translation failed: 401" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to unwrap")
	}
}
