package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

type Stage string

const (
	StageValidation      Stage = "validation"
	StageTranscription   Stage = "transcription"
	StageEmotion         Stage = "emotion_detection"
	StageTranslation     Stage = "translation"
	StageAudioGeneration Stage = "audio_generation"
	StageStorage         Stage = "storage"
)

type StageState string

const (
	StatePending   StageState = "pending"
	StateCompleted StageState = "completed"
	StateFailed    StageState = "failed"
	StateSkipped   StageState = "skipped"
)

const (
	eventComplete = "complete"
	eventFail     = "fail"
	eventSkip     = "skip"
)

// StageReport is diagnostic only; no pipeline decision reads it.
type StageReport struct {
	Stage    Stage      `json:"stage"`
	Status   StageState `json:"status"`
	Duration float64    `json:"duration"` // seconds
	Error    string     `json:"error,omitempty"`
}

type stageEntry struct {
	machine  *fsm.FSM
	started  time.Time
	duration time.Duration
	err      string
}

func newStageMachine() *fsm.FSM {
	pending := []string{string(StatePending)}
	return fsm.NewFSM(
		string(StatePending),
		fsm.Events{
			{Name: eventComplete, Src: pending, Dst: string(StateCompleted)},
			{Name: eventFail, Src: pending, Dst: string(StateFailed)},
			{Name: eventSkip, Src: pending, Dst: string(StateSkipped)},
		},
		fsm.Callbacks{},
	)
}

// Tracker records the status and timing of each stage of one run.
// Every stage moves once from pending to a terminal state.
type Tracker struct {
	mu      sync.Mutex
	order   []Stage
	stages  map[Stage]*stageEntry
	started time.Time
	now     func() time.Time
}

func NewTracker(stages ...Stage) *Tracker {
	t := &Tracker{stages: make(map[Stage]*stageEntry), now: time.Now}
	t.started = t.now()
	for _, s := range stages {
		t.entry(s)
	}
	return t
}

func (t *Tracker) entry(s Stage) *stageEntry {
	e, ok := t.stages[s]
	if !ok {
		e = &stageEntry{machine: newStageMachine()}
		t.stages[s] = e
		t.order = append(t.order, s)
	}
	return e
}

func (t *Tracker) Begin(s Stage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(s).started = t.now()
}

func (t *Tracker) transition(s Stage, event string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entry(s)
	if e.machine.Event(context.Background(), event) != nil {
		return
	}
	if !e.started.IsZero() {
		e.duration = t.now().Sub(e.started)
	}
	if err != nil {
		e.err = err.Error()
	}
}

func (t *Tracker) Complete(s Stage)        { t.transition(s, eventComplete, nil) }
func (t *Tracker) Fail(s Stage, err error) { t.transition(s, eventFail, err) }
func (t *Tracker) Skip(s Stage)            { t.transition(s, eventSkip, nil) }

func (t *Tracker) Elapsed() time.Duration { return t.now().Sub(t.started) }

func (t *Tracker) State(s Stage) StageState {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.stages[s]
	if !ok {
		return StatePending
	}
	return StageState(e.machine.Current())
}

func (t *Tracker) Reports() []StageReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StageReport, 0, len(t.order))
	for _, s := range t.order {
		e := t.stages[s]
		out = append(out, StageReport{
			Stage:    s,
			Status:   StageState(e.machine.Current()),
			Duration: e.duration.Seconds(),
			Error:    e.err,
		})
	}
	return out
}

func (t *Tracker) String() string {
	parts := make([]string, 0, len(t.order))
	for _, r := range t.Reports() {
		parts = append(parts, fmt.Sprintf("%s=%s(%.2fs)", r.Stage, r.Status, r.Duration))
	}
	return strings.Join(parts, " ")
}
