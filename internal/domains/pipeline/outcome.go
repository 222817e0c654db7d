package pipeline

type OutcomeStatus string

const (
	OutcomeOK       OutcomeStatus = "ok"
	OutcomeDegraded OutcomeStatus = "degraded" // failed, default substituted
	OutcomeFailed   OutcomeStatus = "failed"
)

// Outcome is the tagged result of one stage.
type Outcome[T any] struct {
	Status OutcomeStatus
	Value  T
	Err    error
}

func succeeded[T any](v T) Outcome[T] { return Outcome[T]{Status: OutcomeOK, Value: v} }

func degraded[T any](fallback T, cause error) Outcome[T] {
	return Outcome[T]{Status: OutcomeDegraded, Value: fallback, Err: cause}
}

func failed[T any](cause error) Outcome[T] { return Outcome[T]{Status: OutcomeFailed, Err: cause} }

// runStage times fn on the tracker and tags the result.
func runStage[T any](tr *Tracker, stage Stage, fn func() (T, error)) Outcome[T] {
	tr.Begin(stage)
	v, err := fn()
	if err != nil {
		tr.Fail(stage, err)
		return failed[T](err)
	}
	tr.Complete(stage)
	return succeeded(v)
}
