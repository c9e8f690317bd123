package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageExtract is the directive extraction stage.
	StageExtract Stage = "extract"
	// StageLower is the lowering stage.
	StageLower Stage = "lower"
	// StageAnalyze is the exhaustiveness analysis stage.
	StageAnalyze Stage = "analyze"
	// StageProfileBuild is the instrumented compile of a profile-guided build.
	StageProfileBuild Stage = "profile-build"
	// StageProfileRun is the single instrumented run.
	StageProfileRun Stage = "profile-run"
	// StageBuild is the final compile.
	StageBuild Stage = "build"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a unit (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// State — позиция оркестратора в конечном автомате одной сборки.
type State string

const (
	StateIdle           State = "idle"
	StateLowered        State = "lowered"
	StateProfilingBuilt State = "profiling-built"
	StateProfilingRun   State = "profiling-run"
	StateFinalBuilt     State = "final-built"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
