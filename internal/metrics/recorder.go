package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Reference kinds counted by IncUnresolvedReference.
const (
	ReferenceXref    = "xref"
	ReferenceInclude = "include"
	ReferenceImage   = "image"
)

// Recorder defines observability hooks for builds. Implementations must be
// safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|failed|canceled
	ObserveFetchDuration(source string, d time.Duration, success bool)
	IncFetchRetry(source string)
	IncFileClassified(family string)
	IncFileDropped()
	IncUnresolvedReference(kind string)
	IncBrokenLinks(n int)
	SetComponentVersions(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)               {}
func (NoopRecorder) IncStageResult(string, ResultLabel)               {}
func (NoopRecorder) IncBuildOutcome(string)                           {}
func (NoopRecorder) ObserveFetchDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncFetchRetry(string)                             {}
func (NoopRecorder) IncFileClassified(string)                         {}
func (NoopRecorder) IncFileDropped()                                  {}
func (NoopRecorder) IncUnresolvedReference(string)                    {}
func (NoopRecorder) IncBrokenLinks(int)                               {}
func (NoopRecorder) SetComponentVersions(int)                         {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
