package ports

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the analysis/scoring pipeline. The typed errors below
// match these via errors.Is so callers can branch without losing detail.
var (
	ErrJobFailed          = errors.New("provider job failed")
	ErrAnalysisTimeout    = errors.New("analysis timed out")
	ErrScoringUnavailable = errors.New("scoring unavailable")
)

// JobFailedError reports a remote job that the provider marked as failed,
// carrying the provider's message when present.
type JobFailedError struct {
	JobID   string
	Message string
}

func (e *JobFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider job %s failed", e.JobID)
	}
	return fmt.Sprintf("provider job %s failed: %s", e.JobID, e.Message)
}

func (e *JobFailedError) Is(target error) bool {
	return target == ErrJobFailed
}

// AnalysisTimeoutError reports a polling budget exhausted before the job
// reached a terminal state. Distinct from JobFailedError so callers can
// retry with a larger budget.
type AnalysisTimeoutError struct {
	Budget time.Duration
}

func (e *AnalysisTimeoutError) Error() string {
	return fmt.Sprintf("analysis timed out after %s", e.Budget)
}

func (e *AnalysisTimeoutError) Is(target error) bool {
	return target == ErrAnalysisTimeout
}

// TransportError wraps a network or auth failure talking to the expression
// provider. Never retried inside the pipeline.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("expression provider: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ScoringUnavailableError reports a scoring-model call that errored or
// returned output that failed validation.
type ScoringUnavailableError struct {
	Reason string
	Err    error
}

func (e *ScoringUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("scoring unavailable: %s", e.Reason)
	}
	return fmt.Sprintf("scoring unavailable: %s: %v", e.Reason, e.Err)
}

func (e *ScoringUnavailableError) Is(target error) bool {
	return target == ErrScoringUnavailable
}

func (e *ScoringUnavailableError) Unwrap() error {
	return e.Err
}
