package ports

import (
	"context"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
)

// JobStatus is the normalized lifecycle state of a provider job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// JobState is one observation of a provider job. Message is only populated
// on failure, when the provider supplied one.
type JobState struct {
	Status  JobStatus
	Message string
}

// ExpressionProvider drives the remote expression-measurement service.
// Each StartJob call creates exactly one remote job; the job identifier is
// owned by the request that created it.
type ExpressionProvider interface {
	StartJob(ctx context.Context, audio []byte, filename string) (string, error)
	JobState(ctx context.Context, jobID string) (JobState, error)
	JobPredictions(ctx context.Context, jobID string) (domain.RawPredictions, error)
}
