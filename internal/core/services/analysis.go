package services

import (
	"context"
	"log"
	"time"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/ports"
)

// DefaultAnalysisTimeout bounds how long one analysis waits for the remote
// job to finish.
const DefaultAnalysisTimeout = 5 * time.Minute

// defaultPollInterval is the fixed cadence between job status checks.
const defaultPollInterval = 2 * time.Second

// AnalysisService submits audio to the expression provider, awaits the
// asynchronous job and aggregates the returned predictions. It holds no
// state beyond the injected provider handle.
type AnalysisService struct {
	provider     ports.ExpressionProvider
	pollInterval time.Duration
}

// NewAnalysisService constructs an AnalysisService.
func NewAnalysisService(provider ports.ExpressionProvider) *AnalysisService {
	return &AnalysisService{
		provider:     provider,
		pollInterval: defaultPollInterval,
	}
}

// Analyze runs submit -> await -> aggregate for one recording. Provider
// errors (transport, job failure, timeout) propagate untranslated; a
// malformed prediction tree comes back as Success=false, not an error.
func (s *AnalysisService) Analyze(ctx context.Context, audio []byte, filename string, timeout time.Duration) (domain.AnalysisResult, error) {
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}

	jobID, err := s.provider.StartJob(ctx, audio, filename)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	log.Printf("DEBUG analysis: started provider job %s", jobID)

	raw, err := s.awaitPredictions(ctx, jobID, timeout)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	return Aggregate(raw), nil
}

// awaitPredictions polls the job on a fixed interval until it completes,
// fails, or the wall-clock budget runs out. Transport errors surface
// immediately; there is no retry beyond the polling cadence itself.
func (s *AnalysisService) awaitPredictions(ctx context.Context, jobID string, timeout time.Duration) (domain.RawPredictions, error) {
	start := time.Now()
	for time.Since(start) < timeout {
		state, err := s.provider.JobState(ctx, jobID)
		if err != nil {
			return domain.RawPredictions{}, err
		}

		switch state.Status {
		case ports.StatusCompleted:
			return s.provider.JobPredictions(ctx, jobID)
		case ports.StatusFailed:
			return domain.RawPredictions{}, &ports.JobFailedError{JobID: jobID, Message: state.Message}
		}

		if err := sleepWithContext(ctx, s.pollInterval); err != nil {
			return domain.RawPredictions{}, err
		}
	}

	return domain.RawPredictions{}, &ports.AnalysisTimeoutError{Budget: timeout}
}

// sleepWithContext waits for the delay or the context, whichever ends first.
func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
