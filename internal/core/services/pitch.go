package services

import (
	"context"
	"log"
	"time"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/ports"
)

// PitchEvaluation is the combined outcome of one upload: the aggregated
// analysis plus, when aggregation succeeded, the model's scores and the
// identifier of the recorded session.
type PitchEvaluation struct {
	Analysis  domain.AnalysisResult
	Scores    domain.PitchScores
	Scored    bool
	SessionID string
}

// PitchService composes analysis, scoring and session bookkeeping. One
// instance per process; safe for concurrent requests since all fields are
// read-only after construction.
type PitchService struct {
	analyzer *AnalysisService
	scorer   ports.PitchScorer
	sessions ports.SessionRepository
	probe    ports.EnergyProbe
	timeout  time.Duration
}

// NewPitchService constructs a PitchService. probe may be nil when no
// background energy analysis is wired.
func NewPitchService(analyzer *AnalysisService, scorer ports.PitchScorer, sessions ports.SessionRepository, probe ports.EnergyProbe, timeout time.Duration) *PitchService {
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}
	return &PitchService{
		analyzer: analyzer,
		scorer:   scorer,
		sessions: sessions,
		probe:    probe,
		timeout:  timeout,
	}
}

// EvaluatePitch analyzes one recording and scores it. Aggregation failures
// come back as a non-scored evaluation with Analysis.Success=false; provider
// and scoring errors propagate to the caller untranslated.
//
// A zero-segment analysis is still sent to the scorer: the prompt renderer
// substitutes placeholder text, matching the provider-empty-result case.
func (s *PitchService) EvaluatePitch(ctx context.Context, audio []byte, contentType string) (PitchEvaluation, error) {
	result, err := s.analyzer.Analyze(ctx, audio, filenameFor(contentType), s.timeout)
	if err != nil {
		return PitchEvaluation{}, err
	}
	if !result.Success {
		return PitchEvaluation{Analysis: result}, nil
	}

	scores, err := s.scorer.ScorePitch(ctx, result.Analysis)
	if err != nil {
		return PitchEvaluation{}, err
	}

	session := domain.NewPracticeSession(result.Analysis, scores)
	if err := s.sessions.Save(ctx, session); err != nil {
		// Session history is write-behind bookkeeping; the evaluation
		// already succeeded, so only log.
		log.Printf("WARN pitch: failed to record session %s: %v", session.ID, err)
	} else if s.probe != nil {
		s.probe.Enqueue(session.ID, audio, contentType)
	}

	return PitchEvaluation{
		Analysis:  result,
		Scores:    scores,
		Scored:    true,
		SessionID: session.ID,
	}, nil
}

// RecentSessions lists the latest stored sessions for the dashboard.
func (s *PitchService) RecentSessions(ctx context.Context, limit int) ([]domain.PracticeSession, error) {
	return s.sessions.ListRecent(ctx, limit)
}

// Stats returns aggregate statistics over all stored sessions.
func (s *PitchService) Stats(ctx context.Context) (ports.SessionStats, error) {
	return s.sessions.Stats(ctx)
}

// filenameFor derives an upload filename for the provider's multipart form
// from the request content type.
func filenameFor(contentType string) string {
	switch contentType {
	case "audio/mpeg", "audio/mp3":
		return "pitch.mp3"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "pitch.wav"
	case "audio/webm":
		return "pitch.webm"
	case "audio/ogg":
		return "pitch.ogg"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "pitch.m4a"
	default:
		return "pitch.audio"
	}
}
