package domain

import (
	"time"

	"github.com/google/uuid"
)

// PracticeSession is the stored summary of one scored pitch recording.
// The full analysis stays in-flight per request; only this summary outlives
// the request, feeding the dashboard.
type PracticeSession struct {
	ID              string      `json:"id"`
	RecordedAt      time.Time   `json:"recorded_at"`
	DurationSeconds float64     `json:"duration_seconds"`
	Scores          PitchScores `json:"scores"`
	Overall         float64     `json:"overall"`
	DominantEmotion string      `json:"dominant_emotion"`
	SegmentCount    int         `json:"segment_count"`
	Energy          *float64    `json:"energy,omitempty"`
}

// NewPracticeSession builds a session record from a scored analysis.
func NewPracticeSession(analysis Analysis, scores PitchScores) PracticeSession {
	return PracticeSession{
		ID:              uuid.NewString(),
		RecordedAt:      time.Now().UTC(),
		DurationSeconds: analysis.Duration(),
		Scores:          scores,
		Overall:         scores.Overall(),
		DominantEmotion: analysis.OverallSentiment.DominantEmotion.Name,
		SegmentCount:    analysis.OverallSentiment.TotalSegmentsAnalyzed,
	}
}
