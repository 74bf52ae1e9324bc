package ports

import (
	"context"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
)

// PitchScorer turns an aggregated analysis into four bounded scores plus a
// rationale, via a structured-output language model call.
type PitchScorer interface {
	ScorePitch(ctx context.Context, analysis domain.Analysis) (domain.PitchScores, error)
}
