package ports

import (
	"context"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
)

// SessionStats is the aggregate view of stored practice sessions used by the
// dashboard.
type SessionStats struct {
	TotalSessions   int
	AverageScore    float64
	PracticeSeconds float64
	Improvement     float64
}

// SessionRepository persists scored practice session summaries.
type SessionRepository interface {
	Save(ctx context.Context, session domain.PracticeSession) error
	ListRecent(ctx context.Context, limit int) ([]domain.PracticeSession, error)
	Stats(ctx context.Context) (SessionStats, error)
	UpdateSessionEnergy(ctx context.Context, id string, energy float64) error
}

// EnergyProbe accepts audio for asynchronous loudness analysis. Enqueue must
// never block the request path.
type EnergyProbe interface {
	Enqueue(sessionID string, audio []byte, contentType string)
}
