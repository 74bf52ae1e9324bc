package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	adapter, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

func testSession(id string, recordedAt time.Time, overall float64) domain.PracticeSession {
	return domain.PracticeSession{
		ID:              id,
		RecordedAt:      recordedAt,
		DurationSeconds: 30,
		Scores:          domain.PitchScores{Tone: overall, Fluency: overall, Clarity: overall, Confidence: overall, Explanation: "ok"},
		Overall:         overall,
		DominantEmotion: "Joy",
		SegmentCount:    4,
	}
}

func TestAdapter_SaveAndListRecent(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	older := testSession("s-old", base, 60)
	newer := testSession("s-new", base.Add(time.Hour), 80)
	energy := 0.42
	newer.Energy = &energy

	if err := adapter.Save(ctx, older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := adapter.Save(ctx, newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	sessions, err := adapter.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "s-new" || sessions[1].ID != "s-old" {
		t.Fatalf("expected newest first, got %q then %q", sessions[0].ID, sessions[1].ID)
	}

	got := sessions[0]
	if got.Overall != 80 || got.Scores.Tone != 80 {
		t.Fatalf("scores not round-tripped: %+v", got)
	}
	if got.DominantEmotion != "Joy" || got.SegmentCount != 4 {
		t.Fatalf("session fields not round-tripped: %+v", got)
	}
	if got.Energy == nil || *got.Energy != 0.42 {
		t.Fatalf("energy not round-tripped: %v", got.Energy)
	}
	if sessions[1].Energy != nil {
		t.Fatalf("missing energy must stay nil, got %v", *sessions[1].Energy)
	}
}

func TestAdapter_ListRecent_Limit(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	ids := []string{"a", "b", "c"}
	for i, id := range ids {
		if err := adapter.Save(ctx, testSession(id, base.Add(time.Duration(i)*time.Minute), 70)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	sessions, err := adapter.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("limit not applied, got %d sessions", len(sessions))
	}
	if sessions[0].ID != "c" {
		t.Fatalf("expected newest first, got %q", sessions[0].ID)
	}
}

func TestAdapter_Stats(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	empty, err := adapter.Stats(ctx)
	if err != nil {
		t.Fatalf("stats on empty db: %v", err)
	}
	if empty.TotalSessions != 0 || empty.AverageScore != 0 || empty.Improvement != 0 {
		t.Fatalf("empty stats: got %+v", empty)
	}

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	overalls := []float64{50, 60, 70, 80, 90, 100}
	for i, overall := range overalls {
		s := testSession(string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour), overall)
		if err := adapter.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	stats, err := adapter.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalSessions != 6 {
		t.Fatalf("total sessions: got %d", stats.TotalSessions)
	}
	if stats.AverageScore != 75 {
		t.Fatalf("average score: got %v, want 75", stats.AverageScore)
	}
	if stats.PracticeSeconds != 180 {
		t.Fatalf("practice seconds: got %v, want 180", stats.PracticeSeconds)
	}
	// Latest five average 80, all-time average 75.
	if stats.Improvement != 5 {
		t.Fatalf("improvement: got %v, want 5", stats.Improvement)
	}
}

func TestAdapter_UpdateSessionEnergy(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	s := testSession("s-1", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), 70)
	if err := adapter.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := adapter.UpdateSessionEnergy(ctx, "s-1", 0.75); err != nil {
		t.Fatalf("update energy: %v", err)
	}

	sessions, err := adapter.ListRecent(ctx, 1)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if sessions[0].Energy == nil || *sessions[0].Energy != 0.75 {
		t.Fatalf("energy not updated: %v", sessions[0].Energy)
	}
}
