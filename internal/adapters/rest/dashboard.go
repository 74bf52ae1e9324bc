package rest

import (
	"math"
	"net/http"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
)

type dashboardUser struct {
	Name          string `json:"name"`
	JoinDate      string `json:"joinDate"`
	CurrentStreak int    `json:"currentStreak"`
	Level         string `json:"level"`
}

type dashboardStats struct {
	TotalSessions int     `json:"totalSessions"`
	AverageScore  float64 `json:"averageScore"`
	PracticeTime  int     `json:"practiceTime"` // seconds
	Improvement   float64 `json:"improvement"`
}

type dashboardSession struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	Score           float64 `json:"score"`
	Duration        int     `json:"duration"`
	DominantEmotion string  `json:"dominantEmotion"`
	Energy          float64 `json:"energy,omitempty"`
}

type dashboardResponse struct {
	User           dashboardUser      `json:"user"`
	QuickStats     dashboardStats     `json:"quickStats"`
	RecentSessions []dashboardSession `json:"recentSessions"`
}

// Dashboard handles GET /api/dashboard, built from the stored session
// history.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sessions, err := h.svc.RecentSessions(r.Context(), 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	recent := make([]dashboardSession, 0, len(sessions))
	for _, s := range sessions {
		entry := dashboardSession{
			ID:              s.ID,
			Date:            s.RecordedAt.Format("2006-01-02"),
			Score:           math.Round(s.Overall),
			Duration:        int(s.DurationSeconds),
			DominantEmotion: s.DominantEmotion,
		}
		if s.Energy != nil {
			entry.Energy = *s.Energy
		}
		recent = append(recent, entry)
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		User: dashboardUser{
			Name:          h.userName,
			JoinDate:      h.userJoinDate,
			CurrentStreak: streakFromSessions(sessions),
			Level:         levelForScore(stats.AverageScore),
		},
		QuickStats: dashboardStats{
			TotalSessions: stats.TotalSessions,
			AverageScore:  math.Round(stats.AverageScore),
			PracticeTime:  int(stats.PracticeSeconds),
			Improvement:   math.Round(stats.Improvement),
		},
		RecentSessions: recent,
	})
}

func levelForScore(average float64) string {
	switch {
	case average >= 85:
		return "Advanced"
	case average >= 65:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

// streakFromSessions counts consecutive calendar days with at least one
// session, walking back from the most recent one.
func streakFromSessions(sessions []domain.PracticeSession) int {
	if len(sessions) == 0 {
		return 0
	}

	days := map[string]bool{}
	for _, s := range sessions {
		days[s.RecordedAt.Format("2006-01-02")] = true
	}

	streak := 0
	day := sessions[0].RecordedAt
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
