package rest

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/ports"
)

const (
	errCodeJobFailed       = "PROVIDER_JOB_FAILED"
	errCodeAnalysisTimeout = "ANALYSIS_TIMEOUT"
	errCodeScoring         = "SCORING_UNAVAILABLE"
)

type emotionAnalysisResponse struct {
	DominantEmotion domain.EmotionScore `json:"dominant_emotion"`
	TotalSegments   int                 `json:"total_segments"`
	Confidence      float64             `json:"confidence"`
}

type uploadResponse struct {
	Success         bool                    `json:"success"`
	SessionID       string                  `json:"session_id,omitempty"`
	Transcription   string                  `json:"transcription"`
	EmotionAnalysis emotionAnalysisResponse `json:"emotion_analysis"`
	PitchScores     *domain.PitchScores     `json:"pitch_scores,omitempty"`
	RawAnalysis     domain.AnalysisResult   `json:"raw_analysis"`
	Error           string                  `json:"error,omitempty"`
}

// UploadPitch handles POST /api/pitch/upload. Non-audio content types and
// oversized payloads are rejected before any remote submission.
func (h *Handler) UploadPitch(w http.ResponseWriter, r *http.Request) {
	contentType := mediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "audio/") {
		writeError(w, http.StatusBadRequest, "Content-Type must be audio/*")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	audio, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "audio payload exceeds upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "empty audio payload")
		return
	}

	eval, err := h.svc.EvaluatePitch(r.Context(), audio, contentType)
	if err != nil {
		log.Printf("WARN rest: pitch evaluation failed: %v", err)
		switch {
		case errors.Is(err, ports.ErrAnalysisTimeout):
			writeErrorWithCode(w, http.StatusInternalServerError, err.Error(), errCodeAnalysisTimeout)
		case errors.Is(err, ports.ErrJobFailed):
			writeErrorWithCode(w, http.StatusInternalServerError, err.Error(), errCodeJobFailed)
		case errors.Is(err, ports.ErrScoringUnavailable):
			writeErrorWithCode(w, http.StatusInternalServerError, err.Error(), errCodeScoring)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	resp := uploadResponse{
		Success:       eval.Analysis.Success,
		Transcription: eval.Analysis.Analysis.Transcription.FullText,
		EmotionAnalysis: emotionAnalysisResponse{
			DominantEmotion: eval.Analysis.Analysis.OverallSentiment.DominantEmotion,
			TotalSegments:   eval.Analysis.Analysis.OverallSentiment.TotalSegmentsAnalyzed,
			Confidence:      eval.Analysis.Analysis.Transcription.Confidence,
		},
		RawAnalysis: eval.Analysis,
		Error:       eval.Analysis.Error,
	}
	if eval.Scored {
		scores := eval.Scores
		resp.PitchScores = &scores
		resp.SessionID = eval.SessionID
	}

	// Aggregation failures still answer 200: the request worked, the data
	// did not.
	writeJSON(w, http.StatusOK, resp)
}

// mediaType strips any parameters from a Content-Type header value.
func mediaType(header string) string {
	if i := strings.Index(header, ";"); i >= 0 {
		header = header[:i]
	}
	return strings.ToLower(strings.TrimSpace(header))
}
