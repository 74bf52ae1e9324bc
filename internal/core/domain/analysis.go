package domain

// EmotionScore is a single named emotion with its measured intensity.
// Scores are typically in [0,1] but the provider does not guarantee bounds.
type EmotionScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// TimeSpan marks the boundaries of one analyzed slice of audio, in seconds.
type TimeSpan struct {
	Begin float64 `json:"begin"`
	End   float64 `json:"end"`
}

// Segment is one time-bounded unit of analyzed audio.
// Emotions holds the top entries of AllEmotions sorted by score descending;
// AllEmotions keeps the provider's raw, unranked list.
type Segment struct {
	Text        string         `json:"text"`
	Confidence  float64        `json:"confidence"`
	Timestamp   TimeSpan       `json:"timestamp"`
	Emotions    []EmotionScore `json:"emotions"`
	AllEmotions []EmotionScore `json:"all_emotions"`
}

// OverallSentiment summarizes emotion intensity across every segment.
// AverageEmotions divides each name's summed score by the total segment
// count, even when the name is missing from some segments.
type OverallSentiment struct {
	DominantEmotion       EmotionScore       `json:"dominant_emotion"`
	AverageEmotions       map[string]float64 `json:"average_emotions"`
	TotalSegmentsAnalyzed int                `json:"total_segments_analyzed"`
}

// Transcription is the spoken-text summary of the recording. Confidence is
// the mean over segments that carried any text.
type Transcription struct {
	FullText         string  `json:"full_text"`
	Confidence       float64 `json:"confidence"`
	DetectedLanguage string  `json:"detected_language"`
}

// Analysis is the aggregated view of one recording.
type Analysis struct {
	Timestamps       []Segment        `json:"timestamps"`
	OverallSentiment OverallSentiment `json:"overall_sentiment"`
	Transcription    Transcription    `json:"transcription"`
}

// AnalysisResult wraps an Analysis with its outcome flag. Success=false means
// the raw predictions could not be processed; it is still an HTTP-level
// success, distinct from a failed or timed-out provider job.
type AnalysisResult struct {
	Success  bool     `json:"success"`
	Analysis Analysis `json:"analysis"`
	Error    string   `json:"error,omitempty"`
}

// Duration returns the recording length implied by the last segment end.
func (a Analysis) Duration() float64 {
	var end float64
	for _, seg := range a.Timestamps {
		if seg.Timestamp.End > end {
			end = seg.Timestamp.End
		}
	}
	return end
}
