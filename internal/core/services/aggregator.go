package services

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
)

// topEmotionCount bounds the ranked emotion list kept per segment.
const topEmotionCount = 5

// Aggregate flattens the provider's nested prediction tree into a single
// analysis: per-segment top emotions, a cross-segment sentiment average and
// a transcription summary. Pure transformation, no I/O.
//
// Empty or prediction-less input yields Success=true with empty timestamps;
// only an unexpected failure while walking the tree produces Success=false.
func Aggregate(raw domain.RawPredictions) (result domain.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("WARN aggregator: failed to process predictions: %v", r)
			result = domain.AnalysisResult{
				Success:  false,
				Analysis: emptyAnalysis(),
				Error:    fmt.Sprintf("processing provider predictions: %v", r),
			}
		}
	}()

	segments := []domain.Segment{}
	detectedLanguage := ""

	for _, src := range raw.Sources {
		for _, filePred := range src.Results.Predictions {
			if lang := filePred.Models.Language; detectedLanguage == "" && lang != nil && lang.Metadata != nil {
				detectedLanguage = lang.Metadata.DetectedLanguage
			}

			prosody := filePred.Models.Prosody
			if prosody == nil {
				continue
			}
			for _, group := range prosody.GroupedPredictions {
				for _, leaf := range group.Predictions {
					seg := domain.Segment{
						Text:        leaf.Text,
						Timestamp:   leaf.Time,
						Emotions:    topEmotions(leaf.Emotions, topEmotionCount),
						AllEmotions: leaf.Emotions,
					}
					if leaf.Confidence != nil {
						seg.Confidence = *leaf.Confidence
					}
					segments = append(segments, seg)
				}
			}
		}
	}

	if len(segments) == 0 {
		log.Printf("WARN aggregator: no predictions found in provider results")
	}

	return domain.AnalysisResult{
		Success: true,
		Analysis: domain.Analysis{
			Timestamps:       segments,
			OverallSentiment: overallSentiment(segments),
			Transcription:    summarizeTranscription(segments, detectedLanguage),
		},
	}
}

// topEmotions returns the first n entries of the emotion list sorted by
// score descending. The sort is stable: ties keep the provider's order.
func topEmotions(emotions []domain.EmotionScore, n int) []domain.EmotionScore {
	if len(emotions) == 0 {
		return []domain.EmotionScore{}
	}

	ranked := make([]domain.EmotionScore, len(emotions))
	copy(ranked, emotions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// overallSentiment averages each named emotion's score over the full segment
// count. A name missing from some segments is still divided by the total,
// which keeps rarely-seen emotions from dominating the average. The dominant
// emotion is the first maximum in accumulation order.
func overallSentiment(segments []domain.Segment) domain.OverallSentiment {
	sentiment := domain.OverallSentiment{
		DominantEmotion: domain.EmotionScore{Name: "neutral"},
		AverageEmotions: map[string]float64{},
	}
	if len(segments) == 0 {
		return sentiment
	}
	sentiment.TotalSegmentsAnalyzed = len(segments)

	totals := map[string]float64{}
	order := []string{}
	for _, seg := range segments {
		for _, emo := range seg.Emotions {
			if _, seen := totals[emo.Name]; !seen {
				order = append(order, emo.Name)
			}
			totals[emo.Name] += emo.Score
		}
	}

	dominant := domain.EmotionScore{Name: "neutral"}
	found := false
	for _, name := range order {
		avg := totals[name] / float64(len(segments))
		sentiment.AverageEmotions[name] = avg
		if !found || avg > dominant.Score {
			dominant = domain.EmotionScore{Name: name, Score: avg}
			found = true
		}
	}
	if found {
		sentiment.DominantEmotion = dominant
	}

	return sentiment
}

// summarizeTranscription joins segment texts with a single space. Segments
// with empty text stay out of both the joined text and the confidence mean.
func summarizeTranscription(segments []domain.Segment, detectedLanguage string) domain.Transcription {
	texts := []string{}
	confidenceSum := 0.0
	spoken := 0
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		texts = append(texts, seg.Text)
		confidenceSum += seg.Confidence
		spoken++
	}

	transcription := domain.Transcription{
		FullText:         strings.Join(texts, " "),
		DetectedLanguage: detectedLanguage,
	}
	if spoken > 0 {
		transcription.Confidence = confidenceSum / float64(spoken)
	}
	return transcription
}

func emptyAnalysis() domain.Analysis {
	return domain.Analysis{
		Timestamps: []domain.Segment{},
		OverallSentiment: domain.OverallSentiment{
			DominantEmotion: domain.EmotionScore{Name: "neutral"},
			AverageEmotions: map[string]float64{},
		},
	}
}
