package groq

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
)

const systemPrompt = `You are an expert pitch coach analyzing audio expression data to score pitch performance.

You will receive detailed emotion analysis, transcription, and prosody data from an audio recording of a pitch presentation.

Your task is to analyze this data and provide scores (0-100) for:
1. Tone - How appropriate and professional the speaker's emotional tone is for a pitch
2. Fluency - How smooth and natural the speech flow appears based on confidence intervals and text patterns
3. Clarity - How clear and understandable the speech is based on confidence scores and emotion patterns
4. Confidence - How confident the speaker appears based on emotion analysis (low anxiety/awkwardness, high determination/enthusiasm)

Consider these factors:
- For Tone: Look at emotion scores like Joy, Enthusiasm, Determination vs. negative emotions
- For Fluency: Consider transcription confidence scores and speech pattern smoothness
- For Clarity: Analyze confidence scores, repetitions, and coherence in transcription
- For Confidence: Focus on Confidence, Determination, Enthusiasm vs. Anxiety, Awkwardness, Fear

Respond with ONLY a JSON object of the form {"tone": number, "fluency": number, "clarity": number, "confidence": number, "explanation": string}. Each number must be between 0 and 100.`

const userPromptTemplate = `Please analyze this audio expression data and provide pitch scores:

TRANSCRIPTION:
%s

OVERALL SENTIMENT:
Dominant Emotion: %s (Score: %.2f)
Total Segments: %d

DETAILED EMOTION ANALYSIS:
%s

CONFIDENCE METRICS:
Average Transcription Confidence: %.2f
Language Detected: %s

Please provide structured scores and explanation.`

// Prompt size bounds, deliberate truncation to keep the summary cheap.
const (
	topAverageEmotions = 8
	summarizedSegments = 3
	emotionsPerSegment = 3
)

// renderUserPrompt produces a deterministic textual summary of the analysis.
// Empty analyses get placeholder text rather than short-circuiting; the
// model is still asked to score.
func renderUserPrompt(analysis domain.Analysis) string {
	transcription := analysis.Transcription.FullText
	if transcription == "" {
		transcription = "No transcription available"
	}

	dominant := analysis.OverallSentiment.DominantEmotion.Name
	if dominant == "" {
		dominant = "Unknown"
	}

	language := analysis.Transcription.DetectedLanguage
	if language == "" {
		language = "Unknown"
	}

	return fmt.Sprintf(userPromptTemplate,
		transcription,
		dominant,
		analysis.OverallSentiment.DominantEmotion.Score,
		analysis.OverallSentiment.TotalSegmentsAnalyzed,
		emotionSummary(analysis),
		analysis.Transcription.Confidence,
		language,
	)
}

// emotionSummary lists the top average emotions and, for the first few
// segments only, their leading emotions inline.
func emotionSummary(analysis domain.Analysis) string {
	if len(analysis.Timestamps) == 0 {
		return "No emotion data available"
	}

	type namedScore struct {
		name  string
		score float64
	}
	averages := make([]namedScore, 0, len(analysis.OverallSentiment.AverageEmotions))
	for name, score := range analysis.OverallSentiment.AverageEmotions {
		averages = append(averages, namedScore{name: name, score: score})
	}
	// Name tiebreak keeps the rendered prompt deterministic across runs.
	sort.Slice(averages, func(i, j int) bool {
		if averages[i].score != averages[j].score {
			return averages[i].score > averages[j].score
		}
		return averages[i].name < averages[j].name
	})
	if len(averages) > topAverageEmotions {
		averages = averages[:topAverageEmotions]
	}

	lines := []string{"Top emotions across all segments:"}
	for _, avg := range averages {
		lines = append(lines, fmt.Sprintf("- %s: %.2f", avg.name, avg.score))
	}

	if len(analysis.Timestamps) > 1 {
		lines = append(lines, "", fmt.Sprintf("Emotion patterns across %d segments:", len(analysis.Timestamps)))
		for i, segment := range analysis.Timestamps {
			if i >= summarizedSegments {
				break
			}
			top := segment.Emotions
			if len(top) > emotionsPerSegment {
				top = top[:emotionsPerSegment]
			}
			parts := make([]string, 0, len(top))
			for _, emo := range top {
				parts = append(parts, fmt.Sprintf("%s (%.2f)", emo.Name, emo.Score))
			}
			lines = append(lines, fmt.Sprintf("Segment %d: %s", i+1, strings.Join(parts, ", ")))
		}
	}

	return strings.Join(lines, "\n")
}
