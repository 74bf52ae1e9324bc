package services

import (
	"reflect"
	"testing"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
)

func floatPtr(v float64) *float64 { return &v }

func predictionsFromLeaves(leaves ...domain.LeafPrediction) domain.RawPredictions {
	return domain.RawPredictions{
		Sources: []domain.SourceResult{
			{
				Results: domain.InferenceResults{
					Predictions: []domain.FilePrediction{
						{
							File: "pitch.mp3",
							Models: domain.ModelPredictions{
								Prosody: &domain.ProsodyPrediction{
									GroupedPredictions: []domain.GroupedPrediction{
										{ID: "g1", Predictions: leaves},
									},
								},
								Language: &domain.LanguagePrediction{
									Metadata: &domain.LanguageMetadata{DetectedLanguage: "en"},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestAggregate_SingleSegment(t *testing.T) {
	raw := predictionsFromLeaves(domain.LeafPrediction{
		Text:       "hi",
		Time:       domain.TimeSpan{Begin: 0.5, End: 1.2},
		Confidence: floatPtr(0.9),
		Emotions: []domain.EmotionScore{
			{Name: "Joy", Score: 0.8},
			{Name: "Fear", Score: 0.1},
		},
	})

	result := Aggregate(raw)

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if len(result.Analysis.Timestamps) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(result.Analysis.Timestamps))
	}

	sentiment := result.Analysis.OverallSentiment
	want := map[string]float64{"Joy": 0.8, "Fear": 0.1}
	if !reflect.DeepEqual(sentiment.AverageEmotions, want) {
		t.Fatalf("average emotions: got %v, want %v", sentiment.AverageEmotions, want)
	}
	if sentiment.DominantEmotion.Name != "Joy" || sentiment.DominantEmotion.Score != 0.8 {
		t.Fatalf("dominant: got %+v", sentiment.DominantEmotion)
	}
	if sentiment.TotalSegmentsAnalyzed != 1 {
		t.Fatalf("total segments: got %d", sentiment.TotalSegmentsAnalyzed)
	}

	transcription := result.Analysis.Transcription
	if transcription.FullText != "hi" {
		t.Fatalf("full text: got %q", transcription.FullText)
	}
	if transcription.Confidence != 0.9 {
		t.Fatalf("confidence: got %v", transcription.Confidence)
	}
	if transcription.DetectedLanguage != "en" {
		t.Fatalf("language: got %q", transcription.DetectedLanguage)
	}
}

func TestAggregate_EmptyPredictions(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawPredictions
	}{
		{name: "no sources", raw: domain.RawPredictions{}},
		{name: "no leaves", raw: predictionsFromLeaves()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(tt.raw)

			if !result.Success {
				t.Fatalf("empty input must not be an error, got %q", result.Error)
			}
			if len(result.Analysis.Timestamps) != 0 {
				t.Fatalf("expected no segments, got %d", len(result.Analysis.Timestamps))
			}
			if len(result.Analysis.OverallSentiment.AverageEmotions) != 0 {
				t.Fatalf("expected empty sentiment, got %v", result.Analysis.OverallSentiment.AverageEmotions)
			}
			if result.Analysis.OverallSentiment.DominantEmotion.Name != "neutral" {
				t.Fatalf("expected neutral default, got %+v", result.Analysis.OverallSentiment.DominantEmotion)
			}
		})
	}
}

func TestAggregate_AveragesDivideByTotalSegmentCount(t *testing.T) {
	// "Calm" appears in only one of two segments, yet its sum divides by 2.
	raw := predictionsFromLeaves(
		domain.LeafPrediction{
			Text:       "first",
			Confidence: floatPtr(0.8),
			Emotions: []domain.EmotionScore{
				{Name: "Joy", Score: 0.6},
				{Name: "Calm", Score: 0.4},
			},
		},
		domain.LeafPrediction{
			Text:       "second",
			Confidence: floatPtr(0.6),
			Emotions: []domain.EmotionScore{
				{Name: "Joy", Score: 0.2},
			},
		},
	)

	result := Aggregate(raw)

	avg := result.Analysis.OverallSentiment.AverageEmotions
	if got := avg["Joy"]; got != 0.4 {
		t.Fatalf("Joy average: got %v, want 0.4", got)
	}
	if got := avg["Calm"]; got != 0.2 {
		t.Fatalf("Calm average: got %v, want 0.2 (sum divided by total segment count)", got)
	}
	if result.Analysis.OverallSentiment.DominantEmotion.Name != "Joy" {
		t.Fatalf("dominant: got %+v", result.Analysis.OverallSentiment.DominantEmotion)
	}
	if got := result.Analysis.Transcription.Confidence; got != 0.7 {
		t.Fatalf("transcription confidence: got %v, want 0.7", got)
	}
	if got := result.Analysis.Transcription.FullText; got != "first second" {
		t.Fatalf("full text: got %q", got)
	}
}

func TestAggregate_SentimentUsesTopEmotionsOnly(t *testing.T) {
	// Seven emotions: only the top five may contribute to the averages.
	raw := predictionsFromLeaves(domain.LeafPrediction{
		Text: "hello",
		Emotions: []domain.EmotionScore{
			{Name: "A", Score: 0.9},
			{Name: "B", Score: 0.8},
			{Name: "C", Score: 0.7},
			{Name: "D", Score: 0.6},
			{Name: "E", Score: 0.5},
			{Name: "F", Score: 0.4},
			{Name: "G", Score: 0.3},
		},
	})

	result := Aggregate(raw)

	avg := result.Analysis.OverallSentiment.AverageEmotions
	if len(avg) != 5 {
		t.Fatalf("expected 5 averaged emotions, got %d: %v", len(avg), avg)
	}
	if _, ok := avg["F"]; ok {
		t.Fatalf("emotion outside top-5 leaked into the averages: %v", avg)
	}
}

func TestAggregate_EmptyTextSegments(t *testing.T) {
	raw := predictionsFromLeaves(
		domain.LeafPrediction{
			Text:       "spoken",
			Confidence: floatPtr(0.9),
			Emotions:   []domain.EmotionScore{{Name: "Joy", Score: 0.5}},
		},
		domain.LeafPrediction{
			// No text: stays in timestamps, stays out of the
			// transcription confidence mean.
			Confidence: floatPtr(0.1),
			Emotions:   []domain.EmotionScore{{Name: "Calm", Score: 0.5}},
		},
	)

	result := Aggregate(raw)

	if len(result.Analysis.Timestamps) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Analysis.Timestamps))
	}
	if got := result.Analysis.Transcription.Confidence; got != 0.9 {
		t.Fatalf("confidence: got %v, want 0.9 (empty-text segment excluded)", got)
	}
	if got := result.Analysis.Transcription.FullText; got != "spoken" {
		t.Fatalf("full text: got %q", got)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	raw := predictionsFromLeaves(
		domain.LeafPrediction{
			Text:       "repeatable",
			Confidence: floatPtr(0.77),
			Emotions: []domain.EmotionScore{
				{Name: "Joy", Score: 0.3},
				{Name: "Interest", Score: 0.3},
				{Name: "Calm", Score: 0.2},
			},
		},
	)

	first := Aggregate(raw)
	second := Aggregate(raw)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregation is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestTopEmotions(t *testing.T) {
	tests := []struct {
		name  string
		in    []domain.EmotionScore
		n     int
		want  []string
		sizes int
	}{
		{
			name: "sorted descending with stable ties",
			in: []domain.EmotionScore{
				{Name: "Calm", Score: 0.2},
				{Name: "Joy", Score: 0.9},
				{Name: "Interest", Score: 0.2},
				{Name: "Fear", Score: 0.5},
			},
			n:    5,
			want: []string{"Joy", "Fear", "Calm", "Interest"},
		},
		{
			name: "truncates to n",
			in: []domain.EmotionScore{
				{Name: "A", Score: 0.5},
				{Name: "B", Score: 0.4},
				{Name: "C", Score: 0.3},
			},
			n:    2,
			want: []string{"A", "B"},
		},
		{
			name: "empty input",
			in:   nil,
			n:    5,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topEmotions(tt.in, tt.n)
			names := make([]string, 0, len(got))
			for _, emo := range got {
				names = append(names, emo.Name)
			}
			if !reflect.DeepEqual(names, tt.want) {
				t.Fatalf("got %v, want %v", names, tt.want)
			}
		})
	}
}

func TestTopEmotions_DoesNotMutateInput(t *testing.T) {
	in := []domain.EmotionScore{
		{Name: "Low", Score: 0.1},
		{Name: "High", Score: 0.9},
	}
	_ = topEmotions(in, 5)

	if in[0].Name != "Low" || in[1].Name != "High" {
		t.Fatalf("input order mutated: %v", in)
	}
}

func TestOverallSentiment_DominantTieKeepsFirst(t *testing.T) {
	segments := []domain.Segment{
		{
			Emotions: []domain.EmotionScore{
				{Name: "Joy", Score: 0.5},
				{Name: "Calm", Score: 0.5},
			},
		},
	}

	sentiment := overallSentiment(segments)

	if sentiment.DominantEmotion.Name != "Joy" {
		t.Fatalf("tie must keep the first maximum, got %+v", sentiment.DominantEmotion)
	}
}
