package domain

import "fmt"

// PitchScores is the scoring model's verdict on one pitch recording.
// Each score is bounded to [0,100]; immutable once returned.
type PitchScores struct {
	Tone        float64 `json:"tone"`
	Fluency     float64 `json:"fluency"`
	Clarity     float64 `json:"clarity"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Validate checks the bounds contract on all four numeric fields.
func (s PitchScores) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"tone", s.Tone},
		{"fluency", s.Fluency},
		{"clarity", s.Clarity},
		{"confidence", s.Confidence},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 100 {
			return fmt.Errorf("domain: score %s out of range: %v", f.name, f.value)
		}
	}
	return nil
}

// Overall is the arithmetic mean of the four scores.
func (s PitchScores) Overall() float64 {
	return (s.Tone + s.Fluency + s.Clarity + s.Confidence) / 4
}
