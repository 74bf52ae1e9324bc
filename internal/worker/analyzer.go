package worker

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/hajimehoshi/go-mp3"
)

func analyzeEnergy(audio []byte) (float64, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(audio))
	if err != nil {
		return 0, fmt.Errorf("audio decode failed: %w", err)
	}

	buf := make([]byte, 4096)
	var sumSquares float64
	var count float64

	for {
		n, err := decoder.Read(buf)
		if n > 0 {
			for i := 0; i+1 < n; i += 2 {
				sample := int16(buf[i]) | int16(buf[i+1])<<8
				val := float64(sample)
				sumSquares += val * val
				count++
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("audio read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, fmt.Errorf("audio contains no samples")
	}

	rms := math.Sqrt(sumSquares / count)
	energy := rms / 32768.0
	if energy < 0 {
		energy = 0
	}
	if energy > 1 {
		energy = 1
	}

	return energy, nil
}

// AnalyzeEnergyFunc allows tests to override the analyzer implementation.
var AnalyzeEnergyFunc = analyzeEnergy
