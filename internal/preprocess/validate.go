package preprocess

import (
	"fmt"
	"math"
)

func Validate(numFeatures int) Preprocessor {
	return &validatePreprocessor{numFeatures: numFeatures}
}

type validatePreprocessor struct {
	numFeatures int
}

func (v validatePreprocessor) Transform(vec []float64) ([]float64, error) {
	if len(vec) != v.numFeatures {
		return nil, fmt.Errorf("X has %d features, but the scaler is expecting %d features as input",
			len(vec), v.numFeatures)
	}

	for _, f := range vec {
		if math.IsNaN(f) {
			return nil, fmt.Errorf("Input X contains NaN.")
		}
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("Input X contains infinity or a value too large for dtype('float64').")
		}
	}
	return vec, nil
}
