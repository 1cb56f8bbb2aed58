package risk

import (
	"fmt"
	"math"
)

// StandardScaler standardizes features to zero mean and unit variance.
// Zero-variance features are passed through unscaled.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Fit computes per-feature mean and standard deviation over the samples
func (s *StandardScaler) Fit(samples [][]float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("cannot fit scaler on empty sample set")
	}
	dims := len(samples[0])
	s.Mean = make([]float64, dims)
	s.Scale = make([]float64, dims)

	for _, sample := range samples {
		if len(sample) != dims {
			return fmt.Errorf("inconsistent feature dimensions: got %d, want %d", len(sample), dims)
		}
		for j, v := range sample {
			s.Mean[j] += v
		}
	}
	n := float64(len(samples))
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, sample := range samples {
		for j, v := range sample {
			d := v - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		s.Scale[j] = math.Sqrt(s.Scale[j] / n)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return nil
}

// Transform standardizes a single feature vector
func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("feature vector has %d dimensions, scaler fitted on %d", len(features), len(s.Mean))
	}
	scaled := make([]float64, len(features))
	for j, v := range features {
		scaled[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return scaled, nil
}

// TransformAll standardizes a batch of feature vectors
func (s *StandardScaler) TransformAll(samples [][]float64) ([][]float64, error) {
	scaled := make([][]float64, len(samples))
	for i, sample := range samples {
		row, err := s.Transform(sample)
		if err != nil {
			return nil, err
		}
		scaled[i] = row
	}
	return scaled, nil
}
