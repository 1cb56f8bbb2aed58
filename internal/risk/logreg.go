package risk

import (
	"fmt"
	"math"
)

// Training hyperparameters for the logistic classifier. Full-batch gradient
// descent from zero-initialized weights keeps training fully deterministic,
// so identical training data always produces identical predictions.
const (
	logregEpochs       = 500
	logregLearningRate = 0.1
)

// LogisticRegression is a binary probabilistic classifier over standardized
// feature vectors. The positive class is "click-prone".
type LogisticRegression struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Fit trains the classifier on scaled feature vectors and binary labels
func (m *LogisticRegression) Fit(samples [][]float64, labels []int) error {
	if len(samples) == 0 {
		return fmt.Errorf("cannot fit classifier on empty sample set")
	}
	if len(samples) != len(labels) {
		return fmt.Errorf("sample/label count mismatch: %d vs %d", len(samples), len(labels))
	}

	dims := len(samples[0])
	for _, x := range samples {
		if len(x) != dims {
			return fmt.Errorf("inconsistent feature dimensions: got %d, want %d", len(x), dims)
		}
	}
	m.Weights = make([]float64, dims)
	m.Bias = 0

	n := float64(len(samples))
	gradW := make([]float64, dims)
	for epoch := 0; epoch < logregEpochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0
		for i, x := range samples {
			err := m.PredictProba(x) - float64(labels[i])
			for j, v := range x {
				gradW[j] += err * v
			}
			gradB += err
		}
		for j := range m.Weights {
			m.Weights[j] -= logregLearningRate * gradW[j] / n
		}
		m.Bias -= logregLearningRate * gradB / n
	}
	return nil
}

// PredictProba returns the probability of the positive (click-prone) class
func (m *LogisticRegression) PredictProba(features []float64) float64 {
	z := m.Bias
	for j, w := range m.Weights {
		z += w * features[j]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
