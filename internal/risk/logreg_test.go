package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogisticRegressionSeparatesClasses(t *testing.T) {
	samples := [][]float64{
		{-2}, {-1.5}, {-1}, {-0.5},
		{0.5}, {1}, {1.5}, {2},
	}
	labels := []int{0, 0, 0, 0, 1, 1, 1, 1}

	model := &LogisticRegression{}
	require.NoError(t, model.Fit(samples, labels))

	assert.Less(t, model.PredictProba([]float64{-2}), 0.5)
	assert.Greater(t, model.PredictProba([]float64{2}), 0.5)
}

func TestLogisticRegressionDeterministic(t *testing.T) {
	samples := [][]float64{
		{-1, 0.2}, {-0.5, 0.1}, {0.5, -0.3}, {1, -0.1},
	}
	labels := []int{0, 0, 1, 1}

	a := &LogisticRegression{}
	b := &LogisticRegression{}
	require.NoError(t, a.Fit(samples, labels))
	require.NoError(t, b.Fit(samples, labels))

	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.Bias, b.Bias)
	assert.Equal(t, a.PredictProba([]float64{0.3, 0.0}), b.PredictProba([]float64{0.3, 0.0}))
}

func TestLogisticRegressionProbaBounds(t *testing.T) {
	model := &LogisticRegression{}
	require.NoError(t, model.Fit([][]float64{{-1}, {1}}, []int{0, 1}))

	for _, v := range []float64{-100, -1, 0, 1, 100} {
		p := model.PredictProba([]float64{v})
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestLogisticRegressionFitErrors(t *testing.T) {
	model := &LogisticRegression{}

	assert.Error(t, model.Fit(nil, nil))
	assert.Error(t, model.Fit([][]float64{{1}}, []int{0, 1}))
	assert.Error(t, model.Fit([][]float64{{1, 2}, {3}}, []int{0, 1}))
}
