package risk

import (
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
)

// analyzerContamination is the expected outlier proportion used by the
// behavioral anomaly check.
const analyzerContamination = 0.1

// BehaviorAnalyzer assesses aggregate interaction behavior over a set of
// email logs and maps it to a risk tier with recommendations.
type BehaviorAnalyzer struct {
	logger *zap.Logger
}

// NewBehaviorAnalyzer creates a new behavior analyzer
func NewBehaviorAnalyzer(logger *zap.Logger) *BehaviorAnalyzer {
	return &BehaviorAnalyzer{logger: logger}
}

// Analyze produces a behavior report for the given logs. An empty history is
// a defined edge case, not an error: it yields the unknown tier with a single
// insufficient-data recommendation.
func (a *BehaviorAnalyzer) Analyze(logs []core.EmailLog) *core.BehaviorReport {
	if len(logs) == 0 {
		return &core.BehaviorReport{
			RiskLevel:       core.TierUnknown,
			Recommendations: []string{"Insufficient data for analysis"},
		}
	}

	metrics := computeMetrics(logs)

	// Fit the anomaly detector on this single aggregate observation. See the
	// IsolationForest doc for why this is a degenerate but deliberately
	// preserved reference fit.
	observation := []float64{metrics.ClickRate, metrics.ResponseRate, metrics.AvgResponseHours}
	forest := NewIsolationForest(analyzerContamination)
	outlier := false
	if err := forest.Fit([][]float64{observation}); err != nil {
		a.logger.Warn("Anomaly detector fit failed", zap.Error(err))
	} else {
		outlier = forest.Predict(observation) == -1
	}

	tier := riskTierFromMetrics(metrics, outlier)
	return &core.BehaviorReport{
		RiskLevel:       tier,
		Metrics:         metrics,
		Recommendations: behaviorRecommendations(tier),
	}
}

// computeMetrics derives aggregate click/response metrics from raw logs
func computeMetrics(logs []core.EmailLog) *core.BehaviorMetrics {
	clicks, responses := 0, 0
	var responseHours []float64
	for _, log := range logs {
		if log.Clicked {
			clicks++
		}
		if log.Responded {
			responses++
		}
		if log.RespondedAt != nil && !log.SentAt.IsZero() {
			responseHours = append(responseHours, log.RespondedAt.Sub(log.SentAt).Hours())
		}
	}

	avgHours := 0.0
	if len(responseHours) > 0 {
		sum := 0.0
		for _, h := range responseHours {
			sum += h
		}
		avgHours = sum / float64(len(responseHours))
	}

	n := float64(len(logs))
	return &core.BehaviorMetrics{
		ClickRate:        float64(clicks) / n,
		ResponseRate:     float64(responses) / n,
		AvgResponseHours: avgHours,
	}
}

// riskTierFromMetrics maps metrics and the anomaly decision to a tier
func riskTierFromMetrics(m *core.BehaviorMetrics, outlier bool) core.RiskTier {
	if outlier {
		return core.TierHigh
	}
	score := (m.ClickRate + m.ResponseRate) / 2
	switch {
	case score > 0.7:
		return core.TierHigh
	case score > 0.3:
		return core.TierMedium
	default:
		return core.TierLow
	}
}
