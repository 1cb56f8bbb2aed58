package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smx/phishsim/internal/core"
)

func TestBehaviorRecommendationSets(t *testing.T) {
	assert.Equal(t, []string{
		"Implement mandatory security awareness training",
		"Enable multi-factor authentication",
		"Conduct regular phishing simulations",
		"Review and update security policies",
	}, behaviorRecommendations(core.TierHigh))

	assert.Equal(t, []string{
		"Schedule security awareness training",
		"Review current security measures",
		"Consider implementing additional security controls",
	}, behaviorRecommendations(core.TierMedium))

	assert.Equal(t, []string{
		"Maintain current security awareness program",
		"Continue regular phishing simulations",
		"Monitor for changes in user behavior",
	}, behaviorRecommendations(core.TierLow))
}

func TestPredictionRecommendationSets(t *testing.T) {
	assert.Equal(t, []string{
		"Immediate security awareness training required",
		"Enable mandatory multi-factor authentication",
		"Implement stricter email filtering",
		"Schedule one-on-one security consultation",
	}, predictionRecommendations(core.TierHigh))

	assert.Equal(t, []string{
		"Schedule security awareness training within 30 days",
		"Review current security practices",
		"Consider additional security controls",
	}, predictionRecommendations(core.TierMedium))

	assert.Equal(t, []string{
		"Continue current security awareness program",
		"Monitor for changes in behavior patterns",
	}, predictionRecommendations(core.TierLow))
}

// The behavioral and classifier advisory sets are intentionally worded
// differently and must never share an entry.
func TestRecommendationSetsNeverOverlap(t *testing.T) {
	for _, tier := range []core.RiskTier{core.TierLow, core.TierMedium, core.TierHigh} {
		behavioral := make(map[string]bool)
		for _, rec := range behaviorRecommendations(tier) {
			behavioral[rec] = true
		}
		for _, rec := range predictionRecommendations(tier) {
			assert.False(t, behavioral[rec], "tier %s shares recommendation %q", tier, rec)
		}
	}
}
