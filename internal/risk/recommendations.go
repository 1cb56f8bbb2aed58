package risk

import "github.com/smx/phishsim/internal/core"

// behaviorRecommendations returns the advisory list attached to behavioral
// analysis reports for a given risk tier.
func behaviorRecommendations(tier core.RiskTier) []string {
	switch tier {
	case core.TierHigh:
		return []string{
			"Implement mandatory security awareness training",
			"Enable multi-factor authentication",
			"Conduct regular phishing simulations",
			"Review and update security policies",
		}
	case core.TierMedium:
		return []string{
			"Schedule security awareness training",
			"Review current security measures",
			"Consider implementing additional security controls",
		}
	default:
		return []string{
			"Maintain current security awareness program",
			"Continue regular phishing simulations",
			"Monitor for changes in user behavior",
		}
	}
}

// predictionRecommendations returns the advisory list attached to classifier
// predictions for a given risk tier. Deliberately distinct wording from the
// behavioral set.
func predictionRecommendations(tier core.RiskTier) []string {
	switch tier {
	case core.TierHigh:
		return []string{
			"Immediate security awareness training required",
			"Enable mandatory multi-factor authentication",
			"Implement stricter email filtering",
			"Schedule one-on-one security consultation",
		}
	case core.TierMedium:
		return []string{
			"Schedule security awareness training within 30 days",
			"Review current security practices",
			"Consider additional security controls",
		}
	default:
		return []string{
			"Continue current security awareness program",
			"Monitor for changes in behavior patterns",
		}
	}
}
