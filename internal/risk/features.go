package risk

import (
	"time"

	"github.com/smx/phishsim/internal/core"
)

// FeatureCount is the length of every extracted feature vector.
const FeatureCount = 11

// defaultAge is assumed when a user record carries no age.
const defaultAge = 35

// templateBaselineClickRates holds the observed baseline click rate per
// template type, used to score how susceptible a user is to the pretexts
// they actually clicked on.
var templateBaselineClickRates = map[string]float64{
	core.TemplateUrgentAction:   0.45,
	core.TemplateSecurityAlert:  0.32,
	core.TemplatePasswordExpiry: 0.20,
	core.TemplateSystemUpdate:   0.15,
}

const unknownTemplateClickRate = 0.25

// departmentRiskWeights encodes per-department susceptibility priors.
// Unknown department names fall back to 0.5.
var departmentRiskWeights = map[string]float64{
	"IT":         0.3,
	"HR":         0.6,
	"Finance":    0.7,
	"Sales":      0.5,
	"Marketing":  0.4,
	"Operations": 0.5,
	"Legal":      0.8,
	"Executive":  0.9,
}

// UserInfo carries the user attributes the feature extractor needs.
type UserInfo struct {
	ID         int64
	Age        int
	Department string
}

// DepartmentRiskWeight returns the susceptibility prior for a department name
func DepartmentRiskWeight(department string) float64 {
	if w, ok := departmentRiskWeights[department]; ok {
		return w
	}
	return 0.5
}

// ExtractFeatures turns a user and their email interaction history into the
// fixed-order feature vector consumed by the risk models. Records with
// missing timestamps are skipped individually rather than failing the whole
// extraction. The result always has FeatureCount finite elements.
func ExtractFeatures(user UserInfo, logs []core.EmailLog, now time.Time) []float64 {
	emails := make([]core.EmailLog, 0, len(logs))
	for _, log := range logs {
		if log.UserID == user.ID {
			emails = append(emails, log)
		}
	}

	age := float64(user.Age)
	if user.Age <= 0 {
		age = defaultAge
	}

	total := len(emails)
	clicks := 0
	for _, e := range emails {
		if e.Clicked {
			clicks++
		}
	}
	clickRate := float64(clicks) / float64(max(total, 1))

	mean, variance := responseTimeStats(emails)
	workHours, weekend := clickTimingFractions(emails)

	return []float64{
		age,
		float64(total),
		float64(clicks),
		clickRate,
		mean,
		variance,
		workHours,
		weekend,
		templateVulnerability(emails),
		DepartmentRiskWeight(user.Department),
		recentActivity(emails, now, 7),
	}
}

// responseTimeStats returns the mean and population variance of click
// response times in minutes, over clicked emails with both timestamps set.
func responseTimeStats(emails []core.EmailLog) (mean, variance float64) {
	var samples []float64
	for _, e := range emails {
		if e.Clicked && e.ClickedAt != nil && !e.SentAt.IsZero() {
			samples = append(samples, e.ClickedAt.Sub(e.SentAt).Minutes())
		}
	}
	if len(samples) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	mean = sum / float64(len(samples))

	if len(samples) < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, v := range samples {
		d := v - mean
		ss += d * d
	}
	return mean, ss / float64(len(samples))
}

// clickTimingFractions returns the fraction of clicks during work hours
// (09:00-17:59) and on weekends, over clicks with a click timestamp.
func clickTimingFractions(emails []core.EmailLog) (workHours, weekend float64) {
	workHourClicks, weekendClicks, totalClicks := 0, 0, 0
	for _, e := range emails {
		if !e.Clicked || e.ClickedAt == nil {
			continue
		}
		totalClicks++
		hour := e.ClickedAt.Hour()
		if hour >= 9 && hour <= 17 {
			workHourClicks++
		}
		switch e.ClickedAt.Weekday() {
		case time.Saturday, time.Sunday:
			weekendClicks++
		}
	}
	denom := float64(max(totalClicks, 1))
	return float64(workHourClicks) / denom, float64(weekendClicks) / denom
}

// templateVulnerability averages the baseline click rate of the template
// types the user actually clicked on.
func templateVulnerability(emails []core.EmailLog) float64 {
	score := 0.0
	clicks := 0
	for _, e := range emails {
		if !e.Clicked {
			continue
		}
		rate, ok := templateBaselineClickRates[e.TemplateType]
		if !ok {
			rate = unknownTemplateClickRate
		}
		score += rate
		clicks++
	}
	return score / float64(max(clicks, 1))
}

// recentActivity counts emails sent within the trailing window of days.
func recentActivity(emails []core.EmailLog, now time.Time, days int) float64 {
	cutoff := now.AddDate(0, 0, -days)
	count := 0
	for _, e := range emails {
		if !e.SentAt.IsZero() && !e.SentAt.Before(cutoff) {
			count++
		}
	}
	return float64(count)
}
