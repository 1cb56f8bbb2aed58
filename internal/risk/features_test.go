package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smx/phishsim/internal/core"
)

// 2025-03-10 is a Monday.
var (
	weekday = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	weekend = time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	refNow  = time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
)

func clickedLog(userID int64, sentAt time.Time, clickDelay time.Duration, templateType string) core.EmailLog {
	clickedAt := sentAt.Add(clickDelay)
	return core.EmailLog{
		UserID:       userID,
		TemplateType: templateType,
		SentAt:       sentAt,
		Clicked:      true,
		ClickedAt:    &clickedAt,
	}
}

func unclickedLog(userID int64, sentAt time.Time, templateType string) core.EmailLog {
	return core.EmailLog{
		UserID:       userID,
		TemplateType: templateType,
		SentAt:       sentAt,
	}
}

func TestExtractFeaturesEmptyHistory(t *testing.T) {
	user := UserInfo{ID: 1, Department: "Finance"}

	features := ExtractFeatures(user, nil, refNow)

	require.Len(t, features, FeatureCount)
	for i, v := range features {
		assert.False(t, math.IsNaN(v), "feature %d is NaN", i)
		assert.False(t, math.IsInf(v, 0), "feature %d is infinite", i)
	}
	assert.Equal(t, float64(defaultAge), features[0])
	assert.Equal(t, 0.0, features[1])
	assert.Equal(t, 0.0, features[3])
	assert.Equal(t, 0.7, features[9])
}

func TestExtractFeaturesVectorAlwaysFinite(t *testing.T) {
	logs := []core.EmailLog{
		clickedLog(1, weekday, time.Hour, core.TemplateUrgentAction),
		unclickedLog(1, weekday, core.TemplateSystemUpdate),
		// Clicked but missing the click timestamp.
		{UserID: 1, Clicked: true, SentAt: weekday},
		// Missing sent timestamp.
		{UserID: 1},
	}

	features := ExtractFeatures(UserInfo{ID: 1, Age: 50, Department: "IT"}, logs, refNow)

	require.Len(t, features, FeatureCount)
	for i, v := range features {
		assert.False(t, math.IsNaN(v), "feature %d is NaN", i)
		assert.False(t, math.IsInf(v, 0), "feature %d is infinite", i)
	}
	assert.GreaterOrEqual(t, features[3], 0.0)
	assert.LessOrEqual(t, features[3], 1.0)
	assert.GreaterOrEqual(t, features[6], 0.0)
	assert.LessOrEqual(t, features[6], 1.0)
	assert.GreaterOrEqual(t, features[7], 0.0)
	assert.LessOrEqual(t, features[7], 1.0)
}

func TestExtractFeaturesReferenceExample(t *testing.T) {
	// Ten interactions, four clicked at 10:00 on a weekday, all urgent_action.
	logs := make([]core.EmailLog, 0, 10)
	for i := 0; i < 4; i++ {
		logs = append(logs, clickedLog(1, weekday, time.Hour, core.TemplateUrgentAction))
	}
	for i := 0; i < 6; i++ {
		logs = append(logs, unclickedLog(1, weekday, core.TemplateUrgentAction))
	}

	features := ExtractFeatures(UserInfo{ID: 1, Age: 40, Department: "Sales"}, logs, refNow)

	assert.Equal(t, 40.0, features[0])
	assert.Equal(t, 10.0, features[1])
	assert.Equal(t, 4.0, features[2])
	assert.InDelta(t, 0.4, features[3], 1e-9)
	assert.InDelta(t, 60.0, features[4], 1e-9) // one hour in minutes
	assert.Equal(t, 0.0, features[5])          // identical response times
	assert.Equal(t, 1.0, features[6])          // all clicks at 10:00
	assert.Equal(t, 0.0, features[7])          // no weekend clicks
	assert.InDelta(t, 0.45, features[8], 1e-9)
	assert.Equal(t, 0.5, features[9])
	assert.Equal(t, 10.0, features[10]) // all sent within the trailing week
}

func TestExtractFeaturesIgnoresOtherUsers(t *testing.T) {
	logs := []core.EmailLog{
		clickedLog(1, weekday, time.Hour, core.TemplateUrgentAction),
		clickedLog(2, weekday, time.Hour, core.TemplateUrgentAction),
		clickedLog(2, weekend, time.Hour, core.TemplateSecurityAlert),
	}

	features := ExtractFeatures(UserInfo{ID: 1, Age: 30}, logs, refNow)

	assert.Equal(t, 1.0, features[1])
	assert.Equal(t, 1.0, features[2])
}

func TestExtractFeaturesWeekendClicks(t *testing.T) {
	logs := []core.EmailLog{
		clickedLog(1, weekday, time.Hour, core.TemplateUrgentAction),
		clickedLog(1, weekend, time.Hour, core.TemplateUrgentAction),
	}

	features := ExtractFeatures(UserInfo{ID: 1, Age: 30}, logs, refNow)

	assert.InDelta(t, 0.5, features[7], 1e-9)
}

func TestExtractFeaturesRecentActivityWindow(t *testing.T) {
	logs := []core.EmailLog{
		unclickedLog(1, refNow.AddDate(0, 0, -1), core.TemplateSystemUpdate),
		unclickedLog(1, refNow.AddDate(0, 0, -6), core.TemplateSystemUpdate),
		unclickedLog(1, refNow.AddDate(0, 0, -30), core.TemplateSystemUpdate),
	}

	features := ExtractFeatures(UserInfo{ID: 1, Age: 30}, logs, refNow)

	assert.Equal(t, 2.0, features[10])
}

func TestDepartmentRiskWeight(t *testing.T) {
	tests := []struct {
		department string
		want       float64
	}{
		{"IT", 0.3},
		{"HR", 0.6},
		{"Finance", 0.7},
		{"Sales", 0.5},
		{"Marketing", 0.4},
		{"Operations", 0.5},
		{"Legal", 0.8},
		{"Executive", 0.9},
		{"Warehouse", 0.5},
		{"", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.department, func(t *testing.T) {
			assert.Equal(t, tt.want, DepartmentRiskWeight(tt.department))
		})
	}
}

func TestTemplateVulnerabilityUnknownTemplate(t *testing.T) {
	logs := []core.EmailLog{
		clickedLog(1, weekday, time.Hour, "spear_custom"),
	}

	features := ExtractFeatures(UserInfo{ID: 1, Age: 30}, logs, refNow)

	assert.InDelta(t, unknownTemplateClickRate, features[8], 1e-9)
}
