package core

import (
	"time"
)

// Template types used for phishing simulation emails.
const (
	TemplateUrgentAction   = "urgent_action"
	TemplateSecurityAlert  = "security_alert"
	TemplatePasswordExpiry = "password_expiry"
	TemplateSystemUpdate   = "system_update"
)

// TemplateTypes lists the known template types in a fixed order.
var TemplateTypes = []string{
	TemplateUrgentAction,
	TemplateSecurityAlert,
	TemplatePasswordExpiry,
	TemplateSystemUpdate,
}

// RiskTier is the discretized risk output of the scoring pipeline.
type RiskTier string

const (
	TierLow     RiskTier = "low"
	TierMedium  RiskTier = "medium"
	TierHigh    RiskTier = "high"
	TierUnknown RiskTier = "unknown"
)

// Department represents an organizational department
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User represents a simulation target
type User struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	DepartmentID        int64      `json:"department_id"`
	Age                 int        `json:"age,omitempty"`
	TrainingCompleted   bool       `json:"training_completed"`
	TrainingCompletedAt *time.Time `json:"training_completed_at,omitempty"`
}

// EmailLog records one simulated phishing email and the target's interactions
// with it. ClickedAt is set iff Clicked is true; same for RespondedAt.
type EmailLog struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Subject      string     `json:"subject"`
	Body         string     `json:"body"`
	TemplateType string     `json:"template_type,omitempty"`
	SentAt       time.Time  `json:"sent_at"`
	Clicked      bool       `json:"clicked"`
	ClickedAt    *time.Time `json:"clicked_at,omitempty"`
	Responded    bool       `json:"responded"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}

// GeneratedEmail is the output of an email generator
type GeneratedEmail struct {
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	TemplateType string    `json:"template_type"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// GenerationResult describes one generate-and-send operation
type GenerationResult struct {
	EmailID      int64  `json:"email_id"`
	Subject      string `json:"subject"`
	UserName     string `json:"user"`
	Department   string `json:"department"`
	ProcessingID string `json:"processing_id"`
	Fallback     bool   `json:"fallback"`
}

// DepartmentGenerationResult summarizes a department-wide campaign
type DepartmentGenerationResult struct {
	Department string `json:"department"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
	TotalUsers int    `json:"total_users"`
}

// BehaviorMetrics holds the aggregate interaction metrics behind a behavior report
type BehaviorMetrics struct {
	ClickRate        float64 `json:"click_rate"`
	ResponseRate     float64 `json:"response_rate"`
	AvgResponseHours float64 `json:"avg_response_time"`
}

// BehaviorReport is the result of behavioral analysis over a set of email logs
type BehaviorReport struct {
	RiskLevel       RiskTier         `json:"risk_level"`
	Metrics         *BehaviorMetrics `json:"metrics,omitempty"`
	Recommendations []string         `json:"recommendations"`
}

// RiskPrediction is the result of the trained risk classifier for one user
type RiskPrediction struct {
	RiskLevel       RiskTier `json:"risk_level"`
	RiskScore       float64  `json:"risk_score"`
	Confidence      float64  `json:"confidence"`
	FeaturesUsed    int      `json:"features_used,omitempty"`
	Message         string   `json:"message,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// DepartmentClickStats aggregates click behavior for one department
type DepartmentClickStats struct {
	Department  string  `json:"department"`
	TotalEmails int     `json:"total_emails"`
	TotalClicks int     `json:"total_clicks"`
	ClickRate   float64 `json:"click_rate"`
}

// DepartmentTrainingStats aggregates training completion for one department
type DepartmentTrainingStats struct {
	DepartmentID   int64   `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	TotalUsers     int     `json:"total_users"`
	CompletedUsers int     `json:"completed_users"`
	CompletionRate float64 `json:"completion_rate"`
}

// TrainingCompletionStats is the organization-wide training completion report
type TrainingCompletionStats struct {
	TotalUsers      int                       `json:"total_users"`
	CompletedUsers  int                       `json:"completed_users"`
	CompletionRate  float64                   `json:"completion_rate"`
	DepartmentStats []DepartmentTrainingStats `json:"department_stats"`
}

// TemplateCatalogEntry describes one entry of the static template catalog
type TemplateCatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}
