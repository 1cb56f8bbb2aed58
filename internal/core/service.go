package core

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// templateHeadlines maps template types to the headline used by fallback emails.
var templateHeadlines = map[string]string{
	TemplateUrgentAction:   "Your account requires immediate attention",
	TemplateSecurityAlert:  "Security verification needed",
	TemplatePasswordExpiry: "Password expiration notice",
	TemplateSystemUpdate:   "System maintenance required",
}

// SimulationService is the core service for running phishing simulations
type SimulationService struct {
	store     Store
	generator EmailGenerator
	sender    EmailSender
	logger    *zap.Logger
}

// NewSimulationService creates a new simulation service
func NewSimulationService(
	store Store,
	generator EmailGenerator,
	sender EmailSender,
	logger *zap.Logger,
) *SimulationService {
	return &SimulationService{
		store:     store,
		generator: generator,
		sender:    sender,
		logger:    logger,
	}
}

// Store exposes the underlying interaction store
func (s *SimulationService) Store() Store {
	return s.store
}

// GenerateAndSend generates a phishing email for one user, records it in the
// store, and delivers it through the configured sender.
func (s *SimulationService) GenerateAndSend(ctx context.Context, userID int64, templateType string) (*GenerationResult, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dept, err := s.store.GetDepartment(ctx, user.DepartmentID)
	if err != nil {
		return nil, err
	}

	if templateType == "" {
		templateType = TemplateTypes[rand.Intn(len(TemplateTypes))]
	}

	target := TargetInfo{Name: user.Name, Email: user.Email, Department: dept.Name}

	fallback := false
	email, err := s.generator.GenerateEmail(ctx, target, templateType)
	if err != nil {
		s.logger.Warn("Email generation failed, using fallback template",
			zap.String("user", user.Name),
			zap.String("template_type", templateType),
			zap.Error(err))
		email = s.fallbackEmail(target, templateType)
		fallback = true
	}

	log := &EmailLog{
		UserID:       user.ID,
		Subject:      email.Subject,
		Body:         email.Body,
		TemplateType: templateType,
		SentAt:       time.Now().UTC(),
	}
	if err := s.store.CreateEmailLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to record email log: %w", err)
	}

	if err := s.sender.Send(ctx, user.Email, email); err != nil {
		s.logger.Error("Failed to deliver simulation email",
			zap.String("to", user.Email),
			zap.Error(err))
	}

	return &GenerationResult{
		EmailID:      log.ID,
		Subject:      email.Subject,
		UserName:     user.Name,
		Department:   dept.Name,
		ProcessingID: uuid.NewString(),
		Fallback:     fallback,
	}, nil
}

// GenerateForDepartment generates and sends a phishing email to every user in
// a department. Per-user failures are counted, not propagated.
func (s *SimulationService) GenerateForDepartment(ctx context.Context, departmentID int64, templateType string) (*DepartmentGenerationResult, error) {
	dept, err := s.store.GetDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users found in department %q: %w", dept.Name, ErrNotFound)
	}

	result := &DepartmentGenerationResult{
		Department: dept.Name,
		TotalUsers: len(users),
	}
	for _, user := range users {
		if _, err := s.GenerateAndSend(ctx, user.ID, templateType); err != nil {
			s.logger.Error("Failed to generate email for user",
				zap.String("user", user.Name),
				zap.Error(err))
			result.Failed++
			continue
		}
		result.Sent++
	}
	return result, nil
}

// fallbackEmail builds a canned email when the generator is unavailable
func (s *SimulationService) fallbackEmail(target TargetInfo, templateType string) *GeneratedEmail {
	headline, ok := templateHeadlines[templateType]
	if !ok {
		headline = "Important Notice"
	}
	return &GeneratedEmail{
		Subject: fmt.Sprintf("Action Required: %s", headline),
		Body: fmt.Sprintf("Dear %s,\n\nThis is an automated message from SMX regarding your account security. "+
			"Please verify your credentials immediately.\n\nBest regards,\nSMX IT Security Team", target.Name),
		TemplateType: templateType,
		GeneratedAt:  time.Now().UTC(),
	}
}

// MarkClicked records that a user clicked the email with the given log ID
func (s *SimulationService) MarkClicked(ctx context.Context, logID int64) error {
	log, err := s.store.GetEmailLog(ctx, logID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	log.Clicked = true
	log.ClickedAt = &now
	return s.store.UpdateEmailLog(ctx, log)
}

// MarkResponded records that a user responded to the email with the given log ID
func (s *SimulationService) MarkResponded(ctx context.Context, logID int64) error {
	log, err := s.store.GetEmailLog(ctx, logID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	log.Responded = true
	log.RespondedAt = &now
	return s.store.UpdateEmailLog(ctx, log)
}

// CompleteUserTraining marks one user's training as completed
func (s *SimulationService) CompleteUserTraining(ctx context.Context, userID int64) (*User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user.TrainingCompleted = true
	user.TrainingCompletedAt = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CompleteDepartmentTraining marks training completed for every user in a
// department and returns how many were newly completed.
func (s *SimulationService) CompleteDepartmentTraining(ctx context.Context, departmentID int64) (completed, total int, err error) {
	if _, err := s.store.GetDepartment(ctx, departmentID); err != nil {
		return 0, 0, err
	}
	users, err := s.store.ListUsers(ctx, departmentID)
	if err != nil {
		return 0, 0, err
	}
	if len(users) == 0 {
		return 0, 0, fmt.Errorf("no users found in department %d: %w", departmentID, ErrNotFound)
	}
	n, err := s.completeTraining(ctx, users)
	return n, len(users), err
}

// CompleteAllTraining marks training completed for every user
func (s *SimulationService) CompleteAllTraining(ctx context.Context) (completed, total int, err error) {
	users, err := s.store.ListUsers(ctx, 0)
	if err != nil {
		return 0, 0, err
	}
	n, err := s.completeTraining(ctx, users)
	return n, len(users), err
}

func (s *SimulationService) completeTraining(ctx context.Context, users []User) (int, error) {
	now := time.Now().UTC()
	completed := 0
	for i := range users {
		if users[i].TrainingCompleted {
			continue
		}
		users[i].TrainingCompleted = true
		users[i].TrainingCompletedAt = &now
		if err := s.store.UpdateUser(ctx, &users[i]); err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

// WipeAllData deletes every email log, user, and department. Used by
// test/reset flows; returns the per-entity deletion counts.
func (s *SimulationService) WipeAllData(ctx context.Context) (logsDeleted, usersDeleted, departmentsDeleted int, err error) {
	logs, err := s.store.ListEmailLogs(ctx, 0, 0)
	if err != nil {
		return 0, 0, 0, err
	}
	for _, log := range logs {
		if err := s.store.DeleteEmailLog(ctx, log.ID); err != nil {
			return logsDeleted, usersDeleted, departmentsDeleted, err
		}
		logsDeleted++
	}

	users, err := s.store.ListUsers(ctx, 0)
	if err != nil {
		return logsDeleted, 0, 0, err
	}
	for _, user := range users {
		if err := s.store.DeleteUser(ctx, user.ID); err != nil {
			return logsDeleted, usersDeleted, departmentsDeleted, err
		}
		usersDeleted++
	}

	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return logsDeleted, usersDeleted, 0, err
	}
	for _, dept := range departments {
		if err := s.store.DeleteDepartment(ctx, dept.ID); err != nil {
			return logsDeleted, usersDeleted, departmentsDeleted, err
		}
		departmentsDeleted++
	}

	s.logger.Warn("Wiped all data",
		zap.Int("email_logs", logsDeleted),
		zap.Int("users", usersDeleted),
		zap.Int("departments", departmentsDeleted))
	return logsDeleted, usersDeleted, departmentsDeleted, nil
}

// ClicksByDepartment aggregates click rates per department
func (s *SimulationService) ClicksByDepartment(ctx context.Context) ([]DepartmentClickStats, error) {
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]DepartmentClickStats, 0, len(departments))
	for _, dept := range departments {
		logs, err := s.store.ListEmailLogs(ctx, 0, dept.ID)
		if err != nil {
			return nil, err
		}
		clicks := 0
		for _, log := range logs {
			if log.Clicked {
				clicks++
			}
		}
		rate := 0.0
		if len(logs) > 0 {
			rate = round2(float64(clicks) / float64(len(logs)) * 100)
		}
		stats = append(stats, DepartmentClickStats{
			Department:  dept.Name,
			TotalEmails: len(logs),
			TotalClicks: clicks,
			ClickRate:   rate,
		})
	}
	return stats, nil
}

// TrainingCompletion aggregates training completion across the organization
func (s *SimulationService) TrainingCompletion(ctx context.Context) (*TrainingCompletionStats, error) {
	users, err := s.store.ListUsers(ctx, 0)
	if err != nil {
		return nil, err
	}
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, user := range users {
		if user.TrainingCompleted {
			completed++
		}
	}

	stats := &TrainingCompletionStats{
		TotalUsers:     len(users),
		CompletedUsers: completed,
	}
	if len(users) > 0 {
		stats.CompletionRate = round1(float64(completed) / float64(len(users)) * 100)
	}

	for _, dept := range departments {
		deptTotal, deptCompleted := 0, 0
		for _, user := range users {
			if user.DepartmentID != dept.ID {
				continue
			}
			deptTotal++
			if user.TrainingCompleted {
				deptCompleted++
			}
		}
		deptRate := 0.0
		if deptTotal > 0 {
			deptRate = round1(float64(deptCompleted) / float64(deptTotal) * 100)
		}
		stats.DepartmentStats = append(stats.DepartmentStats, DepartmentTrainingStats{
			DepartmentID:   dept.ID,
			DepartmentName: dept.Name,
			TotalUsers:     deptTotal,
			CompletedUsers: deptCompleted,
			CompletionRate: deptRate,
		})
	}
	return stats, nil
}

// TemplateCatalog returns the static catalog of available templates
func (s *SimulationService) TemplateCatalog() []TemplateCatalogEntry {
	return []TemplateCatalogEntry{
		{ID: TemplateUrgentAction, Name: "Urgent Action Required", Description: "Emails requiring immediate action", Difficulty: "beginner"},
		{ID: TemplateSecurityAlert, Name: "Security Alert", Description: "Fake suspicious-activity verification emails", Difficulty: "intermediate"},
		{ID: TemplatePasswordExpiry, Name: "Password Expiry", Description: "Fake password expiration notices", Difficulty: "intermediate"},
		{ID: TemplateSystemUpdate, Name: "System Update", Description: "Fake system maintenance notices", Difficulty: "beginner"},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
