package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/risk"
)

// generateEmailRequest is the body of POST /generate-email
type generateEmailRequest struct {
	UserID       int64  `json:"user_id" binding:"required"`
	TemplateType string `json:"template_type"`
}

// generateDepartmentRequest is the body of POST /generate-email/department
type generateDepartmentRequest struct {
	DepartmentID int64  `json:"department_id" binding:"required"`
	TemplateType string `json:"template_type"`
}

// GenerateEmail handles POST /generate-email
func (h *Handler) GenerateEmail(c *gin.Context) {
	var req generateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.svc.GenerateAndSend(c.Request.Context(), req.UserID, req.TemplateType)
	if err != nil {
		h.storeError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "AI-powered phishing email generated and sent successfully",
		"email_id":      result.EmailID,
		"subject":       result.Subject,
		"user":          result.UserName,
		"department":    result.Department,
		"processing_id": result.ProcessingID,
		"fallback":      result.Fallback,
	})
}

// GenerateEmailDepartment handles POST /generate-email/department
func (h *Handler) GenerateEmailDepartment(c *gin.Context) {
	var req generateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.svc.GenerateForDepartment(c.Request.Context(), req.DepartmentID, req.TemplateType)
	if err != nil {
		h.storeError(c, err, "Department not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Generated emails for department: %s", result.Department),
		"sent":        result.Sent,
		"failed":      result.Failed,
		"total_users": result.TotalUsers,
	})
}

// ClicksByDepartment handles GET /analytics/clicks_by_department
func (h *Handler) ClicksByDepartment(c *gin.Context) {
	stats, err := h.svc.ClicksByDepartment(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// TrainingCompletion handles GET /analytics/training-completion
func (h *Handler) TrainingCompletion(c *gin.Context) {
	stats, err := h.svc.TrainingCompletion(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"overall_stats": gin.H{
			"total_users":     stats.TotalUsers,
			"completed_users": stats.CompletedUsers,
			"completion_rate": stats.CompletionRate,
		},
		"department_stats": stats.DepartmentStats,
	})
}

// AIAnalysis handles GET /analytics/ai-analysis with optional user_id and
// department_id filters
func (h *Handler) AIAnalysis(c *gin.Context) {
	userID, ok := h.queryID(c, "user_id")
	if !ok {
		return
	}
	departmentID, ok := h.queryID(c, "department_id")
	if !ok {
		return
	}

	logs, err := h.svc.Store().ListEmailLogs(c.Request.Context(), userID, departmentID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.analyzer.Analyze(logs))
}

// TrainRiskModel handles POST /ml/train-risk-model
func (h *Handler) TrainRiskModel(c *gin.Context) {
	histories, err := h.collectHistories(c.Request.Context(), true)
	if err != nil {
		h.internalError(c, err)
		return
	}

	h.predictor.Train(histories)

	status := "failed"
	if h.predictor.IsTrained() {
		status = "trained"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Risk prediction model trained successfully",
		"users_trained": len(histories),
		"model_status":  status,
	})
}

// PredictUserRisk handles GET /ml/predict-user-risk/:user_id
func (h *Handler) PredictUserRisk(c *gin.Context) {
	userID, ok := h.pathID(c, "user_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.svc.Store().GetUser(ctx, userID)
	if err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	dept, err := h.svc.Store().GetDepartment(ctx, user.DepartmentID)
	if err != nil {
		h.storeError(c, err, "Department not found")
		return
	}
	logs, err := h.svc.Store().ListEmailLogs(ctx, userID, 0)
	if err != nil {
		h.internalError(c, err)
		return
	}

	info := risk.UserInfo{ID: user.ID, Age: user.Age, Department: dept.Name}
	prediction, err := h.predictor.Predict(info, logs)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":    user.ID,
		"user_name":  user.Name,
		"prediction": prediction,
	})
}

// BulkRiskPrediction handles GET /ml/bulk-risk-prediction
func (h *Handler) BulkRiskPrediction(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.svc.Store().ListUsers(ctx, 0)
	if err != nil {
		h.internalError(c, err)
		return
	}
	logs, err := h.svc.Store().ListEmailLogs(ctx, 0, 0)
	if err != nil {
		h.internalError(c, err)
		return
	}
	deptNames, err := h.departmentNames(ctx)
	if err != nil {
		h.internalError(c, err)
		return
	}

	predictions := make([]gin.H, 0, len(users))
	for _, user := range users {
		info := risk.UserInfo{ID: user.ID, Age: user.Age, Department: deptNames[user.DepartmentID]}
		prediction, err := h.predictor.Predict(info, logs)
		if err != nil {
			h.internalError(c, err)
			return
		}
		predictions = append(predictions, gin.H{
			"user_id":    user.ID,
			"user_name":  user.Name,
			"department": deptNames[user.DepartmentID],
			"prediction": prediction,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": predictions,
		"total_users": len(predictions),
	})
}

// collectHistories assembles per-user labeled histories from the store. When
// requireLogs is set, users without any email history are skipped.
func (h *Handler) collectHistories(ctx context.Context, requireLogs bool) ([]risk.LabeledHistory, error) {
	users, err := h.svc.Store().ListUsers(ctx, 0)
	if err != nil {
		return nil, err
	}
	logs, err := h.svc.Store().ListEmailLogs(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	deptNames, err := h.departmentNames(ctx)
	if err != nil {
		return nil, err
	}

	histories := make([]risk.LabeledHistory, 0, len(users))
	for _, user := range users {
		userLogs := make([]core.EmailLog, 0)
		for _, log := range logs {
			if log.UserID == user.ID {
				userLogs = append(userLogs, log)
			}
		}
		if requireLogs && len(userLogs) == 0 {
			continue
		}
		histories = append(histories, risk.LabeledHistory{
			User: risk.UserInfo{ID: user.ID, Age: user.Age, Department: deptNames[user.DepartmentID]},
			Logs: userLogs,
		})
	}
	return histories, nil
}

// departmentNames maps department IDs to names
func (h *Handler) departmentNames(ctx context.Context) (map[int64]string, error) {
	departments, err := h.svc.Store().ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(departments))
	for _, dept := range departments {
		names[dept.ID] = dept.Name
	}
	return names, nil
}
