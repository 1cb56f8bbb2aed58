package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/risk"
)

// Handler provides the HTTP endpoints of the simulation platform
type Handler struct {
	svc       *core.SimulationService
	analyzer  *risk.BehaviorAnalyzer
	predictor *risk.Predictor
	logger    *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	svc *core.SimulationService,
	analyzer *risk.BehaviorAnalyzer,
	predictor *risk.Predictor,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		svc:       svc,
		analyzer:  analyzer,
		predictor: predictor,
		logger:    logger,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Health)

	r.POST("/departments", h.CreateDepartment)
	r.GET("/departments", h.ListDepartments)
	r.GET("/departments/:id", h.GetDepartment)
	r.PUT("/departments/:id", h.UpdateDepartment)
	r.DELETE("/departments/:id", h.DeleteDepartment)
	r.POST("/departments/:id/complete-training", h.CompleteDepartmentTraining)

	r.POST("/users", h.CreateUser)
	r.GET("/users", h.ListUsers)
	r.POST("/users/complete-all-training", h.CompleteAllTraining)
	r.GET("/users/:id", h.GetUser)
	r.PUT("/users/:id", h.UpdateUser)
	r.DELETE("/users/:id", h.DeleteUser)
	r.POST("/users/:id/complete-training", h.CompleteUserTraining)

	r.POST("/email_logs", h.CreateEmailLog)
	r.GET("/email_logs", h.ListEmailLogs)
	r.GET("/email_logs/:id", h.GetEmailLog)
	r.PUT("/email_logs/:id", h.UpdateEmailLog)
	r.DELETE("/email_logs/:id", h.DeleteEmailLog)
	r.POST("/email_logs/:id/click", h.SimulateClick)
	r.POST("/email_logs/:id/respond", h.SimulateResponse)

	r.POST("/generate-email", h.GenerateEmail)
	r.POST("/generate-email/department", h.GenerateEmailDepartment)

	r.GET("/analytics/clicks_by_department", h.ClicksByDepartment)
	r.GET("/analytics/training-completion", h.TrainingCompletion)
	r.GET("/analytics/ai-analysis", h.AIAnalysis)

	r.POST("/ml/train-risk-model", h.TrainRiskModel)
	r.GET("/ml/predict-user-risk/:user_id", h.PredictUserRisk)
	r.GET("/ml/bulk-risk-prediction", h.BulkRiskPrediction)

	r.GET("/templates", h.Templates)

	r.DELETE("/wipe-all-data", h.WipeAllData)
}

// Health handles GET /
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Phishing Simulation Backend Running"})
}

// CreateDepartment handles POST /departments
func (h *Handler) CreateDepartment(c *gin.Context) {
	var dept core.Department
	if err := c.ShouldBindJSON(&dept); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if dept.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Department name is required"})
		return
	}
	if err := h.svc.Store().CreateDepartment(c.Request.Context(), &dept); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Department name must be unique."})
		return
	}
	c.JSON(http.StatusOK, dept)
}

// ListDepartments handles GET /departments
func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.svc.Store().ListDepartments(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// GetDepartment handles GET /departments/:id
func (h *Handler) GetDepartment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	dept, err := h.svc.Store().GetDepartment(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Department not found")
		return
	}
	c.JSON(http.StatusOK, dept)
}

// UpdateDepartment handles PUT /departments/:id
func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var dept core.Department
	if err := c.ShouldBindJSON(&dept); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	dept.ID = id
	if err := h.svc.Store().UpdateDepartment(c.Request.Context(), &dept); err != nil {
		h.storeError(c, err, "Department not found")
		return
	}
	c.JSON(http.StatusOK, dept)
}

// DeleteDepartment handles DELETE /departments/:id
func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Store().DeleteDepartment(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Department not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(c *gin.Context) {
	var user core.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if user.Name == "" || user.Email == "" || user.DepartmentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Name, email and department_id are required"})
		return
	}
	if _, err := h.svc.Store().GetDepartment(c.Request.Context(), user.DepartmentID); err != nil {
		h.storeError(c, err, "Department not found")
		return
	}
	if err := h.svc.Store().CreateUser(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User email must be unique."})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /users with an optional department_id filter
func (h *Handler) ListUsers(c *gin.Context) {
	departmentID, ok := h.queryID(c, "department_id")
	if !ok {
		return
	}
	users, err := h.svc.Store().ListUsers(c.Request.Context(), departmentID)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.svc.Store().GetUser(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var user core.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user.ID = id
	if err := h.svc.Store().UpdateUser(c.Request.Context(), &user); err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Store().DeleteUser(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreateEmailLog handles POST /email_logs
func (h *Handler) CreateEmailLog(c *gin.Context) {
	var log core.EmailLog
	if err := c.ShouldBindJSON(&log); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if log.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "user_id is required"})
		return
	}
	if _, err := h.svc.Store().GetUser(c.Request.Context(), log.UserID); err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	if err := h.svc.Store().CreateEmailLog(c.Request.Context(), &log); err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// ListEmailLogs handles GET /email_logs with optional user_id and
// department_id filters
func (h *Handler) ListEmailLogs(c *gin.Context) {
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
	c.JSON(http.StatusOK, logs)
}

// GetEmailLog handles GET /email_logs/:id
func (h *Handler) GetEmailLog(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	log, err := h.svc.Store().GetEmailLog(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Email log not found")
		return
	}
	c.JSON(http.StatusOK, log)
}

// UpdateEmailLog handles PUT /email_logs/:id
func (h *Handler) UpdateEmailLog(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var log core.EmailLog
	if err := c.ShouldBindJSON(&log); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	log.ID = id
	if err := h.svc.Store().UpdateEmailLog(c.Request.Context(), &log); err != nil {
		h.storeError(c, err, "Email log not found")
		return
	}
	c.JSON(http.StatusOK, log)
}

// DeleteEmailLog handles DELETE /email_logs/:id
func (h *Handler) DeleteEmailLog(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Store().DeleteEmailLog(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Email log not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SimulateClick handles POST /email_logs/:id/click
func (h *Handler) SimulateClick(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkClicked(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Email log not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Click simulated successfully"})
}

// SimulateResponse handles POST /email_logs/:id/respond
func (h *Handler) SimulateResponse(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkResponded(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Email log not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Response simulated successfully"})
}

// CompleteUserTraining handles POST /users/:id/complete-training
func (h *Handler) CompleteUserTraining(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.svc.CompleteUserTraining(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Training completed for %s", user.Name),
		"user_id":      user.ID,
		"user_name":    user.Name,
		"completed_at": user.TrainingCompletedAt,
	})
}

// CompleteDepartmentTraining handles POST /departments/:id/complete-training
func (h *Handler) CompleteDepartmentTraining(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	dept, err := h.svc.Store().GetDepartment(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Department not found")
		return
	}
	completed, total, err := h.svc.CompleteDepartmentTraining(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "No users found in department")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           fmt.Sprintf("Training completed for %d users in %s", completed, dept.Name),
		"department_id":     dept.ID,
		"department_name":   dept.Name,
		"total_users":       total,
		"newly_completed":   completed,
		"already_completed": total - completed,
	})
}

// CompleteAllTraining handles POST /users/complete-all-training
func (h *Handler) CompleteAllTraining(c *gin.Context) {
	completed, total, err := h.svc.CompleteAllTraining(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	if total == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "No users found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           fmt.Sprintf("Training completed for %d users", completed),
		"total_users":       total,
		"newly_completed":   completed,
		"already_completed": total - completed,
	})
}

// Templates handles GET /templates
func (h *Handler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.svc.TemplateCatalog()})
}

// WipeAllData handles DELETE /wipe-all-data, the test/reset endpoint that
// clears the whole store
func (h *Handler) WipeAllData(c *gin.Context) {
	logs, users, departments, err := h.svc.WipeAllData(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "All data wiped successfully",
		"deleted_counts": gin.H{
			"email_logs":  logs,
			"users":       users,
			"departments": departments,
		},
	})
}

// pathID parses an int64 path parameter, writing a 400 response on failure
func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Invalid %s", name)})
		return 0, false
	}
	return id, true
}

// queryID parses an optional int64 query parameter; absent means zero
func (h *Handler) queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Invalid %s", name)})
		return 0, false
	}
	return id, true
}

// storeError maps store errors to 404/500 responses
func (h *Handler) storeError(c *gin.Context, err error, notFoundDetail string) {
	if errors.Is(err, core.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": notFoundDetail})
		return
	}
	h.internalError(c, err)
}

func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}
