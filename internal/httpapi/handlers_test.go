package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/adapters/modelstore"
	"github.com/smx/phishsim/internal/adapters/storage"
	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/risk"
)

type fakeGenerator struct{}

func (fakeGenerator) GenerateEmail(_ context.Context, target core.TargetInfo, templateType string) (*core.GeneratedEmail, error) {
	return &core.GeneratedEmail{
		Subject:      "Urgent: Verify Your Account",
		Body:         "Dear " + target.Name + ",\nPlease verify your account.",
		TemplateType: templateType,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

type fakeSender struct{}

func (fakeSender) Send(context.Context, string, *core.GeneratedEmail) error { return nil }

type apiFixture struct {
	engine *gin.Engine
	store  *storage.MemoryStore
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	logger := zap.NewNop()
	svc := core.NewSimulationService(store, fakeGenerator{}, fakeSender{}, logger)
	analyzer := risk.NewBehaviorAnalyzer(logger)
	predictor := risk.NewPredictor(modelstore.NewMemoryStore(), logger)

	engine := gin.New()
	NewHandler(svc, analyzer, predictor, logger).RegisterRoutes(engine)
	return &apiFixture{engine: engine, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (f *apiFixture) seed(t *testing.T) (*core.Department, *core.User) {
	t.Helper()
	ctx := context.Background()
	dept := &core.Department{Name: "Finance"}
	require.NoError(t, f.store.CreateDepartment(ctx, dept))
	user := &core.User{Name: "Alice", Email: "alice@smx.com", DepartmentID: dept.ID, Age: 30}
	require.NoError(t, f.store.CreateUser(ctx, user))
	return dept, user
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Phishing Simulation Backend Running", decodeBody(t, rec)["message"])
}

func TestDepartmentEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/departments", gin.H{"name": "IT"})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, float64(1), created["id"])

	rec = f.do(t, http.MethodGet, "/departments/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "IT", decodeBody(t, rec)["name"])

	rec = f.do(t, http.MethodGet, "/departments/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Department not found", decodeBody(t, rec)["detail"])

	rec = f.do(t, http.MethodDelete, "/departments/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])
}

func TestCreateDepartmentValidation(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/departments", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Department name is required", decodeBody(t, rec)["detail"])
}

func TestCreateUserRequiresExistingDepartment(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/users", gin.H{
		"name": "Bob", "email": "bob@smx.com", "department_id": 42,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Department not found", decodeBody(t, rec)["detail"])
}

func TestInvalidPathID(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id", decodeBody(t, rec)["detail"])
}

func TestGenerateEmailEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	_, user := f.seed(t)

	rec := f.do(t, http.MethodPost, "/generate-email", gin.H{
		"user_id": user.ID, "template_type": core.TemplateUrgentAction,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "AI-powered phishing email generated and sent successfully", body["message"])
	assert.Equal(t, "Urgent: Verify Your Account", body["subject"])
	assert.Equal(t, "Alice", body["user"])
	assert.Equal(t, "Finance", body["department"])
	assert.Equal(t, false, body["fallback"])
	assert.NotEmpty(t, body["processing_id"])
}

func TestGenerateEmailUnknownUser(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t)

	rec := f.do(t, http.MethodPost, "/generate-email", gin.H{"user_id": 99})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeBody(t, rec)["detail"])
}

func TestSimulateClickEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	_, user := f.seed(t)
	log := &core.EmailLog{UserID: user.ID, SentAt: time.Now().UTC()}
	require.NoError(t, f.store.CreateEmailLog(context.Background(), log))

	rec := f.do(t, http.MethodPost, "/email_logs/1/click", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Click simulated successfully", decodeBody(t, rec)["message"])

	got, err := f.store.GetEmailLog(context.Background(), log.ID)
	require.NoError(t, err)
	assert.True(t, got.Clicked)
}

func TestCompleteAllTrainingWithoutUsers(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/users/complete-all-training", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No users found", decodeBody(t, rec)["detail"])
}

func TestPredictUserRiskUntrained(t *testing.T) {
	f := newAPIFixture(t)
	_, user := f.seed(t)

	rec := f.do(t, http.MethodGet, "/ml/predict-user-risk/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(user.ID), body["user_id"])
	assert.Equal(t, "Alice", body["user_name"])

	prediction, ok := body["prediction"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "unknown", prediction["risk_level"])
	assert.Equal(t, 0.5, prediction["risk_score"])
	assert.Equal(t, "Model not trained yet", prediction["message"])
}

func TestTrainRiskModelInsufficientData(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t)

	rec := f.do(t, http.MethodPost, "/ml/train-risk-model", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "failed", body["model_status"])
	assert.Equal(t, float64(0), body["users_trained"])
}

func TestTrainRiskModelAndBulkPrediction(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	dept := &core.Department{Name: "Finance"}
	require.NoError(t, f.store.CreateDepartment(ctx, dept))

	sentAt := time.Now().UTC().Add(-48 * time.Hour)
	for i := 0; i < 12; i++ {
		user := &core.User{
			Name:         "user",
			Email:        "user@smx.com",
			DepartmentID: dept.ID,
			Age:          25 + i,
		}
		require.NoError(t, f.store.CreateUser(ctx, user))
		for j := 0; j < 3; j++ {
			require.NoError(t, f.store.CreateEmailLog(ctx, &core.EmailLog{
				UserID:       user.ID,
				TemplateType: core.TemplateUrgentAction,
				SentAt:       sentAt,
				Clicked:      i%2 == 0,
			}))
		}
	}

	rec := f.do(t, http.MethodPost, "/ml/train-risk-model", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	trained := decodeBody(t, rec)
	assert.Equal(t, "trained", trained["model_status"])
	assert.Equal(t, float64(12), trained["users_trained"])

	rec = f.do(t, http.MethodGet, "/ml/bulk-risk-prediction", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bulk := decodeBody(t, rec)
	assert.Equal(t, float64(12), bulk["total_users"])
	predictions, ok := bulk["predictions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, predictions, 12)
}

func TestAIAnalysisEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	_, user := f.seed(t)
	ctx := context.Background()

	sentAt := time.Now().UTC()
	require.NoError(t, f.store.CreateEmailLog(ctx, &core.EmailLog{UserID: user.ID, SentAt: sentAt, Clicked: true, Responded: true}))
	require.NoError(t, f.store.CreateEmailLog(ctx, &core.EmailLog{UserID: user.ID, SentAt: sentAt}))

	rec := f.do(t, http.MethodGet, "/analytics/ai-analysis?user_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "medium", body["risk_level"])
	assert.NotEmpty(t, body["recommendations"])
}

func TestWipeAllDataEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	_, user := f.seed(t)
	ctx := context.Background()
	require.NoError(t, f.store.CreateEmailLog(ctx, &core.EmailLog{UserID: user.ID, SentAt: time.Now().UTC()}))

	rec := f.do(t, http.MethodDelete, "/wipe-all-data", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "All data wiped successfully", body["message"])

	counts, ok := body["deleted_counts"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), counts["email_logs"])
	assert.Equal(t, float64(1), counts["users"])
	assert.Equal(t, float64(1), counts["departments"])

	users, err := f.store.ListUsers(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestTemplatesEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	templates, ok := body["templates"].([]interface{})
	require.True(t, ok)
	assert.Len(t, templates, 4)
}
