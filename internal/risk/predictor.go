package risk

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
)

// MinTrainingHistories is the minimum number of labeled user histories
// required before training produces a model.
const MinTrainingHistories = 10

// highRiskLabelThreshold is the click rate above which a training history is
// labeled click-prone.
const highRiskLabelThreshold = 0.3

// ModelState holds the parameters of a trained risk model: classifier
// weights plus the fitted feature scaler. A nil *ModelState means untrained.
type ModelState struct {
	Classifier *LogisticRegression `json:"classifier"`
	Scaler     *StandardScaler     `json:"scaler"`
}

// ModelStore persists trained model state. Load returns (nil, nil) when no
// artifacts exist yet.
type ModelStore interface {
	Load() (*ModelState, error)
	Save(state *ModelState) error
}

// LabeledHistory is one user's interaction history used for training
type LabeledHistory struct {
	User UserInfo
	Logs []core.EmailLog
}

// Predictor predicts how click-prone a user is from their interaction
// history. It starts untrained; Train moves it to the trained state and
// persists the model through the injected store. Concurrent training is not
// coordinated here: callers needing stronger guarantees must serialize
// training externally.
type Predictor struct {
	store  ModelStore
	logger *zap.Logger
	state  *ModelState
}

// NewPredictor creates a predictor, reloading any previously persisted model.
// A failed reload leaves the predictor untrained and is never fatal.
func NewPredictor(store ModelStore, logger *zap.Logger) *Predictor {
	p := &Predictor{store: store, logger: logger}

	state, err := store.Load()
	if err != nil {
		logger.Warn("Could not load persisted risk model, starting untrained", zap.Error(err))
		return p
	}
	if state != nil {
		p.state = state
		logger.Info("Loaded pre-trained risk model")
	}
	return p
}

// IsTrained reports whether the predictor currently holds a trained model
func (p *Predictor) IsTrained() bool {
	return p.state != nil
}

// Train fits the model on labeled user histories. Each history is labeled
// click-prone when its click rate exceeds highRiskLabelThreshold. Fewer than
// MinTrainingHistories histories leaves the current state untouched.
// Persistence failures are logged, not propagated.
func (p *Predictor) Train(histories []LabeledHistory) {
	if len(histories) < MinTrainingHistories {
		p.logger.Warn("Insufficient training data, skipping training",
			zap.Int("histories", len(histories)),
			zap.Int("required", MinTrainingHistories))
		return
	}

	now := time.Now().UTC()
	samples := make([][]float64, 0, len(histories))
	labels := make([]int, 0, len(histories))
	for _, h := range histories {
		samples = append(samples, ExtractFeatures(h.User, h.Logs, now))
		labels = append(labels, clickProneLabel(h.User.ID, h.Logs))
	}

	scaler := &StandardScaler{}
	if err := scaler.Fit(samples); err != nil {
		p.logger.Error("Failed to fit feature scaler", zap.Error(err))
		return
	}
	scaled, err := scaler.TransformAll(samples)
	if err != nil {
		p.logger.Error("Failed to scale training features", zap.Error(err))
		return
	}

	classifier := &LogisticRegression{}
	if err := classifier.Fit(scaled, labels); err != nil {
		p.logger.Error("Failed to fit risk classifier", zap.Error(err))
		return
	}

	p.state = &ModelState{Classifier: classifier, Scaler: scaler}
	p.logger.Info("Risk model trained", zap.Int("histories", len(histories)))

	if err := p.store.Save(p.state); err != nil {
		p.logger.Error("Failed to persist risk model", zap.Error(err))
	}
}

// Predict scores one user's interaction history. An untrained predictor
// always returns the unknown tier with a neutral risk score. A scaler
// dimension mismatch indicates a programming error or a corrupt persisted
// model and is returned to the caller.
func (p *Predictor) Predict(user UserInfo, logs []core.EmailLog) (*core.RiskPrediction, error) {
	if p.state == nil {
		return &core.RiskPrediction{
			RiskLevel:  core.TierUnknown,
			RiskScore:  0.5,
			Confidence: 0.0,
			Message:    "Model not trained yet",
		}, nil
	}

	features := ExtractFeatures(user, logs, time.Now().UTC())
	scaled, err := p.state.Scaler.Transform(features)
	if err != nil {
		return nil, fmt.Errorf("failed to scale features for prediction: %w", err)
	}

	score := p.state.Classifier.PredictProba(scaled)

	var tier core.RiskTier
	switch {
	case score > 0.7:
		tier = core.TierHigh
	case score > 0.4:
		tier = core.TierMedium
	default:
		tier = core.TierLow
	}

	confidence := math.Max(score*0.8, 0.1)
	if score > 0.5 {
		confidence = math.Min(score*1.2, 1.0)
	}

	return &core.RiskPrediction{
		RiskLevel:       tier,
		RiskScore:       round3(score),
		Confidence:      round3(confidence),
		FeaturesUsed:    FeatureCount,
		Recommendations: predictionRecommendations(tier),
	}, nil
}

// clickProneLabel labels a history 1 when its click rate exceeds the
// high-risk threshold.
func clickProneLabel(userID int64, logs []core.EmailLog) int {
	total, clicks := 0, 0
	for _, log := range logs {
		if log.UserID != userID {
			continue
		}
		total++
		if log.Clicked {
			clicks++
		}
	}
	if float64(clicks)/float64(max(total, 1)) > highRiskLabelThreshold {
		return 1
	}
	return 0
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
