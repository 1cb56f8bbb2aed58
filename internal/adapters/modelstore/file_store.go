package modelstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/risk"
)

// FileStore persists trained model state as two JSON artifacts on disk:
// classifier parameters and the fitted feature scaler. Both artifacts must
// be present and readable for Load to return a model.
type FileStore struct {
	classifierPath string
	scalerPath     string
	logger         *zap.Logger
}

// NewFileStore creates a file-backed model store
func NewFileStore(classifierPath, scalerPath string, logger *zap.Logger) *FileStore {
	return &FileStore{
		classifierPath: classifierPath,
		scalerPath:     scalerPath,
		logger:         logger,
	}
}

// Load reads the persisted model state. It returns (nil, nil) when either
// artifact does not exist.
func (s *FileStore) Load() (*risk.ModelState, error) {
	for _, path := range []string{s.classifierPath, s.scalerPath} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to stat model artifact %s: %w", path, err)
		}
	}

	classifier := &risk.LogisticRegression{}
	if err := readJSON(s.classifierPath, classifier); err != nil {
		return nil, fmt.Errorf("failed to load classifier artifact: %w", err)
	}
	scaler := &risk.StandardScaler{}
	if err := readJSON(s.scalerPath, scaler); err != nil {
		return nil, fmt.Errorf("failed to load scaler artifact: %w", err)
	}

	return &risk.ModelState{Classifier: classifier, Scaler: scaler}, nil
}

// Save writes both artifacts, overwriting any previous model
func (s *FileStore) Save(state *risk.ModelState) error {
	if err := os.MkdirAll(filepath.Dir(s.classifierPath), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.scalerPath), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	if err := writeJSON(s.classifierPath, state.Classifier); err != nil {
		return fmt.Errorf("failed to save classifier artifact: %w", err)
	}
	if err := writeJSON(s.scalerPath, state.Scaler); err != nil {
		return fmt.Errorf("failed to save scaler artifact: %w", err)
	}

	s.logger.Info("Saved risk model artifacts",
		zap.String("classifier", s.classifierPath),
		zap.String("scaler", s.scalerPath))
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
