package factory

import (
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/adapters/modelstore"
	"github.com/smx/phishsim/internal/config"
	"github.com/smx/phishsim/internal/risk"
)

// ModelStoreFactory creates risk model stores based on configuration
type ModelStoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewModelStoreFactory creates a new model store factory
func NewModelStoreFactory(cfg *config.Config, logger *zap.Logger) *ModelStoreFactory {
	return &ModelStoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModelStore creates a file-backed model store from the risk configuration
func (f *ModelStoreFactory) CreateModelStore() risk.ModelStore {
	riskCfg := f.cfg.GetRisk()
	return modelstore.NewFileStore(riskCfg.ClassifierPath, riskCfg.ScalerPath, f.logger)
}
