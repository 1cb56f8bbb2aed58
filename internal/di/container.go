package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/config"
	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/factory"
	"github.com/smx/phishsim/internal/httpapi"
	"github.com/smx/phishsim/internal/logging"
	"github.com/smx/phishsim/internal/risk"
	"github.com/smx/phishsim/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewGeneratorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStorageFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSenderFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewModelStoreFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register email generator
	if err := container.Provide(func(f *factory.GeneratorFactory) (core.EmailGenerator, error) {
		return f.CreateGenerator()
	}); err != nil {
		return nil, err
	}

	// Register interaction store
	if err := container.Provide(func(f *factory.StorageFactory) (core.Store, error) {
		return f.CreateStore()
	}); err != nil {
		return nil, err
	}

	// Register email sender
	if err := container.Provide(func(f *factory.SenderFactory) (core.EmailSender, error) {
		return f.CreateSender()
	}); err != nil {
		return nil, err
	}

	// Register risk model store and pipeline
	if err := container.Provide(func(f *factory.ModelStoreFactory) risk.ModelStore {
		return f.CreateModelStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(risk.NewPredictor); err != nil {
		return nil, err
	}
	if err := container.Provide(risk.NewBehaviorAnalyzer); err != nil {
		return nil, err
	}

	// Register simulation service
	if err := container.Provide(core.NewSimulationService); err != nil {
		return nil, err
	}

	// Register HTTP API
	if err := container.Provide(httpapi.NewHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, handler *httpapi.Handler, logger *zap.Logger) *httpapi.Server {
		return httpapi.NewServer(cfg.GetServer().ListenAddress, handler, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
