//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/kundanmehta01/CryptoHub/pkg/config"
	"github.com/kundanmehta01/CryptoHub/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Storage core
		ProvideBackend,
		ProvideStore,
		ProvideCache,

		// Domain managers
		ProvideAlertStore,
		ProvideAlertEngine,
		ProvideLedger,
		ProvidePreferences,

		// Market feed
		ProvideFeedClient,
		ProvideTracker,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
