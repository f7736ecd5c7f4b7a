// Package app boots the systems a one-shot command needs and tears them down
// when it finishes.
package app

import (
	"fmt"

	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/domain"
	"github.com/JaimeStill/pulse/internal/infrastructure"
)

// App is a started set of infrastructure and domain systems.
type App struct {
	Config *config.Config
	Infra  *infrastructure.Infrastructure
	Domain *domain.Domain
}

// Open loads configuration, starts infrastructure, and waits for every
// startup hook to succeed.
func Open() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}

	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
		return nil, err
	}

	return &App{
		Config: cfg,
		Infra:  infra,
		Domain: domain.New(cfg, infra),
	}, nil
}

// Close runs the shutdown hooks.
func (a *App) Close() error {
	return a.Infra.Lifecycle.Shutdown(a.Config.ShutdownTimeoutDuration())
}
