// Package api assembles the API module: the read side the external dashboard
// consumes, plus manual sync and run lookup.
package api

import (
	"net/http"

	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/domain"
	"github.com/JaimeStill/pulse/internal/infrastructure"
	"github.com/JaimeStill/pulse/pkg/middleware"
	"github.com/JaimeStill/pulse/pkg/module"
)

// NewModule creates the API module over the shared domain systems.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure, dom *domain.Domain) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	mux := http.NewServeMux()
	registerRoutes(mux, dom, runtime)

	m := module.New(runtime.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
