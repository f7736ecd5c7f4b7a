package api

import (
	"net/http"

	"github.com/JaimeStill/pulse/internal/dashboard"
	"github.com/JaimeStill/pulse/internal/domain"
	"github.com/JaimeStill/pulse/internal/validation"
	"github.com/JaimeStill/pulse/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	dom *domain.Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		dashboard.NewHandler(dom.Synchronizer, runtime.Logger).Routes(),
		validation.NewHandler(dom.Results, runtime.Logger).Routes(),
		newRunsHandler(runtime.Tracker, runtime.Logger).routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	)
}
