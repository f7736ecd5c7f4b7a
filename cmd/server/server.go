package main

import (
	"time"

	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/domain"
	"github.com/JaimeStill/pulse/internal/infrastructure"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	domain  *domain.Domain
	modules *Modules
	http    *httpServer

	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	dom := domain.New(cfg, infra)

	modules, err := NewModules(infra, dom, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, &cfg.Server)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"tracking", cfg.Tracking.Backend,
		"storage", cfg.Storage.Provider,
	)

	return &Server{
		infra:   infra,
		domain:  dom,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),

		shutdownTimeout: cfg.ShutdownTimeoutDuration(),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.domain.Scheduler.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
		s.infra.Lifecycle.Shutdown(s.shutdownTimeout)
		return err
	}

	s.infra.Logger.Info("all subsystems ready")
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
