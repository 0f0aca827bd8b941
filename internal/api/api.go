// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/scorecard/internal/config"
	"github.com/JaimeStill/scorecard/internal/infrastructure"
	"github.com/JaimeStill/scorecard/pkg/middleware"
	"github.com/JaimeStill/scorecard/pkg/module"
	"github.com/JaimeStill/scorecard/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	spec, err := openapi.MarshalJSON(NewSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Metrics())

	return m, nil
}
