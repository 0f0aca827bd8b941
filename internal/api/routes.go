package api

import (
	"net/http"

	"github.com/JaimeStill/scorecard/internal/config"
	"github.com/JaimeStill/scorecard/pkg/openapi"
	"github.com/JaimeStill/scorecard/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	spec []byte,
) {
	routes.Register(
		mux,
		domain.Organizations.Handler().Routes(),
		domain.Records.Handler().Routes(),
		domain.Ingest.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Batches.Handler().Routes(),
		domain.Reports.Handler().Routes(),
	)

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
}
