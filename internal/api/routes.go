package api

import (
	"net/http"

	"github.com/mkarlsen/casefile/internal/config"
	"github.com/mkarlsen/casefile/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) {
	routes.Register(
		mux,
		domain.Audit.Handler().Routes(),
		domain.Files.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Folders.Handler().Routes(),
		domain.Profiles.Handler().Routes(),
		domain.Notes.Handler().Routes(),
		domain.Templates.Handler().Routes(),
		domain.Reports.Handler().Routes(),
		domain.Generation.Handler().Routes(),
		domain.Analysis.Handler().Routes(),
	)
}
