// Package app assembles the HTTP surface of the catalog service.
package app

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielk69/AWIL/app/admin"
	"github.com/danielk69/AWIL/app/api"
	"github.com/danielk69/AWIL/app/catalog"
	"github.com/danielk69/AWIL/app/health"
	"github.com/danielk69/AWIL/app/imports"
	"github.com/danielk69/AWIL/app/login"
	"github.com/danielk69/AWIL/app/stats"
	"github.com/danielk69/AWIL/auth"
	"github.com/danielk69/AWIL/importer"
	"github.com/danielk69/AWIL/models"
)

type Dependencies struct {
	Catalog        *models.CatalogRepository
	Importer       *importer.Importer
	Auth           *auth.Service
	Tokens         auth.TokenVerifier
	MaxUploadBytes int64
	Logger         *zap.Logger
}

func NewRouter(d Dependencies) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	requireAdmin := auth.NewMiddleware(d.Tokens, logger).RequireAdmin

	catalogHandler := catalog.NewCatalogHandler(d.Catalog, logger)
	adminHandler := admin.NewAdminHandler(d.Catalog, logger)
	importHandler := imports.NewImportHandler(d.Importer, d.MaxUploadBytes, logger)
	statsHandler := stats.NewStatsHandler(d.Catalog, logger)
	loginHandler := login.NewLoginHandler(d.Auth, logger)
	healthHandler := health.NewHealthHandler(d.Catalog, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.HandleHealth)
	mux.HandleFunc("POST /api/auth/login", loginHandler.HandleLogin)

	mux.HandleFunc("GET /api/data/themes", catalogHandler.HandleGetThemes)
	mux.HandleFunc("GET /api/data/themes/{themeId}/subthemes", catalogHandler.HandleGetSubthemes)
	mux.HandleFunc("GET /api/data/subthemes/{subthemeId}/categories", catalogHandler.HandleGetCategories)
	mux.HandleFunc("GET /api/data/categories/{categoryId}/random-name", catalogHandler.HandleGetRandomName)

	mux.HandleFunc("GET /api/data/all", requireAdmin(adminHandler.HandleGetAll))
	mux.HandleFunc("POST /api/data/import", requireAdmin(importHandler.HandleImport))
	mux.HandleFunc("POST /api/data/themes", requireAdmin(adminHandler.HandleCreateTheme))
	mux.HandleFunc("POST /api/data/subthemes", requireAdmin(adminHandler.HandleCreateSubtheme))
	mux.HandleFunc("POST /api/data/categories", requireAdmin(adminHandler.HandleCreateCategory))
	mux.HandleFunc("POST /api/data/names", requireAdmin(adminHandler.HandleCreateName))
	mux.HandleFunc("DELETE /api/data/names/{id}", requireAdmin(adminHandler.HandleDeleteName))
	mux.HandleFunc("GET /api/data/stats", requireAdmin(statsHandler.HandleThemes))
	mux.HandleFunc("GET /api/data/stats/themes/{themeId}", requireAdmin(statsHandler.HandleTheme))

	return api.RequestLogger(logger)(mux)
}
