package catalog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielk69/AWIL/app/api"
	"github.com/danielk69/AWIL/models"
)

type Response struct {
	Total  int     `json:"total"`
	Themes []Theme `json:"themes"`
}

type Theme struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Subtheme struct {
	ID        uint      `json:"id"`
	ThemeID   uint      `json:"theme_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID         uint      `json:"id"`
	SubthemeID uint      `json:"subtheme_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

type NameResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CatalogProvider interface {
	ListThemes(ctx context.Context, offset, limit int) ([]models.Theme, int64, error)
	ListSubthemes(ctx context.Context, themeID uint) ([]models.Subtheme, error)
	ListCategories(ctx context.Context, subthemeID uint) ([]models.Category, error)
	RandomName(ctx context.Context, categoryID uint) (*models.Name, error)
}

type CatalogHandler struct {
	repo   CatalogProvider
	logger *zap.Logger
}

func NewCatalogHandler(r CatalogProvider, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{
		repo:   r,
		logger: logger,
	}
}

func (h *CatalogHandler) HandleGetThemes(w http.ResponseWriter, r *http.Request) {
	offset, limit := api.Pagination(r)

	res, total, err := h.repo.ListThemes(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("Failed to list themes", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "failed to get themes")
		return
	}

	themes := make([]Theme, len(res))
	for i, t := range res {
		themes[i] = Theme{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
	}

	api.WriteJSON(w, http.StatusOK, Response{
		Total:  int(total),
		Themes: themes,
	})
}

func (h *CatalogHandler) HandleGetSubthemes(w http.ResponseWriter, r *http.Request) {
	themeID, ok := api.PathID(r, "themeId")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "invalid theme id")
		return
	}

	res, err := h.repo.ListSubthemes(r.Context(), themeID)
	if err != nil {
		h.logger.Error("Failed to list subthemes", zap.Uint("theme_id", themeID), zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "failed to get subthemes")
		return
	}

	subthemes := make([]Subtheme, len(res))
	for i, s := range res {
		subthemes[i] = Subtheme{ID: s.ID, ThemeID: s.ThemeID, Name: s.Name, CreatedAt: s.CreatedAt}
	}
	api.WriteJSON(w, http.StatusOK, subthemes)
}

func (h *CatalogHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	subthemeID, ok := api.PathID(r, "subthemeId")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "invalid subtheme id")
		return
	}

	res, err := h.repo.ListCategories(r.Context(), subthemeID)
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Uint("subtheme_id", subthemeID), zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "failed to get categories")
		return
	}

	categories := make([]Category, len(res))
	for i, c := range res {
		categories[i] = Category{ID: c.ID, SubthemeID: c.SubthemeID, Name: c.Name, CreatedAt: c.CreatedAt}
	}
	api.WriteJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) HandleGetRandomName(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := api.PathID(r, "categoryId")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	name, err := h.repo.RandomName(r.Context(), categoryID)
	if errors.Is(err, models.ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "No names found for this category")
		return
	}
	if err != nil {
		h.logger.Error("Failed to pick random name", zap.Uint("category_id", categoryID), zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "failed to get random name")
		return
	}

	api.WriteJSON(w, http.StatusOK, NameResponse{ID: name.ID, Name: name.Name})
}
