package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielk69/AWIL/app/api"
	"github.com/danielk69/AWIL/models"
)

type CatalogWriter interface {
	GetAll(ctx context.Context) (*models.Snapshot, error)
	CreateTheme(ctx context.Context, theme *models.Theme) error
	CreateSubtheme(ctx context.Context, subtheme *models.Subtheme) error
	CreateCategory(ctx context.Context, category *models.Category) error
	CreateName(ctx context.Context, name *models.Name, categoryIDs []uint) error
	DeleteName(ctx context.Context, id uint) error
}

type AdminHandler struct {
	repo   CatalogWriter
	logger *zap.Logger
}

func NewAdminHandler(r CatalogWriter, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{repo: r, logger: logger}
}

func (h *AdminHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to load catalog", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Failed to fetch data")
		return
	}
	api.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *AdminHandler) HandleCreateTheme(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &input) {
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing name")
		return
	}

	theme := &models.Theme{Name: name}
	if err := h.repo.CreateTheme(r.Context(), theme); err != nil {
		h.writeCreateError(w, "theme", "", err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, theme)
}

func (h *AdminHandler) HandleCreateSubtheme(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ThemeID uint   `json:"themeId"`
		Name    string `json:"name"`
	}
	if !decode(w, r, &input) {
		return
	}

	name := strings.TrimSpace(input.Name)
	if input.ThemeID == 0 || name == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing themeId or name")
		return
	}

	subtheme := &models.Subtheme{ThemeID: input.ThemeID, Name: name}
	if err := h.repo.CreateSubtheme(r.Context(), subtheme); err != nil {
		h.writeCreateError(w, "subtheme", "Theme does not exist", err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, subtheme)
}

func (h *AdminHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SubthemeID uint   `json:"subthemeId"`
		Name       string `json:"name"`
	}
	if !decode(w, r, &input) {
		return
	}

	name := strings.TrimSpace(input.Name)
	if input.SubthemeID == 0 || name == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing subthemeId or name")
		return
	}

	category := &models.Category{SubthemeID: input.SubthemeID, Name: name}
	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		h.writeCreateError(w, "category", "Subtheme does not exist", err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) HandleCreateName(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string `json:"name"`
		CategoryIDs []uint `json:"categoryIds"`
	}
	if !decode(w, r, &input) {
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing name")
		return
	}

	record := &models.Name{Name: name}
	if err := h.repo.CreateName(r.Context(), record, input.CategoryIDs); err != nil {
		h.writeCreateError(w, "name", "Category does not exist", err)
		return
	}

	categoryIDs := input.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []uint{}
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":          record.ID,
		"name":        record.Name,
		"categoryIds": categoryIDs,
	})
}

func (h *AdminHandler) HandleDeleteName(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "invalid name id")
		return
	}

	err := h.repo.DeleteName(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "Name not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete name", zap.Uint("name_id", id), zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Failed to delete name")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Name deleted successfully",
	})
}

func (h *AdminHandler) writeCreateError(w http.ResponseWriter, kind, missingParent string, err error) {
	switch {
	case errors.Is(err, models.ErrDuplicate):
		api.WriteError(w, http.StatusConflict, strings.ToUpper(kind[:1])+kind[1:]+" already exists")
	case errors.Is(err, models.ErrInvalidReference) && missingParent != "":
		api.WriteError(w, http.StatusBadRequest, missingParent)
	default:
		h.logger.Error("Failed to create "+kind, zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Failed to create "+kind)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
