package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"marketplace-admin-service/internal/domain"
	"marketplace-admin-service/internal/i18n"
	"marketplace-admin-service/internal/store"
)

// TranslationsInput carries per-locale form values keyed by locale tag.
// Locales left empty are backfilled from the first non-empty locale so a
// half-filled form still yields a complete record.
type TranslationsInput struct {
	Title       map[string]string `json:"title" validate:"required,min=1"`
	Description map[string]string `json:"description"`
}

// buildTranslations collates a nested translations payload against the
// configured locales. Only the default locale's title is required; the other
// locales are backfilled from the first non-empty value.
func (h *HTTPHandler) buildTranslations(r *http.Request, input TranslationsInput) ([]domain.Translation, error) {
	langs, err := h.languageStore.ListLanguages(r.Context())
	if err != nil {
		return nil, err
	}
	if input.Title[i18n.DefaultLocale(langs)] == "" {
		return nil, errTitleRequired
	}
	return i18n.BuildTranslations(i18n.Locales(langs), input.Title, input.Description, true), nil
}

var errTitleRequired = errors.New("a title is required for the default locale")

// --- Category Handlers ---

// CategoryInput defines the expected input for creating/updating a category.
type CategoryInput struct {
	ParentID     *int64            `json:"parent_id" validate:"omitempty,gt=0"`
	Img          *string           `json:"img" validate:"omitempty,max=2048"`
	Active       *bool             `json:"active"`
	Translations TranslationsInput `json:"translations" validate:"required"`
}

func (h *HTTPHandler) categoryFromInput(r *http.Request, input CategoryInput) (*domain.Category, error) {
	translations, err := h.buildTranslations(r, input.Translations)
	if err != nil {
		return nil, err
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	return &domain.Category{
		ParentID:     input.ParentID,
		Img:          input.Img,
		Active:       active,
		Translations: translations,
	}, nil
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	category, err := h.categoryFromInput(r, input)
	if err != nil {
		if errors.Is(err, errTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("CreateCategory failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	created, err := h.categoryStore.CreateCategory(r.Context(), category)
	if err != nil {
		log.Error().Err(err).Msg("CreateCategory store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "categoryId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
		return
	}
	category, err := h.categoryStore.GetCategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("category_id", id).Msg("GetCategoryByID store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve category")
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("shape") == "tree" {
		h.listCategoryTree(w, r)
		return
	}

	page, limit, offset := parsePagination(r)
	categories, totalCount, err := h.categoryStore.ListCategories(r.Context(), store.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		log.Error().Err(err).Msg("ListCategories store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	respondWithJSON(w, http.StatusOK, paginatedResponse(categories, page, limit, totalCount))
}

// listCategoryTree recomposes the flat category table into the nested shape
// the dashboard's sidebar renders. The whole table is loaded; paging a tree
// would cut branches off.
func (h *HTTPHandler) listCategoryTree(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.ListAllCategories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("ListAllCategories store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	respondWithJSON(w, http.StatusOK, buildCategoryTree(categories))
}

func buildCategoryTree(flat []domain.Category) []domain.Category {
	children := make(map[int64][]domain.Category, len(flat))
	var rootIDs []int64
	byID := make(map[int64]domain.Category, len(flat))
	for _, c := range flat {
		byID[c.ID] = c
		if c.ParentID == nil {
			rootIDs = append(rootIDs, c.ID)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var attach func(c domain.Category) domain.Category
	attach = func(c domain.Category) domain.Category {
		for _, child := range children[c.ID] {
			c.Children = append(c.Children, attach(child))
		}
		return c
	}

	roots := make([]domain.Category, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, attach(byID[id]))
	}
	return roots
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "categoryId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if input.ParentID != nil && *input.ParentID == id {
		respondWithError(w, http.StatusBadRequest, "A category cannot be its own parent")
		return
	}

	category, err := h.categoryFromInput(r, input)
	if err != nil {
		if errors.Is(err, errTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("UpdateCategory failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}
	category.ID = id

	updated, err := h.categoryStore.UpdateCategory(r.Context(), category)
	if err != nil {
		log.Error().Err(err).Int64("category_id", id).Msg("UpdateCategory store operation failed")
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update category")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "categoryId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid category ID format")
		return
	}
	if err := h.categoryStore.DeleteCategory(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("category_id", id).Msg("DeleteCategory store operation failed")
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCategoryNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		}
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Brand Handlers ---

// BrandInput defines the expected input for creating/updating a brand. Brands
// are not translated; the title is a single plain string.
type BrandInput struct {
	Title  string  `json:"title" validate:"required,max=255"`
	Img    *string `json:"img" validate:"omitempty,max=2048"`
	Active *bool   `json:"active"`
}

func (h *HTTPHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var input BrandInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	created, err := h.brandStore.CreateBrand(r.Context(), &domain.Brand{
		Title:  input.Title,
		Img:    input.Img,
		Active: active,
	})
	if err != nil {
		log.Error().Err(err).Msg("CreateBrand store operation failed")
		if errors.Is(err, store.ErrBrandTitleExists) {
			respondWithError(w, http.StatusConflict, store.ErrBrandTitleExists.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to create brand")
		}
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) GetBrandByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "brandId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid brand ID format")
		return
	}
	brand, err := h.brandStore.GetBrandByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrBrandNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrBrandNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("brand_id", id).Msg("GetBrandByID store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve brand")
		return
	}
	respondWithJSON(w, http.StatusOK, brand)
}

func (h *HTTPHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	brands, totalCount, err := h.brandStore.ListBrands(r.Context(), store.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		log.Error().Err(err).Msg("ListBrands store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve brands")
		return
	}
	if brands == nil {
		brands = []domain.Brand{}
	}
	respondWithJSON(w, http.StatusOK, paginatedResponse(brands, page, limit, totalCount))
}

func (h *HTTPHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "brandId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid brand ID format")
		return
	}

	var input BrandInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	updated, err := h.brandStore.UpdateBrand(r.Context(), &domain.Brand{
		ID:     id,
		Title:  input.Title,
		Img:    input.Img,
		Active: active,
	})
	if err != nil {
		log.Error().Err(err).Int64("brand_id", id).Msg("UpdateBrand store operation failed")
		switch {
		case errors.Is(err, store.ErrBrandNotFound):
			respondWithError(w, http.StatusNotFound, store.ErrBrandNotFound.Error())
		case errors.Is(err, store.ErrBrandTitleExists):
			respondWithError(w, http.StatusConflict, store.ErrBrandTitleExists.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to update brand")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "brandId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid brand ID format")
		return
	}
	if err := h.brandStore.DeleteBrand(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("brand_id", id).Msg("DeleteBrand store operation failed")
		if errors.Is(err, store.ErrBrandNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrBrandNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete brand")
		}
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Unit Handlers ---

// UnitInput defines the expected input for creating/updating a unit.
type UnitInput struct {
	Position     string            `json:"position" validate:"required,oneof=before after"`
	Active       *bool             `json:"active"`
	Translations TranslationsInput `json:"translations" validate:"required"`
}

func (h *HTTPHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var input UnitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	translations, err := h.buildTranslations(r, input.Translations)
	if err != nil {
		if errors.Is(err, errTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("CreateUnit failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to create unit")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	created, err := h.unitStore.CreateUnit(r.Context(), &domain.Unit{
		Position:     input.Position,
		Active:       active,
		Translations: translations,
	})
	if err != nil {
		log.Error().Err(err).Msg("CreateUnit store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to create unit")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) GetUnitByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "unitId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid unit ID format")
		return
	}
	unit, err := h.unitStore.GetUnitByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrUnitNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrUnitNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("unit_id", id).Msg("GetUnitByID store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve unit")
		return
	}
	respondWithJSON(w, http.StatusOK, unit)
}

func (h *HTTPHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	units, totalCount, err := h.unitStore.ListUnits(r.Context(), store.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		log.Error().Err(err).Msg("ListUnits store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve units")
		return
	}
	if units == nil {
		units = []domain.Unit{}
	}
	respondWithJSON(w, http.StatusOK, paginatedResponse(units, page, limit, totalCount))
}

func (h *HTTPHandler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "unitId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid unit ID format")
		return
	}

	var input UnitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	translations, err := h.buildTranslations(r, input.Translations)
	if err != nil {
		if errors.Is(err, errTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("UpdateUnit failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to update unit")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	updated, err := h.unitStore.UpdateUnit(r.Context(), &domain.Unit{
		ID:           id,
		Position:     input.Position,
		Active:       active,
		Translations: translations,
	})
	if err != nil {
		log.Error().Err(err).Int64("unit_id", id).Msg("UpdateUnit store operation failed")
		if errors.Is(err, store.ErrUnitNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrUnitNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update unit")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "unitId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid unit ID format")
		return
	}
	if err := h.unitStore.DeleteUnit(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("unit_id", id).Msg("DeleteUnit store operation failed")
		if errors.Is(err, store.ErrUnitNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrUnitNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete unit")
		}
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
