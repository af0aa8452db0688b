package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"marketplace-admin-service/internal/domain"
	"marketplace-admin-service/internal/i18n"
	"marketplace-admin-service/internal/store"
	"marketplace-admin-service/internal/translate"
)

// Deps bundles the collaborators the HTTP layer needs. Translator may be nil,
// which disables the auto-translation endpoint.
type Deps struct {
	Languages  store.LanguageStorer
	Settings   store.SettingStorer
	Categories store.CategoryStorer
	Brands     store.BrandStorer
	Units      store.UnitStorer
	Extras     store.ExtraStorer
	Products   store.ProductStorer
	Shops      store.ShopStorer
	Requests   store.RequestStorer
	Translator translate.Translator
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	languageStore store.LanguageStorer
	settingStore  store.SettingStorer
	categoryStore store.CategoryStorer
	brandStore    store.BrandStorer
	unitStore     store.UnitStorer
	extraStore    store.ExtraStorer
	productStore  store.ProductStorer
	shopStore     store.ShopStorer
	requestStore  store.RequestStorer
	translator    translate.Translator
	validate      *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(d Deps) *HTTPHandler {
	return &HTTPHandler{
		languageStore: d.Languages,
		settingStore:  d.Settings,
		categoryStore: d.Categories,
		brandStore:    d.Brands,
		unitStore:     d.Units,
		extraStore:    d.Extras,
		productStore:  d.Products,
		shopStore:     d.Shops,
		requestStore:  d.Requests,
		translator:    d.Translator,
		validate:      validator.New(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// Pagination matches the envelope the dashboard's tables consume.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// ListResponse is the paginated list envelope.
type ListResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func paginatedResponse(data interface{}, page, limit, totalCount int) ListResponse {
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return ListResponse{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: totalCount,
			TotalPages: totalPages,
		},
	}
}

func parsePagination(r *http.Request) (page, limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	page, err = strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	return page, limit, (page - 1) * limit
}

func parseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil && id > 0
}

// configuredLocales loads the active locale list, ordered default first.
func (h *HTTPHandler) configuredLocales(ctx context.Context) ([]string, error) {
	langs, err := h.languageStore.ListLanguages(ctx)
	if err != nil {
		return nil, err
	}
	return i18n.Locales(langs), nil
}

// --- Language Handlers ---

// LanguageInput defines the expected input for creating/updating a language.
type LanguageInput struct {
	Locale  string  `json:"locale" validate:"required,max=10"`
	Title   string  `json:"title" validate:"required,max=255"`
	Img     *string `json:"img" validate:"omitempty,max=2048"`
	Default bool    `json:"default"`
	Active  *bool   `json:"active"`
}

func (h *HTTPHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.languageStore.ListLanguages(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("ListLanguages store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve languages")
		return
	}
	if langs == nil {
		langs = []domain.Language{}
	}
	respondWithJSON(w, http.StatusOK, langs)
}

func (h *HTTPHandler) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	var input LanguageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if err := i18n.ValidateLocale(input.Locale); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	lang := &domain.Language{
		Locale:  input.Locale,
		Title:   input.Title,
		Img:     input.Img,
		Default: input.Default,
		Active:  active,
	}

	created, err := h.languageStore.CreateLanguage(r.Context(), lang)
	if err != nil {
		log.Error().Err(err).Msg("CreateLanguage store operation failed")
		if errors.Is(err, store.ErrLocaleExists) {
			respondWithError(w, http.StatusConflict, store.ErrLocaleExists.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to create language")
		}
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "languageId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid language ID format")
		return
	}

	var input LanguageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if err := i18n.ValidateLocale(input.Locale); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	lang := &domain.Language{
		ID:      id,
		Locale:  input.Locale,
		Title:   input.Title,
		Img:     input.Img,
		Default: input.Default,
		Active:  active,
	}

	updated, err := h.languageStore.UpdateLanguage(r.Context(), lang)
	if err != nil {
		log.Error().Err(err).Int64("language_id", id).Msg("UpdateLanguage store operation failed")
		switch {
		case errors.Is(err, store.ErrLanguageNotFound):
			respondWithError(w, http.StatusNotFound, store.ErrLanguageNotFound.Error())
		case errors.Is(err, store.ErrLocaleExists):
			respondWithError(w, http.StatusConflict, store.ErrLocaleExists.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to update language")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "languageId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid language ID format")
		return
	}
	if err := h.languageStore.DeleteLanguage(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("language_id", id).Msg("DeleteLanguage store operation failed")
		if errors.Is(err, store.ErrLanguageNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrLanguageNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete language")
		}
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Setting Handlers ---

// SettingInput defines the expected input for updating a setting.
type SettingInput struct {
	Value string `json:"value" validate:"required,max=255"`
}

func (h *HTTPHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "settingKey")
	value, err := h.settingStore.GetSetting(r.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrSettingNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrSettingNotFound.Error())
			return
		}
		log.Error().Err(err).Str("key", key).Msg("GetSetting store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve setting")
		return
	}
	respondWithJSON(w, http.StatusOK, domain.Setting{Key: key, Value: value})
}

func (h *HTTPHandler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "settingKey")
	var input SettingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if err := h.settingStore.UpsertSetting(r.Context(), key, input.Value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("UpsertSetting store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to update setting")
		return
	}
	respondWithJSON(w, http.StatusOK, domain.Setting{Key: key, Value: input.Value})
}

// --- AI Translation Handler ---

// AutoTranslateInput defines the expected input for the auto-translation
// convenience endpoint. When TargetLocales is empty, every configured locale
// except the source is targeted.
type AutoTranslateInput struct {
	SourceLocale  string            `json:"source_locale" validate:"required,max=10"`
	TargetLocales []string          `json:"target_locales" validate:"omitempty,dive,max=10"`
	Fields        map[string]string `json:"fields" validate:"required,min=1"`
}

func (h *HTTPHandler) AutoTranslate(w http.ResponseWriter, r *http.Request) {
	if h.translator == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Auto-translation is not configured")
		return
	}

	var input AutoTranslateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	targets := input.TargetLocales
	if len(targets) == 0 {
		locales, err := h.configuredLocales(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("AutoTranslate failed to load configured locales")
			respondWithError(w, http.StatusInternalServerError, "Failed to load configured locales")
			return
		}
		for _, locale := range locales {
			if locale != input.SourceLocale {
				targets = append(targets, locale)
			}
		}
	}

	translated, err := h.translator.Translate(r.Context(), input.SourceLocale, targets, input.Fields)
	if err != nil {
		log.Error().Err(err).Msg("AutoTranslate backend call failed")
		respondWithError(w, http.StatusBadGateway, "Translation backend failed")
		return
	}
	respondWithJSON(w, http.StatusOK, translated)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/languages", func(r chi.Router) {
		r.Get("/", h.ListLanguages)
		r.Post("/", h.CreateLanguage)
		r.Route("/{languageId}", func(r chi.Router) {
			r.Put("/", h.UpdateLanguage)
			r.Delete("/", h.DeleteLanguage)
		})
	})

	r.Route("/api/v1/settings/{settingKey}", func(r chi.Router) {
		r.Get("/", h.GetSetting)
		r.Put("/", h.UpsertSetting)
	})

	r.Post("/api/v1/translations/auto", h.AutoTranslate)

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Route("/{categoryId}", func(r chi.Router) {
			r.Get("/", h.GetCategoryByID)
			r.Put("/", h.UpdateCategory)
			r.Delete("/", h.DeleteCategory)
		})
	})

	r.Route("/api/v1/brands", func(r chi.Router) {
		r.Post("/", h.CreateBrand)
		r.Get("/", h.ListBrands)
		r.Route("/{brandId}", func(r chi.Router) {
			r.Get("/", h.GetBrandByID)
			r.Put("/", h.UpdateBrand)
			r.Delete("/", h.DeleteBrand)
		})
	})

	r.Route("/api/v1/units", func(r chi.Router) {
		r.Post("/", h.CreateUnit)
		r.Get("/", h.ListUnits)
		r.Route("/{unitId}", func(r chi.Router) {
			r.Get("/", h.GetUnitByID)
			r.Put("/", h.UpdateUnit)
			r.Delete("/", h.DeleteUnit)
		})
	})

	r.Route("/api/v1/extras", func(r chi.Router) {
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", h.CreateExtraGroup)
			r.Get("/", h.ListExtraGroups)
			r.Route("/{groupId}", func(r chi.Router) {
				r.Get("/", h.GetExtraGroupByID)
				r.Put("/", h.UpdateExtraGroup)
				r.Delete("/", h.DeleteExtraGroup)
				r.Get("/values", h.ListExtraValues)
				r.Post("/values", h.CreateExtraValue)
			})
		})
		r.Route("/values/{valueId}", func(r chi.Router) {
			r.Put("/", h.UpdateExtraValue)
			r.Delete("/", h.DeleteExtraValue)
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", h.GetProductByID)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
			r.Get("/form", h.GetProductForm)
			r.Put("/form", h.UpdateProductForm)
			r.Get("/stocks", h.GetProductStocks)
			r.Put("/stocks", h.ReplaceProductStocks)
			r.Post("/stocks/generate", h.GenerateProductStocks)
		})
	})

	// Seller routes run the moderation gate before touching the catalog.
	r.Route("/api/v1/seller/products/{productId}", func(r chi.Router) {
		r.Put("/", h.SellerUpdateProduct)
		r.Put("/stocks", h.SellerReplaceProductStocks)
	})

	r.Route("/api/v1/shops", func(r chi.Router) {
		r.Post("/", h.CreateShop)
		r.Get("/", h.ListShops)
		r.Route("/{shopId}", func(r chi.Router) {
			r.Get("/", h.GetShopByID)
			r.Put("/", h.UpdateShop)
			r.Delete("/", h.DeleteShop)
		})
	})

	r.Route("/api/v1/requests", func(r chi.Router) {
		r.Get("/", h.ListRequests)
		r.Route("/{requestId}", func(r chi.Router) {
			r.Get("/", h.GetRequestByID)
			r.Post("/approve", h.ApproveRequest)
			r.Post("/decline", h.DeclineRequest)
		})
	})
}
