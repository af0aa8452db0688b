package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"marketplace-admin-service/internal/domain"
	"marketplace-admin-service/internal/i18n"
	"marketplace-admin-service/internal/moderation"
	"marketplace-admin-service/internal/store"
	"marketplace-admin-service/internal/variants"
)

// ProductInput defines the expected input for creating/updating a product.
type ProductInput struct {
	ShopID       int64             `json:"shop_id" validate:"required,gt=0"`
	CategoryID   *int64            `json:"category_id" validate:"omitempty,gt=0"`
	BrandID      *int64            `json:"brand_id" validate:"omitempty,gt=0"`
	UnitID       *int64            `json:"unit_id" validate:"omitempty,gt=0"`
	Interval     int32             `json:"interval" validate:"gte=0"`
	Tax          float64           `json:"tax" validate:"gte=0,lte=100"`
	Images       []string          `json:"images" validate:"omitempty,dive,max=2048"`
	Active       *bool             `json:"active"`
	Translations TranslationsInput `json:"translations" validate:"required"`
}

// ProductEditInput is the seller-facing edit payload. It carries only the
// moderated fields; shop, tax and active status stay admin-controlled.
type ProductEditInput struct {
	CategoryID   *int64            `json:"category_id" validate:"omitempty,gt=0"`
	BrandID      *int64            `json:"brand_id" validate:"omitempty,gt=0"`
	UnitID       *int64            `json:"unit_id" validate:"omitempty,gt=0"`
	Interval     int32             `json:"interval" validate:"gte=0"`
	Images       []string          `json:"images" validate:"omitempty,dive,max=2048"`
	Translations TranslationsInput `json:"translations" validate:"required"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
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
		log.Error().Err(err).Msg("CreateProduct failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}
	created, err := h.productStore.CreateProduct(r.Context(), &domain.Product{
		ShopID:       input.ShopID,
		CategoryID:   input.CategoryID,
		BrandID:      input.BrandID,
		UnitID:       input.UnitID,
		Interval:     input.Interval,
		Tax:          input.Tax,
		Images:       images,
		Active:       active,
		Translations: translations,
	})
	if err != nil {
		log.Error().Err(err).Msg("CreateProduct store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	product, err := h.productStore.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("GetProductByID store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

// GetProductForm returns the flat per-locale field map ("title[en]", ...)
// used to pre-populate the dashboard's edit form.
func (h *HTTPHandler) GetProductForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	product, err := h.productStore.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("GetProductForm store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	locales, err := h.configuredLocales(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("GetProductForm failed to load configured locales")
		respondWithError(w, http.StatusInternalServerError, "Failed to load configured locales")
		return
	}
	fields := i18n.Expand(locales, product.Translations, i18n.FieldTitle, i18n.FieldDescription)
	respondWithJSON(w, http.StatusOK, fields)
}

// UpdateProductForm saves a submitted edit form: the same flat per-locale
// field map GetProductForm emits, collated back into translation rows. Only
// the default locale's title is required; locales left blank are backfilled
// from the first non-empty value.
func (h *HTTPHandler) UpdateProductForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	langs, err := h.languageStore.ListLanguages(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("UpdateProductForm failed to load configured locales")
		respondWithError(w, http.StatusInternalServerError, "Failed to load configured locales")
		return
	}
	if fields[i18n.Key(i18n.FieldTitle, i18n.DefaultLocale(langs))] == "" {
		respondWithError(w, http.StatusBadRequest, errTitleRequired.Error())
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("UpdateProductForm store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	locales := i18n.Locales(langs)
	titles := i18n.Collate(locales, fields, i18n.FieldTitle, true)
	descriptions := i18n.Collate(locales, fields, i18n.FieldDescription, true)

	translations := make([]domain.Translation, 0, len(locales))
	for _, locale := range locales {
		t := domain.Translation{Locale: locale}
		if v := titles[locale]; v != nil {
			t.Title = *v
		}
		if v := descriptions[locale]; v != nil {
			t.Description = *v
		}
		translations = append(translations, t)
	}
	product.Translations = translations

	updated, err := h.productStore.UpdateProduct(r.Context(), product)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("UpdateProductForm store operation failed")
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	params := store.ListProductsParams{Limit: limit, Offset: offset}

	q := r.URL.Query()
	if v := q.Get("shop_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid shop_id filter")
			return
		}
		params.ShopID = &id
	}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid category_id filter")
			return
		}
		params.CategoryID = &id
	}
	if v := q.Get("brand_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid brand_id filter")
			return
		}
		params.BrandID = &id
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid active filter")
			return
		}
		params.Active = &active
	}
	if v := q.Get("search"); v != "" {
		params.SearchQuery = &v
	}

	products, totalCount, err := h.productStore.ListProducts(r.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("ListProducts store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondWithJSON(w, http.StatusOK, paginatedResponse(products, page, limit, totalCount))
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input ProductInput
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
		log.Error().Err(err).Msg("UpdateProduct failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}
	updated, err := h.productStore.UpdateProduct(r.Context(), &domain.Product{
		ID:           id,
		ShopID:       input.ShopID,
		CategoryID:   input.CategoryID,
		BrandID:      input.BrandID,
		UnitID:       input.UnitID,
		Interval:     input.Interval,
		Tax:          input.Tax,
		Images:       images,
		Active:       active,
		Translations: translations,
	})
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("UpdateProduct store operation failed")
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	if err := h.productStore.DeleteProduct(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("DeleteProduct store operation failed")
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		}
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Stock Variant Handlers ---

// GenerateStocksGroupInput names one selected extra group and its selected
// value IDs, in the order the form presents them.
type GenerateStocksGroupInput struct {
	GroupID  int64   `json:"extra_group_id" validate:"required,gt=0"`
	ValueIDs []int64 `json:"value_ids" validate:"dive,gt=0"`
}

// GenerateStocksInput defines the expected input for the variant generation
// preview endpoint.
type GenerateStocksInput struct {
	Groups []GenerateStocksGroupInput `json:"groups" validate:"dive"`
}

// GenerateProductStocks recomputes the variant collection for a group/value
// selection and returns it without persisting; rows matching an existing
// variant keep that variant's figures.
func (h *HTTPHandler) GenerateProductStocks(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input GenerateStocksInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("GenerateProductStocks store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	groups, err := h.resolveSelectedGroups(r, input.Groups)
	if err != nil {
		if errors.Is(err, store.ErrExtraValueNotFound) || errors.Is(err, errValueGroupMismatch) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("GenerateProductStocks failed to resolve extra values")
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve extra values")
		return
	}

	rows := variants.Generate(groups, product.Stocks, product.Tax)
	respondWithJSON(w, http.StatusOK, rows)
}

var errValueGroupMismatch = errors.New("an extra value does not belong to its stated group")

// resolveSelectedGroups loads the selected extra values in one batch and
// reassembles them per group, preserving the submitted order.
func (h *HTTPHandler) resolveSelectedGroups(r *http.Request, inputs []GenerateStocksGroupInput) ([][]domain.ExtraValue, error) {
	var allIDs []int64
	for _, g := range inputs {
		allIDs = append(allIDs, g.ValueIDs...)
	}
	byID, err := h.resolveExtraValues(r, allIDs)
	if err != nil {
		return nil, err
	}

	groups := make([][]domain.ExtraValue, 0, len(inputs))
	for _, g := range inputs {
		values := make([]domain.ExtraValue, 0, len(g.ValueIDs))
		for _, id := range g.ValueIDs {
			value := byID[id]
			if value.GroupID != g.GroupID {
				return nil, errValueGroupMismatch
			}
			values = append(values, value)
		}
		groups = append(groups, values)
	}
	return groups, nil
}

func (h *HTTPHandler) resolveExtraValues(r *http.Request, ids []int64) (map[int64]domain.ExtraValue, error) {
	byID := make(map[int64]domain.ExtraValue, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := byID[id]; ok {
			continue
		}
		byID[id] = domain.ExtraValue{}
		unique = append(unique, id)
	}
	values, err := h.extraStore.GetExtraValuesByIDs(r.Context(), unique)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		byID[v.ID] = v
	}
	return byID, nil
}

// parseStockFilters reads filter[<groupID>]=<valueID> query parameters.
func parseStockFilters(r *http.Request) (map[int64]int64, error) {
	filters := make(map[int64]int64)
	for key, values := range r.URL.Query() {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		groupID, err := strconv.ParseInt(key[len("filter["):len(key)-1], 10, 64)
		if err != nil || groupID <= 0 || len(values) == 0 {
			return nil, errors.New("invalid stock filter: " + key)
		}
		valueID, err := strconv.ParseInt(values[0], 10, 64)
		if err != nil || valueID <= 0 {
			return nil, errors.New("invalid stock filter value: " + values[0])
		}
		filters[groupID] = valueID
	}
	return filters, nil
}

// GetProductStocks lists a product's variants, optionally narrowed by
// filter[<groupID>]=<valueID> query parameters.
func (h *HTTPHandler) GetProductStocks(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	filters, err := parseStockFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	stocks, err := h.productStore.GetStocks(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("GetProductStocks store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve stocks")
		return
	}

	visible := variants.ApplyFilter(stocks, filters)
	if visible == nil {
		visible = []domain.Stock{}
	}
	respondWithJSON(w, http.StatusOK, visible)
}

// StockFilterInput names one active table filter: a group and the single
// value chosen for it.
type StockFilterInput struct {
	GroupID int64 `json:"extra_group_id" validate:"required,gt=0"`
	ValueID int64 `json:"extra_value_id" validate:"required,gt=0"`
}

// StockRowInput is one submitted variant row. Extras holds extra value IDs.
type StockRowInput struct {
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int64   `json:"quantity" validate:"gte=0"`
	SKU      string  `json:"sku" validate:"max=255"`
	Addons   []int64 `json:"addons" validate:"omitempty,dive,gt=0"`
	Extras   []int64 `json:"extras" validate:"omitempty,dive,gt=0"`
}

// ReplaceStocksInput defines the expected input for saving stock rows. When
// Filters is non-empty, Stocks holds only the currently visible rows and the
// save merges them into the full collection; otherwise Stocks replaces the
// collection outright.
type ReplaceStocksInput struct {
	Filters []StockFilterInput `json:"filters" validate:"dive"`
	Stocks  []StockRowInput    `json:"stocks" validate:"dive"`
}

func filtersFromInput(inputs []StockFilterInput) map[int64]int64 {
	filters := make(map[int64]int64, len(inputs))
	for _, f := range inputs {
		filters[f.GroupID] = f.ValueID
	}
	return filters
}

// stocksFromInput resolves submitted rows into domain stocks with their
// extras loaded and totals computed against the given tax.
func (h *HTTPHandler) stocksFromInput(r *http.Request, productID int64, rows []StockRowInput, tax float64) ([]domain.Stock, error) {
	var allIDs []int64
	for _, row := range rows {
		allIDs = append(allIDs, row.Extras...)
	}
	byID, err := h.resolveExtraValues(r, allIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Stock, 0, len(rows))
	for _, row := range rows {
		extras := make([]domain.ExtraValue, 0, len(row.Extras))
		for _, id := range row.Extras {
			extras = append(extras, byID[id])
		}
		addons := row.Addons
		if addons == nil {
			addons = []int64{}
		}
		out = append(out, domain.Stock{
			ProductID:  productID,
			Price:      row.Price,
			Quantity:   row.Quantity,
			SKU:        row.SKU,
			Tax:        tax,
			TotalPrice: variants.TotalPrice(row.Price, tax),
			Addons:     addons,
			Extras:     extras,
		})
	}
	return out, nil
}

// mergedStocks turns a save payload into the full collection to persist,
// merging filtered edits back into the authoritative rows when filters are
// active.
func (h *HTTPHandler) mergedStocks(r *http.Request, product *domain.Product, input ReplaceStocksInput) ([]domain.Stock, error) {
	inheritTax := product.Tax
	if len(product.Stocks) > 0 {
		inheritTax = product.Stocks[0].Tax
	}
	submitted, err := h.stocksFromInput(r, product.ID, input.Stocks, inheritTax)
	if err != nil {
		return nil, err
	}
	if len(input.Filters) == 0 {
		return submitted, nil
	}
	return variants.MergeBack(submitted, product.Stocks, filtersFromInput(input.Filters)), nil
}

func (h *HTTPHandler) ReplaceProductStocks(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input ReplaceStocksInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("ReplaceProductStocks store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	merged, err := h.mergedStocks(r, product, input)
	if err != nil {
		if errors.Is(err, store.ErrExtraValueNotFound) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("ReplaceProductStocks failed to resolve stock rows")
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve stock rows")
		return
	}

	stored, err := h.productStore.ReplaceStocks(r.Context(), id, merged)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("ReplaceProductStocks store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to save stocks")
		return
	}
	respondWithJSON(w, http.StatusOK, stored)
}

// --- Seller Handlers (moderation gate) ---

// requestAuthor reads the acting user from the X-User-ID header, falling back
// to the shop owner.
func requestAuthor(r *http.Request, shop *domain.Shop) int64 {
	if v := r.Header.Get("X-User-ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return shop.UserID
}

// autoApproveFor resolves the moderation flag for a shop: the per-shop
// override wins, otherwise the global product_auto_approve setting. A missing
// setting means moderation is on.
func (h *HTTPHandler) autoApproveFor(r *http.Request, shop *domain.Shop) (bool, error) {
	if shop.AutoApprove != nil {
		return *shop.AutoApprove, nil
	}
	value, err := h.settingStore.GetSetting(r.Context(), domain.SettingProductAutoApprove)
	if err != nil {
		if errors.Is(err, store.ErrSettingNotFound) {
			return false, nil
		}
		return false, err
	}
	return value == "1" || value == "true", nil
}

// SellerUpdateProduct applies a seller's edit directly when nothing the
// moderation gate watches has changed (or auto-approve is on); otherwise it
// records a pending request and leaves the live record untouched.
func (h *HTTPHandler) SellerUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input ProductEditInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("SellerUpdateProduct store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	shop, err := h.shopStore.GetShopByID(r.Context(), product.ShopID)
	if err != nil {
		log.Error().Err(err).Int64("shop_id", product.ShopID).Msg("SellerUpdateProduct failed to load shop")
		respondWithError(w, http.StatusInternalServerError, "Failed to load shop")
		return
	}
	autoApprove, err := h.autoApproveFor(r, shop)
	if err != nil {
		log.Error().Err(err).Msg("SellerUpdateProduct failed to resolve auto-approve")
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve moderation settings")
		return
	}

	translations, err := h.buildTranslations(r, input.Translations)
	if err != nil {
		if errors.Is(err, errTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("SellerUpdateProduct failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	locales, err := h.configuredLocales(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("SellerUpdateProduct failed to load configured locales")
		respondWithError(w, http.StatusInternalServerError, "Failed to load configured locales")
		return
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}
	candidate := domain.ProductEdit{
		CategoryID:   input.CategoryID,
		BrandID:      input.BrandID,
		UnitID:       input.UnitID,
		Interval:     input.Interval,
		Images:       images,
		Translations: translations,
	}

	if moderation.NeedsApproval(locales, candidate, *product, autoApprove) {
		req, err := moderation.BuildRequest(*product, candidate, requestAuthor(r, shop))
		if err != nil {
			log.Error().Err(err).Int64("product_id", id).Msg("SellerUpdateProduct failed to build request")
			respondWithError(w, http.StatusInternalServerError, "Failed to record change request")
			return
		}
		created, err := h.requestStore.CreateRequest(r.Context(), &req)
		if err != nil {
			log.Error().Err(err).Int64("product_id", id).Msg("SellerUpdateProduct failed to store request")
			respondWithError(w, http.StatusInternalServerError, "Failed to record change request")
			return
		}
		respondWithJSON(w, http.StatusAccepted, created)
		return
	}

	applyProductEdit(product, candidate)
	updated, err := h.productStore.UpdateProduct(r.Context(), product)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("SellerUpdateProduct store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func applyProductEdit(product *domain.Product, edit domain.ProductEdit) {
	product.CategoryID = edit.CategoryID
	product.BrandID = edit.BrandID
	product.UnitID = edit.UnitID
	product.Interval = edit.Interval
	product.Images = edit.Images
	product.Translations = edit.Translations
}

// SellerReplaceProductStocks saves a seller's stock edits. Price, quantity and
// sku changes on unchanged combinations go straight through; a changed
// combination set routes through moderation unless auto-approve is on.
func (h *HTTPHandler) SellerReplaceProductStocks(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "productId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input ReplaceStocksInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrProductNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("SellerReplaceProductStocks store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	shop, err := h.shopStore.GetShopByID(r.Context(), product.ShopID)
	if err != nil {
		log.Error().Err(err).Int64("shop_id", product.ShopID).Msg("SellerReplaceProductStocks failed to load shop")
		respondWithError(w, http.StatusInternalServerError, "Failed to load shop")
		return
	}
	autoApprove, err := h.autoApproveFor(r, shop)
	if err != nil {
		log.Error().Err(err).Msg("SellerReplaceProductStocks failed to resolve auto-approve")
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve moderation settings")
		return
	}

	merged, err := h.mergedStocks(r, product, input)
	if err != nil {
		if errors.Is(err, store.ErrExtraValueNotFound) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("SellerReplaceProductStocks failed to resolve stock rows")
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve stock rows")
		return
	}

	if moderation.StockExtrasChanged(merged, product.Stocks) && !autoApprove {
		req, err := moderation.BuildStocksRequest(id, merged, requestAuthor(r, shop))
		if err != nil {
			log.Error().Err(err).Int64("product_id", id).Msg("SellerReplaceProductStocks failed to build request")
			respondWithError(w, http.StatusInternalServerError, "Failed to record change request")
			return
		}
		created, err := h.requestStore.CreateRequest(r.Context(), &req)
		if err != nil {
			log.Error().Err(err).Int64("product_id", id).Msg("SellerReplaceProductStocks failed to store request")
			respondWithError(w, http.StatusInternalServerError, "Failed to record change request")
			return
		}
		respondWithJSON(w, http.StatusAccepted, created)
		return
	}

	stored, err := h.productStore.ReplaceStocks(r.Context(), id, merged)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("SellerReplaceProductStocks store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to save stocks")
		return
	}
	respondWithJSON(w, http.StatusOK, stored)
}
