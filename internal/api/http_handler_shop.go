package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"marketplace-admin-service/internal/domain"
	"marketplace-admin-service/internal/moderation"
	"marketplace-admin-service/internal/store"
)

// --- Shop Handlers ---

// ShopInput defines the expected input for creating/updating a shop.
type ShopInput struct {
	UserID       int64             `json:"user_id" validate:"required,gt=0"`
	Logo         *string           `json:"logo" validate:"omitempty,max=2048"`
	Phone        *string           `json:"phone" validate:"omitempty,max=32"`
	AutoApprove  *bool             `json:"auto_approve"`
	Open         *bool             `json:"open"`
	Translations TranslationsInput `json:"translations" validate:"required"`
}

func (h *HTTPHandler) shopFromInput(r *http.Request, input ShopInput) (*domain.Shop, error) {
	translations, err := h.buildTranslations(r, input.Translations)
	if err != nil {
		return nil, err
	}
	open := true
	if input.Open != nil {
		open = *input.Open
	}
	return &domain.Shop{
		UserID:       input.UserID,
		Logo:         input.Logo,
		Phone:        input.Phone,
		AutoApprove:  input.AutoApprove,
		Open:         open,
		Translations: translations,
	}, nil
}

func (h *HTTPHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	var input ShopInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	shop, err := h.shopFromInput(r, input)
	if err != nil {
		if errors.Is(err, errTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("CreateShop failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to create shop")
		return
	}

	created, err := h.shopStore.CreateShop(r.Context(), shop)
	if err != nil {
		log.Error().Err(err).Msg("CreateShop store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to create shop")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) GetShopByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "shopId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid shop ID format")
		return
	}
	shop, err := h.shopStore.GetShopByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrShopNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrShopNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("shop_id", id).Msg("GetShopByID store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve shop")
		return
	}
	respondWithJSON(w, http.StatusOK, shop)
}

func (h *HTTPHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	shops, totalCount, err := h.shopStore.ListShops(r.Context(), store.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		log.Error().Err(err).Msg("ListShops store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve shops")
		return
	}
	if shops == nil {
		shops = []domain.Shop{}
	}
	respondWithJSON(w, http.StatusOK, paginatedResponse(shops, page, limit, totalCount))
}

func (h *HTTPHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "shopId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid shop ID format")
		return
	}

	var input ShopInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	shop, err := h.shopFromInput(r, input)
	if err != nil {
		if errors.Is(err, errTitleRequired) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("UpdateShop failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to update shop")
		return
	}
	shop.ID = id

	updated, err := h.shopStore.UpdateShop(r.Context(), shop)
	if err != nil {
		log.Error().Err(err).Int64("shop_id", id).Msg("UpdateShop store operation failed")
		if errors.Is(err, store.ErrShopNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrShopNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update shop")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "shopId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid shop ID format")
		return
	}
	if err := h.shopStore.DeleteShop(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("shop_id", id).Msg("DeleteShop store operation failed")
		if errors.Is(err, store.ErrShopNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrShopNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete shop")
		}
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Moderation Request Handlers ---

func (h *HTTPHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	params := store.ListRequestsParams{Limit: limit, Offset: offset}

	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		if v != domain.RequestStatusPending && v != domain.RequestStatusApproved && v != domain.RequestStatusDeclined {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		params.Status = &v
	}
	if v := q.Get("model_type"); v != "" {
		params.ModelType = &v
	}

	requests, totalCount, err := h.requestStore.ListRequests(r.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("ListRequests store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve requests")
		return
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	respondWithJSON(w, http.StatusOK, paginatedResponse(requests, page, limit, totalCount))
}

func (h *HTTPHandler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestId")
	req, err := h.requestStore.GetRequestByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRequestNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrRequestNotFound.Error())
			return
		}
		log.Error().Err(err).Str("request_id", id).Msg("GetRequestByID store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve request")
		return
	}
	respondWithJSON(w, http.StatusOK, req)
}

// ApproveRequest applies a pending request's stored payload to the live
// record, then marks the request approved. Only pending requests can be
// approved.
func (h *HTTPHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestId")
	req, err := h.requestStore.GetRequestByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRequestNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrRequestNotFound.Error())
			return
		}
		log.Error().Err(err).Str("request_id", id).Msg("ApproveRequest store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve request")
		return
	}
	if req.Status != domain.RequestStatusPending {
		respondWithError(w, http.StatusConflict, store.ErrRequestNotPending.Error())
		return
	}

	if err := h.applyRequest(r, req); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusConflict, "The requested product no longer exists")
			return
		}
		log.Error().Err(err).Str("request_id", id).Msg("ApproveRequest failed to apply payload")
		respondWithError(w, http.StatusInternalServerError, "Failed to apply request")
		return
	}

	updated, err := h.requestStore.UpdateRequestStatus(r.Context(), id, domain.RequestStatusApproved)
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("ApproveRequest failed to update status")
		if errors.Is(err, store.ErrRequestNotPending) {
			respondWithError(w, http.StatusConflict, store.ErrRequestNotPending.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update request")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// applyRequest replays a request's payload against the live record.
func (h *HTTPHandler) applyRequest(r *http.Request, req *domain.Request) error {
	switch req.ModelType {
	case moderation.ModelTypeProduct:
		var edit domain.ProductEdit
		if err := json.Unmarshal(req.Data, &edit); err != nil {
			return err
		}
		product, err := h.productStore.GetProductByID(r.Context(), req.ModelID)
		if err != nil {
			return err
		}
		applyProductEdit(product, edit)
		_, err = h.productStore.UpdateProduct(r.Context(), product)
		return err
	case moderation.ModelTypeProductStocks:
		var stocks []domain.Stock
		if err := json.Unmarshal(req.Data, &stocks); err != nil {
			return err
		}
		_, err := h.productStore.ReplaceStocks(r.Context(), req.ModelID, stocks)
		return err
	default:
		return errors.New("unknown request model type: " + req.ModelType)
	}
}

func (h *HTTPHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "requestId")
	updated, err := h.requestStore.UpdateRequestStatus(r.Context(), id, domain.RequestStatusDeclined)
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("DeclineRequest store operation failed")
		switch {
		case errors.Is(err, store.ErrRequestNotFound):
			respondWithError(w, http.StatusNotFound, store.ErrRequestNotFound.Error())
		case errors.Is(err, store.ErrRequestNotPending):
			respondWithError(w, http.StatusConflict, store.ErrRequestNotPending.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to decline request")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}
