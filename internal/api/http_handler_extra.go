package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"marketplace-admin-service/internal/domain"
	"marketplace-admin-service/internal/store"
)

// --- Extra Group Handlers ---

// ExtraGroupInput defines the expected input for creating/updating an extra
// group.
type ExtraGroupInput struct {
	Type         string            `json:"type" validate:"required,oneof=text color image"`
	Active       *bool             `json:"active"`
	Translations TranslationsInput `json:"translations" validate:"required"`
}

func (h *HTTPHandler) CreateExtraGroup(w http.ResponseWriter, r *http.Request) {
	var input ExtraGroupInput
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
		log.Error().Err(err).Msg("CreateExtraGroup failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to create extra group")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	created, err := h.extraStore.CreateExtraGroup(r.Context(), &domain.ExtraGroup{
		Type:         input.Type,
		Active:       active,
		Translations: translations,
	})
	if err != nil {
		log.Error().Err(err).Msg("CreateExtraGroup store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to create extra group")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) GetExtraGroupByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "groupId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid extra group ID format")
		return
	}
	group, err := h.extraStore.GetExtraGroupByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrExtraGroupNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrExtraGroupNotFound.Error())
			return
		}
		log.Error().Err(err).Int64("group_id", id).Msg("GetExtraGroupByID store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve extra group")
		return
	}
	respondWithJSON(w, http.StatusOK, group)
}

func (h *HTTPHandler) ListExtraGroups(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)
	groups, totalCount, err := h.extraStore.ListExtraGroups(r.Context(), store.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		log.Error().Err(err).Msg("ListExtraGroups store operation failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve extra groups")
		return
	}
	if groups == nil {
		groups = []domain.ExtraGroup{}
	}
	respondWithJSON(w, http.StatusOK, paginatedResponse(groups, page, limit, totalCount))
}

func (h *HTTPHandler) UpdateExtraGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "groupId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid extra group ID format")
		return
	}

	var input ExtraGroupInput
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
		log.Error().Err(err).Msg("UpdateExtraGroup failed to collate translations")
		respondWithError(w, http.StatusInternalServerError, "Failed to update extra group")
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	updated, err := h.extraStore.UpdateExtraGroup(r.Context(), &domain.ExtraGroup{
		ID:           id,
		Type:         input.Type,
		Active:       active,
		Translations: translations,
	})
	if err != nil {
		log.Error().Err(err).Int64("group_id", id).Msg("UpdateExtraGroup store operation failed")
		if errors.Is(err, store.ErrExtraGroupNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrExtraGroupNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update extra group")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteExtraGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "groupId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid extra group ID format")
		return
	}
	if err := h.extraStore.DeleteExtraGroup(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("group_id", id).Msg("DeleteExtraGroup store operation failed")
		if errors.Is(err, store.ErrExtraGroupNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrExtraGroupNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete extra group")
		}
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Extra Value Handlers ---

// ExtraValueInput defines the expected input for creating/updating an extra
// value. Value semantics depend on the parent group's type (free text, hex
// color or image reference).
type ExtraValueInput struct {
	Value string `json:"value" validate:"required,max=255"`
}

func (h *HTTPHandler) CreateExtraValue(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "groupId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid extra group ID format")
		return
	}

	var input ExtraValueInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	created, err := h.extraStore.CreateExtraValue(r.Context(), &domain.ExtraValue{
		GroupID: groupID,
		Value:   input.Value,
	})
	if err != nil {
		log.Error().Err(err).Int64("group_id", groupID).Msg("CreateExtraValue store operation failed")
		if errors.Is(err, store.ErrExtraGroupNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrExtraGroupNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to create extra value")
		}
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListExtraValues(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "groupId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid extra group ID format")
		return
	}
	values, err := h.extraStore.ListExtraValues(r.Context(), groupID)
	if err != nil {
		log.Error().Err(err).Int64("group_id", groupID).Msg("ListExtraValues store operation failed")
		if errors.Is(err, store.ErrExtraGroupNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrExtraGroupNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve extra values")
		}
		return
	}
	if values == nil {
		values = []domain.ExtraValue{}
	}
	respondWithJSON(w, http.StatusOK, values)
}

func (h *HTTPHandler) UpdateExtraValue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "valueId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid extra value ID format")
		return
	}

	var input ExtraValueInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	updated, err := h.extraStore.UpdateExtraValue(r.Context(), &domain.ExtraValue{
		ID:    id,
		Value: input.Value,
	})
	if err != nil {
		log.Error().Err(err).Int64("value_id", id).Msg("UpdateExtraValue store operation failed")
		if errors.Is(err, store.ErrExtraValueNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrExtraValueNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update extra value")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteExtraValue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "valueId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid extra value ID format")
		return
	}
	if err := h.extraStore.DeleteExtraValue(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("value_id", id).Msg("DeleteExtraValue store operation failed")
		if errors.Is(err, store.ErrExtraValueNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrExtraValueNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete extra value")
		}
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
