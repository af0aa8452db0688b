package moderation

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"marketplace-admin-service/internal/domain"
	"marketplace-admin-service/internal/variants"
)

// Model types recorded on change requests.
const (
	ModelTypeProduct       = "product"
	ModelTypeProductStocks = "product_stocks"
)

// NeedsApproval decides whether a seller-submitted product edit must route
// through the moderation workflow instead of being applied directly. With
// auto-approve enabled it is always false. Otherwise any difference in a
// governed field forces approval: a translated title or description for any
// configured locale, the category, brand or unit reference, the purchase
// interval, or the image set (compared as an unordered set, both directions).
func NeedsApproval(locales []string, candidate domain.ProductEdit, original domain.Product, autoApprove bool) bool {
	if autoApprove {
		return false
	}
	if translationsDiffer(locales, candidate.Translations, original.Translations) {
		return true
	}
	if !sameRef(candidate.CategoryID, original.CategoryID) {
		return true
	}
	if !sameRef(candidate.BrandID, original.BrandID) {
		return true
	}
	if !sameRef(candidate.UnitID, original.UnitID) {
		return true
	}
	if candidate.Interval != original.Interval {
		return true
	}
	return !sameImageSet(candidate.Images, original.Images)
}

// StockExtrasChanged reports whether the submitted stock rows select a
// different set of extra-value combinations than the recorded ones. Price and
// quantity edits on unchanged combinations do not trip this gate.
func StockExtrasChanged(candidate []domain.Stock, original []domain.Stock) bool {
	if len(candidate) != len(original) {
		return true
	}
	matched := make([]bool, len(original))
outer:
	for _, c := range candidate {
		cids := idSet(variants.ExtraIDs(c))
		for i, o := range original {
			if matched[i] {
				continue
			}
			if sameSet(cids, idSet(variants.ExtraIDs(o))) {
				matched[i] = true
				continue outer
			}
		}
		return true
	}
	return false
}

// BuildRequest wraps a candidate edit into a pending moderation request for
// the given product.
func BuildRequest(original domain.Product, candidate domain.ProductEdit, createdBy int64) (domain.Request, error) {
	data, err := json.Marshal(candidate)
	if err != nil {
		return domain.Request{}, fmt.Errorf("moderation: marshal candidate for product %d: %w", original.ID, err)
	}
	return domain.Request{
		ID:        uuid.NewString(),
		ModelID:   original.ID,
		ModelType: ModelTypeProduct,
		Data:      data,
		Status:    domain.RequestStatusPending,
		CreatedBy: createdBy,
	}, nil
}

// BuildStocksRequest wraps a candidate stock collection into a pending
// moderation request for the given product.
func BuildStocksRequest(productID int64, candidate []domain.Stock, createdBy int64) (domain.Request, error) {
	data, err := json.Marshal(candidate)
	if err != nil {
		return domain.Request{}, fmt.Errorf("moderation: marshal stocks for product %d: %w", productID, err)
	}
	return domain.Request{
		ID:        uuid.NewString(),
		ModelID:   productID,
		ModelType: ModelTypeProductStocks,
		Data:      data,
		Status:    domain.RequestStatusPending,
		CreatedBy: createdBy,
	}, nil
}

func translationsDiffer(locales []string, candidate, original []domain.Translation) bool {
	candidateByLocale := byLocale(candidate)
	originalByLocale := byLocale(original)
	for _, locale := range locales {
		c := candidateByLocale[locale]
		o := originalByLocale[locale]
		if c.Title != o.Title || c.Description != o.Description {
			return true
		}
	}
	return false
}

func byLocale(ts []domain.Translation) map[string]domain.Translation {
	out := make(map[string]domain.Translation, len(ts))
	for _, t := range ts {
		out[t.Locale] = t
	}
	return out
}

func sameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameImageSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, img := range a {
		set[img]++
	}
	for _, img := range b {
		if set[img] == 0 {
			return false
		}
		set[img]--
	}
	return true
}

func idSet(ids []int64) map[int64]bool {
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func sameSet(a, b map[int64]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
