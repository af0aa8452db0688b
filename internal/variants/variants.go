package variants

import (
	"marketplace-admin-service/internal/domain"
)

// Generate recomputes the stock variant collection for the given group/value
// selection. groups holds, per selected extra group in selection order, that
// group's selected values. The cartesian product across groups yields one
// variant per combination, first group slowest-varying, so repeated calls with
// the same inputs produce the same order.
//
// A combination that matches a previous variant's extra-value set (set
// equality, and only when the group cardinality is structurally unchanged)
// keeps that variant's price, quantity, sku, tax, total price and addons.
// Every other combination gets a fresh zero-valued row, its tax inherited
// from the first previous variant or from productTax.
//
// Zero selected groups produce the single implicit default variant. A group
// with zero selected values empties the whole product: no variants, not an
// error.
func Generate(groups [][]domain.ExtraValue, previous []domain.Stock, productTax float64) []domain.Stock {
	combos := cartesian(groups)

	inheritTax := productTax
	if len(previous) > 0 {
		inheritTax = previous[0].Tax
	}

	out := make([]domain.Stock, 0, len(combos))
	for _, combo := range combos {
		if prev, ok := findPrevious(previous, combo); ok {
			prev.Extras = combo
			out = append(out, prev)
			continue
		}
		out = append(out, domain.Stock{
			Price:      0,
			Quantity:   0,
			SKU:        "",
			Tax:        inheritTax,
			TotalPrice: TotalPrice(0, inheritTax),
			Addons:     []int64{},
			Extras:     combo,
		})
	}
	return out
}

// TotalPrice computes a row's tax-inclusive price.
func TotalPrice(price, tax float64) float64 {
	if tax == 0 {
		return price
	}
	return price + price*tax/100
}

// ApplyFilter narrows variants to those whose extras contain every filtered
// value. filters maps extra group ID to the single chosen value ID. An empty
// filter set is the identity; a filter value no variant carries (including one
// referencing a deselected group) yields an empty result, never an error.
func ApplyFilter(all []domain.Stock, filters map[int64]int64) []domain.Stock {
	if len(filters) == 0 {
		return all
	}
	out := make([]domain.Stock, 0, len(all))
	for _, s := range all {
		if matchesFilters(s, filters) {
			out = append(out, s)
		}
	}
	return out
}

// MergeBack reconciles edits made to the visible (filtered) subset into the
// authoritative full collection. Only rows matching the filters are merge
// candidates, and within those, rows are matched by extra-value-ID set; an
// edited row whose combination is hidden by the filters or no longer exists
// in the full collection is dropped. Callers must merge before applying a new
// filter, which is why the edited visible rows are an explicit parameter
// rather than an implicit ordering assumption.
func MergeBack(editedVisible, all []domain.Stock, filters map[int64]int64) []domain.Stock {
	out := make([]domain.Stock, len(all))
	copy(out, all)
	for _, edited := range editedVisible {
		ids := extraIDSet(edited.Extras)
		for i := range out {
			if !matchesFilters(out[i], filters) {
				continue
			}
			if !sameIDSet(extraIDSet(out[i].Extras), ids) {
				continue
			}
			out[i].Price = edited.Price
			out[i].Quantity = edited.Quantity
			out[i].SKU = edited.SKU
			out[i].Addons = edited.Addons
			out[i].TotalPrice = TotalPrice(edited.Price, out[i].Tax)
			break
		}
	}
	return out
}

// ExtraIDs returns a variant's extra value identifiers in extras order.
func ExtraIDs(s domain.Stock) []int64 {
	ids := make([]int64, 0, len(s.Extras))
	for _, e := range s.Extras {
		ids = append(ids, e.ID)
	}
	return ids
}

// cartesian computes the product across groups, first group slowest-varying.
// No groups yields a single empty combination; any empty group yields no
// combinations at all.
func cartesian(groups [][]domain.ExtraValue) [][]domain.ExtraValue {
	combos := [][]domain.ExtraValue{{}}
	for _, group := range groups {
		if len(group) == 0 {
			return nil
		}
		next := make([][]domain.ExtraValue, 0, len(combos)*len(group))
		for _, combo := range combos {
			for _, value := range group {
				extended := make([]domain.ExtraValue, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, value))
			}
		}
		combos = next
	}
	return combos
}

func findPrevious(previous []domain.Stock, combo []domain.ExtraValue) (domain.Stock, bool) {
	ids := extraIDSet(combo)
	for _, prev := range previous {
		if len(prev.Extras) != len(combo) {
			// Group cardinality changed structurally; nothing to preserve.
			continue
		}
		if sameIDSet(extraIDSet(prev.Extras), ids) {
			return prev, true
		}
	}
	return domain.Stock{}, false
}

func matchesFilters(s domain.Stock, filters map[int64]int64) bool {
	present := extraIDSet(s.Extras)
	for _, valueID := range filters {
		if !present[valueID] {
			return false
		}
	}
	return true
}

func extraIDSet(extras []domain.ExtraValue) map[int64]bool {
	set := make(map[int64]bool, len(extras))
	for _, e := range extras {
		set[e.ID] = true
	}
	return set
}

func sameIDSet(a, b map[int64]bool) bool {
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
