package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin-service/internal/domain"
)

func ev(id, groupID int64, value string) domain.ExtraValue {
	return domain.ExtraValue{ID: id, GroupID: groupID, Value: value}
}

func TestGenerate_CartesianOrderIsDeterministic(t *testing.T) {
	sizes := []domain.ExtraValue{ev(1, 10, "S"), ev(2, 10, "M")}
	colors := []domain.ExtraValue{ev(3, 20, "red"), ev(4, 20, "blue"), ev(5, 20, "green")}

	rows := Generate([][]domain.ExtraValue{sizes, colors}, nil, 0)

	require.Len(t, rows, 6)
	// First group varies slowest.
	assert.Equal(t, []int64{1, 3}, ExtraIDs(rows[0]))
	assert.Equal(t, []int64{1, 4}, ExtraIDs(rows[1]))
	assert.Equal(t, []int64{1, 5}, ExtraIDs(rows[2]))
	assert.Equal(t, []int64{2, 3}, ExtraIDs(rows[3]))
	assert.Equal(t, []int64{2, 4}, ExtraIDs(rows[4]))
	assert.Equal(t, []int64{2, 5}, ExtraIDs(rows[5]))

	again := Generate([][]domain.ExtraValue{sizes, colors}, nil, 0)
	assert.Equal(t, rows, again, "same inputs must produce the same order")
}

func TestGenerate_NoGroupsYieldsDefaultVariant(t *testing.T) {
	rows := Generate(nil, nil, 12)

	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Extras)
	assert.Equal(t, 12.0, rows[0].Tax)
}

func TestGenerate_EmptyGroupYieldsNoVariants(t *testing.T) {
	sizes := []domain.ExtraValue{ev(1, 10, "S")}

	rows := Generate([][]domain.ExtraValue{sizes, {}}, nil, 0)

	assert.Empty(t, rows)
}

func TestGenerate_PreservesMatchingCombinations(t *testing.T) {
	sizes := []domain.ExtraValue{ev(1, 10, "S"), ev(2, 10, "M")}
	previous := []domain.Stock{
		{ID: 100, Price: 50, Quantity: 7, SKU: "SM-S", Tax: 5, TotalPrice: 52.5, Addons: []int64{9}, Extras: []domain.ExtraValue{ev(1, 10, "S")}},
	}

	rows := Generate([][]domain.ExtraValue{sizes}, previous, 0)

	require.Len(t, rows, 2)
	preserved := rows[0]
	assert.Equal(t, 50.0, preserved.Price)
	assert.Equal(t, int64(7), preserved.Quantity)
	assert.Equal(t, "SM-S", preserved.SKU)
	assert.Equal(t, []int64{9}, preserved.Addons)
	assert.Equal(t, 52.5, preserved.TotalPrice)

	fresh := rows[1]
	assert.Equal(t, 0.0, fresh.Price)
	assert.Equal(t, int64(0), fresh.Quantity)
	assert.Equal(t, "", fresh.SKU)
	assert.Equal(t, 5.0, fresh.Tax, "new rows inherit the previous rows' tax")
	assert.Equal(t, []int64{}, fresh.Addons)
}

func TestGenerate_NoPreservationWhenCardinalityChanges(t *testing.T) {
	sizes := []domain.ExtraValue{ev(1, 10, "S")}
	colors := []domain.ExtraValue{ev(3, 20, "red")}
	// Previous rows were generated from a single group.
	previous := []domain.Stock{
		{Price: 50, Quantity: 7, Tax: 0, Extras: []domain.ExtraValue{ev(1, 10, "S")}},
	}

	rows := Generate([][]domain.ExtraValue{sizes, colors}, previous, 0)

	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Price, "adding a group changes every combination, nothing carries over")
	assert.Equal(t, int64(0), rows[0].Quantity)
}

func TestGenerate_MatchIsSetEqualityNotOrder(t *testing.T) {
	sizes := []domain.ExtraValue{ev(1, 10, "S")}
	colors := []domain.ExtraValue{ev(3, 20, "red")}
	// Previous row recorded the extras in the opposite order.
	previous := []domain.Stock{
		{Price: 99, Quantity: 3, Extras: []domain.ExtraValue{ev(3, 20, "red"), ev(1, 10, "S")}},
	}

	rows := Generate([][]domain.ExtraValue{sizes, colors}, previous, 0)

	require.Len(t, rows, 1)
	assert.Equal(t, 99.0, rows[0].Price)
	assert.Equal(t, []int64{1, 3}, ExtraIDs(rows[0]), "extras are rewritten in generation order")
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, 100.0, TotalPrice(100, 0))
	assert.Equal(t, 112.0, TotalPrice(100, 12))
	assert.Equal(t, 0.0, TotalPrice(0, 12))
}

func TestApplyFilter_EmptyFilterIsIdentity(t *testing.T) {
	all := []domain.Stock{
		{Extras: []domain.ExtraValue{ev(1, 10, "S")}},
		{Extras: []domain.ExtraValue{ev(2, 10, "M")}},
	}

	assert.Equal(t, all, ApplyFilter(all, nil))
	assert.Equal(t, all, ApplyFilter(all, map[int64]int64{}))
}

func TestApplyFilter_NarrowsBySelectedValue(t *testing.T) {
	all := []domain.Stock{
		{SKU: "S-red", Extras: []domain.ExtraValue{ev(1, 10, "S"), ev(3, 20, "red")}},
		{SKU: "S-blue", Extras: []domain.ExtraValue{ev(1, 10, "S"), ev(4, 20, "blue")}},
		{SKU: "M-red", Extras: []domain.ExtraValue{ev(2, 10, "M"), ev(3, 20, "red")}},
	}

	visible := ApplyFilter(all, map[int64]int64{20: 3})

	require.Len(t, visible, 2)
	assert.Equal(t, "S-red", visible[0].SKU)
	assert.Equal(t, "M-red", visible[1].SKU)
}

func TestApplyFilter_ImpossibleFilterYieldsEmpty(t *testing.T) {
	all := []domain.Stock{
		{Extras: []domain.ExtraValue{ev(1, 10, "S")}},
	}

	visible := ApplyFilter(all, map[int64]int64{20: 999})

	assert.Empty(t, visible)
}

func TestMergeBack_AppliesEditsToMatchingRowsOnly(t *testing.T) {
	all := []domain.Stock{
		{SKU: "S-red", Price: 10, Quantity: 1, Tax: 10, TotalPrice: 11, Extras: []domain.ExtraValue{ev(1, 10, "S"), ev(3, 20, "red")}},
		{SKU: "S-blue", Price: 20, Quantity: 2, Tax: 10, TotalPrice: 22, Extras: []domain.ExtraValue{ev(1, 10, "S"), ev(4, 20, "blue")}},
	}
	edited := []domain.Stock{
		{SKU: "S-red-2", Price: 15, Quantity: 5, Addons: []int64{7}, Extras: []domain.ExtraValue{ev(1, 10, "S"), ev(3, 20, "red")}},
	}

	merged := MergeBack(edited, all, map[int64]int64{20: 3})

	require.Len(t, merged, 2)
	assert.Equal(t, "S-red-2", merged[0].SKU)
	assert.Equal(t, 15.0, merged[0].Price)
	assert.Equal(t, int64(5), merged[0].Quantity)
	assert.Equal(t, []int64{7}, merged[0].Addons)
	assert.Equal(t, 16.5, merged[0].TotalPrice, "total recomputed with the row's own tax")

	assert.Equal(t, all[1], merged[1], "hidden rows stay untouched")
}

func TestMergeBack_SkipsRowsHiddenByActiveFilter(t *testing.T) {
	all := []domain.Stock{
		{SKU: "S-red", Price: 10, Extras: []domain.ExtraValue{ev(1, 10, "S"), ev(3, 20, "red")}},
		{SKU: "S-blue", Price: 20, Extras: []domain.ExtraValue{ev(1, 10, "S"), ev(4, 20, "blue")}},
	}
	// Stale edit captured under a previous filter state; the active filter
	// now shows blue only.
	edited := []domain.Stock{
		{SKU: "S-red-stale", Price: 99, Extras: []domain.ExtraValue{ev(1, 10, "S"), ev(3, 20, "red")}},
	}

	merged := MergeBack(edited, all, map[int64]int64{20: 4})

	require.Len(t, merged, 2)
	assert.Equal(t, "S-red", merged[0].SKU, "rows outside the filter are not merge candidates")
	assert.Equal(t, 10.0, merged[0].Price)
	assert.Equal(t, all[1], merged[1])
}

func TestMergeBack_DropsEditsForVanishedCombinations(t *testing.T) {
	all := []domain.Stock{
		{SKU: "M", Price: 20, Extras: []domain.ExtraValue{ev(2, 10, "M")}},
	}
	edited := []domain.Stock{
		{SKU: "S", Price: 99, Extras: []domain.ExtraValue{ev(1, 10, "S")}},
	}

	merged := MergeBack(edited, all, nil)

	require.Len(t, merged, 1)
	assert.Equal(t, "M", merged[0].SKU)
	assert.Equal(t, 20.0, merged[0].Price)
}

func TestMergeBack_DoesNotMutateInput(t *testing.T) {
	all := []domain.Stock{
		{SKU: "S", Price: 10, Extras: []domain.ExtraValue{ev(1, 10, "S")}},
	}
	edited := []domain.Stock{
		{SKU: "S-new", Price: 42, Extras: []domain.ExtraValue{ev(1, 10, "S")}},
	}

	_ = MergeBack(edited, all, nil)

	assert.Equal(t, "S", all[0].SKU)
	assert.Equal(t, 10.0, all[0].Price)
}

func TestExtraIDs(t *testing.T) {
	s := domain.Stock{Extras: []domain.ExtraValue{ev(4, 20, "blue"), ev(1, 10, "S")}}
	assert.Equal(t, []int64{4, 1}, ExtraIDs(s))
}
