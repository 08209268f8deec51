package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideretail/stock-balancer/internal/domain"
)

func needsPos(storeID, sku string, stock, units, imbalance int) domain.ClassifiedPosition {
	return domain.ClassifiedPosition{
		StoreID:      storeID,
		SKU:          sku,
		CurrentStock: stock,
		UnitsSold:    units,
		Status:       domain.StatusNeedsStock,
		ImbalanceQty: imbalance,
	}
}

func excessPos(storeID, sku string, stock, imbalance int) domain.ClassifiedPosition {
	return domain.ClassifiedPosition{
		StoreID:      storeID,
		SKU:          sku,
		CurrentStock: stock,
		Status:       domain.StatusExcessStock,
		ImbalanceQty: imbalance,
	}
}

func newTestMatcher(t *testing.T, settings Settings) *Matcher {
	t.Helper()
	m, err := NewMatcher(settings)
	require.NoError(t, err)
	return m
}

func TestMatch_PairsSameSKUAcrossStores(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	candidates, err := m.Match([]domain.ClassifiedPosition{
		needsPos("STORE01", "RUN001-9", 1, 5, 1),
		excessPos("STORE02", "RUN001-9", 10, 2),
		excessPos("STORE03", "CAS002-8", 12, 4), // different SKU, never paired
	}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "STORE02", c.FromStoreID)
	assert.Equal(t, "STORE01", c.ToStoreID)
	assert.Equal(t, "RUN001-9", c.SKU)
	assert.Equal(t, 1, c.Quantity) // min(deficit 1, surplus 2)
	assert.Equal(t, "store selling but low stock (sold 5 units in 14 days)", c.Reason)
}

func TestMatch_QuantityIsMinOfImbalances(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	candidates, err := m.Match([]domain.ClassifiedPosition{
		needsPos("STORE01", "RUN001-9", 0, 2, 5),
		excessPos("STORE02", "RUN001-9", 11, 3),
	}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 3, candidates[0].Quantity)
}

func TestMatch_DiscardsZeroQuantityPairs(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	candidates, err := m.Match([]domain.ClassifiedPosition{
		needsPos("STORE01", "RUN001-9", 2, 1, 0), // at threshold, nothing to move
		excessPos("STORE02", "RUN001-9", 8, 0),   // at threshold, nothing to give
	}, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestMatch_NeverPairsAStoreWithItself(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	// A store can't simultaneously need and have excess of the same SKU in one
	// position set, but the matcher still guards the store identity directly.
	candidates, err := m.Match([]domain.ClassifiedPosition{
		needsPos("STORE01", "RUN001-9", 1, 5, 1),
		excessPos("STORE01", "RUN001-9", 10, 2),
		excessPos("STORE02", "RUN001-9", 9, 1),
	}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "STORE02", candidates[0].FromStoreID)
}

func TestMatch_EmptySidesYieldNoCandidates(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())

	candidates, err := m.Match([]domain.ClassifiedPosition{
		needsPos("STORE01", "RUN001-9", 1, 5, 1),
	}, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	candidates, err = m.Match(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestMatch_RejectsNegativePositions(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	_, err := m.Match([]domain.ClassifiedPosition{
		{StoreID: "STORE01", SKU: "RUN001-9", CurrentStock: -1, Status: domain.StatusNeedsStock},
	}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)
}

func TestMatch_AbsolutePriorityBuckets(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	candidates, err := m.Match([]domain.ClassifiedPosition{
		needsPos("STORE01", "RUN001-9", 1, 4, 1), // sold > 3, high
		needsPos("STORE03", "CAS002-8", 1, 2, 1), // sold <= 3, medium
		excessPos("STORE02", "RUN001-9", 10, 2),
		excessPos("STORE04", "CAS002-8", 10, 2),
	}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, float64(10), candidates[0].PriorityScore)
	assert.Equal(t, domain.PriorityHigh, candidates[0].Priority)
	assert.Equal(t, "RUN001-9", candidates[0].SKU)

	assert.Equal(t, float64(5), candidates[1].PriorityScore)
	assert.Equal(t, domain.PriorityMedium, candidates[1].Priority)
}

func TestMatch_VelocityPriorityScore(t *testing.T) {
	m := newTestMatcher(t, velocitySettings())
	need := needsPos("STORE01", "RUN001-9", 1, 5, 1)
	need.SalesToStockRatio = 5.0
	candidates, err := m.Match([]domain.ClassifiedPosition{
		need,
		excessPos("STORE02", "RUN001-9", 10, 2),
	}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	// ratio*10 plus the low-stock bonus
	assert.Equal(t, float64(55), candidates[0].PriorityScore)
	assert.Equal(t, domain.PriorityHigh, candidates[0].Priority)
}

func TestMatch_DeterministicTieBreaks(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	positions := []domain.ClassifiedPosition{
		needsPos("STORE05", "RUN001-9", 1, 2, 1),
		needsPos("STORE01", "RUN001-9", 1, 2, 1),
		excessPos("STORE03", "RUN001-9", 10, 2),
		excessPos("STORE02", "RUN001-9", 10, 2),
	}

	candidates, err := m.Match(positions, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 4)

	// Identical score, units, and quantity: ranked by destination then source.
	assert.Equal(t, "STORE01", candidates[0].ToStoreID)
	assert.Equal(t, "STORE02", candidates[0].FromStoreID)
	assert.Equal(t, "STORE01", candidates[1].ToStoreID)
	assert.Equal(t, "STORE03", candidates[1].FromStoreID)
	assert.Equal(t, "STORE05", candidates[2].ToStoreID)
	assert.Equal(t, "STORE02", candidates[2].FromStoreID)

	// Same inputs in a different order give the same ranking.
	shuffled := []domain.ClassifiedPosition{positions[3], positions[1], positions[2], positions[0]}
	again, err := m.Match(shuffled, 0)
	require.NoError(t, err)
	assert.Equal(t, candidates, again)
}

func TestMatch_RanksByScoreThenDemandThenQuantity(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	candidates, err := m.Match([]domain.ClassifiedPosition{
		needsPos("STORE01", "RUN001-9", 1, 6, 1),  // high priority
		needsPos("STORE03", "CAS002-8", 1, 3, 1),  // medium, 3 sold
		needsPos("STORE05", "BOO003-10", 0, 2, 2), // medium, 2 sold
		excessPos("STORE02", "RUN001-9", 10, 2),
		excessPos("STORE04", "CAS002-8", 10, 2),
		excessPos("STORE06", "BOO003-10", 12, 4),
	}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, "RUN001-9", candidates[0].SKU)
	assert.Equal(t, "CAS002-8", candidates[1].SKU)
	assert.Equal(t, "BOO003-10", candidates[2].SKU)
}

func TestMatch_TruncatesToTopN(t *testing.T) {
	m := newTestMatcher(t, absoluteSettings())
	positions := []domain.ClassifiedPosition{
		excessPos("STORE09", "RUN001-9", 20, 12),
	}
	for _, store := range []string{"STORE01", "STORE02", "STORE03", "STORE04", "STORE05"} {
		positions = append(positions, needsPos(store, "RUN001-9", 1, 5, 1))
	}

	candidates, err := m.Match(positions, 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.Equal(t, "STORE01", candidates[0].ToStoreID)
	assert.Equal(t, "STORE02", candidates[1].ToStoreID)
}

// Every proposed transfer is internally consistent: same SKU on both ends,
// distinct stores, and a quantity covered by the source surplus.
func TestMatch_TransferValidity(t *testing.T) {
	m := newTestMatcher(t, velocitySettings())
	classifier, err := NewClassifier(velocitySettings())
	require.NoError(t, err)

	stocks := []domain.StockPosition{
		{StoreID: "STORE01", SKU: "RUN001-9", Quantity: 1},
		{StoreID: "STORE02", SKU: "RUN001-9", Quantity: 14},
		{StoreID: "STORE03", SKU: "RUN001-9", Quantity: 9},
		{StoreID: "STORE01", SKU: "CAS002-8", Quantity: 0},
		{StoreID: "STORE02", SKU: "CAS002-8", Quantity: 10},
		{StoreID: "STORE03", SKU: "BOO003-10", Quantity: 5},
	}
	sales := map[domain.PositionKey]domain.SalesTotals{
		{StoreID: "STORE01", SKU: "RUN001-9"}:  {UnitsSold: 6, DaysSold: 4},
		{StoreID: "STORE01", SKU: "CAS002-8"}:  {UnitsSold: 3, DaysSold: 2},
		{StoreID: "STORE03", SKU: "BOO003-10"}: {UnitsSold: 2, DaysSold: 2},
	}

	var positions []domain.ClassifiedPosition
	byKey := map[domain.PositionKey]domain.ClassifiedPosition{}
	for _, s := range stocks {
		cp, err := classifier.Classify(s, sales[domain.PositionKey{StoreID: s.StoreID, SKU: s.SKU}])
		require.NoError(t, err)
		positions = append(positions, cp)
		byKey[domain.PositionKey{StoreID: s.StoreID, SKU: s.SKU}] = cp
	}

	candidates, err := m.Match(positions, 0)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	for _, c := range candidates {
		assert.NotEqual(t, c.FromStoreID, c.ToStoreID)
		assert.Greater(t, c.Quantity, 0)

		from := byKey[domain.PositionKey{StoreID: c.FromStoreID, SKU: c.SKU}]
		to := byKey[domain.PositionKey{StoreID: c.ToStoreID, SKU: c.SKU}]
		assert.Equal(t, domain.StatusExcessStock, from.Status)
		assert.Equal(t, domain.StatusNeedsStock, to.Status)
		assert.LessOrEqual(t, c.Quantity, from.ImbalanceQty)
		assert.LessOrEqual(t, c.Quantity, to.ImbalanceQty)
	}
}
