package methods

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
)

// laptopMatrix is the shared three-laptop fixture: performance and battery
// are benefits, price is a cost.
func laptopMatrix(t *testing.T) *mcdm.DecisionMatrix {
	t.Helper()
	dm, err := mcdm.NewDecisionMatrix("Laptops",
		[]mcdm.Alternative{
			{ID: "a1", Name: "Laptop A"},
			{ID: "a2", Name: "Laptop B"},
			{ID: "a3", Name: "Laptop C"},
		},
		[]mcdm.Criterion{
			{ID: "performance", Name: "Performance", Direction: mcdm.Maximize, Weight: 0.5},
			{ID: "price", Name: "Price", Direction: mcdm.Minimize, Weight: 0.3, Unit: "USD"},
			{ID: "battery", Name: "Battery", Direction: mcdm.Maximize, Weight: 0.2, Unit: "hours"},
		},
		[][]float64{
			{4, 1200, 8},
			{3, 900, 10},
			{5, 1500, 6},
		})
	require.NoError(t, err)
	return dm
}

// equalWeightMatrix is the worked fixture with unit weights on every
// criterion and a cost column in the middle.
func equalWeightMatrix(t *testing.T) *mcdm.DecisionMatrix {
	t.Helper()
	dm, err := mcdm.NewDecisionMatrix("Worked example",
		[]mcdm.Alternative{
			{ID: "a1", Name: "A1"},
			{ID: "a2", Name: "A2"},
			{ID: "a3", Name: "A3"},
		},
		[]mcdm.Criterion{
			{ID: "c1", Name: "C1", Direction: mcdm.Maximize, Weight: 1},
			{ID: "c2", Name: "C2", Direction: mcdm.Minimize, Weight: 1},
			{ID: "c3", Name: "C3", Direction: mcdm.Maximize, Weight: 1},
		},
		[][]float64{
			{4, 5, 3},
			{3, 4, 5},
			{5, 3, 4},
		})
	require.NoError(t, err)
	return dm
}

func singleAlternativeMatrix(t *testing.T) *mcdm.DecisionMatrix {
	t.Helper()
	dm, err := mcdm.NewDecisionMatrix("Single",
		[]mcdm.Alternative{{ID: "only", Name: "Only option"}},
		[]mcdm.Criterion{
			{ID: "c1", Name: "C1", Direction: mcdm.Maximize, Weight: 1},
			{ID: "c2", Name: "C2", Direction: mcdm.Minimize, Weight: 1},
		},
		[][]float64{{10, 20}})
	require.NoError(t, err)
	return dm
}
