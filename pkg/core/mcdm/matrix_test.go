package mcdm

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAlternatives() []Alternative {
	return []Alternative{
		{ID: "a1", Name: "Laptop A"},
		{ID: "a2", Name: "Laptop B"},
		{ID: "a3", Name: "Laptop C"},
	}
}

func testCriteria() []Criterion {
	return []Criterion{
		{ID: "performance", Name: "Performance", Direction: Maximize, Weight: 0.5},
		{ID: "price", Name: "Price", Direction: Minimize, Weight: 0.3, Unit: "USD"},
		{ID: "battery", Name: "Battery", Direction: Maximize, Weight: 0.2, Unit: "hours"},
	}
}

func testValues() [][]float64 {
	return [][]float64{
		{4, 1200, 8},
		{3, 900, 10},
		{5, 1500, 6},
	}
}

func TestNewDecisionMatrix_Valid(t *testing.T) {
	dm, err := NewDecisionMatrix("Laptops", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	rows, cols := dm.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, "Laptops", dm.Name())

	v, err := dm.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestNewDecisionMatrix_DefaultName(t *testing.T) {
	dm, err := NewDecisionMatrix("", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)
	assert.Equal(t, "Decision Matrix", dm.Name())
}

func TestNewDecisionMatrix_NilValuesAllocatesZeros(t *testing.T) {
	dm, err := NewDecisionMatrix("empty", testAlternatives(), testCriteria(), nil)
	require.NoError(t, err)

	v, err := dm.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestNewDecisionMatrix_DuplicateAlternativeID(t *testing.T) {
	alternatives := testAlternatives()
	alternatives[2].ID = "a1"

	_, err := NewDecisionMatrix("dup", alternatives, testCriteria(), testValues())
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewDecisionMatrix_ShapeMismatch(t *testing.T) {
	values := testValues()[:2]

	_, err := NewDecisionMatrix("bad", testAlternatives(), testCriteria(), values)
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewDecisionMatrix_RejectsNonFinite(t *testing.T) {
	values := testValues()
	values[1][1] = math.NaN()

	_, err := NewDecisionMatrix("nan", testAlternatives(), testCriteria(), values)
	require.Error(t, err)

	values = testValues()
	values[0][0] = math.Inf(1)
	_, err = NewDecisionMatrix("inf", testAlternatives(), testCriteria(), values)
	require.Error(t, err)
}

func TestDecisionMatrix_ValuesReturnsCopy(t *testing.T) {
	dm, err := NewDecisionMatrix("copy", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	values := dm.Values()
	values[0][0] = 999

	v, err := dm.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestDecisionMatrix_SetRejectsNaN(t *testing.T) {
	dm, err := NewDecisionMatrix("set", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	assert.Error(t, dm.Set(0, 0, math.NaN()))
	assert.NoError(t, dm.Set(0, 0, 7))

	v, _ := dm.At(0, 0)
	assert.Equal(t, 7.0, v)
}

func TestDecisionMatrix_RowColumn(t *testing.T) {
	dm, err := NewDecisionMatrix("rc", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	row, err := dm.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 900, 10}, row)

	col, err := dm.Column(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1200, 900, 1500}, col)

	_, err = dm.Row(5)
	assert.Error(t, err)
}

func TestDecisionMatrix_AddAlternative(t *testing.T) {
	dm, err := NewDecisionMatrix("add", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	err = dm.AddAlternative(Alternative{ID: "a4", Name: "Laptop D"}, []float64{4, 1100, 9})
	require.NoError(t, err)

	rows, _ := dm.Shape()
	assert.Equal(t, 4, rows)

	// Duplicate id is rejected
	err = dm.AddAlternative(Alternative{ID: "a4"}, nil)
	assert.Error(t, err)

	// Wrong row length is rejected
	err = dm.AddAlternative(Alternative{ID: "a5"}, []float64{1, 2})
	assert.Error(t, err)
}

func TestDecisionMatrix_AddCriterion(t *testing.T) {
	dm, err := NewDecisionMatrix("add", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	err = dm.AddCriterion(Criterion{ID: "weight", Direction: Minimize, Weight: 0.1}, []float64{2.1, 1.8, 2.5})
	require.NoError(t, err)

	_, cols := dm.Shape()
	assert.Equal(t, 4, cols)

	row, err := dm.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 1200, 8, 2.1}, row)
}

func TestDecisionMatrix_RemoveKeepsLockStep(t *testing.T) {
	dm, err := NewDecisionMatrix("rm", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	require.NoError(t, dm.RemoveAlternative(0))
	require.NoError(t, dm.RemoveCriterion(1))

	rows, cols := dm.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)

	row, err := dm.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 10}, row)

	_, _, err = dm.AlternativeByID("a1")
	assert.Error(t, err)

	assert.Error(t, dm.RemoveAlternative(5))
	assert.Error(t, dm.RemoveCriterion(-1))
}

func TestDecisionMatrix_NormalizedLeavesSourceUntouched(t *testing.T) {
	dm, err := NewDecisionMatrix("norm", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	normalized, err := dm.Normalized(NormMinMax)
	require.NoError(t, err)

	v, err := normalized.At(2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)

	orig, err := dm.At(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, orig)
}

func TestDecisionMatrix_Weighted(t *testing.T) {
	dm, err := NewDecisionMatrix("w", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	weighted := dm.Weighted()
	v, err := weighted.At(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 4*0.5, v, 1e-12)
}

func TestDecisionMatrix_JSONRoundTrip(t *testing.T) {
	dm, err := NewDecisionMatrix("json", testAlternatives(), testCriteria(), testValues())
	require.NoError(t, err)

	data, err := json.Marshal(dm)
	require.NoError(t, err)

	var restored DecisionMatrix
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, dm.Name(), restored.Name())
	assert.Equal(t, dm.Alternatives(), restored.Alternatives())
	assert.Equal(t, dm.Criteria(), restored.Criteria())
	assert.Equal(t, dm.Values(), restored.Values())
}

func TestDecisionMatrix_UnmarshalRejectsInvalid(t *testing.T) {
	payload := `{"name":"bad","alternatives":[{"id":"a1"},{"id":"a1"}],"criteria":[{"id":"c1"}],"values":[[1],[2]]}`

	var dm DecisionMatrix
	err := json.Unmarshal([]byte(payload), &dm)
	assert.Error(t, err)
}
