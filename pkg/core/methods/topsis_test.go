package methods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
)

func TestTOPSIS_WorkedExample(t *testing.T) {
	result, err := NewTOPSIS().Execute(equalWeightMatrix(t), nil)
	require.NoError(t, err)

	scores := result.Scores()
	require.Len(t, scores, 3)
	assert.InDelta(t, 0.25, scores[0], 1e-9)
	assert.InDelta(t, 0.50, scores[1], 1e-9)
	assert.InDelta(t, 0.75, scores[2], 1e-9)

	assert.Equal(t, []int{3, 2, 1}, result.Rankings())
	assert.Equal(t, "a3", result.Best().ID)
}

func TestTOPSIS_ScoresWithinUnitInterval(t *testing.T) {
	result, err := NewTOPSIS().Execute(laptopMatrix(t), nil)
	require.NoError(t, err)

	for _, s := range result.Scores() {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestTOPSIS_SingleAlternativeScoresHalf(t *testing.T) {
	result, err := NewTOPSIS().Execute(singleAlternativeMatrix(t), nil)
	require.NoError(t, err)

	scores := result.Scores()
	require.Len(t, scores, 1)
	assert.InDelta(t, 0.5, scores[0], 1e-12)
}

func TestTOPSIS_IdenticalAlternativesScoreHalf(t *testing.T) {
	dm, err := mcdm.NewDecisionMatrix("identical",
		[]mcdm.Alternative{{ID: "a1", Name: "A1"}, {ID: "a2", Name: "A2"}},
		[]mcdm.Criterion{{ID: "c1", Name: "C1", Direction: mcdm.Maximize, Weight: 1}},
		[][]float64{{3}, {3}})
	require.NoError(t, err)

	result, err := NewTOPSIS().Execute(dm, nil)
	require.NoError(t, err)

	for _, s := range result.Scores() {
		assert.InDelta(t, 0.5, s, 1e-12)
	}
	assert.Equal(t, []int{1, 1}, result.Rankings())
}

func TestTOPSIS_DominantAlternativeWinsUnderEveryMetric(t *testing.T) {
	// a1 is best on every criterion, so it coincides with the ideal point
	// and scores 1 regardless of the distance metric.
	dm, err := mcdm.NewDecisionMatrix("dominant",
		[]mcdm.Alternative{
			{ID: "a1", Name: "A1"},
			{ID: "a2", Name: "A2"},
			{ID: "a3", Name: "A3"},
		},
		[]mcdm.Criterion{
			{ID: "c1", Name: "C1", Direction: mcdm.Maximize, Weight: 1},
			{ID: "c2", Name: "C2", Direction: mcdm.Minimize, Weight: 1},
		},
		[][]float64{
			{10, 100},
			{6, 300},
			{8, 200},
		})
	require.NoError(t, err)

	for _, metric := range []string{"euclidean", "manhattan", "chebyshev"} {
		result, err := NewTOPSIS().Execute(dm, Params{"distance_metric": metric})
		require.NoError(t, err, "metric %s", metric)
		assert.Equal(t, "a1", result.Best().ID, "metric %s", metric)
		score, err := result.ScoreOf("a1")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9, "metric %s", metric)
	}
}

func TestTOPSIS_InvalidParameters(t *testing.T) {
	method := NewTOPSIS()

	assert.Error(t, method.ValidateParameters(Params{"distance_metric": "cosine"}))
	assert.Error(t, method.ValidateParameters(Params{"normalization_method": "zscore"}))
	assert.NoError(t, method.ValidateParameters(Params{"normalization_method": "sum"}))

	_, err := method.Execute(laptopMatrix(t), Params{"distance_metric": "cosine"})
	var verr *mcdm.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTOPSIS_MetadataShape(t *testing.T) {
	result, err := NewTOPSIS().Execute(laptopMatrix(t), nil)
	require.NoError(t, err)

	ideal, ok := result.Metadata("ideal_solution").([]float64)
	require.True(t, ok)
	assert.Len(t, ideal, 3)

	antiIdeal, ok := result.Metadata("anti_ideal_solution").([]float64)
	require.True(t, ok)
	for k := range ideal {
		assert.GreaterOrEqual(t, ideal[k], antiIdeal[k])
	}
}
