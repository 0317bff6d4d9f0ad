package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
	"github.com/tcroft/mcdm/pkg/core/methods"
)

func analysisMatrix(t *testing.T) *mcdm.DecisionMatrix {
	t.Helper()
	dm, err := mcdm.NewDecisionMatrix("Laptops",
		[]mcdm.Alternative{
			{ID: "a1", Name: "Laptop A"},
			{ID: "a2", Name: "Laptop B"},
			{ID: "a3", Name: "Laptop C"},
		},
		[]mcdm.Criterion{
			{ID: "performance", Name: "Performance", Direction: mcdm.Maximize, Weight: 0.5},
			{ID: "price", Name: "Price", Direction: mcdm.Minimize, Weight: 0.3},
			{ID: "battery", Name: "Battery", Direction: mcdm.Maximize, Weight: 0.2},
		},
		[][]float64{
			{4, 1200, 8},
			{3, 900, 10},
			{5, 1500, 6},
		})
	require.NoError(t, err)
	return dm
}

func TestAnalyze_RunsMethod(t *testing.T) {
	result, err := Analyze(context.Background(), methods.Default(), zap.NewNop(), AnalysisRequest{
		Matrix: analysisMatrix(t),
		Method: "topsis",
	})
	require.NoError(t, err)

	assert.Equal(t, "TOPSIS", result.MethodName())
	assert.Len(t, result.Scores(), 3)
	assert.GreaterOrEqual(t, result.ExecutionTime(), 0.0)
}

func TestAnalyze_PassesParameters(t *testing.T) {
	result, err := Analyze(context.Background(), methods.Default(), zap.NewNop(), AnalysisRequest{
		Matrix:     analysisMatrix(t),
		Method:     "TOPSIS",
		Parameters: methods.Params{"distance_metric": "manhattan"},
	})
	require.NoError(t, err)
	assert.Equal(t, "manhattan", result.Parameters()["distance_metric"])
}

func TestAnalyze_UnknownMethod(t *testing.T) {
	_, err := Analyze(context.Background(), methods.Default(), zap.NewNop(), AnalysisRequest{
		Matrix: analysisMatrix(t),
		Method: "VIKOR",
	})
	require.Error(t, err)
	var verr *mcdm.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAnalyze_InvalidParameters(t *testing.T) {
	_, err := Analyze(context.Background(), methods.Default(), zap.NewNop(), AnalysisRequest{
		Matrix:     analysisMatrix(t),
		Method:     "TOPSIS",
		Parameters: methods.Params{"distance_metric": "cosine"},
	})
	assert.Error(t, err)
}

func TestAnalyze_NilMatrix(t *testing.T) {
	_, err := Analyze(context.Background(), methods.Default(), zap.NewNop(), AnalysisRequest{
		Method: "TOPSIS",
	})
	assert.Error(t, err)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, methods.Default(), zap.NewNop(), AnalysisRequest{
		Matrix: analysisMatrix(t),
		Method: "TOPSIS",
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareMethods_RunsEveryMethod(t *testing.T) {
	results, err := CompareMethods(context.Background(), methods.Default(), zap.NewNop(),
		analysisMatrix(t), []string{"TOPSIS", "PROMETHEE", "ELECTRE"}, nil)
	require.NoError(t, err)

	// Keys carry the executed variant
	require.Len(t, results, 3)
	assert.Contains(t, results, "TOPSIS")
	assert.Contains(t, results, "PROMETHEE-II")
	assert.Contains(t, results, "ELECTRE-I")
}

func TestCompareMethods_EmptyMethodList(t *testing.T) {
	_, err := CompareMethods(context.Background(), methods.Default(), zap.NewNop(),
		analysisMatrix(t), nil, nil)
	assert.Error(t, err)
}

func TestCompareMethods_FailsFastOnUnknownMethod(t *testing.T) {
	_, err := CompareMethods(context.Background(), methods.Default(), zap.NewNop(),
		analysisMatrix(t), []string{"TOPSIS", "VIKOR"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIKOR")
}
