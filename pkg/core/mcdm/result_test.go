package mcdm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(t *testing.T, scores []float64) *Result {
	t.Helper()
	alternatives := make([]Alternative, len(scores))
	names := []string{"Laptop A", "Laptop B", "Laptop C", "Laptop D", "Laptop E"}
	ids := []string{"a1", "a2", "a3", "a4", "a5"}
	for i := range scores {
		alternatives[i] = Alternative{ID: ids[i], Name: names[i]}
	}
	result, err := NewResult("TOPSIS", alternatives, scores, nil, nil)
	require.NoError(t, err)
	return result
}

func TestNewResult_LengthMismatch(t *testing.T) {
	_, err := NewResult("TOPSIS", []Alternative{{ID: "a1"}}, []float64{0.5, 0.7}, nil, nil)
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCompetitionRanks_Distinct(t *testing.T) {
	result := testResult(t, []float64{0.2, 0.9, 0.5})
	assert.Equal(t, []int{3, 1, 2}, result.Rankings())
}

func TestCompetitionRanks_TiesSkipRanks(t *testing.T) {
	// Two tied winners: next distinct score takes rank 3, never 2
	result := testResult(t, []float64{0.9, 0.9, 0.5})
	assert.Equal(t, []int{1, 1, 3}, result.Rankings())

	result = testResult(t, []float64{0.9, 0.5, 0.5, 0.3})
	assert.Equal(t, []int{1, 2, 2, 4}, result.Rankings())
}

func TestCompetitionRanks_AllTied(t *testing.T) {
	result := testResult(t, []float64{0.5, 0.5, 0.5})
	assert.Equal(t, []int{1, 1, 1}, result.Rankings())
}

func TestResult_ScoreOfRankOf(t *testing.T) {
	result := testResult(t, []float64{0.2, 0.9, 0.5})

	score, err := result.ScoreOf("a2")
	require.NoError(t, err)
	assert.Equal(t, 0.9, score)

	rank, err := result.RankOf("a1")
	require.NoError(t, err)
	assert.Equal(t, 3, rank)

	_, err = result.ScoreOf("nope")
	assert.Error(t, err)
}

func TestResult_SortedBestWorst(t *testing.T) {
	result := testResult(t, []float64{0.2, 0.9, 0.5})

	sorted := result.SortedAlternatives()
	require.Len(t, sorted, 3)
	assert.Equal(t, "a2", sorted[0].ID)
	assert.Equal(t, "a1", sorted[2].ID)

	assert.Equal(t, "a2", result.Best().ID)
	assert.Equal(t, "a1", result.Worst().ID)
}

func TestResult_Compare(t *testing.T) {
	result := testResult(t, []float64{0.2, 0.9})

	cmp, err := result.Compare("a1", "a2")
	require.NoError(t, err)
	assert.Equal(t, "a2", cmp.Better)
	assert.InDelta(t, -0.7, cmp.ScoreDifference, 1e-12)

	// Exact tie favours the first argument
	tied := testResult(t, []float64{0.5, 0.5})
	cmp, err = tied.Compare("a1", "a2")
	require.NoError(t, err)
	assert.Equal(t, "a1", cmp.Better)

	_, err = result.Compare("a1", "missing")
	assert.Error(t, err)
}

func TestResult_Metadata(t *testing.T) {
	result := testResult(t, []float64{0.2, 0.9})

	result.SetMetadata("note", "hello")
	assert.Equal(t, "hello", result.Metadata("note"))
	assert.Nil(t, result.Metadata("absent"))

	// MetadataMap returns a copy
	m := result.MetadataMap()
	m["note"] = "changed"
	assert.Equal(t, "hello", result.Metadata("note"))
}

func TestResult_JSONRoundTrip(t *testing.T) {
	result := testResult(t, []float64{0.2, 0.9, 0.5})
	result.SetExecutionTime(0.125)
	result.SetMetadata("source", "unit-test")

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var restored Result
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, result.ID(), restored.ID())
	assert.Equal(t, result.MethodName(), restored.MethodName())
	assert.Equal(t, result.AlternativeIDs(), restored.AlternativeIDs())
	assert.Equal(t, result.Scores(), restored.Scores())
	assert.Equal(t, result.Rankings(), restored.Rankings())
	assert.Equal(t, result.ExecutionTime(), restored.ExecutionTime())
	assert.Equal(t, "unit-test", restored.Metadata("source"))
}

func TestResult_UnmarshalRecomputesMissingRankings(t *testing.T) {
	payload := `{
		"id": "r1",
		"method_name": "TOPSIS",
		"alternative_ids": ["a1", "a2"],
		"alternative_names": ["Laptop A", "Laptop B"],
		"scores": [0.3, 0.8]
	}`

	var result Result
	require.NoError(t, json.Unmarshal([]byte(payload), &result))
	assert.Equal(t, []int{2, 1}, result.Rankings())
}

func TestResult_UnmarshalRejectsShapeMismatch(t *testing.T) {
	payload := `{
		"id": "r1",
		"method_name": "TOPSIS",
		"alternative_ids": ["a1", "a2"],
		"alternative_names": ["Laptop A", "Laptop B"],
		"scores": [0.3]
	}`

	var result Result
	assert.Error(t, json.Unmarshal([]byte(payload), &result))
}

func TestResult_UnmarshalRejectsRankingsLengthMismatch(t *testing.T) {
	payload := `{
		"id": "r1",
		"method_name": "TOPSIS",
		"alternative_ids": ["a1", "a2", "a3"],
		"alternative_names": ["Laptop A", "Laptop B", "Laptop C"],
		"scores": [0.2, 0.9, 0.5],
		"rankings": [1]
	}`

	var result Result
	assert.Error(t, json.Unmarshal([]byte(payload), &result))
}
