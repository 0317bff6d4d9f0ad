package mcdm

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of one method execution: per-alternative scores, the
// derived competition ranking, the effective parameters and per-method
// diagnostic metadata. A Result is created once per execution; only metadata
// may be annotated afterwards (the orchestrating layer attaches execution
// time there).
type Result struct {
	id               string
	methodName       string
	alternativeIDs   []string
	alternativeNames []string
	scores           []float64
	rankings         []int
	parameters       map[string]any
	metadata         map[string]any
	executionTime    float64
	createdAt        time.Time
}

// NewResult builds a Result and derives its ranking from the scores.
func NewResult(methodName string, alternatives []Alternative, scores []float64, parameters, metadata map[string]any) (*Result, error) {
	if len(alternatives) != len(scores) {
		return nil, NewValidationError("result scores do not match alternatives")
	}
	ids := make([]string, len(alternatives))
	names := make([]string, len(alternatives))
	for i, a := range alternatives {
		ids[i] = a.ID
		names[i] = a.Name
	}
	if parameters == nil {
		parameters = map[string]any{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Result{
		id:               uuid.New().String(),
		methodName:       methodName,
		alternativeIDs:   ids,
		alternativeNames: names,
		scores:           append([]float64(nil), scores...),
		rankings:         competitionRanks(scores),
		parameters:       parameters,
		metadata:         metadata,
		createdAt:        time.Now(),
	}, nil
}

// competitionRanks assigns 1 to the highest score. Tied scores share a rank
// and the next distinct score resumes at 1 + the number of items already
// ranked (1, 1, 3 — never 1, 1, 2).
func competitionRanks(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranks := make([]int, len(scores))
	currentRank := 1
	for pos, idx := range order {
		if pos > 0 && scores[idx] != scores[order[pos-1]] {
			currentRank = pos + 1
		}
		ranks[idx] = currentRank
	}
	return ranks
}

func (r *Result) ID() string           { return r.id }
func (r *Result) MethodName() string   { return r.methodName }
func (r *Result) CreatedAt() time.Time { return r.createdAt }

// ExecutionTime returns the wall-clock execution time in seconds, when the
// orchestrating layer recorded one.
func (r *Result) ExecutionTime() float64 { return r.executionTime }

// SetExecutionTime records the wall-clock execution time in seconds.
func (r *Result) SetExecutionTime(seconds float64) { r.executionTime = seconds }

// AlternativeIDs returns a copy of the alternative ids, matrix-ordered.
func (r *Result) AlternativeIDs() []string {
	return append([]string(nil), r.alternativeIDs...)
}

// AlternativeNames returns a copy of the alternative names, matrix-ordered.
func (r *Result) AlternativeNames() []string {
	return append([]string(nil), r.alternativeNames...)
}

// Scores returns a copy of the score vector, matrix-ordered.
func (r *Result) Scores() []float64 {
	return append([]float64(nil), r.scores...)
}

// Rankings returns a copy of the rank vector (1 = best), matrix-ordered.
func (r *Result) Rankings() []int {
	return append([]int(nil), r.rankings...)
}

// Parameters returns a copy of the effective parameters the method ran with.
func (r *Result) Parameters() map[string]any {
	out := make(map[string]any, len(r.parameters))
	for k, v := range r.parameters {
		out[k] = v
	}
	return out
}

// SetMetadata annotates the result with a diagnostic value.
func (r *Result) SetMetadata(key string, value any) {
	r.metadata[key] = value
}

// Metadata returns the diagnostic value for key, or nil when absent.
func (r *Result) Metadata(key string) any {
	return r.metadata[key]
}

// MetadataMap returns a copy of the full diagnostic map.
func (r *Result) MetadataMap() map[string]any {
	out := make(map[string]any, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

func (r *Result) indexOf(alternativeID string) (int, error) {
	for i, id := range r.alternativeIDs {
		if id == alternativeID {
			return i, nil
		}
	}
	return 0, NewValidationError("unknown alternative id", alternativeID)
}

// ScoreOf returns the score for an alternative id.
func (r *Result) ScoreOf(alternativeID string) (float64, error) {
	i, err := r.indexOf(alternativeID)
	if err != nil {
		return 0, err
	}
	return r.scores[i], nil
}

// RankOf returns the rank (1 = best) for an alternative id.
func (r *Result) RankOf(alternativeID string) (int, error) {
	i, err := r.indexOf(alternativeID)
	if err != nil {
		return 0, err
	}
	return r.rankings[i], nil
}

// RankedAlternative pairs an alternative with its score and rank.
type RankedAlternative struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// SortedAlternatives returns every alternative ordered best first.
func (r *Result) SortedAlternatives() []RankedAlternative {
	out := make([]RankedAlternative, len(r.alternativeIDs))
	for i := range r.alternativeIDs {
		out[i] = RankedAlternative{
			ID:    r.alternativeIDs[i],
			Name:  r.alternativeNames[i],
			Score: r.scores[i],
			Rank:  r.rankings[i],
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return out
}

// Best returns the top-scoring alternative.
func (r *Result) Best() RankedAlternative {
	return r.SortedAlternatives()[0]
}

// Worst returns the bottom-scoring alternative.
func (r *Result) Worst() RankedAlternative {
	sorted := r.SortedAlternatives()
	return sorted[len(sorted)-1]
}

// Comparison reports how two alternatives relate inside one result.
type Comparison struct {
	A               RankedAlternative `json:"a"`
	B               RankedAlternative `json:"b"`
	ScoreDifference float64           `json:"score_difference"`
	Better          string            `json:"better"`
}

// Compare relates two alternatives by id. Better holds the id of the
// higher-scoring one (A's id on an exact tie).
func (r *Result) Compare(idA, idB string) (Comparison, error) {
	ia, err := r.indexOf(idA)
	if err != nil {
		return Comparison{}, err
	}
	ib, err := r.indexOf(idB)
	if err != nil {
		return Comparison{}, err
	}
	cmp := Comparison{
		A: RankedAlternative{ID: idA, Name: r.alternativeNames[ia], Score: r.scores[ia], Rank: r.rankings[ia]},
		B: RankedAlternative{ID: idB, Name: r.alternativeNames[ib], Score: r.scores[ib], Rank: r.rankings[ib]},
	}
	cmp.ScoreDifference = cmp.A.Score - cmp.B.Score
	cmp.Better = idA
	if cmp.B.Score > cmp.A.Score {
		cmp.Better = idB
	}
	return cmp, nil
}

// resultDTO is the plain nested map/array form persistence and API
// collaborators exchange.
type resultDTO struct {
	ID               string         `json:"id"`
	MethodName       string         `json:"method_name"`
	AlternativeIDs   []string       `json:"alternative_ids"`
	AlternativeNames []string       `json:"alternative_names"`
	Scores           []float64      `json:"scores"`
	Rankings         []int          `json:"rankings"`
	Parameters       map[string]any `json:"parameters"`
	Metadata         map[string]any `json:"metadata"`
	ExecutionTime    float64        `json:"execution_time"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultDTO{
		ID:               r.id,
		MethodName:       r.methodName,
		AlternativeIDs:   r.alternativeIDs,
		AlternativeNames: r.alternativeNames,
		Scores:           r.scores,
		Rankings:         r.rankings,
		Parameters:       r.parameters,
		Metadata:         r.metadata,
		ExecutionTime:    r.executionTime,
		CreatedAt:        r.createdAt,
	})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var dto resultDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	if len(dto.AlternativeIDs) != len(dto.Scores) || len(dto.AlternativeIDs) != len(dto.AlternativeNames) {
		return NewValidationError("result payload shape mismatch")
	}
	rankings := dto.Rankings
	if rankings == nil {
		rankings = competitionRanks(dto.Scores)
	} else if len(rankings) != len(dto.AlternativeIDs) {
		return NewValidationError("result payload shape mismatch")
	}
	parameters := dto.Parameters
	if parameters == nil {
		parameters = map[string]any{}
	}
	metadata := dto.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	*r = Result{
		id:               dto.ID,
		methodName:       dto.MethodName,
		alternativeIDs:   dto.AlternativeIDs,
		alternativeNames: dto.AlternativeNames,
		scores:           dto.Scores,
		rankings:         rankings,
		parameters:       parameters,
		metadata:         metadata,
		executionTime:    dto.ExecutionTime,
		createdAt:        dto.CreatedAt,
	}
	return nil
}
