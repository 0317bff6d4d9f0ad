package mcdm

import (
	"encoding/json"
	"fmt"
	"math"
)

// DecisionMatrix is a dense table of evaluations: one row per alternative,
// one column per criterion. The row and column orders are fixed by the
// Alternatives and Criteria lists and every structural edit keeps the three
// in lock-step.
//
// Method implementations never mutate a matrix they are given; Normalized and
// Weighted derive new matrices instead.
type DecisionMatrix struct {
	name         string
	alternatives []Alternative
	criteria     []Criterion
	values       [][]float64
}

// NewDecisionMatrix builds a matrix and validates its shape: ids must be
// unique within their list, values must be n_alternatives x n_criteria, and
// every cell must be finite. A nil values slice allocates a zero matrix.
func NewDecisionMatrix(name string, alternatives []Alternative, criteria []Criterion, values [][]float64) (*DecisionMatrix, error) {
	if name == "" {
		name = "Decision Matrix"
	}

	if err := checkUniqueIDs(alternatives, criteria); err != nil {
		return nil, err
	}

	n, m := len(alternatives), len(criteria)
	if values == nil {
		values = zeroMatrix(n, m)
	} else {
		if len(values) != n {
			return nil, NewValidationError("decision matrix shape mismatch",
				fmt.Sprintf("expected %d rows, got %d", n, len(values)))
		}
		for i, row := range values {
			if len(row) != m {
				return nil, NewValidationError("decision matrix shape mismatch",
					fmt.Sprintf("row %d: expected %d columns, got %d", i, m, len(row)))
			}
			for j, v := range row {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, NewValidationError("decision matrix contains non-finite values",
						fmt.Sprintf("cell (%d, %d) is %v", i, j, v))
				}
			}
		}
		values = copyMatrix(values)
	}

	return &DecisionMatrix{
		name:         name,
		alternatives: append([]Alternative(nil), alternatives...),
		criteria:     append([]Criterion(nil), criteria...),
		values:       values,
	}, nil
}

func checkUniqueIDs(alternatives []Alternative, criteria []Criterion) error {
	seen := make(map[string]bool, len(alternatives))
	for _, a := range alternatives {
		if seen[a.ID] {
			return NewValidationError("duplicate alternative id", a.ID)
		}
		seen[a.ID] = true
	}
	seen = make(map[string]bool, len(criteria))
	for _, c := range criteria {
		if seen[c.ID] {
			return NewValidationError("duplicate criterion id", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

func zeroMatrix(n, m int) [][]float64 {
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, m)
	}
	return values
}

func copyMatrix(values [][]float64) [][]float64 {
	out := make([][]float64, len(values))
	for i, row := range values {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Name returns the matrix display name.
func (dm *DecisionMatrix) Name() string { return dm.name }

// Alternatives returns a copy of the row list.
func (dm *DecisionMatrix) Alternatives() []Alternative {
	return append([]Alternative(nil), dm.alternatives...)
}

// Criteria returns a copy of the column list.
func (dm *DecisionMatrix) Criteria() []Criterion {
	return append([]Criterion(nil), dm.criteria...)
}

// Values returns a deep copy of the cell values.
func (dm *DecisionMatrix) Values() [][]float64 {
	return copyMatrix(dm.values)
}

// Shape returns (alternative count, criterion count).
func (dm *DecisionMatrix) Shape() (int, int) {
	return len(dm.alternatives), len(dm.criteria)
}

// At returns the value for alternative row i and criterion column j.
func (dm *DecisionMatrix) At(i, j int) (float64, error) {
	if err := dm.checkIndex(i, j); err != nil {
		return 0, err
	}
	return dm.values[i][j], nil
}

// Set assigns the value for alternative row i and criterion column j.
func (dm *DecisionMatrix) Set(i, j int, v float64) error {
	if err := dm.checkIndex(i, j); err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewValidationError("decision matrix values must be finite", fmt.Sprintf("got %v", v))
	}
	dm.values[i][j] = v
	return nil
}

func (dm *DecisionMatrix) checkIndex(i, j int) error {
	if i < 0 || i >= len(dm.alternatives) || j < 0 || j >= len(dm.criteria) {
		return NewValidationError("matrix index out of range",
			fmt.Sprintf("(%d, %d) outside %dx%d", i, j, len(dm.alternatives), len(dm.criteria)))
	}
	return nil
}

// Row returns a copy of alternative i's evaluations across all criteria.
func (dm *DecisionMatrix) Row(i int) ([]float64, error) {
	if err := dm.checkIndex(i, 0); err != nil {
		return nil, err
	}
	return append([]float64(nil), dm.values[i]...), nil
}

// Column returns a copy of criterion j's evaluations across all alternatives.
func (dm *DecisionMatrix) Column(j int) ([]float64, error) {
	if err := dm.checkIndex(0, j); err != nil {
		return nil, err
	}
	col := make([]float64, len(dm.alternatives))
	for i := range dm.values {
		col[i] = dm.values[i][j]
	}
	return col, nil
}

// AlternativeByID returns the row index and record for an alternative id.
func (dm *DecisionMatrix) AlternativeByID(id string) (int, Alternative, error) {
	for i, a := range dm.alternatives {
		if a.ID == id {
			return i, a, nil
		}
	}
	return 0, Alternative{}, NewValidationError("unknown alternative id", id)
}

// CriterionByID returns the column index and record for a criterion id.
func (dm *DecisionMatrix) CriterionByID(id string) (int, Criterion, error) {
	for j, c := range dm.criteria {
		if c.ID == id {
			return j, c, nil
		}
	}
	return 0, Criterion{}, NewValidationError("unknown criterion id", id)
}

// AddAlternative appends a row. values may be nil for a zero row, otherwise
// its length must match the criterion count.
func (dm *DecisionMatrix) AddAlternative(a Alternative, values []float64) error {
	if _, _, err := dm.AlternativeByID(a.ID); err == nil {
		return NewValidationError("duplicate alternative id", a.ID)
	}
	if values == nil {
		values = make([]float64, len(dm.criteria))
	} else if len(values) != len(dm.criteria) {
		return NewValidationError("row length mismatch",
			fmt.Sprintf("expected %d values, got %d", len(dm.criteria), len(values)))
	}
	dm.alternatives = append(dm.alternatives, a)
	dm.values = append(dm.values, append([]float64(nil), values...))
	return nil
}

// AddCriterion appends a column. values may be nil for a zero column,
// otherwise its length must match the alternative count.
func (dm *DecisionMatrix) AddCriterion(c Criterion, values []float64) error {
	if _, _, err := dm.CriterionByID(c.ID); err == nil {
		return NewValidationError("duplicate criterion id", c.ID)
	}
	if values == nil {
		values = make([]float64, len(dm.alternatives))
	} else if len(values) != len(dm.alternatives) {
		return NewValidationError("column length mismatch",
			fmt.Sprintf("expected %d values, got %d", len(dm.alternatives), len(values)))
	}
	dm.criteria = append(dm.criteria, c)
	for i := range dm.values {
		dm.values[i] = append(dm.values[i], values[i])
	}
	return nil
}

// RemoveAlternative drops row i, keeping lists and values in lock-step.
func (dm *DecisionMatrix) RemoveAlternative(i int) error {
	if i < 0 || i >= len(dm.alternatives) {
		return NewValidationError("alternative index out of range", fmt.Sprintf("%d", i))
	}
	dm.alternatives = append(dm.alternatives[:i], dm.alternatives[i+1:]...)
	dm.values = append(dm.values[:i], dm.values[i+1:]...)
	return nil
}

// RemoveCriterion drops column j, keeping lists and values in lock-step.
func (dm *DecisionMatrix) RemoveCriterion(j int) error {
	if j < 0 || j >= len(dm.criteria) {
		return NewValidationError("criterion index out of range", fmt.Sprintf("%d", j))
	}
	dm.criteria = append(dm.criteria[:j], dm.criteria[j+1:]...)
	for i := range dm.values {
		dm.values[i] = append(dm.values[i][:j], dm.values[i][j+1:]...)
	}
	return nil
}

// WeightVector returns the criteria weights normalized to sum to 1, with the
// uniform fallback when every weight is zero.
func (dm *DecisionMatrix) WeightVector() []float64 {
	return NormalizedWeights(dm.criteria)
}

// Normalized derives a new matrix with values scaled by the given policy.
// The source matrix is untouched.
func (dm *DecisionMatrix) Normalized(method NormMethod) (*DecisionMatrix, error) {
	normalized, err := NormalizeValues(dm.values, dm.criteria, method)
	if err != nil {
		return nil, err
	}
	return &DecisionMatrix{
		name:         fmt.Sprintf("%s (normalized, %s)", dm.name, method),
		alternatives: dm.Alternatives(),
		criteria:     dm.Criteria(),
		values:       normalized,
	}, nil
}

// Weighted derives a new matrix with every column multiplied by its
// criterion's normalized weight. The source matrix is untouched.
func (dm *DecisionMatrix) Weighted() *DecisionMatrix {
	weights := dm.WeightVector()
	values := copyMatrix(dm.values)
	for i := range values {
		for j := range values[i] {
			values[i][j] *= weights[j]
		}
	}
	return &DecisionMatrix{
		name:         fmt.Sprintf("%s (weighted)", dm.name),
		alternatives: dm.Alternatives(),
		criteria:     dm.Criteria(),
		values:       values,
	}
}

// decisionMatrixDTO is the plain nested map/array form persistence and API
// collaborators exchange.
type decisionMatrixDTO struct {
	Name         string        `json:"name"`
	Alternatives []Alternative `json:"alternatives"`
	Criteria     []Criterion   `json:"criteria"`
	Values       [][]float64   `json:"values"`
}

func (dm *DecisionMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(decisionMatrixDTO{
		Name:         dm.name,
		Alternatives: dm.alternatives,
		Criteria:     dm.criteria,
		Values:       dm.values,
	})
}

func (dm *DecisionMatrix) UnmarshalJSON(data []byte) error {
	var dto decisionMatrixDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	rebuilt, err := NewDecisionMatrix(dto.Name, dto.Alternatives, dto.Criteria, dto.Values)
	if err != nil {
		return err
	}
	*dm = *rebuilt
	return nil
}
