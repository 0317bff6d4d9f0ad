package methods

import (
	"math"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
)

const (
	distanceEuclidean = "euclidean"
	distanceManhattan = "manhattan"
	distanceChebyshev = "chebyshev"
)

// TOPSIS ranks alternatives by relative closeness to an ideal solution:
// after normalizing and weighting the matrix, each alternative's distance to
// the ideal and anti-ideal vectors determines its score in [0, 1].
type TOPSIS struct{}

// NewTOPSIS returns the TOPSIS method.
func NewTOPSIS() *TOPSIS { return &TOPSIS{} }

func (t *TOPSIS) Name() string { return "TOPSIS" }

func (t *TOPSIS) FullName() string {
	return "Technique for Order of Preference by Similarity to Ideal Solution"
}

func (t *TOPSIS) Description() string {
	return "TOPSIS (Hwang/Yoon) scores each alternative by its simultaneous closeness to " +
		"the ideal solution and remoteness from the anti-ideal solution, measured on " +
		"the weighted normalized matrix. Scores fall in [0, 1] with higher meaning " +
		"closer to ideal. A good default when a complete cardinal ranking is wanted " +
		"without pairwise elicitation."
}

type topsisOptions struct {
	NormalizationMethod string `mapstructure:"normalization_method"`
	DistanceMetric      string `mapstructure:"distance_metric"`
}

func defaultTOPSISOptions() topsisOptions {
	return topsisOptions{
		NormalizationMethod: string(mcdm.NormVector),
		DistanceMetric:      distanceEuclidean,
	}
}

func (t *TOPSIS) DefaultParameters() Params {
	return Params{
		"normalization_method": string(mcdm.NormVector),
		"distance_metric":      distanceEuclidean,
	}
}

func (t *TOPSIS) ValidateParameters(params Params) error {
	opts := defaultTOPSISOptions()
	if err := decodeParams(params, &opts); err != nil {
		return err
	}
	return t.validateOptions(opts)
}

func (t *TOPSIS) validateOptions(opts topsisOptions) error {
	switch opts.DistanceMetric {
	case distanceEuclidean, distanceManhattan, distanceChebyshev:
	default:
		return mcdm.NewValidationError("unknown distance_metric", opts.DistanceMetric)
	}
	if _, err := mcdm.ParseNormMethod(opts.NormalizationMethod); err != nil {
		return err
	}
	return nil
}

func (t *TOPSIS) Execute(matrix *mcdm.DecisionMatrix, params Params) (*mcdm.Result, error) {
	opts := defaultTOPSISOptions()
	if err := decodeParams(params, &opts); err != nil {
		return nil, err
	}
	if err := t.validateOptions(opts); err != nil {
		return nil, err
	}

	result, err := t.run(matrix, opts)
	return result, methodErr(t.Name(), err)
}

func (t *TOPSIS) run(matrix *mcdm.DecisionMatrix, opts topsisOptions) (*mcdm.Result, error) {
	alternatives := matrix.Alternatives()
	criteria := matrix.Criteria()
	n := len(alternatives)
	m := len(criteria)

	method, err := mcdm.ParseNormMethod(opts.NormalizationMethod)
	if err != nil {
		return nil, err
	}
	normalized, err := mcdm.NormalizeValues(matrix.Values(), criteria, method)
	if err != nil {
		return nil, err
	}

	weights := mcdm.NormalizedWeights(criteria)
	weighted := make([][]float64, n)
	for i := range weighted {
		weighted[i] = make([]float64, m)
		for k := range weighted[i] {
			weighted[i][k] = normalized[i][k] * weights[k]
		}
	}

	// Normalization already orients every column larger-is-better, so the
	// ideal vector is the columnwise max and the anti-ideal the min.
	ideal := make([]float64, m)
	antiIdeal := make([]float64, m)
	for k := 0; k < m; k++ {
		ideal[k] = math.Inf(-1)
		antiIdeal[k] = math.Inf(1)
		for i := 0; i < n; i++ {
			ideal[k] = math.Max(ideal[k], weighted[i][k])
			antiIdeal[k] = math.Min(antiIdeal[k], weighted[i][k])
		}
	}

	scores := make([]float64, n)
	distToIdeal := make([]float64, n)
	distToAntiIdeal := make([]float64, n)
	for i := 0; i < n; i++ {
		distToIdeal[i] = vectorDistance(weighted[i], ideal, opts.DistanceMetric)
		distToAntiIdeal[i] = vectorDistance(weighted[i], antiIdeal, opts.DistanceMetric)
		if total := distToIdeal[i] + distToAntiIdeal[i]; total > 0 {
			scores[i] = distToAntiIdeal[i] / total
		} else {
			// Alternative coincides with both reference points, which only
			// happens when every alternative is identical.
			scores[i] = 0.5
		}
	}

	params := map[string]any{
		"normalization_method": opts.NormalizationMethod,
		"distance_metric":      opts.DistanceMetric,
	}
	metadata := map[string]any{
		"normalized_matrix":       normalized,
		"weighted_matrix":         weighted,
		"ideal_solution":          ideal,
		"anti_ideal_solution":     antiIdeal,
		"distances_to_ideal":      distToIdeal,
		"distances_to_anti_ideal": distToAntiIdeal,
	}

	return mcdm.NewResult(t.Name(), alternatives, scores, params, metadata)
}

func vectorDistance(a, b []float64, metric string) float64 {
	switch metric {
	case distanceManhattan:
		var sum float64
		for k := range a {
			sum += math.Abs(a[k] - b[k])
		}
		return sum
	case distanceChebyshev:
		var max float64
		for k := range a {
			if d := math.Abs(a[k] - b[k]); d > max {
				max = d
			}
		}
		return max
	default:
		var sum float64
		for k := range a {
			d := a[k] - b[k]
			sum += d * d
		}
		return math.Sqrt(sum)
	}
}
