package methods

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
)

// randomConsistencyIndex is Saaty's tabulated RI for matrix sizes 1..15.
var randomConsistencyIndex = map[int]float64{
	1: 0.00, 2: 0.00, 3: 0.58, 4: 0.90, 5: 1.12,
	6: 1.24, 7: 1.32, 8: 1.41, 9: 1.45, 10: 1.49,
	11: 1.51, 12: 1.48, 13: 1.56, 14: 1.57, 15: 1.59,
}

// randomConsistencyFallback is used beyond the tabulated sizes.
const randomConsistencyFallback = 1.59

const (
	weightMethodEigenvector   = "eigenvector"
	weightMethodGeometricMean = "geometric-mean"
)

// AHP implements the Analytic Hierarchy Process: pairwise comparison
// matrices are turned into priority vectors through the principal
// eigenvector (or a row geometric mean), and the consistency of the
// judgments is checked against Saaty's random index.
type AHP struct{}

// NewAHP returns the AHP method.
func NewAHP() *AHP { return &AHP{} }

func (a *AHP) Name() string { return "AHP" }

func (a *AHP) FullName() string { return "Analytic Hierarchy Process" }

func (a *AHP) Description() string {
	return "The Analytic Hierarchy Process (Saaty) decomposes a decision into pairwise " +
		"comparisons between criteria and between alternatives, derives priority vectors " +
		"from each comparison matrix via its principal eigenvector, and checks the " +
		"consistency of the judgments (CR <= 0.10 is acceptable). Useful when subjective " +
		"judgments must be quantified and their coherence verified."
}

type ahpOptions struct {
	CriteriaComparisonMatrix       [][]float64   `mapstructure:"criteria_comparison_matrix"`
	AlternativesComparisonMatrices [][][]float64 `mapstructure:"alternatives_comparison_matrices"`
	ConsistencyRatioThreshold      float64       `mapstructure:"consistency_ratio_threshold"`
	WeightCalculationMethod        string        `mapstructure:"weight_calculation_method"`
	UsePairwiseForAlternatives     bool          `mapstructure:"use_pairwise_comparison_for_alternatives"`
	NormalizeBeforeComparison      bool          `mapstructure:"normalize_before_comparison"`
	NormalizationMethod            string        `mapstructure:"normalization_method"`
	UseAlternativeMetadata         bool          `mapstructure:"use_alternative_metadata"`
}

func defaultAHPOptions() ahpOptions {
	return ahpOptions{
		ConsistencyRatioThreshold:  0.1,
		WeightCalculationMethod:    weightMethodEigenvector,
		UsePairwiseForAlternatives: true,
		NormalizeBeforeComparison:  true,
		NormalizationMethod:        string(mcdm.NormMinMax),
	}
}

func (a *AHP) DefaultParameters() Params {
	return Params{
		"criteria_comparison_matrix":               nil,
		"alternatives_comparison_matrices":         nil,
		"consistency_ratio_threshold":              0.1,
		"weight_calculation_method":                weightMethodEigenvector,
		"use_pairwise_comparison_for_alternatives": true,
		"normalize_before_comparison":              true,
		"normalization_method":                     string(mcdm.NormMinMax),
		"use_alternative_metadata":                 false,
	}
}

func (a *AHP) ValidateParameters(p Params) error {
	opts := defaultAHPOptions()
	if err := decodeParams(p, &opts); err != nil {
		return err
	}
	if opts.ConsistencyRatioThreshold <= 0 {
		return mcdm.NewValidationError("consistency_ratio_threshold must be positive")
	}
	switch opts.WeightCalculationMethod {
	case weightMethodEigenvector, weightMethodGeometricMean:
	default:
		return mcdm.NewValidationError("unknown weight_calculation_method", opts.WeightCalculationMethod)
	}
	if _, err := mcdm.ParseNormMethod(opts.NormalizationMethod); err != nil {
		return err
	}
	if opts.CriteriaComparisonMatrix != nil {
		if err := checkSquare(opts.CriteriaComparisonMatrix, len(opts.CriteriaComparisonMatrix), "criteria comparison matrix"); err != nil {
			return err
		}
	}
	for i, m := range opts.AlternativesComparisonMatrices {
		if err := checkSquare(m, len(m), fmt.Sprintf("alternatives comparison matrix %d", i)); err != nil {
			return err
		}
	}
	return nil
}

// ahpConsistency captures the consistency diagnostics of one comparison
// matrix.
type ahpConsistency struct {
	ConsistencyIndex float64 `json:"consistency_index"`
	ConsistencyRatio float64 `json:"consistency_ratio"`
	Consistent       bool    `json:"consistent"`
	MaxEigenvalue    float64 `json:"max_eigenvalue"`
	Method           string  `json:"method"`
}

func (a *AHP) Execute(matrix *mcdm.DecisionMatrix, params Params) (*mcdm.Result, error) {
	opts := defaultAHPOptions()
	if err := decodeParams(params, &opts); err != nil {
		return nil, err
	}
	if err := a.ValidateParameters(params); err != nil {
		return nil, err
	}

	result, err := a.run(matrix, opts)
	return result, methodErr(a.Name(), err)
}

func (a *AHP) run(matrix *mcdm.DecisionMatrix, opts ahpOptions) (*mcdm.Result, error) {
	alternatives := matrix.Alternatives()
	criteria := matrix.Criteria()
	nAlt, nCrit := matrix.Shape()

	weights, criteriaConsistency, err := a.criteriaWeights(criteria, opts)
	if err != nil {
		return nil, err
	}

	var priorities [][]float64
	var alternativeConsistency []map[string]any
	if opts.UsePairwiseForAlternatives {
		priorities, alternativeConsistency, err = a.alternativePriorities(matrix, opts)
		if err != nil {
			return nil, err
		}
	} else {
		priorities, err = a.comparisonValues(matrix, opts)
		if err != nil {
			return nil, err
		}
	}

	scores := make([]float64, nAlt)
	for i := 0; i < nAlt; i++ {
		for j := 0; j < nCrit; j++ {
			scores[i] += priorities[i][j] * weights[j]
		}
	}

	metadata := map[string]any{
		"criteria_weights":       weights,
		"alternative_priorities": priorities,
		"criteria_consistency":   criteriaConsistency,
	}
	if alternativeConsistency != nil {
		metadata["alternatives_consistency"] = alternativeConsistency
	}

	return mcdm.NewResult(a.Name(), alternatives, scores, ahpParamsForResult(opts), metadata)
}

func ahpParamsForResult(opts ahpOptions) map[string]any {
	return map[string]any{
		"consistency_ratio_threshold":              opts.ConsistencyRatioThreshold,
		"weight_calculation_method":                opts.WeightCalculationMethod,
		"use_pairwise_comparison_for_alternatives": opts.UsePairwiseForAlternatives,
		"normalize_before_comparison":              opts.NormalizeBeforeComparison,
		"normalization_method":                     opts.NormalizationMethod,
		"use_alternative_metadata":                 opts.UseAlternativeMetadata,
	}
}

// criteriaWeights derives the criterion weight vector. With an explicit
// comparison matrix the priority vector comes from the configured
// weight-derivation algorithm; without one, the stored criterion weights are
// normalized directly, which corresponds to a perfectly consistent synthetic
// matrix w_i/w_j (CR = 0 by construction).
func (a *AHP) criteriaWeights(criteria []mcdm.Criterion, opts ahpOptions) ([]float64, ahpConsistency, error) {
	n := len(criteria)
	if opts.CriteriaComparisonMatrix == nil {
		weights := mcdm.NormalizedWeights(criteria)
		return weights, ahpConsistency{
			Consistent:    true,
			MaxEigenvalue: float64(n),
			Method:        "weights_derived",
		}, nil
	}

	if err := checkSquare(opts.CriteriaComparisonMatrix, n, "criteria comparison matrix"); err != nil {
		return nil, ahpConsistency{}, err
	}
	return a.weightsFromPairwise(opts.CriteriaComparisonMatrix, opts)
}

// alternativePriorities computes, per criterion, the local priority of every
// alternative from a pairwise comparison matrix: a supplied one when
// available, otherwise one auto-generated by ratio comparisons of the
// (optionally normalized) evaluations.
func (a *AHP) alternativePriorities(matrix *mcdm.DecisionMatrix, opts ahpOptions) ([][]float64, []map[string]any, error) {
	criteria := matrix.Criteria()
	nAlt, nCrit := matrix.Shape()

	comparisons := opts.AlternativesComparisonMatrices
	if comparisons == nil {
		generated, err := a.generateComparisons(matrix, opts)
		if err != nil {
			return nil, nil, err
		}
		comparisons = generated
	}

	priorities := make([][]float64, nAlt)
	for i := range priorities {
		priorities[i] = make([]float64, nCrit)
	}
	consistency := make([]map[string]any, 0, nCrit)

	for j := 0; j < nCrit; j++ {
		entry := map[string]any{
			"criterion_id":   criteria[j].ID,
			"criterion_name": criteria[j].Name,
		}

		if j >= len(comparisons) {
			// No comparison matrix for this criterion: fall back to
			// uniform local priorities.
			for i := 0; i < nAlt; i++ {
				priorities[i][j] = 1.0 / float64(nAlt)
			}
			entry["consistency"] = ahpConsistency{
				Consistent:    true,
				MaxEigenvalue: float64(nAlt),
				Method:        "uniform",
			}
			consistency = append(consistency, entry)
			continue
		}

		if err := checkSquare(comparisons[j], nAlt,
			fmt.Sprintf("comparison matrix for criterion %s", criteria[j].Name)); err != nil {
			return nil, nil, err
		}
		local, cons, err := a.weightsFromPairwise(comparisons[j], opts)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i < nAlt; i++ {
			priorities[i][j] = local[i]
		}
		entry["consistency"] = cons
		consistency = append(consistency, entry)
	}

	return priorities, consistency, nil
}

// generateComparisons builds one pairwise matrix per criterion from the
// evaluations: benefit criteria compare value_i/value_j, cost criteria the
// reverse. When the values are normalized first the normalization already
// points every column the larger-is-better way, so the plain ratio applies
// throughout.
func (a *AHP) generateComparisons(matrix *mcdm.DecisionMatrix, opts ahpOptions) ([][][]float64, error) {
	criteria := matrix.Criteria()
	nAlt, nCrit := matrix.Shape()

	values, err := a.comparisonValues(matrix, opts)
	if err != nil {
		return nil, err
	}

	directionAdjusted := opts.NormalizeBeforeComparison
	comparisons := make([][][]float64, nCrit)
	for j := 0; j < nCrit; j++ {
		cmp := make([][]float64, nAlt)
		for i := range cmp {
			cmp[i] = make([]float64, nAlt)
			for k := range cmp[i] {
				cmp[i][k] = 1
			}
		}
		for i := 0; i < nAlt; i++ {
			for k := 0; k < nAlt; k++ {
				if i == k {
					continue
				}
				vi, vk := values[i][j], values[k][j]
				if !directionAdjusted && criteria[j].IsCost() {
					vi, vk = vk, vi
				}
				if vk > 0 {
					cmp[i][k] = vi / vk
				}
			}
		}
		comparisons[j] = cmp
	}
	return comparisons, nil
}

// comparisonValues selects the evaluation source for auto-generated
// comparisons: matrix cells, or per-alternative "criterion_<id>" metadata.
func (a *AHP) comparisonValues(matrix *mcdm.DecisionMatrix, opts ahpOptions) ([][]float64, error) {
	var values [][]float64
	if opts.UseAlternativeMetadata {
		alternatives := matrix.Alternatives()
		criteria := matrix.Criteria()
		values = make([][]float64, len(alternatives))
		for i, alt := range alternatives {
			values[i] = make([]float64, len(criteria))
			for j, crit := range criteria {
				values[i][j] = alt.MetadataValue("criterion_"+crit.ID, 1.0)
			}
		}
	} else {
		values = matrix.Values()
	}

	if !opts.NormalizeBeforeComparison {
		return values, nil
	}
	method, err := mcdm.ParseNormMethod(opts.NormalizationMethod)
	if err != nil {
		return nil, err
	}
	return mcdm.NormalizeValues(values, matrix.Criteria(), method)
}

// weightsFromPairwise turns one reciprocal comparison matrix into a priority
// vector plus its consistency diagnostics.
func (a *AHP) weightsFromPairwise(comparison [][]float64, opts ahpOptions) ([]float64, ahpConsistency, error) {
	n := len(comparison)

	var weights []float64
	var lambdaMax float64
	var err error
	switch opts.WeightCalculationMethod {
	case weightMethodGeometricMean:
		weights, lambdaMax = geometricMeanWeights(comparison)
	default:
		weights, lambdaMax, err = eigenvectorWeights(comparison)
		if err != nil {
			return nil, ahpConsistency{}, err
		}
	}

	ci := 0.0
	if n > 1 {
		ci = (lambdaMax - float64(n)) / float64(n-1)
	}
	ri, ok := randomConsistencyIndex[n]
	if !ok {
		ri = randomConsistencyFallback
	}
	cr := 0.0
	if ri > 0 {
		cr = ci / ri
	}

	return weights, ahpConsistency{
		ConsistencyIndex: ci,
		ConsistencyRatio: cr,
		Consistent:       cr <= opts.ConsistencyRatioThreshold,
		MaxEigenvalue:    lambdaMax,
		Method:           opts.WeightCalculationMethod,
	}, nil
}

// eigenvectorWeights computes the principal eigenvector of a (reciprocal,
// non-symmetric) comparison matrix: take the eigenvalue with the largest
// real part, drop imaginary components of its eigenvector, and normalize to
// sum 1. Reciprocal matrices need a general solver, not a symmetric one.
func eigenvectorWeights(comparison [][]float64) ([]float64, float64, error) {
	n := len(comparison)
	dense := mat.NewDense(n, n, nil)
	for i, row := range comparison {
		dense.SetRow(i, row)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(dense, mat.EigenRight); !ok {
		return nil, 0, fmt.Errorf("eigen decomposition of %dx%d comparison matrix failed", n, n)
	}

	eigenvalues := eig.Values(nil)
	maxIdx := 0
	for i, v := range eigenvalues {
		if real(v) > real(eigenvalues[maxIdx]) {
			maxIdx = i
		}
	}
	lambdaMax := real(eigenvalues[maxIdx])

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	weights := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		weights[i] = real(vectors.At(i, maxIdx))
		sum += weights[i]
	}
	if sum == 0 {
		return nil, 0, fmt.Errorf("principal eigenvector of comparison matrix sums to zero")
	}
	// Dividing by the sum also fixes the eigenvector's arbitrary sign.
	for i := range weights {
		weights[i] /= sum
	}
	return weights, lambdaMax, nil
}

// geometricMeanWeights is the row geometric mean approximation: priorities
// are the normalized n-th roots of the row products, and lambda_max is
// estimated as the mean of (Aw)_i / w_i.
func geometricMeanWeights(comparison [][]float64) ([]float64, float64) {
	n := len(comparison)
	weights := make([]float64, n)
	sum := 0.0
	for i, row := range comparison {
		product := 1.0
		for _, v := range row {
			product *= v
		}
		weights[i] = math.Pow(product, 1.0/float64(n))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}

	lambdaMax := 0.0
	for i := 0; i < n; i++ {
		rowDot := 0.0
		for j := 0; j < n; j++ {
			rowDot += comparison[i][j] * weights[j]
		}
		if weights[i] != 0 {
			lambdaMax += rowDot / weights[i]
		}
	}
	return weights, lambdaMax / float64(n)
}
