package methods

import (
	"fmt"
	"math"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
)

const (
	electreVariantI   = "I"
	electreVariantIII = "III"

	scoringNetFlow       = "net_flow"
	scoringPureDominance = "pure_dominance"
	scoringMixed         = "mixed"
)

// Default pseudo-criterion thresholds for ELECTRE III, on the normalized
// [0, 1] scale.
const (
	defaultPreferenceThreshold   = 0.2
	defaultIndifferenceThreshold = 0.1
	defaultVetoThreshold         = 0.5
)

// distillationSlack is the fraction of the credibility spread subtracted
// from the maximum to form the cutting threshold of each distillation step.
const distillationSlack = 0.15

// ELECTRE implements the outranking family: variant I builds a crisp
// outranking relation from concordance/discordance thresholds, variant III
// builds a graded credibility relation with pseudo-criteria and veto
// effects, ranked by descending and ascending distillation.
type ELECTRE struct{}

// NewELECTRE returns the ELECTRE method.
func NewELECTRE() *ELECTRE { return &ELECTRE{} }

func (e *ELECTRE) Name() string { return "ELECTRE" }

func (e *ELECTRE) FullName() string { return "Elimination Et Choix Traduisant la Realite" }

func (e *ELECTRE) Description() string {
	return "ELECTRE (Roy) ranks by outranking relations: one alternative outranks another " +
		"when it is at least as good on a weighted majority of criteria (concordance) and " +
		"not unacceptably worse on any single one (discordance/veto). Variant I yields a " +
		"crisp outranking relation and a non-dominated kernel; variant III grades the " +
		"relation into credibilities with pseudo-criteria and ranks them by distillation. " +
		"Suited to non-compensatory problems where a strength cannot buy off a weakness."
}

type electreOptions struct {
	Variant                string             `mapstructure:"variant"`
	ConcordanceThreshold   float64            `mapstructure:"concordance_threshold"`
	DiscordanceThreshold   float64            `mapstructure:"discordance_threshold"`
	NormalizationMethod    string             `mapstructure:"normalization_method"`
	NormalizeMatrix        bool               `mapstructure:"normalize_matrix"`
	PreferenceThresholds   map[string]float64 `mapstructure:"preference_thresholds"`
	IndifferenceThresholds map[string]float64 `mapstructure:"indifference_thresholds"`
	VetoThresholds         map[string]float64 `mapstructure:"veto_thresholds"`
	ScoringMethod          string             `mapstructure:"scoring_method"`
	DominanceWeight        float64            `mapstructure:"dominance_weight"`
}

func defaultELECTREOptions() electreOptions {
	return electreOptions{
		Variant:              electreVariantI,
		ConcordanceThreshold: 0.7,
		DiscordanceThreshold: 0.3,
		NormalizationMethod:  string(mcdm.NormMinMax),
		NormalizeMatrix:      true,
		ScoringMethod:        scoringNetFlow,
		DominanceWeight:      0.6,
	}
}

func (e *ELECTRE) DefaultParameters() Params {
	return Params{
		"variant":                 electreVariantI,
		"concordance_threshold":   0.7,
		"discordance_threshold":   0.3,
		"normalization_method":    string(mcdm.NormMinMax),
		"normalize_matrix":        true,
		"preference_thresholds":   nil,
		"indifference_thresholds": nil,
		"veto_thresholds":         nil,
		"scoring_method":          scoringNetFlow,
		"dominance_weight":        0.6,
	}
}

func (e *ELECTRE) ValidateParameters(p Params) error {
	opts := defaultELECTREOptions()
	if err := decodeParams(p, &opts); err != nil {
		return err
	}
	return e.validateOptions(opts)
}

func (e *ELECTRE) validateOptions(opts electreOptions) error {
	switch opts.Variant {
	case electreVariantI, electreVariantIII:
	default:
		return mcdm.NewValidationError(
			fmt.Sprintf("ELECTRE variant not implemented: %s", opts.Variant),
			"available variants are I and III")
	}
	if opts.ConcordanceThreshold < 0.5 || opts.ConcordanceThreshold > 1.0 {
		return mcdm.NewValidationError("concordance_threshold must be within [0.5, 1.0]")
	}
	if opts.DiscordanceThreshold < 0.0 || opts.DiscordanceThreshold > 1.0 {
		return mcdm.NewValidationError("discordance_threshold must be within [0.0, 1.0]")
	}
	if _, err := mcdm.ParseNormMethod(opts.NormalizationMethod); err != nil {
		return err
	}
	switch opts.ScoringMethod {
	case scoringNetFlow, scoringPureDominance, scoringMixed:
	default:
		return mcdm.NewValidationError("unknown scoring_method", opts.ScoringMethod)
	}
	if opts.DominanceWeight < 0 || opts.DominanceWeight > 1 {
		return mcdm.NewValidationError("dominance_weight must be within [0.0, 1.0]")
	}
	for name, thresholds := range map[string]map[string]float64{
		"preference_thresholds":   opts.PreferenceThresholds,
		"indifference_thresholds": opts.IndifferenceThresholds,
		"veto_thresholds":         opts.VetoThresholds,
	} {
		for id, v := range thresholds {
			if v < 0 || math.IsNaN(v) {
				return mcdm.NewValidationError(
					fmt.Sprintf("%s must be non-negative", name),
					fmt.Sprintf("criterion %s has %v", id, v))
			}
		}
	}
	for id, p := range opts.PreferenceThresholds {
		if q, ok := opts.IndifferenceThresholds[id]; ok && p < q {
			return mcdm.NewValidationError(
				"preference threshold below indifference threshold",
				fmt.Sprintf("criterion %s: p=%v < q=%v", id, p, q))
		}
	}
	return nil
}

func (e *ELECTRE) Execute(matrix *mcdm.DecisionMatrix, params Params) (*mcdm.Result, error) {
	opts := defaultELECTREOptions()
	if err := decodeParams(params, &opts); err != nil {
		return nil, err
	}
	if err := e.validateOptions(opts); err != nil {
		return nil, err
	}

	result, err := e.run(matrix, opts)
	return result, methodErr(e.Name(), err)
}

func (e *ELECTRE) run(matrix *mcdm.DecisionMatrix, opts electreOptions) (*mcdm.Result, error) {
	alternatives := matrix.Alternatives()
	criteria := matrix.Criteria()
	values := matrix.Values()

	if opts.NormalizeMatrix {
		method, err := mcdm.ParseNormMethod(opts.NormalizationMethod)
		if err != nil {
			return nil, err
		}
		normalized, err := mcdm.NormalizeValues(values, criteria, method)
		if err != nil {
			return nil, err
		}
		values = normalized
	}

	weights := mcdm.NormalizedWeights(criteria)

	var relation [][]float64
	var metadata map[string]any
	if opts.Variant == electreVariantI {
		out := e.runVariantI(values, weights, opts)
		relation = out.outranking
		metadata = map[string]any{
			"concordance_matrix":         out.concordance,
			"discordance_matrix":         out.discordance,
			"outranking_matrix":          out.outranking,
			"dominance_matrix":           out.dominance,
			"non_dominated_alternatives": out.nonDominatedIDs(alternatives),
		}
	} else {
		out, err := e.runVariantIII(values, weights, criteria, opts)
		if err != nil {
			return nil, err
		}
		relation = out.credibility
		metadata = map[string]any{
			"concordance_matrix":      out.concordance,
			"credibility_matrix":      out.credibility,
			"descending_distillation": out.descending,
			"ascending_distillation":  out.ascending,
			"net_flows":               out.netFlows,
		}
	}

	scores := relationScores(relation, opts)

	params := map[string]any{
		"variant":               opts.Variant,
		"concordance_threshold": opts.ConcordanceThreshold,
		"discordance_threshold": opts.DiscordanceThreshold,
		"normalization_method":  opts.NormalizationMethod,
		"normalize_matrix":      opts.NormalizeMatrix,
		"scoring_method":        opts.ScoringMethod,
		"dominance_weight":      opts.DominanceWeight,
	}

	return mcdm.NewResult(fmt.Sprintf("%s-%s", e.Name(), opts.Variant), alternatives, scores, params, metadata)
}

type electreIOutcome struct {
	concordance  [][]float64
	discordance  [][]float64
	outranking   [][]float64
	dominance    [][]float64
	nonDominated []int
}

func (o electreIOutcome) nonDominatedIDs(alternatives []mcdm.Alternative) []string {
	ids := make([]string, len(o.nonDominated))
	for i, idx := range o.nonDominated {
		ids[i] = alternatives[idx].ID
	}
	return ids
}

// runVariantI builds the crisp outranking relation: i outranks j when the
// weight of criteria agreeing that i >= j reaches the concordance threshold
// and the worst normalized shortfall of i against j stays below the
// discordance threshold.
func (e *ELECTRE) runVariantI(values [][]float64, weights []float64, opts electreOptions) electreIOutcome {
	n := len(values)
	m := len(weights)

	// Per-criterion value ranges for shortfall normalization.
	ranges := make([]float64, m)
	for k := 0; k < m; k++ {
		minV, maxV := values[0][k], values[0][k]
		for i := 1; i < n; i++ {
			minV = math.Min(minV, values[i][k])
			maxV = math.Max(maxV, values[i][k])
		}
		ranges[k] = maxV - minV
	}

	concordance := squareMatrix(n)
	discordance := squareMatrix(n)
	outranking := squareMatrix(n)
	dominance := squareMatrix(n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			for k := 0; k < m; k++ {
				if values[i][k] >= values[j][k] {
					concordance[i][j] += weights[k]
				} else if ranges[k] > 0 {
					shortfall := (values[j][k] - values[i][k]) / ranges[k]
					discordance[i][j] = math.Max(discordance[i][j], shortfall)
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if concordance[i][j] >= opts.ConcordanceThreshold &&
				discordance[i][j] <= opts.DiscordanceThreshold {
				outranking[i][j] = 1
			}
		}
	}

	dominated := make([]bool, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && outranking[i][j] == 1 && outranking[j][i] == 0 {
				dominance[i][j] = 1
				dominated[j] = true
			}
		}
	}
	nonDominated := make([]int, 0, n)
	for i, d := range dominated {
		if !d {
			nonDominated = append(nonDominated, i)
		}
	}

	return electreIOutcome{
		concordance:  concordance,
		discordance:  discordance,
		outranking:   outranking,
		dominance:    dominance,
		nonDominated: nonDominated,
	}
}

type electreIIIOutcome struct {
	concordance [][]float64
	credibility [][]float64
	descending  []int
	ascending   []int
	netFlows    []float64
}

// runVariantIII builds the graded credibility relation from pseudo-criteria
// and ranks it by both distillations.
func (e *ELECTRE) runVariantIII(values [][]float64, weights []float64, criteria []mcdm.Criterion, opts electreOptions) (electreIIIOutcome, error) {
	n := len(values)
	m := len(criteria)

	pThresholds := make([]float64, m)
	qThresholds := make([]float64, m)
	vThresholds := make([]float64, m)
	for k, crit := range criteria {
		pThresholds[k] = thresholdFor(opts.PreferenceThresholds, crit.ID, defaultPreferenceThreshold)
		qThresholds[k] = thresholdFor(opts.IndifferenceThresholds, crit.ID, defaultIndifferenceThreshold)
		vThresholds[k] = thresholdFor(opts.VetoThresholds, crit.ID, defaultVetoThreshold)
		if pThresholds[k] < qThresholds[k] {
			return electreIIIOutcome{}, mcdm.NewValidationError(
				"preference threshold below indifference threshold",
				fmt.Sprintf("criterion %s: p=%v < q=%v", crit.ID, pThresholds[k], qThresholds[k]))
		}
	}

	concordance := squareMatrix(n)
	credibility := squareMatrix(n)

	// Per-criterion partial discordances are needed again for the veto pass.
	discordance := make([][][]float64, n)
	for i := range discordance {
		discordance[i] = squareMatrixCols(n, m)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			for k := 0; k < m; k++ {
				diff := values[i][k] - values[j][k]
				concordance[i][j] += weights[k] * partialConcordance(diff, pThresholds[k], qThresholds[k])
				discordance[i][j][k] = partialDiscordance(-diff, pThresholds[k], vThresholds[k])
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			credibility[i][j] = credibilityIndex(concordance[i][j], discordance[i][j])
		}
	}

	netFlows := make([]float64, n)
	if n > 1 {
		for i := 0; i < n; i++ {
			positive, negative := 0.0, 0.0
			for j := 0; j < n; j++ {
				positive += credibility[i][j]
				negative += credibility[j][i]
			}
			netFlows[i] = (positive - negative) / float64(n-1)
		}
	}

	return electreIIIOutcome{
		concordance: concordance,
		credibility: credibility,
		descending:  distillation(credibility, true),
		ascending:   distillation(credibility, false),
		netFlows:    netFlows,
	}, nil
}

// partialConcordance maps the pairwise difference to [0, 1]: full agreement
// at or beyond the preference threshold, none at or beyond the reverse
// indifference threshold, linear in between.
func partialConcordance(diff, p, q float64) float64 {
	switch {
	case diff >= p:
		return 1
	case diff <= -q:
		return 0
	case p+q == 0:
		// Degenerate pseudo-criterion (p = q = 0): a true criterion with a
		// step at zero.
		if diff >= 0 {
			return 1
		}
		return 0
	default:
		return (diff + q) / (p + q)
	}
}

// partialDiscordance maps the reverse difference to [0, 1]: none up to the
// preference threshold, full veto at the veto threshold, linear in between.
func partialDiscordance(reverseDiff, p, v float64) float64 {
	switch {
	case reverseDiff <= p:
		return 0
	case reverseDiff >= v:
		return 1
	default:
		return (reverseDiff - p) / (v - p)
	}
}

// credibilityIndex starts from the global concordance and degrades it once
// per criterion whose discordance exceeds it. The veto factor divides by
// (1 - C), so the reduction is skipped entirely when C is 1: a unanimous
// concordance cannot be vetoed.
func credibilityIndex(concordance float64, discordances []float64) float64 {
	credibility := concordance
	if concordance >= 1 {
		return credibility
	}
	for _, d := range discordances {
		if d > concordance {
			credibility *= (1 - d) / (1 - concordance)
		}
	}
	return credibility
}

// distillation peels the credibility matrix into ranks. Each round computes
// a cutting threshold from the remaining submatrix, qualifies every
// remaining alternative by (rows above cut) - (columns above cut), removes
// the alternatives tied at the extreme qualification (best when descending,
// worst when ascending) and assigns them the current rank.
func distillation(credibility [][]float64, descending bool) []int {
	n := len(credibility)
	ranks := make([]int, n)
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	currentRank := 1
	if !descending {
		currentRank = n
	}

	for len(remaining) > 0 {
		if len(remaining) == 1 {
			ranks[remaining[0]] = currentRank
			break
		}

		maxCred, minPositive := 0.0, math.Inf(1)
		for _, i := range remaining {
			for _, j := range remaining {
				if i == j {
					continue
				}
				c := credibility[i][j]
				maxCred = math.Max(maxCred, c)
				if c > 0 {
					minPositive = math.Min(minPositive, c)
				}
			}
		}
		if math.IsInf(minPositive, 1) {
			minPositive = 0
		}
		cut := maxCred - distillationSlack*(maxCred-minPositive)

		qualification := make(map[int]int, len(remaining))
		for _, i := range remaining {
			strength, weakness := 0, 0
			for _, j := range remaining {
				if i == j {
					continue
				}
				if credibility[i][j] >= cut {
					strength++
				}
				if credibility[j][i] >= cut {
					weakness++
				}
			}
			qualification[i] = strength - weakness
		}

		extreme := qualification[remaining[0]]
		for _, i := range remaining[1:] {
			q := qualification[i]
			if (descending && q > extreme) || (!descending && q < extreme) {
				extreme = q
			}
		}

		var peeled, rest []int
		for _, i := range remaining {
			if qualification[i] == extreme {
				peeled = append(peeled, i)
			} else {
				rest = append(rest, i)
			}
		}
		for _, i := range peeled {
			ranks[i] = currentRank
		}
		if descending {
			currentRank += len(peeled)
		} else {
			currentRank -= len(peeled)
		}
		remaining = rest
	}

	return ranks
}

// relationScores turns a relation matrix (crisp outranking for variant I,
// credibility for variant III) into per-alternative scores.
func relationScores(relation [][]float64, opts electreOptions) []float64 {
	n := len(relation)
	scores := make([]float64, n)
	if n < 2 {
		return scores
	}

	denom := float64(n - 1)
	for i := 0; i < n; i++ {
		dominates, dominated := 0.0, 0.0
		for j := 0; j < n; j++ {
			dominates += relation[i][j]
			dominated += relation[j][i]
		}
		dominates /= denom
		dominated /= denom

		switch opts.ScoringMethod {
		case scoringPureDominance:
			scores[i] = dominates
		case scoringMixed:
			scores[i] = opts.DominanceWeight*dominates + (1-opts.DominanceWeight)*(1-dominated)
		default:
			scores[i] = dominates - dominated
		}
	}
	return scores
}

func squareMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func squareMatrixCols(n, m int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, m)
	}
	return out
}
