package methods

import (
	"fmt"
	"math"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
)

const (
	prometheeVariantI  = "I"
	prometheeVariantII = "II"
)

// The six Brans/Mareschal preference function families.
const (
	prefUsual              = "usual"
	prefUShape             = "u-shape"
	prefVShape             = "v-shape"
	prefLevel              = "level"
	prefVShapeIndifference = "v-shape-indifference"
	prefGaussian           = "gaussian"
)

// Default thresholds on the normalized [0, 1] scale.
const (
	defaultPThreshold = 0.2
	defaultQThreshold = 0.1
	defaultSThreshold = 0.15
)

// flowEpsilon is the tolerance under which two preference flows count as
// equal when deriving the PROMETHEE I partial order.
const flowEpsilon = 1e-9

var preferenceFunctions = map[string]bool{
	prefUsual:              true,
	prefUShape:             true,
	prefVShape:             true,
	prefLevel:              true,
	prefVShapeIndifference: true,
	prefGaussian:           true,
}

// PROMETHEE implements the preference-flow family: per-criterion preference
// functions turn pairwise differences into intensities, which aggregate into
// positive, negative and net flows. Variant II ranks by net flow; variant I
// keeps the component flows and derives a partial order that records
// incomparabilities instead of resolving them.
type PROMETHEE struct{}

// NewPROMETHEE returns the PROMETHEE method.
func NewPROMETHEE() *PROMETHEE { return &PROMETHEE{} }

func (p *PROMETHEE) Name() string { return "PROMETHEE" }

func (p *PROMETHEE) FullName() string {
	return "Preference Ranking Organization Method for Enrichment of Evaluations"
}

func (p *PROMETHEE) Description() string {
	return "PROMETHEE (Brans/Mareschal) models the intensity of preference between every " +
		"ordered pair of alternatives through per-criterion preference functions, then " +
		"aggregates the intensities into positive, negative and net preference flows. " +
		"Variant II produces a complete ranking from net flow; variant I keeps the " +
		"component flows separate and yields a partial order with explicit " +
		"incomparabilities. Useful when the decision maker's preference structure per " +
		"criterion should be modeled explicitly."
}

type prometheeOptions struct {
	Variant                   string             `mapstructure:"variant"`
	DefaultPreferenceFunction string             `mapstructure:"default_preference_function"`
	PreferenceFunctions       map[string]string  `mapstructure:"preference_functions"`
	PThresholds               map[string]float64 `mapstructure:"p_thresholds"`
	QThresholds               map[string]float64 `mapstructure:"q_thresholds"`
	SThresholds               map[string]float64 `mapstructure:"s_thresholds"`
	NormalizationMethod       string             `mapstructure:"normalization_method"`
	NormalizeMatrix           bool               `mapstructure:"normalize_matrix"`
}

func defaultPROMETHEEOptions() prometheeOptions {
	return prometheeOptions{
		Variant:                   prometheeVariantII,
		DefaultPreferenceFunction: prefVShape,
		NormalizationMethod:       string(mcdm.NormMinMax),
		NormalizeMatrix:           true,
	}
}

func (p *PROMETHEE) DefaultParameters() Params {
	return Params{
		"variant":                     prometheeVariantII,
		"default_preference_function": prefVShape,
		"preference_functions":        nil,
		"p_thresholds":                nil,
		"q_thresholds":                nil,
		"s_thresholds":                nil,
		"normalization_method":        string(mcdm.NormMinMax),
		"normalize_matrix":            true,
	}
}

func (p *PROMETHEE) ValidateParameters(params Params) error {
	opts := defaultPROMETHEEOptions()
	if err := decodeParams(params, &opts); err != nil {
		return err
	}
	return p.validateOptions(opts)
}

func (p *PROMETHEE) validateOptions(opts prometheeOptions) error {
	switch opts.Variant {
	case prometheeVariantI, prometheeVariantII:
	default:
		return mcdm.NewValidationError(
			fmt.Sprintf("PROMETHEE variant not implemented: %s", opts.Variant),
			"available variants are I and II")
	}
	if !preferenceFunctions[opts.DefaultPreferenceFunction] {
		return mcdm.NewValidationError("unknown default_preference_function", opts.DefaultPreferenceFunction)
	}
	for id, fn := range opts.PreferenceFunctions {
		if !preferenceFunctions[fn] {
			return mcdm.NewValidationError("unknown preference function",
				fmt.Sprintf("criterion %s: %s", id, fn))
		}
	}
	for name, thresholds := range map[string]map[string]float64{
		"p_thresholds": opts.PThresholds,
		"q_thresholds": opts.QThresholds,
		"s_thresholds": opts.SThresholds,
	} {
		for id, v := range thresholds {
			if v < 0 || math.IsNaN(v) {
				return mcdm.NewValidationError(
					fmt.Sprintf("%s must be non-negative", name),
					fmt.Sprintf("criterion %s has %v", id, v))
			}
		}
	}
	// Explicitly contradictory threshold maps are rejected here; resolution
	// against defaults at execution time auto-raises p to q instead.
	for id, pv := range opts.PThresholds {
		if qv, ok := opts.QThresholds[id]; ok && pv < qv {
			return mcdm.NewValidationError(
				"preference threshold below indifference threshold",
				fmt.Sprintf("criterion %s: p=%v < q=%v", id, pv, qv))
		}
	}
	if _, err := mcdm.ParseNormMethod(opts.NormalizationMethod); err != nil {
		return err
	}
	return nil
}

func (p *PROMETHEE) Execute(matrix *mcdm.DecisionMatrix, params Params) (*mcdm.Result, error) {
	opts := defaultPROMETHEEOptions()
	if err := decodeParams(params, &opts); err != nil {
		return nil, err
	}
	if err := p.validateOptions(opts); err != nil {
		return nil, err
	}

	result, err := p.run(matrix, opts)
	return result, methodErr(p.Name(), err)
}

// criterionPreference is the resolved preference model of one criterion.
type criterionPreference struct {
	function string
	p, q, s  float64
}

func (p *PROMETHEE) run(matrix *mcdm.DecisionMatrix, opts prometheeOptions) (*mcdm.Result, error) {
	alternatives := matrix.Alternatives()
	criteria := matrix.Criteria()
	values := matrix.Values()
	n := len(alternatives)

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
	prefs := p.resolvePreferences(criteria, opts)

	preference := squareMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			for k, crit := range criteria {
				diff := values[i][k] - values[j][k]
				// Direction adjustment happens at normalization time; only
				// raw-matrix execution needs the cost inversion here.
				if !opts.NormalizeMatrix && crit.IsCost() {
					diff = -diff
				}
				preference[i][j] += weights[k] * preferenceIntensity(diff, prefs[k])
			}
		}
	}

	positive, negative, net := preferenceFlows(preference)

	metadata := map[string]any{
		"positive_flow":     positive,
		"negative_flow":     negative,
		"net_flow":          net,
		"preference_matrix": preference,
	}
	if opts.Variant == prometheeVariantI {
		outranking, incomparabilities := partialOrder(positive, negative)
		metadata["outranking_matrix"] = outranking
		metadata["incomparabilities"] = incomparablePairs(incomparabilities, alternatives)
	}

	params := map[string]any{
		"variant":                     opts.Variant,
		"default_preference_function": opts.DefaultPreferenceFunction,
		"normalization_method":        opts.NormalizationMethod,
		"normalize_matrix":            opts.NormalizeMatrix,
	}

	return mcdm.NewResult(fmt.Sprintf("%s-%s", p.Name(), opts.Variant), alternatives, net, params, metadata)
}

// resolvePreferences binds a preference function and p/q/s thresholds to
// every criterion, auto-raising p to q where the resolved pair violates
// p >= q.
func (p *PROMETHEE) resolvePreferences(criteria []mcdm.Criterion, opts prometheeOptions) []criterionPreference {
	prefs := make([]criterionPreference, len(criteria))
	for k, crit := range criteria {
		fn := opts.DefaultPreferenceFunction
		if specific, ok := opts.PreferenceFunctions[crit.ID]; ok {
			fn = specific
		}
		pref := criterionPreference{
			function: fn,
			p:        thresholdFor(opts.PThresholds, crit.ID, defaultPThreshold),
			q:        thresholdFor(opts.QThresholds, crit.ID, defaultQThreshold),
			s:        thresholdFor(opts.SThresholds, crit.ID, defaultSThreshold),
		}
		if pref.p < pref.q {
			pref.p = pref.q
		}
		prefs[k] = pref
	}
	return prefs
}

// preferenceIntensity maps a direction-adjusted difference to [0, 1] under
// the criterion's preference function. Non-positive differences never carry
// preference.
func preferenceIntensity(diff float64, pref criterionPreference) float64 {
	if diff <= 0 {
		return 0
	}
	switch pref.function {
	case prefUsual:
		return 1
	case prefUShape:
		if diff <= pref.q {
			return 0
		}
		return 1
	case prefVShape:
		if pref.p <= 0 {
			return 1
		}
		return math.Min(diff/pref.p, 1)
	case prefLevel:
		switch {
		case diff <= pref.q:
			return 0
		case diff <= pref.p:
			return 0.5
		default:
			return 1
		}
	case prefVShapeIndifference:
		switch {
		case diff <= pref.q:
			return 0
		case diff <= pref.p:
			return (diff - pref.q) / (pref.p - pref.q)
		default:
			return 1
		}
	case prefGaussian:
		if pref.s <= 0 {
			return 1
		}
		return 1 - math.Exp(-(diff*diff)/(2*pref.s*pref.s))
	default:
		return 0
	}
}

// preferenceFlows aggregates the preference matrix into positive (row),
// negative (column) and net flows, each averaged over the n-1 opponents.
func preferenceFlows(preference [][]float64) (positive, negative, net []float64) {
	n := len(preference)
	positive = make([]float64, n)
	negative = make([]float64, n)
	net = make([]float64, n)
	if n < 2 {
		return positive, negative, net
	}
	denom := float64(n - 1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			positive[i] += preference[i][j]
			negative[i] += preference[j][i]
		}
		positive[i] /= denom
		negative[i] /= denom
		net[i] = positive[i] - negative[i]
	}
	return positive, negative, net
}

// partialOrder derives the PROMETHEE I relation: 1 marks outranking, 0.5
// mutual indifference; pairs with conflicting flow comparisons are recorded
// as incomparable and left unresolved.
func partialOrder(positive, negative []float64) ([][]float64, [][2]int) {
	n := len(positive)
	outranking := squareMatrix(n)
	var incomparabilities [][2]int

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			posEq := math.Abs(positive[i]-positive[j]) <= flowEpsilon
			negEq := math.Abs(negative[i]-negative[j]) <= flowEpsilon
			iPosBetter := positive[i] > positive[j]+flowEpsilon
			iNegBetter := negative[i] < negative[j]-flowEpsilon
			jPosBetter := positive[j] > positive[i]+flowEpsilon
			jNegBetter := negative[j] < negative[i]-flowEpsilon

			switch {
			case posEq && negEq:
				outranking[i][j] = 0.5
				outranking[j][i] = 0.5
			case (iPosBetter || posEq) && (iNegBetter || negEq):
				outranking[i][j] = 1
			case (jPosBetter || posEq) && (jNegBetter || negEq):
				outranking[j][i] = 1
			default:
				incomparabilities = append(incomparabilities, [2]int{i, j})
			}
		}
	}
	return outranking, incomparabilities
}

func incomparablePairs(pairs [][2]int, alternatives []mcdm.Alternative) [][]string {
	out := make([][]string, len(pairs))
	for i, pair := range pairs {
		out[i] = []string{alternatives[pair[0]].ID, alternatives[pair[1]].ID}
	}
	return out
}
