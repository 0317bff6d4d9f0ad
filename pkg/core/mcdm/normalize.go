package mcdm

import (
	"fmt"
	"math"
)

// NormMethod selects a normalization policy for decision matrix values.
type NormMethod string

const (
	// NormMinMax rescales each column to [0, 1] by its range.
	NormMinMax NormMethod = "minmax"
	// NormSum divides each column by its sum.
	NormSum NormMethod = "sum"
	// NormMax divides each column by its maximum.
	NormMax NormMethod = "max"
	// NormVector divides each column by its Euclidean norm.
	NormVector NormMethod = "vector"
)

// ParseNormMethod converts a string into a NormMethod, defaulting empty
// input to NormMinMax.
func ParseNormMethod(s string) (NormMethod, error) {
	switch NormMethod(s) {
	case NormMinMax, NormSum, NormMax, NormVector:
		return NormMethod(s), nil
	case "":
		return NormMinMax, nil
	default:
		return "", NewValidationError("unknown normalization method", s)
	}
}

// degenerateColumn is the value every cell of a column maps to when the
// column cannot discriminate between alternatives (max == min, or a zero
// sum/max/norm). A constant contributes the same offset to every alternative
// for either direction.
const degenerateColumn = 0.5

// NormalizeValues rescales a raw matrix column by column. The result is
// direction-aware: after normalization larger is better for every criterion,
// under every policy. Cost columns use the mirrored min-max formula, or are
// inverted as 1 - normalized for the sum, max and vector policies.
//
// A ValidationError is returned for non-finite cells or an unknown method.
func NormalizeValues(values [][]float64, criteria []Criterion, method NormMethod) ([][]float64, error) {
	if len(values) == 0 || len(criteria) == 0 {
		return nil, NewValidationError("cannot normalize an empty matrix")
	}
	for i, row := range values {
		if len(row) != len(criteria) {
			return nil, NewValidationError("matrix shape mismatch",
				fmt.Sprintf("row %d has %d values, expected %d", i, len(row), len(criteria)))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, NewValidationError("matrix contains non-finite values",
					fmt.Sprintf("cell (%d, %d) is %v", i, j, v))
			}
		}
	}

	n := len(values)
	normalized := make([][]float64, n)
	for i := range normalized {
		normalized[i] = make([]float64, len(criteria))
	}

	for j, crit := range criteria {
		col := make([]float64, n)
		for i := range values {
			col[i] = values[i][j]
		}

		var out []float64
		var err error
		switch method {
		case NormMinMax:
			out = normalizeMinMax(col, crit)
		case NormSum:
			out = normalizeDivisor(col, crit, columnSum(col))
		case NormMax:
			out = normalizeDivisor(col, crit, columnMax(col))
		case NormVector:
			out = normalizeDivisor(col, crit, columnNorm(col))
		default:
			err = NewValidationError("unknown normalization method", string(method))
		}
		if err != nil {
			return nil, err
		}
		for i := range out {
			normalized[i][j] = out[i]
		}
	}

	return normalized, nil
}

func normalizeMinMax(col []float64, crit Criterion) []float64 {
	minV, maxV := col[0], col[0]
	for _, v := range col[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	out := make([]float64, len(col))
	if maxV == minV {
		for i := range out {
			out[i] = degenerateColumn
		}
		return out
	}
	for i, v := range col {
		if crit.IsCost() {
			out[i] = (maxV - v) / (maxV - minV)
		} else {
			out[i] = (v - minV) / (maxV - minV)
		}
	}
	return out
}

// normalizeDivisor covers the sum, max and vector policies: divide by the
// column statistic, then invert cost columns as 1 - normalized.
func normalizeDivisor(col []float64, crit Criterion, divisor float64) []float64 {
	out := make([]float64, len(col))
	if divisor == 0 {
		for i := range out {
			out[i] = degenerateColumn
		}
		return out
	}
	for i, v := range col {
		out[i] = v / divisor
		if crit.IsCost() {
			out[i] = 1 - out[i]
		}
	}
	return out
}

func columnSum(col []float64) float64 {
	sum := 0.0
	for _, v := range col {
		sum += v
	}
	return sum
}

func columnMax(col []float64) float64 {
	maxV := col[0]
	for _, v := range col[1:] {
		maxV = math.Max(maxV, v)
	}
	return maxV
}

func columnNorm(col []float64) float64 {
	sumSq := 0.0
	for _, v := range col {
		sumSq += v * v
	}
	return math.Sqrt(sumSq)
}
