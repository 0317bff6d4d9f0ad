package mcdm

import "fmt"

// Direction states whether larger or smaller raw values are better for a
// criterion.
type Direction string

const (
	Maximize Direction = "maximize"
	Minimize Direction = "minimize"
)

// ParseDirection converts a string into a Direction, defaulting empty input
// to Maximize.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Maximize, Minimize:
		return Direction(s), nil
	case "":
		return Maximize, nil
	default:
		return "", fmt.Errorf("unknown optimization direction %q", s)
	}
}

// Criterion is one evaluation dimension of a decision problem.
type Criterion struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Direction   Direction `json:"direction"`
	Weight      float64   `json:"weight"`
	Unit        string    `json:"unit,omitempty"`
}

// IsBenefit reports whether larger values are better.
func (c Criterion) IsBenefit() bool {
	return c.Direction != Minimize
}

// IsCost reports whether smaller values are better.
func (c Criterion) IsCost() bool {
	return c.Direction == Minimize
}

// NormalizedWeights returns the criteria weights scaled to sum to 1. When all
// weights are zero the uniform vector is substituted.
func NormalizedWeights(criteria []Criterion) []float64 {
	n := len(criteria)
	weights := make([]float64, n)
	sum := 0.0
	for i, c := range criteria {
		weights[i] = c.Weight
		sum += c.Weight
	}
	if sum <= 0 {
		for i := range weights {
			weights[i] = 1.0 / float64(n)
		}
		return weights
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
