// Package methods implements the MCDM method execution engine: the method
// contract, the registry, and the AHP, ELECTRE, PROMETHEE and TOPSIS
// families. Every method is a pure function of (DecisionMatrix, parameters);
// the input matrix is never mutated and each call produces an independently
// owned Result, so callers may run executions concurrently without locking.
package methods

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
)

// Params is a flat key -> value configuration map. Unknown keys are ignored
// and missing keys fall back to the method's defaults.
type Params map[string]any

// Method is the contract every MCDM algorithm family implements.
type Method interface {
	// Name is the short registry name, e.g. "TOPSIS".
	Name() string
	// FullName is the spelled-out method name.
	FullName() string
	// Description explains the method and when it is useful.
	Description() string
	// DefaultParameters returns the full recognized option set with defaults.
	DefaultParameters() Params
	// ValidateParameters checks a parameter map without executing. A nil
	// error means the map is acceptable.
	ValidateParameters(p Params) error
	// Execute runs the method over the matrix. params may be nil to run
	// with defaults. The matrix is read-only to the method.
	Execute(matrix *mcdm.DecisionMatrix, params Params) (*mcdm.Result, error)
}

// decodeParams overlays a parameter map onto a pre-filled options struct.
// Decoding is weakly typed so YAML-sourced values (ints for floats, []any
// for numeric slices) land cleanly; keys not present in the struct are
// ignored per the contract.
func decodeParams(p Params, into any) error {
	if len(p) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           into,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return mcdm.NewValidationError("malformed parameters", err.Error())
	}
	return nil
}

// methodErr tags any non-validation failure with the method name. Validation
// errors pass through untouched so callers can distinguish the two kinds.
func methodErr(name string, err error) error {
	if err == nil {
		return nil
	}
	var ve *mcdm.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return mcdm.NewMethodError(name, err)
}

// checkSquare validates a user-supplied pairwise comparison matrix shape.
func checkSquare(matrix [][]float64, size int, what string) error {
	if len(matrix) != size {
		return mcdm.NewValidationError(
			fmt.Sprintf("%s has incorrect dimensions", what),
			fmt.Sprintf("expected %dx%d, got %d rows", size, size, len(matrix)))
	}
	for i, row := range matrix {
		if len(row) != size {
			return mcdm.NewValidationError(
				fmt.Sprintf("%s has incorrect dimensions", what),
				fmt.Sprintf("expected %dx%d, row %d has %d columns", size, size, i, len(row)))
		}
	}
	return nil
}

// thresholdFor resolves a per-criterion threshold map entry with a fallback.
func thresholdFor(m map[string]float64, criterionID string, fallback float64) float64 {
	if v, ok := m[criterionID]; ok {
		return v
	}
	return fallback
}
