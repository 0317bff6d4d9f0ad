package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tcroft/mcdm/pkg/core/mcdm"
	"github.com/tcroft/mcdm/pkg/core/methods"
)

// AnalysisRequest describes one decision analysis run.
type AnalysisRequest struct {
	Matrix     *mcdm.DecisionMatrix
	Method     string
	Parameters methods.Params
}

// Analyze resolves the requested method from the registry, runs it against
// the decision matrix and stamps the wall-clock execution time on the result.
func Analyze(ctx context.Context, registry *methods.Registry, logger *zap.Logger, req AnalysisRequest) (*mcdm.Result, error) {
	if req.Matrix == nil {
		return nil, mcdm.NewValidationError("decision matrix is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, cols := req.Matrix.Shape()
	logger.Debug("Resolving analysis method",
		zap.String("method", req.Method),
		zap.Int("alternatives", rows),
		zap.Int("criteria", cols))

	method, err := registry.CreateWithParams(req.Method, req.Parameters)
	if err != nil {
		return nil, err
	}

	logger.Debug("Executing analysis",
		zap.String("method", method.Name()),
		zap.String("matrix", req.Matrix.Name()))

	start := time.Now()
	result, err := method.Execute(req.Matrix, req.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", method.Name(), err)
	}
	result.SetExecutionTime(time.Since(start).Seconds())

	best := result.Best()
	logger.Info("Analysis complete",
		zap.String("method", result.MethodName()),
		zap.String("best_alternative", best.Name),
		zap.Float64("best_score", best.Score),
		zap.Float64("execution_seconds", result.ExecutionTime()))

	return result, nil
}

// CompareMethods runs the same decision matrix through several methods and
// collects the results keyed by resolved method name. Per-method parameters
// are optional.
func CompareMethods(ctx context.Context, registry *methods.Registry, logger *zap.Logger, matrix *mcdm.DecisionMatrix, methodNames []string, parameters map[string]methods.Params) (map[string]*mcdm.Result, error) {
	if len(methodNames) == 0 {
		return nil, mcdm.NewValidationError("at least one method is required")
	}

	results := make(map[string]*mcdm.Result, len(methodNames))
	for _, name := range methodNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := Analyze(ctx, registry, logger, AnalysisRequest{
			Matrix:     matrix,
			Method:     name,
			Parameters: parameters[name],
		})
		if err != nil {
			return nil, fmt.Errorf("comparison failed at %s: %w", name, err)
		}
		results[result.MethodName()] = result
	}

	logger.Debug("Method comparison complete", zap.Int("methods", len(results)))
	return results, nil
}
