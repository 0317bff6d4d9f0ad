package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tcroft/mcdm/internal/config"
	"github.com/tcroft/mcdm/pkg/core/mcdm"
	"github.com/tcroft/mcdm/pkg/core/services"
)

// AnalyzeCmd creates the analyze command
func AnalyzeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <problem.yaml>",
		Short: "Run a decision analysis method on a problem file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			methodOverride, _ := cmd.Flags().GetString("method")
			asJSON, _ := cmd.Flags().GetBool("json")

			problem, err := config.LoadProblem(args[0])
			if err != nil {
				return err
			}

			matrix, err := problem.Matrix()
			if err != nil {
				return err
			}

			methodName := problem.Method
			if methodOverride != "" {
				methodName = methodOverride
			}

			result, err := services.Analyze(app.Ctx, app.Registry, app.Logger, services.AnalysisRequest{
				Matrix:     matrix,
				Method:     methodName,
				Parameters: problem.MethodParameters(),
			})
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			printResult(problem.Name, result)
			return nil
		},
	}

	cmd.Flags().String("method", "", "Override the method named in the problem file")
	cmd.Flags().Bool("json", false, "Print the full result as JSON")

	return cmd
}

func printResult(problemName string, result *mcdm.Result) {
	fmt.Printf("\n%s (%s)\n\n", problemName, result.MethodName())
	for _, ranked := range result.SortedAlternatives() {
		fmt.Printf("  %2d. %-24s %.4f\n", ranked.Rank, ranked.Name, ranked.Score)
	}
	fmt.Printf("\nCompleted in %.3fs\n\n", result.ExecutionTime())
}
