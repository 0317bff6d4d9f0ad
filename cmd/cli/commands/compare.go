package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tcroft/mcdm/internal/config"
	"github.com/tcroft/mcdm/pkg/core/methods"
	"github.com/tcroft/mcdm/pkg/core/services"
)

// CompareCmd creates the compare command
func CompareCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <problem.yaml>",
		Short: "Run several methods on the same problem and compare rankings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			methodNames, _ := cmd.Flags().GetStringSlice("methods")

			problem, err := config.LoadProblem(args[0])
			if err != nil {
				return err
			}

			matrix, err := problem.Matrix()
			if err != nil {
				return err
			}

			if len(methodNames) == 0 {
				methodNames = app.Registry.Available()
			}

			// The problem file's parameters apply only to its own method;
			// the others run with defaults.
			parameters := map[string]methods.Params{
				problem.Method: problem.MethodParameters(),
			}

			results, err := services.CompareMethods(app.Ctx, app.Registry, app.Logger, matrix, methodNames, parameters)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Printf("\n%s\n\n", problem.Name)
			for _, name := range names {
				result := results[name]
				best := result.Best()
				fmt.Printf("  %-16s best: %-24s %.4f\n", name, best.Name, best.Score)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringSlice("methods", nil, "Methods to compare (default: all registered)")

	return cmd
}
