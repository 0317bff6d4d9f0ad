package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tcroft/mcdm/cmd/cli/commands"
	"github.com/tcroft/mcdm/pkg/core/methods"
	"github.com/tcroft/mcdm/pkg/utils/logging"
)

var (
	verbose bool
	app     *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcdm",
		Short: "MCDM CLI - Rank alternatives with multi-criteria decision methods",
		Long:  `A CLI tool for running multi-criteria decision analysis (AHP, ELECTRE, PROMETHEE, TOPSIS) on problem files.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on the console")

	rootCmd.AddCommand(commands.AnalyzeCmd(appRef()))
	rootCmd.AddCommand(commands.CompareCmd(appRef()))
	rootCmd.AddCommand(commands.MethodsCmd(appRef()))
	rootCmd.AddCommand(commands.DescribeCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared context so commands built before initApp runs
// still see the initialized dependencies.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up the logger and method registry
func initApp() error {
	ctx := appRef()

	logger, err := logging.InitLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx.Logger = logger
	ctx.Registry = methods.Default()
	ctx.Ctx = context.Background()

	logger.Debug("Application initialized", zap.Strings("methods", ctx.Registry.Available()))

	return nil
}
