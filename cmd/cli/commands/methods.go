package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MethodsCmd creates the methods command
func MethodsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the registered decision analysis methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println()
			for _, name := range app.Registry.Available() {
				info, err := app.Registry.Info(name)
				if err != nil {
					return err
				}
				fmt.Printf("  %-12s %s\n", info.Name, info.FullName)
			}
			fmt.Println()
			return nil
		},
	}
}
