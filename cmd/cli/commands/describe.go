package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// DescribeCmd creates the describe command
func DescribeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <method>",
		Short: "Show a method's description and default parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.Registry.Info(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n%s - %s\n\n%s\n\n", info.Name, info.FullName, info.Description)

			if len(info.DefaultParameters) > 0 {
				keys := make([]string, 0, len(info.DefaultParameters))
				for k := range info.DefaultParameters {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				fmt.Println("Default parameters:")
				for _, k := range keys {
					fmt.Printf("  %-40s %v\n", k, info.DefaultParameters[k])
				}
				fmt.Println()
			}

			return nil
		},
	}
}
