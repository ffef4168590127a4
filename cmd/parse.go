package cmd

import (
	"github.com/serroba/editops/internal/editop"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const parseLongDescription = `Parse one operation per argument and print it in canonical form.

With --format json or yaml each operation is printed as a descriptor.`

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "parse OPERATION...",
		Short:   "Parse edit operations",
		Long:    parseLongDescription,
		Example: `  editops parse '"abc"@1x3!' '@4+="x" (typo) [fix]'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := editop.ParseAll(args)
			if err != nil {
				return err
			}

			handled, err := writeStructured(cmd.OutOrStdout(), viper.GetString(outputFormatKey), editop.DescribeAll(ops))
			if handled {
				return err
			}

			return renderOperationTable(cmd.OutOrStdout(), ops)
		},
	}
}

func init() {
	rootCmd.AddCommand(newParseCmd())
}
