package cmd

import (
	"fmt"

	"github.com/serroba/editops/internal/editop"
	"github.com/serroba/editops/internal/preview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// applyResult is the structured output of the apply command.
type applyResult struct {
	Input      string              `json:"input"             yaml:"input"`
	Output     string              `json:"output"            yaml:"output"`
	Operations []editop.Descriptor `json:"operations"        yaml:"operations"`
	Preview    []preview.Span      `json:"preview,omitempty" yaml:"preview,omitempty"`
}

type applyOptions struct {
	input   string
	preview bool
	color   bool
}

func newApplyCmd() *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply --input TEXT OPERATION...",
		Short: "Apply edit operations to a text",
		Long: `Apply the operations in order to the input text and print the result.

Each operation sees the text left by the previous one.`,
		Example: `  editops apply --input "hello world" '"world"@7x5="there"'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.input, inputFlagName, "i", "", "text the operations are applied to")
	cmd.Flags().BoolVar(&opts.preview, previewFlagName, false, "also print a character diff of input and output")
	cmd.Flags().BoolVar(&opts.color, colorFlagName, false, "color the preview for a terminal")

	return cmd
}

func runApply(cmd *cobra.Command, opts applyOptions, args []string) error {
	ops, err := editop.ParseAll(args)
	if err != nil {
		return err
	}

	output, err := editop.ApplyAll(opts.input, ops)
	if err != nil {
		return err
	}

	result := applyResult{
		Input:      opts.input,
		Output:     output,
		Operations: editop.DescribeAll(ops),
	}

	if opts.preview {
		result.Preview = preview.Compute(opts.input, output)
	}

	handled, err := writeStructured(cmd.OutOrStdout(), viper.GetString(outputFormatKey), result)
	if handled {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output)

	if opts.preview {
		if opts.color {
			fmt.Fprintln(out, preview.RenderANSI(opts.input, output))
		} else {
			fmt.Fprintln(out, preview.Render(result.Preview))
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(newApplyCmd())
}
