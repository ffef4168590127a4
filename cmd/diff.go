package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/serroba/editops/internal/collab"
	"github.com/serroba/editops/internal/editop"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const diffLongDescription = `Compute an edit script that turns SOURCE into TARGET.

With --batch FILE, read a YAML list of pairs instead:

  - name: greeting
    source: hello world
    target: hello there

Pairs are diffed concurrently, --parallel at a time.`

// diffPair is one entry of a batch file.
type diffPair struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// diffResult is the structured output for one pair.
type diffResult struct {
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Operations []editop.Descriptor `json:"operations"     yaml:"operations"`

	ops []editop.Operation
}

func newDiffCmd() *cobra.Command {
	var batchFile string

	cmd := &cobra.Command{
		Use:   "diff SOURCE TARGET",
		Short: "Compute the edit script between two texts",
		Long:  diffLongDescription,
		Args: func(cmd *cobra.Command, args []string) error {
			if batchFile != "" {
				return cobra.NoArgs(cmd, args)
			}

			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := diffSettings()

			if batchFile == "" {
				ops := editop.Diff(args[0], args[1], settings.Options()...)

				return writeDiffResults(cmd.OutOrStdout(), []diffResult{newDiffResult("", ops)}, false)
			}

			pairs, err := readDiffPairs(batchFile)
			if err != nil {
				return err
			}

			results, err := diffBatch(pairs, settings, viper.GetInt(diffParallelKey))
			if err != nil {
				return err
			}

			return writeDiffResults(cmd.OutOrStdout(), results, true)
		},
	}

	configureDiffFlags(cmd, &batchFile)

	return cmd
}

func configureDiffFlags(cmd *cobra.Command, batchFile *string) {
	defaults := collab.DefaultDiffSettings()

	cmd.Flags().Bool(adjustFlagName, defaults.Adjust, "merge delete/insert pairs into moves")
	bindFlagToConfig(cmd.Flags().Lookup(adjustFlagName), diffAdjustKey)

	cmd.Flags().Bool(insertOnlyFlagName, defaults.InsertOnly, "only merge deletes with pure inserts")
	bindFlagToConfig(cmd.Flags().Lookup(insertOnlyFlagName), diffInsertOnlyKey)

	cmd.Flags().Bool(inputTextFlagName, defaults.IncludeInputText, "record the replaced text in each operation")
	bindFlagToConfig(cmd.Flags().Lookup(inputTextFlagName), diffIncludeInputTextKey)

	cmd.Flags().IntP(parallelFlagName, "p", defaultDiffParallel, "number of pairs diffed at once in batch mode")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), diffParallelKey)

	cmd.Flags().StringVarP(batchFile, batchFlagName, "b", "", `YAML file of {name, source, target} pairs, or "-" for stdin`)
}

func newDiffResult(name string, ops []editop.Operation) diffResult {
	return diffResult{Name: name, Operations: editop.DescribeAll(ops), ops: ops}
}

func readDiffPairs(path string) ([]diffPair, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var pairs []diffPair
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("decode batch file %s: %w", path, err)
	}

	return pairs, nil
}

// diffBatch diffs every pair, at most parallel at a time, keeping input order.
func diffBatch(pairs []diffPair, settings collab.DiffSettings, parallel int) ([]diffResult, error) {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]diffResult, len(pairs))
	opts := settings.Options()

	var group errgroup.Group

	group.SetLimit(parallel)

	for i, pair := range pairs {
		name := pair.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}

		group.Go(func() error {
			results[i] = newDiffResult(name, editop.Diff(pair.Source, pair.Target, opts...))

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func writeDiffResults(w io.Writer, results []diffResult, batch bool) error {
	var structured any = results
	if !batch {
		structured = results[0].Operations
	}

	handled, err := writeStructured(w, viper.GetString(outputFormatKey), structured)
	if handled {
		return err
	}

	for i, res := range results {
		if batch {
			if i > 0 {
				fmt.Fprintln(w)
			}

			fmt.Fprintf(w, "# %s\n", res.Name)
		}

		for _, op := range res.ops {
			fmt.Fprintln(w, op.String())
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(newDiffCmd())
}
