// Package cmd provides the root command and CLI setup for editops.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// outputFormatFlag selects text, json or yaml output for commands that print operations.
var outputFormatFlag string

// verboseFlag turns on debug logging.
var verboseFlag bool

// logFileFlag overrides log.filename.
var logFileFlag string

const rootLongDescription = `Editops reads, writes and computes edit scripts: short operations such as
"abc"@1x3! or @4+="x" that describe how one text turns into another.

Positions are 1-based and count UTF-16 code units.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func init() {
	configureRootFlags(rootCmd)
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "editops",
		Short:        "Edit operation toolkit",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputFormatFlag, formatFlagName, "f",
			viper.GetString(outputFormatKey),
			"output format: text, json or yaml",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(formatFlagName), outputFormatKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), `log file, or "-" for stderr`)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
