package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/structus"
)

var rootCmd = &cobra.Command{
	Use:   "structus",
	Short: "Inspect and check structus declaration documents",
	Long:  `structus loads record types from YAML declaration documents, describes them and checks JSON records against them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(verbose)
		structus.SetLogger(logger)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var logger = zerolog.Nop()

// errFailed marks a run that already reported its failures.
var errFailed = errors.New("check failed")

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "types.yaml", "Declaration document")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log schema events at debug level")
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
