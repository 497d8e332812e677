package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "logimport",
	Short: "logimport - Import multiplexed output logs",
	Long:  `logimport reads output logs (several streams multiplexed into one file) and splits, prints or lists them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// inputArg returns the input path, "" for standard input
func inputArg(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return ""
	}
	return args[0]
}

// resolveOutputDir falls back to $LOGIMPORT_OUTPUT_DIR, then to the current directory
func resolveOutputDir(dir string) string {
	if dir != "" {
		return dir
	}
	if env := os.Getenv("LOGIMPORT_OUTPUT_DIR"); env != "" {
		return env
	}
	return "."
}
