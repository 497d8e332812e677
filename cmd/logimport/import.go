package main

import (
	"fmt"
	"os"

	"logimport/internal/importer"

	"github.com/spf13/cobra"
)

var (
	outputDir  string
	streams    []string
	resetEvery int
)

func init() {
	cmd := newImportCmd()
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the stream files (default: $LOGIMPORT_OUTPUT_DIR or .)")
	cmd.Flags().StringArrayVarP(&streams, "stream", "s", nil, "Only import this stream (repeatable)")
	cmd.Flags().IntVar(&resetEvery, "reset-every", importer.DefaultResetEvery, "Release the chunk buffer after this many chunks")
	rootCmd.AddCommand(cmd)
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Split an output log into one file per stream",
		Long: `Split an output log into one file per stream.

Every stream is written to <output-dir>/<stream>.out. Slashes in stream names
are replaced by underscores; two streams that end up with the same file name
abort the import. Without a file argument (or with "-") the log is read from
stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := importer.Run(cmd.Context(), importer.Config{
				Input:      inputArg(args),
				OutputDir:  resolveOutputDir(outputDir),
				Streams:    streams,
				ResetEvery: resetEvery,
			})
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			for stream, n := range stats.Bytes {
				fmt.Fprintf(os.Stderr, "%s: %d bytes\n", stream, n)
			}
			return nil
		},
	}
}
