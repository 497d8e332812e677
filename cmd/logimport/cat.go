package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"logimport/internal/importer"
	"logimport/pkg/outputlog"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	catStream string
	force     bool
)

func init() {
	cmd := newCatCmd()
	cmd.Flags().StringVarP(&catStream, "stream", "s", "stdout", "Stream to print")
	cmd.Flags().BoolVar(&force, "force", false, "Write binary data to a terminal")
	rootCmd.AddCommand(cmd)
}

// textGuard refuses to pass NUL bytes to a terminal
type textGuard struct {
	w io.Writer
}

var errBinaryOutput = errors.New("stream contains binary data, refusing to write it to a terminal (use --force)")

func (g textGuard) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, 0) >= 0 {
		return 0, errBinaryOutput
	}
	return g.w.Write(p)
}

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat [file]",
		Short: "Print the content of one stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !outputlog.ValidStreamName(catStream) {
				return fmt.Errorf("invalid stream name %q", catStream)
			}
			var out io.Writer = os.Stdout
			if !force && term.IsTerminal(int(os.Stdout.Fd())) {
				out = textGuard{w: os.Stdout}
			}
			_, err := importer.Cat(cmd.Context(), inputArg(args), catStream, out)
			return err
		},
	}
}
