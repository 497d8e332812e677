package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"logimport/pkg/outputlog"

	"github.com/spf13/cobra"
)

var encodeStream string

func init() {
	cmd := newEncodeCmd()
	cmd.Flags().StringVarP(&encodeStream, "stream", "s", "stdout", "Stream name for the chunks")
	rootCmd.AddCommand(cmd)
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Wrap stdin into output log chunks on stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !outputlog.ValidStreamName(encodeStream) {
				return fmt.Errorf("invalid stream name %q", encodeStream)
			}
			writer := outputlog.NewOutputLogWriter(os.Stdout)
			_, err := io.Copy(writer.StreamWriter(encodeStream), os.Stdin)
			return errors.Join(err, writer.Close())
		},
	}
}
