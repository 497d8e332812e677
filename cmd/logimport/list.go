package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"logimport/pkg/linebuffer"
	"logimport/pkg/outputlog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	streamColor = color.New(color.FgHiCyan)
	timeColor   = color.New(color.FgYellow)
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [file]",
		Short: "List the chunks of an output log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			lb, err := linebuffer.Open(inputArg(args))
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, lb.Close())
			}()
			return listChunks(outputlog.NewReader(lb), os.Stdout)
		},
	}
}

func listChunks(reader *outputlog.Reader, w io.Writer) error {
	for {
		h, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s %d\n",
			streamColor.Sprint(h.Stream),
			timeColor.Sprint(h.Timestamp.Format(outputlog.TimestampFormat)),
			h.Length)
	}
}
