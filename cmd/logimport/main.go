package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"logimport/pkg/strbuf"
)

// exitOnContractViolation turns a panic from the buffer layer into the
// classic fatal exit.
func exitOnContractViolation() {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok || !(errors.Is(err, strbuf.ErrContract) || errors.Is(err, strbuf.ErrAllocationOverflow)) {
		panic(r)
	}
	fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
	os.Exit(128)
}

func main() {
	defer exitOnContractViolation()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
