package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"
)

func Exit(code int) {
	os.Exit(code)
}

func ExitError(ctx context.Context, err error) {
	logger := log.MustLogger(ctx)
	logger.Error(err.Error())
	Exit(1)
}

// GetRunFn adapts an error returning run function to cobra's Run signature, logging the error
// and exiting non-zero on failure.
func GetRunFn(runEFn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := runEFn(cmd, args); err != nil {
			ExitError(cmd.Context(), err)
		}
	}
}
