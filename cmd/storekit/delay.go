package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/storekit/internal/errors"
	"github.com/vango-dev/storekit/pkg/eventual"
)

func delayCmd() *cobra.Command {
	var (
		d       time.Duration
		fail    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "delay [value]",
		Short: "Settle a delayed future",
		Long: `Create a future that settles after --for and report when it did.

Without --fail the value is resolved as is. With --fail it is produced
by a function that panics, the future is rejected and the command exits
with an error.

Examples:
  storekit delay hello --for=500ms
  storekit delay --fail --for=0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := "done"
			if len(args) == 1 {
				value = args[0]
			}
			return runDelay(cmd, value, d, fail, timeout)
		},
	}

	cmd.Flags().DurationVar(&d, "for", 100*time.Millisecond, "Delay before the future settles")
	cmd.Flags().BoolVar(&fail, "fail", false, "Reject instead of resolving")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Give up waiting after this long")

	return cmd
}

func runDelay(cmd *cobra.Command, value string, d time.Duration, fail bool, timeout time.Duration) error {
	w := cmd.OutOrStdout()
	if timeout <= 0 {
		return errors.New("E200").WithDetail("--timeout must be positive")
	}

	start := time.Now()
	var f *eventual.Future[string]
	if fail {
		f = eventual.DelayFunc(func() string {
			panic(fmt.Errorf("rejected %q", value))
		}, d)
	} else {
		f = eventual.Delay(value, d)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	got, err := f.Await(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	switch {
	case ctx.Err() != nil:
		return errors.New("E301").
			WithDetail(fmt.Sprintf("Delay of %s did not settle within %s", d, timeout))
	case err != nil:
		return errors.New("E300").
			WithDetail(fmt.Sprintf("The delayed future was rejected after %s.", elapsed)).
			Wrap(err)
	default:
		success(w, "resolved %q after %s", got, elapsed)
	}
	return nil
}
