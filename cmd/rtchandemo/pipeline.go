package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rtchan/rtchan"
)

// newPipelineCmd wires three rtchan stages together with an errgroup
// supervising the goroutines. The generate stage races its send
// against rtchan.FromContext(ctx), so a --timeout short enough to
// fire mid-run demonstrates external cancellation composed as an
// ordinary select case (SPEC_FULL.md §4.11), not a new primitive.
func newPipelineCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Chain generate -> square -> sum stages over rtchan channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			cancelCh := rtchan.FromContext(ctx)

			var g errgroup.Group

			nums := rtchan.NewChan[int](4)
			squares := rtchan.NewChan[int](4)

			g.Go(func() error {
				defer nums.Close()
				for i := 1; i <= 5; i++ {
					sel := rtchan.NewSelect(2)
					sel.Send(nums, 0, i)
					sel.Recv(cancelCh, 1)
					if idx, _, _ := sel.Go(); idx == 1 {
						return errors.Errorf("pipeline canceled after %d of 5 values", i-1)
					}
				}
				return nil
			})
			g.Go(func() error {
				defer squares.Close()
				for {
					v, ok := nums.Recv()
					if !ok {
						return nil
					}
					squares.Send(v * v)
				}
			})

			sum := 0
			for {
				v, ok := squares.Recv()
				if !ok {
					break
				}
				sum += v
			}
			if err := g.Wait(); err != nil {
				return err
			}
			logger.Sugar().Infow("pipeline complete", "sum", sum)
			fmt.Printf("sum of squares 1..5 = %d\n", sum)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "cancel the pipeline via context if it runs longer than this")
	return cmd
}

// newInspectCmd exercises the debug registry (SPEC_FULL.md §4.10),
// printing a snapshot of every live channel's queue depths.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List live channels and their waiter counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			held := make([]*rtchan.Chan[int], 0, 3)
			for i := 0; i < 3; i++ {
				held = append(held, rtchan.NewChan[int](i))
			}
			for _, snap := range rtchan.Inspect() {
				fmt.Printf("chan#%d cap=%d len=%d sendWaiters=%d recvWaiters=%d\n",
					snap.ID, snap.Cap, snap.Len, snap.SendWaiters, snap.RecvWaiters)
			}
			_ = held
			return nil
		},
	}
}
