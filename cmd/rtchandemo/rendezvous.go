package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtchan/rtchan"
)

// newRendezvousCmd demonstrates S1: unbuffered handoff (spec.md §8).
func newRendezvousCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rendezvous",
		Short: "S1: unbuffered send/recv handoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rtchan.NewChan[int](0)
			done := make(chan struct{})
			go func() {
				c.Send(42)
				close(done)
			}()
			v, ok := c.Recv()
			<-done
			logger.Sugar().Infow("rendezvous complete", "value", v, "ok", ok, "len", c.Len())
			fmt.Printf("received %d (ok=%v), channel len=%d\n", v, ok, c.Len())
			return nil
		},
	}
}
