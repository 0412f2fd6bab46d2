package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtchan/rtchan"
)

// newBufferedCmd demonstrates S2: buffered ordering (spec.md §8).
func newBufferedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buffered",
		Short: "S2: buffered channel FIFO ordering",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rtchan.NewChan[int](3)
			c.Send(1)
			c.Send(2)
			c.Send(3)
			for i := 0; i < 3; i++ {
				v, ok := c.Recv()
				logger.Sugar().Infow("buffered recv", "value", v, "ok", ok)
				fmt.Printf("recv %d (ok=%v)\n", v, ok)
			}
			fmt.Printf("final len=%d\n", c.Len())
			return nil
		},
	}
}
