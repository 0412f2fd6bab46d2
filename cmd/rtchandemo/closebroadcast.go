package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtchan/rtchan"
)

// newCloseBroadcastCmd demonstrates S3 and S4: a blocked recv waking
// to (zero, false) on close, and a send on a closed channel panicking
// with the stable message (spec.md §8).
func newCloseBroadcastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close-broadcast",
		Short: "S3/S4: close wakes blocked recv; send on closed panics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rtchan.NewChan[int](0)
			recvDone := make(chan struct{})
			go func() {
				v, ok := c.Recv()
				logger.Sugar().Infow("blocked recv woke on close", "value", v, "ok", ok)
				fmt.Printf("S3: recv returned (%d, %v)\n", v, ok)
				close(recvDone)
			}()
			time.Sleep(10 * time.Millisecond)
			c.Close()
			<-recvDone

			func() {
				defer func() {
					if r := recover(); r != nil {
						fmt.Printf("S4: send panicked with %q\n", r)
					}
				}()
				c.Send(1)
			}()
			return nil
		},
	}
}
