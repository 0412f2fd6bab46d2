// Command rtchandemo drives the end-to-end scenarios of rtchan's
// channel and select engine from the command line, one cobra
// subcommand per scenario (S3 and S4 share close-broadcast), plus
// pipeline and inspect.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.Logger

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "rtchandemo"))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "rtchandemo",
		Short: "Run scenarios against the rtchan channel/select engine",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewDevelopmentConfig()
			if !verbose {
				cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return errors.Wrap(err, "building logger")
			}
			logger = l
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newRendezvousCmd(),
		newBufferedCmd(),
		newCloseBroadcastCmd(),
		newSelectFairnessCmd(),
		newSelectDefaultCmd(),
		newPipelineCmd(),
		newCancelCmd(),
		newInspectCmd(),
	)
	return cmd
}
