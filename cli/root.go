// Package cli implements the command line of the tournament runner. The default command runs a tournament; the
// others play a single match, render reports, follow a running tournament and serve or chat about its results.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Streams are where commands write
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// NewRootCommand creates the command tree. The root command and the commands that read the tournament
// configuration take --key, --no-key and --key=value tokens instead of cobra flags
func NewRootCommand(streams Streams) *cobra.Command {
	root := &cobra.Command{
		Use:   "robocup-tournament [--config=<file>] [--key=value ...]",
		Short: "Run a RoboCup soccer simulation tournament",
		Long: `Runs every match of a tournament between the configured teams on the configured hosts, records the
results and prints the standings. Every configuration key can be given as --key=value, --key or --no-key.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			return runTournament(cmd.Context(), args, streams)
		},
	}
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	root.AddCommand(
		newSingleCommand(streams),
		newReportCommand(streams),
		newWatchCommand(streams),
		newServeCommand(streams),
		newBotCommand(streams),
	)
	return root
}

// Execute runs the command line args under ctx
func Execute(ctx context.Context, args []string, streams Streams) error {
	root := NewRootCommand(streams)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
