/* report.go
 * The report command renders the results of a log directory in one of the report formats
 */

package cli

import (
	"fmt"
	"strings"

	"robocup-tournament/tournament/report"
	"robocup-tournament/tournament/standings"

	"github.com/spf13/cobra"
)

type reportOptions struct {
	logDir string
	format string
	output string
	opts   report.Options
}

func newReportCommand(streams Streams) *cobra.Command {
	o := &reportOptions{}
	cmd := &cobra.Command{
		Use:           "report",
		Short:         "Render the standings and matches of a tournament",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := standings.Load(o.logDir)
			if err != nil {
				return err
			}
			if o.output == "" || o.output == "-" {
				return report.Write(streams.Out, o.format, s, o.opts)
			}
			if err := report.WriteFile(o.output, o.format, s, o.opts); err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "Report written to %s\n", o.output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.logDir, "log_dir", "", "log directory of the tournament")
	flags.StringVar(&o.format, "format", "text", "report format ("+strings.Join(report.Formats, ", ")+")")
	flags.StringVarP(&o.output, "output", "o", "", "file to write, standard output when empty")
	flags.StringVar(&o.opts.Title, "title", "RoboCup Tournament", "title of the report")
	flags.StringVar(&o.opts.StylesheetURL, "stylesheet_url", "results.xsl", "stylesheet referenced by the xml report")
	flags.StringVar(&o.opts.GameLogExt, "game_log_extension", ".rcg", "extension of the game logs")
	flags.StringVar(&o.opts.TextLogExt, "text_log_extension", ".rcl", "extension of the text logs")
	cmd.MarkFlagRequired("log_dir")
	return cmd
}
