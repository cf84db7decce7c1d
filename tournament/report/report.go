/* report.go
 * Renders standings as the structured results document, a plain text summary or a spreadsheet
 */

package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"robocup-tournament/tournament/shared"
	"robocup-tournament/tournament/standings"
)

// Options carries the settings that appear in reports but are not part of the standings
type Options struct {
	Title         string
	StylesheetURL string
	GameLogExt    string
	TextLogExt    string
}

// Formats lists the accepted output format names
var Formats = []string{"xml", "text", "xlsx"}

// Write renders s in the named format
// Preconditions: Receives a writer, standings, options and one of Formats ("txt" is accepted for text)
// Postconditions: The report is written to w, or an error is returned for unknown formats and write failures
func Write(w io.Writer, format string, s *standings.Standings, opts Options) error {
	switch strings.ToLower(format) {
	case "xml":
		return WriteXML(w, s, opts)
	case "text", "txt":
		return WriteText(w, s)
	case "xlsx":
		return WriteXLSX(w, s, opts)
	default:
		return shared.NewRuntimeStateError(nil, "unknown output format '%s', expected one of %s", format, strings.Join(Formats, ", "))
	}
}

// WriteFile renders s into the file at path, replacing it
func WriteFile(path, format string, s *standings.Standings, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := Write(f, format, s, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatAvg(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
