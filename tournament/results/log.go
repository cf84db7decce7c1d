/* log.go
 * Access to results.log, the append-only outcome stream the arbitration server writes into the log directory
 */

package results

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the name of the outcome stream inside the log directory
const FileName = "results.log"

// Header is the first line Log.WriteHeader writes. The server writes its own header when it creates the file
const Header = "time, team_l_name, team_r_name, team_l_coach, team_r_coach, team_l_score, team_r_score, " +
	"team_l_pen_taken, team_r_pen_taken, team_l_pen_score, team_r_pen_score, cointoss"

// Log is the results.log file of one tournament
type Log struct {
	path string
}

// NewLog returns the Log inside logDir. Nothing is read or created
func NewLog(logDir string) *Log {
	return &Log{path: filepath.Join(logDir, FileName)}
}

// Path returns the file path of the log
func (l *Log) Path() string {
	return l.path
}

// Exists reports whether the server has created the file
func (l *Log) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Read returns the header and every outcome line after it, without trailing newlines
// Preconditions: The log file exists
// Postconditions: Returns the header, the outcome lines in file order, or an error wrapping fs.ErrNotExist
func (l *Log) Read() (string, []string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return "", nil, fmt.Errorf("error opening %s: %w", l.path, err)
	}
	defer f.Close()

	var header string
	var lines []string
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			header = line
			first = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("error reading %s: %w", l.path, err)
	}
	return header, lines, nil
}

// Outcomes decodes every outcome line
func (l *Log) Outcomes() ([]Outcome, error) {
	_, lines, err := l.Read()
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(lines))
	for i, line := range lines {
		o, err := Decode(line)
		if err != nil {
			return nil, fmt.Errorf("error decoding result %d: %w", i+1, err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// Count returns the number of outcome lines, zero when the file does not exist yet
func (l *Log) Count() (int, error) {
	_, lines, err := l.Read()
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// WriteHeader truncates the file to a single header line
func (l *Log) WriteHeader(header string) error {
	if err := os.WriteFile(l.path, []byte(header+"\n"), 0o644); err != nil {
		return fmt.Errorf("error writing header to %s: %w", l.path, err)
	}
	return nil
}

// Append adds one outcome line to the end of the file
func (l *Log) Append(line string) error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(strings.TrimRight(line, "\r\n") + "\n"); err != nil {
		return fmt.Errorf("error appending to %s: %w", l.path, err)
	}
	return nil
}
