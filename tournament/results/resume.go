/* resume.go
 * Replays the outcome lines of an interrupted tournament so that already played matches are not run again
 */

package results

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"robocup-tournament/tournament/shared"
)

// OriginalSuffix is appended to results.log for the untouched copy made when resuming
const OriginalSuffix = ".original"

// ResumeLog holds the outcome lines of an interrupted run. The live results.log is cut back to its header and
// lines are written back one by one as their matches are skipped
type ResumeLog struct {
	log     *Log
	pending []string
}

// AttachResume prepares logDir for resuming
// Preconditions: Receives the log directory of an interrupted tournament
// Postconditions: results.log is backed up to results.log.original and truncated to its header. An existing
// backup is only replaced by a live log that extends it, so a resume interrupted while replaying keeps every
// recorded line. Returns a RuntimeStateError if the directory does not exist or the two files disagree
func AttachResume(logDir string) (*ResumeLog, error) {
	info, err := os.Stat(logDir)
	if err != nil || !info.IsDir() {
		return nil, shared.NewRuntimeStateError(err, "resume directory not found: %s", logDir)
	}

	r := &ResumeLog{log: NewLog(logDir)}
	backup := &Log{path: r.log.Path() + OriginalSuffix}

	header, lines, err := r.log.Read()
	liveMissing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !liveMissing {
		return nil, err
	}
	backupHeader, backupLines, err := backup.Read()
	backupMissing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !backupMissing {
		return nil, err
	}

	switch {
	case liveMissing && backupMissing:
		// interrupted before the first match finished
		return r, nil
	case liveMissing:
		header, lines = backupHeader, backupLines
	case backupMissing || (isPrefix(backupLines, lines) && len(lines) > len(backupLines)):
		if err := copyFile(r.log.Path(), backup.Path()); err != nil {
			return nil, err
		}
	case isPrefix(lines, backupLines):
		header, lines = backupHeader, backupLines
	default:
		return nil, shared.NewRuntimeStateError(nil, "%s and %s disagree (remove one of them to resume)",
			r.log.Path(), backup.Path())
	}

	if err := r.log.WriteHeader(header); err != nil {
		return nil, err
	}
	r.pending = lines
	return r, nil
}

// ReplayNext appends the next buffered line to results.log
// Preconditions: A buffered line remains
// Postconditions: Returns the replayed line, or a RuntimeStateError if the buffer is exhausted
func (r *ResumeLog) ReplayNext() (string, error) {
	if len(r.pending) == 0 {
		return "", shared.NewRuntimeStateError(nil, "no recorded result left to replay")
	}
	line := r.pending[0]
	if err := r.log.Append(line); err != nil {
		return "", err
	}
	r.pending = r.pending[1:]
	return line, nil
}

// Remaining returns the number of lines not replayed yet
func (r *ResumeLog) Remaining() int {
	return len(r.pending)
}

// Log returns the live results.log the lines are replayed into
func (r *ResumeLog) Log() *Log {
	return r.log
}

// isPrefix reports whether prefix is a leading part of lines
func isPrefix(prefix, lines []string) bool {
	if len(prefix) > len(lines) {
		return false
	}
	for i := range prefix {
		if prefix[i] != lines[i] {
			return false
		}
	}
	return true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("error copying %s: %w", src, err)
	}
	return out.Close()
}
