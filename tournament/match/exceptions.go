package match

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
)

// ScanExceptions reports whether any line of the log at path matches one of matchers. A missing log is not an
// exception
func ScanExceptions(path string, matchers []*regexp.Regexp) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		for _, re := range matchers {
			if re.MatchString(line) {
				return true, nil
			}
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("error reading %s: %w", path, err)
		}
	}
}
