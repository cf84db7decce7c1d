/* outcome.go
 * The outcome of one match as the arbitration server records it, and the codec for the comma separated line
 * format of results.log
 */

package results

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"robocup-tournament/tournament/shared"

	"github.com/go-andiamo/splitter"
)

// TimeLayout is the timestamp layout Encode writes
const TimeLayout = "2006-01-02 15:04:05"

// fieldCount is the number of leading fields of a results line that carry the outcome. Anything after them
// (the coin toss) is ignored
const fieldCount = 11

const null = "NULL"

// timeLayouts are tried in order when decoding a timestamp
var timeLayouts = []string{
	TimeLayout,
	time.RFC3339,
	time.ANSIC,
	"2006-01-02T15:04:05",
}

// Outcome is one decoded line of results.log
type Outcome struct {
	Time              time.Time
	LeftName          string
	RightName         string
	LeftCoach         string
	RightCoach        string
	LeftScore         int
	RightScore        int
	LeftPenaltyTaken  int
	RightPenaltyTaken int
	LeftPenaltyScore  int
	RightPenaltyScore int
}

// Penalty reports whether a penalty shootout took place
func (o Outcome) Penalty() bool {
	return o.LeftPenaltyTaken > 0 || o.RightPenaltyTaken > 0
}

// Name returns the team name recorded for side, empty when the server wrote NULL
func (o Outcome) Name(side shared.Side) string {
	if side == shared.Left {
		return o.LeftName
	}
	return o.RightName
}

// Coach returns the coach name recorded for side
func (o Outcome) Coach(side shared.Side) string {
	if side == shared.Left {
		return o.LeftCoach
	}
	return o.RightCoach
}

// Score returns the regulation score of side
func (o Outcome) Score(side shared.Side) int {
	if side == shared.Left {
		return o.LeftScore
	}
	return o.RightScore
}

// PenaltyTaken returns the number of penalty kicks side took
func (o Outcome) PenaltyTaken(side shared.Side) int {
	if side == shared.Left {
		return o.LeftPenaltyTaken
	}
	return o.RightPenaltyTaken
}

// PenaltyScore returns the number of penalty kicks side converted
func (o Outcome) PenaltyScore(side shared.Side) int {
	if side == shared.Left {
		return o.LeftPenaltyScore
	}
	return o.RightPenaltyScore
}

// Goals is the tally that decides the match for side: regulation goals plus converted penalties when a shootout
// took place
func (o Outcome) Goals(side shared.Side) int {
	if o.Penalty() {
		return o.Score(side) + o.PenaltyScore(side)
	}
	return o.Score(side)
}

// Decode parses one results.log line
// Preconditions: Receives a line without the header, the trailing newline is optional
// Postconditions: Returns the Outcome, or an error if the line has too few fields or a field does not parse
func Decode(line string) (Outcome, error) {
	fields, err := splitFields(line)
	if err != nil {
		return Outcome{}, err
	}
	if len(fields) < fieldCount {
		return Outcome{}, fmt.Errorf("malformed results line %q: expected %d fields, got %d", line, fieldCount, len(fields))
	}

	var o Outcome
	if o.Time, err = parseTime(fields[0]); err != nil {
		return Outcome{}, err
	}
	o.LeftName = parseString(fields[1])
	o.RightName = parseString(fields[2])
	o.LeftCoach = parseString(fields[3])
	o.RightCoach = parseString(fields[4])

	ints := []*int{
		&o.LeftScore, &o.RightScore,
		&o.LeftPenaltyTaken, &o.RightPenaltyTaken,
		&o.LeftPenaltyScore, &o.RightPenaltyScore,
	}
	for i, dst := range ints {
		if *dst, err = parseInt(fields[5+i]); err != nil {
			return Outcome{}, fmt.Errorf("malformed results line %q: %w", line, err)
		}
	}
	return o, nil
}

// Encode formats o as a results.log line without the trailing newline. Empty names become NULL, and so do the
// penalty fields of a match without a shootout
func Encode(o Outcome) string {
	fields := []string{
		o.Time.Format(TimeLayout),
		formatString(o.LeftName),
		formatString(o.RightName),
		formatString(o.LeftCoach),
		formatString(o.RightCoach),
		strconv.Itoa(o.LeftScore),
		strconv.Itoa(o.RightScore),
	}
	if o.Penalty() {
		fields = append(fields,
			strconv.Itoa(o.LeftPenaltyTaken), strconv.Itoa(o.RightPenaltyTaken),
			strconv.Itoa(o.LeftPenaltyScore), strconv.Itoa(o.RightPenaltyScore))
	} else {
		fields = append(fields, null, null, null, null)
	}
	return strings.Join(fields, ", ")
}

// splitFields splits on commas outside double quotes so that quoted team names may contain commas
func splitFields(line string) ([]string, error) {
	line = strings.TrimRight(line, "\r\n")
	commaSplitter, err := splitter.NewSplitter(',', splitter.DoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("error creating results splitter: %w", err)
	}
	parts, err := commaSplitter.Split(line)
	if err != nil {
		return nil, fmt.Errorf("malformed results line %q: %w", line, err)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parseString(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value[1 : len(value)-1]
	}
	return ""
}

func formatString(value string) string {
	if value == "" {
		return null
	}
	return `"` + value + `"`
}

func parseInt(value string) (int, error) {
	if value == null || value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return n, nil
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
