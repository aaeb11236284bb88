package ledger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// minFields is name, bankroll, total and wins; the win rate column is optional.
const minFields = 4

// MalformedLineError describes a line skipped while decoding.
type MalformedLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Decode reads records from r. Malformed lines are skipped and returned as
// *MalformedLineError values in skipped; err is only set when r itself fails.
func Decode(r io.Reader) (records []Record, skipped []error, err error) {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return records, skipped, fmt.Errorf("read records: %w", readErr)
		}
		if raw != "" {
			lineNo++
			if line := strings.TrimSpace(raw); line != "" {
				rec, reason := parseLine(line)
				if reason != "" {
					skipped = append(skipped, &MalformedLineError{Line: lineNo, Text: line, Reason: reason})
				} else {
					records = append(records, rec)
				}
			}
		}
		if readErr == io.EOF {
			return records, skipped, nil
		}
	}
}

func parseLine(line string) (Record, string) {
	parts := strings.Split(line, ",")
	if len(parts) < minFields {
		return Record{}, fmt.Sprintf("expected at least %d fields, got %d", minFields, len(parts))
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Record{}, "empty name"
	}

	var nums [3]int
	for i, label := range []string{"bankroll", "total", "wins"} {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i+1]))
		if err != nil {
			return Record{}, "non-numeric " + label
		}
		nums[i] = n
	}

	// parts[4], when present, is a stale win rate such as "50.0%" or "50.0".
	return Record{Name: name, Bankroll: nums[0], Total: nums[1], Wins: nums[2]}, ""
}

// Encode writes one line per record with a freshly computed win rate.
func Encode(w io.Writer, records []Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s,%d,%d,%d,%s\n", r.Name, r.Bankroll, r.Total, r.Wins, r.WinRateString()); err != nil {
			return err
		}
	}
	return nil
}
