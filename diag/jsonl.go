package diag

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSONL writes one diagnostic per line, in report order. The format is
// meant for CI log scrapers: each line is a self-contained JSON object.
func WriteJSONL(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, d := range r.Diagnostics {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encoding diagnostic %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadJSONL parses a report previously written with WriteJSONL. Blank lines
// are skipped.
func ReadJSONL(r io.Reader) (*Report, error) {
	report := &Report{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var d Diagnostic
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		report.Diagnostics = append(report.Diagnostics, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return report, nil
}
