// internal/app/system/csvutil/trainees.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// TraineeCSVRow is the normalized row produced by ParseTraineeCSV.
type TraineeCSVRow struct {
	FullName string
	Email    string
	Campus   string
}

// ParseResult carries the accepted rows and per-line errors from a parse.
type ParseResult struct {
	Rows   []TraineeCSVRow
	Errors []string
}

func (r *ParseResult) HasErrors() bool { return len(r.Errors) > 0 }

// ParseTraineeCSV reads all rows from r, skips a header if present, and
// validates each row (Full Name, Email, optional Campus). It never writes
// to a DB; it's safe to call before any mutations.
func ParseTraineeCSV(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ParseResult{}

	first, ferr := reader.Read()
	if ferr == io.EOF {
		return result, nil
	}
	if ferr != nil {
		return nil, ferr
	}
	first[0] = strings.TrimPrefix(first[0], "\uFEFF")

	var raw [][]string
	if isHeaderRow(first) {
		// header detected; skip
	} else {
		raw = append(raw, first)
	}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		raw = append(raw, rec)
		if len(raw) > MaxRows {
			return nil, fmt.Errorf("too many rows (limit %d)", MaxRows)
		}
	}

	for i, rec := range raw {
		line := i + 1
		row := TraineeCSVRow{}
		if len(rec) > 0 {
			row.FullName = strings.TrimSpace(rec[0])
		}
		if len(rec) > 1 {
			row.Email = strings.ToLower(strings.TrimSpace(rec[1]))
		}
		if len(rec) > 2 {
			row.Campus = strings.ToLower(strings.TrimSpace(rec[2]))
		}

		switch {
		case row.FullName == "":
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: missing full name", line))
		case row.Email == "" || !strings.Contains(row.Email, "@"):
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid email %q", line, row.Email))
		default:
			result.Rows = append(result.Rows, row)
		}
	}
	return result, nil
}

func isHeaderRow(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	name := strings.TrimSpace(rec[0])
	return (strings.EqualFold(name, "full name") || strings.EqualFold(name, "name")) &&
		strings.EqualFold(strings.TrimSpace(rec[1]), "email")
}
