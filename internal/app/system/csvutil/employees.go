// internal/app/system/csvutil/employees.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Upload size and row limits for CSV processing.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 20000
)

// EmployeeRow is one validated row from a roster CSV.
type EmployeeRow struct {
	FullName   string
	Email      string // lower-cased
	Department string // optional department name, may be empty
}

// RowError describes a rejected CSV row.
type RowError struct {
	Line   int
	Reason string
}

// ParseResult holds the accepted rows and any per-row errors.
type ParseResult struct {
	Rows   []EmployeeRow
	Errors []RowError
}

// HasErrors reports whether any rows were rejected.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ParseOptions controls roster CSV parsing.
type ParseOptions struct {
	MaxRows int
}

// DefaultParseOptions returns the standard limits for roster uploads.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxRows: MaxRows}
}

// ParseEmployeesCSV reads a roster CSV of the form
//
//	Full Name,Email[,Department]
//
// A header row is detected and skipped, and a UTF-8 BOM on the first
// cell is stripped. Rows are validated but nothing is written; callers
// decide what to do with the result.
func ParseEmployeesCSV(r io.Reader, opts ParseOptions) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ParseResult{}
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if line == 1 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\uFEFF")
			if isHeaderRow(rec) {
				continue
			}
		}

		if isEmptyRow(rec) {
			continue
		}
		if opts.MaxRows > 0 && len(result.Rows) >= opts.MaxRows {
			result.Errors = append(result.Errors, RowError{
				Line:   line,
				Reason: fmt.Sprintf("too many rows (limit %d)", opts.MaxRows),
			})
			break
		}

		row, reason := normalizeRow(rec)
		if reason != "" {
			result.Errors = append(result.Errors, RowError{Line: line, Reason: reason})
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

func isHeaderRow(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	first := strings.TrimSpace(rec[0])
	second := strings.TrimSpace(rec[1])
	return (strings.EqualFold(first, "full name") || strings.EqualFold(first, "name")) &&
		strings.EqualFold(second, "email")
}

func isEmptyRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func normalizeRow(rec []string) (EmployeeRow, string) {
	var row EmployeeRow
	if len(rec) < 2 {
		return row, "expected at least a name and an email column"
	}
	row.FullName = strings.TrimSpace(rec[0])
	row.Email = strings.ToLower(strings.TrimSpace(rec[1]))
	if len(rec) >= 3 {
		row.Department = strings.TrimSpace(rec[2])
	}

	switch {
	case row.FullName == "":
		return row, "name is required"
	case len(row.FullName) > 200:
		return row, "name is too long"
	case row.Email == "":
		return row, "email is required"
	case !strings.Contains(row.Email, "@"):
		return row, fmt.Sprintf("%q is not a valid email address", row.Email)
	case len(row.Email) > 200:
		return row, "email is too long"
	}
	return row, ""
}

// FormatParseErrors renders up to max row errors as an HTML fragment
// suitable for the upload form's error block.
func FormatParseErrors(errs []RowError, max int) template.HTML {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("The CSV file has problems:<ul>")
	for i, e := range errs {
		if max > 0 && i >= max {
			b.WriteString(fmt.Sprintf("<li>&hellip; and %d more</li>", len(errs)-max))
			break
		}
		b.WriteString("<li>Line ")
		b.WriteString(fmt.Sprintf("%d", e.Line))
		b.WriteString(": ")
		b.WriteString(template.HTMLEscapeString(e.Reason))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return template.HTML(b.String())
}
