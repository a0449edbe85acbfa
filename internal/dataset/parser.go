// Package dataset parses the vocabulary CSV into domain records.
// Pure function: text in, records and diagnostics out. No I/O.
package dataset

import (
	"fmt"
	"strings"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

const bom = "\ufeff"

// SkipReason explains why a data row was dropped.
type SkipReason string

const (
	SkipFieldCount SkipReason = "field_count"
	SkipDifficulty SkipReason = "difficulty"
	SkipEmptyTerm  SkipReason = "empty_term"
)

// SkippedRow is the diagnostic for one dropped row. Line is 1-based and
// counts the header as line 1.
type SkippedRow struct {
	Line   int
	Reason SkipReason
	Detail string
}

// Report is the outcome of a successful parse.
type Report struct {
	Schema  Schema
	Records []domain.VocabRecord
	Skipped []SkippedRow
}

// Parse reads the dataset text. It fails with *domain.FormatError when there
// is no data row or the header is not recognized, and with
// *domain.EmptyDatasetError when every data row was skipped. Individual bad
// rows never fail the parse; they are listed in Report.Skipped.
func Parse(text string) (*Report, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, &domain.FormatError{Reason: "no data rows"}
	}

	header := splitHeader(lines[0])
	l, ok := lookupLayout(header)
	if !ok {
		return nil, &domain.FormatError{Header: header, Reason: "unrecognized header"}
	}

	report := &Report{Schema: l.schema}
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		lineNo := i + 1

		values := splitRow(line)
		if !acceptedWidth(len(values), l.width()) {
			report.Skipped = append(report.Skipped, SkippedRow{
				Line:   lineNo,
				Reason: SkipFieldCount,
				Detail: fmt.Sprintf("got %d fields, schema %s has %d", len(values), l.schema, l.width()),
			})
			continue
		}

		rec, reason, detail := buildRecord(l, values)
		if reason != "" {
			report.Skipped = append(report.Skipped, SkippedRow{Line: lineNo, Reason: reason, Detail: detail})
			continue
		}
		report.Records = append(report.Records, rec)
	}

	if len(report.Records) == 0 {
		return nil, &domain.EmptyDatasetError{Skipped: len(report.Skipped)}
	}
	return report, nil
}

// Records is Parse without the diagnostics.
func Records(text string) ([]domain.VocabRecord, error) {
	r, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return r.Records, nil
}

// acceptedWidth allows the 6, 7 and 9 column row shapes as long as the row
// does not carry more columns than the header declares. Shorter rows leave
// the trailing optional fields unset.
func acceptedWidth(n, schemaWidth int) bool {
	switch n {
	case 6, 7, 9:
		return n <= schemaWidth
	}
	return false
}

func buildRecord(l layout, values []string) (domain.VocabRecord, SkipReason, string) {
	var rec domain.VocabRecord
	var rawDifficulty string

	for i, v := range values {
		switch l.fields[i] {
		case fieldTerm:
			rec.Term = v
		case fieldTranslation:
			rec.Translation = v
		case fieldDifficulty:
			rawDifficulty = v
		case fieldPartOfSpeech:
			rec.PartOfSpeech = v
		case fieldContext:
			rec.Context = v
		case fieldVideoURL:
			rec.VideoURL = v
		case fieldVideoTitle:
			rec.VideoTitle = domain.Some(v)
		case fieldOrganization:
			rec.Organization = domain.Some(domain.NormalizeName(v))
		case fieldPresenter:
			rec.Presenter = domain.Some(domain.NormalizeName(v))
		}
	}

	d, ok := domain.ParseDifficulty(rawDifficulty)
	if !ok {
		return domain.VocabRecord{}, SkipDifficulty, fmt.Sprintf("invalid difficulty %q", rawDifficulty)
	}
	rec.Difficulty = d

	if rec.Term == "" {
		return domain.VocabRecord{}, SkipEmptyTerm, "term is empty"
	}
	return rec, "", ""
}

// splitHeader splits the header on commas, trims each name and drops a
// leading byte-order mark.
func splitHeader(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	fields[0] = strings.TrimSpace(strings.TrimPrefix(fields[0], bom))
	return fields
}

// splitRow splits one data line on commas. Double quotes toggle quoted mode,
// in which commas are literal; a doubled quote inside a quoted field is one
// literal quote. An unterminated quote swallows the rest of the line.
func splitRow(line string) []string {
	var (
		values   []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	values = append(values, strings.TrimSpace(current.String()))
	return values
}
