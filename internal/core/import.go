package core

// import.go loads employees from CSV.
//
// The header row is matched loosely against FieldKeys; unknown columns
// (including id) are ignored. Each data row is parsed and created on its
// own, so a bad row is reported and the rest still go in. Blank rows are
// skipped.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/employees/internal/apperr"
)

// ContextCheckInterval is how often (in rows) the import checks for
// cancellation.
var ContextCheckInterval = 100

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Created int
	Blank   int
	// Failed holds the rejected rows, each prefixed with the reason, under
	// FailedHeader.
	Failed       [][]string
	FailedHeader []string
}

// HeaderIndex maps a field key to its column position.
type HeaderIndex map[string]int

// MakeHeaderIndex indexes the recognized columns of a header row.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		if k, ok := FieldKey(h); ok {
			if _, dup := idx[k]; !dup {
				idx[k] = i
			}
		}
	}
	return idx
}

// ImportCSV creates one employee per data row of r.
//
// The returned error is only set when the file itself cannot be used (no
// header, no known column, unreadable CSV) or ctx is done; row failures are
// collected in the result.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(newImportReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ImportResult{}, apperr.New(apperr.Validation, "csv file is empty")
	}
	if err != nil {
		return ImportResult{}, apperr.Newf(apperr.Validation, "read csv header: %v", err)
	}
	if len(header) == 1 && strings.Contains(header[0], ";") {
		return ImportResult{}, apperr.New(apperr.Validation, "csv header uses ';' as separator, expected ','")
	}

	idx := MakeHeaderIndex(header)
	if len(idx) == 0 {
		return ImportResult{}, apperr.Newf(apperr.Validation, "no employee columns in header (expected some of: %s)",
			strings.Join(FieldKeys, ", "))
	}

	res := ImportResult{FailedHeader: append([]string{"status"}, header...)}
	for n := 0; ; n++ {
		if n%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("import cancelled after %d rows: %w", n, err)
			}
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Failed = append(res.Failed, rowFailed(fmt.Sprintf("line %d: %v", perr.StartLine, perr.Err), row))
				continue
			}
			return res, apperr.Newf(apperr.Validation, "read csv row %d: %v", n+1, err)
		}
		// Physical line, which differs from the row count once a quoted
		// field spans lines.
		line, _ := cr.FieldPos(0)

		if blank(row) {
			res.Blank++
			continue
		}

		values := make(map[string]string, len(idx))
		for k, pos := range idx {
			if pos < len(row) {
				values[k] = row[pos]
			}
		}

		e, err := EmployeeFromValues(values)
		if err != nil {
			res.Failed = append(res.Failed, rowFailed(fmt.Sprintf("line %d: %v", line, err), row))
			continue
		}

		if out := s.Create(ctx, e); !out.Success {
			res.Failed = append(res.Failed, rowFailed(fmt.Sprintf("line %d: %s", line, out.Error), row))
			continue
		}
		res.Created++
	}
	return res, nil
}

func rowFailed(reason string, row []string) []string {
	return append([]string{reason}, row...)
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
