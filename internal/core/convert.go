package core

// convert.go turns form and CLI input into the typed employee fields.
//
// Input comes from people typing into a form, so the parsers accept the
// formats they are likely to use: ISO and Brazilian day-first dates, and
// amounts written with "R$", thousands separators and a decimal comma.
// Empty input means "not supplied" and maps to nil, never to a zero value.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/employees/internal/apperr"
)

// numericRegex validates a plain decimal number after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// dateLayouts are tried in order. Day-first layouts come before anything
// ambiguous since the data is Brazilian.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006", "2/1/2006",
	"02-01-2006", "02.01.2006",
	"2006/01/02",
	"20060102",
	time.RFC3339,
}

// ToPgDate converts a string to pgtype.Date.
// Returns Valid=false for empty or unparseable input.
func ToPgDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
		}
	}

	return pgtype.Date{Valid: false}
}

// ParseHireDate parses an optional hire date.
// Empty input yields nil (absent); anything unparseable is a validation error.
func ParseHireDate(s string) (*pgtype.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d := ToPgDate(s)
	if !d.Valid {
		return nil, apperr.Newf(apperr.Validation, "invalid date: %q", s)
	}
	return &d, nil
}

// FormatDate renders a date as YYYY-MM-DD, or "" when unset.
func FormatDate(d *pgtype.Date) string {
	if d == nil || !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// ParseMoney parses an optional amount such as "3500", "3500.50",
// "R$ 3.500,50" or "3,500.50".
//
// When both '.' and ',' appear, the last one is the decimal separator. A
// single ',' is decimal. Dots are decimal unless there are several of them
// grouping digits by three ("1.234.567").
func ParseMoney(s string) (*float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if isThousandsGrouped(s, '.') {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	if !numericRegex.MatchString(s) {
		return nil, apperr.Newf(apperr.Validation, "invalid number: %q", raw)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, apperr.Newf(apperr.Validation, "invalid number: %q", raw)
	}
	return &v, nil
}

// isThousandsGrouped reports whether s has at least two sep characters and
// every group after the first has exactly three digits.
func isThousandsGrouped(s string, sep byte) bool {
	parts := strings.Split(s, string(sep))
	if len(parts) < 2 {
		return false
	}
	head := strings.TrimLeft(parts[0], "+-")
	if head == "" || len(head) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return len(parts) > 2
}

// CleanText trims s and returns nil when nothing is left.
func CleanText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
