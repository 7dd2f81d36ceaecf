package ingest

import (
	"fmt"
	"strings"
	"time"
)

// normalizeHeader collapses an arbitrary header spelling to its canonical key:
// lowercase, alphanumeric runes only. "Monthly_Salary", "monthly salary" and
// "MonthlySalary" all map to "monthlysalary".
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fieldIndex maps normalized header keys to their column position in one file.
type fieldIndex map[string]int

func indexHeaders(headers []string) fieldIndex {
	idx := make(fieldIndex, len(headers))
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

// value fetches a record field by any of the given logical names, first match
// wins. Returns "" when no listed name is present.
func (f fieldIndex) value(record []string, names ...string) string {
	for _, name := range names {
		if i, ok := f[normalizeHeader(name)]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
	}
	return ""
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	time.RFC3339,
}

func parseDate(val string) (time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", val)
}
