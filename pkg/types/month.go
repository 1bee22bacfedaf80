package types

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// Month identifies a calendar month in the YYYY-MM form used by bill rows
// and query parameters.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// NextStart returns midnight UTC on the first day of the following month.
func (m Month) NextStart() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// IsZero reports whether the month is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}
