package pairings

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// weekEpochStart is the Monday of ISO week 1 of 2000. Week epochs count
// whole weeks elapsed since this date.
var weekEpochStart = time.Date(2000, time.January, 3, 0, 0, 0, 0, time.UTC)

// Week identifies a scheduling week using a "2025-31" style token
// (year plus ordinal week). Epoch is a continuous week counter computed
// at parse time, so recency distances stay correct across year rollover.
type Week struct {
	Year  int
	Ord   int
	Epoch int
}

// ParseWeek parses a week token of the form "YYYY-WW".
func ParseWeek(token string) (Week, error) {
	yearStr, ordStr, found := strings.Cut(token, "-")
	if !found {
		return Week{}, fmt.Errorf("invalid week token %q: expected YYYY-WW", token)
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return Week{}, fmt.Errorf("invalid year in week token %q", token)
	}

	ord, err := strconv.Atoi(ordStr)
	if err != nil || ord < 0 || ord > 53 {
		return Week{}, fmt.Errorf("invalid week ordinal in week token %q", token)
	}

	return newWeek(year, ord), nil
}

// WeekOf returns the week containing the given date.
func WeekOf(t time.Time) Week {
	year, ord := t.ISOWeek()
	return newWeek(year, ord)
}

func newWeek(year, ord int) Week {
	start := weekStart(year, ord)
	epoch := int(start.Sub(weekEpochStart).Hours() / (24 * 7))
	return Week{Year: year, Ord: ord, Epoch: epoch}
}

// weekStart returns the Monday of the given ordinal week. ISO week 1 is the
// week containing January 4th.
func weekStart(year, ord int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	week1Monday := jan4.AddDate(0, 0, -(int(jan4.Weekday())+6)%7)
	return week1Monday.AddDate(0, 0, 7*(ord-1))
}

func (w Week) String() string {
	return fmt.Sprintf("%d-%02d", w.Year, w.Ord)
}

// Before reports whether w is earlier than other.
func (w Week) Before(other Week) bool {
	return w.Epoch < other.Epoch
}

// WeeksSince returns the number of weeks between other and w
// (positive when w is later).
func (w Week) WeeksSince(other Week) int {
	return w.Epoch - other.Epoch
}
