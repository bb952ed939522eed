// Package daytime turns the short day/time strings people type when planning
// a bake ("sat 09.30", "Fri 2100", "sun 10:30") into timestamps.
package daytime

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/orieldave/half-baked/pkg/types"
)

// HTMLLayout is the layout of an HTML datetime-local input value.
const HTMLLayout = "2006-01-02T15:04"

// DisplayLayout is the layout used to show stage times, e.g. "Sat 09.30".
const DisplayLayout = "Mon 15.04"

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

var fold = cases.Fold()

// Parse reads s as RFC 3339, then as an HTML datetime-local value in now's
// location, then as a free-text day and time relative to now.
func Parse(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := ParseHTML(s, now.Location()); err == nil {
		return t, nil
	}
	return ParseDayTime(s, now)
}

// ParseHTML reads a datetime-local value such as "2024-01-06T09:30".
func ParseHTML(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(HTMLLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", types.ErrUnparseableTime, s)
	}
	return t, nil
}

// ParseDayTime finds a weekday and a four-digit time among the words of s and
// returns the first moment at or after now (to the minute) that falls on
// that weekday at that time. Each word may contribute a day (its first three
// letters once digits and punctuation are removed) and a time (its first
// four digits, read as HHMM). The first valid day and time pair wins.
func ParseDayTime(s string, now time.Time) (time.Time, error) {
	var days []string
	var clocks []string
	for _, word := range strings.Fields(s) {
		if d := dayCandidate(word); d != "" {
			days = append(days, d)
		}
		if c := clockCandidate(word); c != "" {
			clocks = append(clocks, c)
		}
	}

	for _, d := range days {
		for _, c := range clocks {
			if t, ok := nextDayTime(d, c, now); ok {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", types.ErrUnparseableTime, s)
}

// dayCandidate strips digits and non-word runes from word and returns its
// first three runes case-folded, or "" when fewer than three remain.
func dayCandidate(word string) string {
	var kept []rune
	for _, r := range word {
		if unicode.IsDigit(r) {
			continue
		}
		if unicode.IsLetter(r) || r == '_' {
			kept = append(kept, r)
		}
		if len(kept) == 3 {
			return fold.String(string(kept))
		}
	}
	return ""
}

// clockCandidate returns the first four digits of word, or "".
func clockCandidate(word string) string {
	var digits []rune
	for _, r := range word {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
			if len(digits) == 4 {
				return string(digits)
			}
		}
	}
	return ""
}

// nextDayTime resolves a weekday abbreviation and an HHMM clock against now.
func nextDayTime(day, clock string, now time.Time) (time.Time, bool) {
	wd, ok := weekdays[day]
	if !ok {
		return time.Time{}, false
	}
	hour := int(clock[0]-'0')*10 + int(clock[1]-'0')
	minute := int(clock[2]-'0')*10 + int(clock[3]-'0')
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	y, m, d := now.Date()
	t := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if hour*60+minute < now.Hour()*60+now.Minute() {
		t = t.AddDate(0, 0, 1)
	}
	for t.Weekday() != wd {
		t = t.AddDate(0, 0, 1)
	}
	return t, true
}
