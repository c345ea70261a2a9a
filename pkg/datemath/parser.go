// Package datemath turns the date phrases found in task text into instants.
package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateFormatISO is the calendar-date layout handed to the LLM as "today".
const DateFormatISO = "2006-01-02"

var (
	dueDateHintRe = regexp.MustCompile(`(?i)(today|tomorrow|next week|next month|this week|by |due )`)
	inAmountRe    = regexp.MustCompile(`^in (\d{1,4}) (day|week|month)s?$`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// keywords resolve to a start of day relative to now (already in the
// parser's location). Matching is exact on the trimmed, lowercased value.
var keywords = map[string]func(now time.Time) time.Time{
	"today":       func(now time.Time) time.Time { return now },
	"by today":    func(now time.Time) time.Time { return now },
	"tomorrow":    func(now time.Time) time.Time { return now.AddDate(0, 0, 1) },
	"by tomorrow": func(now time.Time) time.Time { return now.AddDate(0, 0, 1) },
	"next week":   func(now time.Time) time.Time { return now.AddDate(0, 0, 7) },
	"next month":  func(now time.Time) time.Time { return now.AddDate(0, 1, 0) },
	// Upcoming Sunday; a Sunday moves a full week ahead.
	"this week": func(now time.Time) time.Time { return now.AddDate(0, 0, 7-int(now.Weekday())) },
}

// Parser resolves dates with days anchored in one location.
type Parser struct {
	location *time.Location
}

// NewParser takes an IANA name such as "UTC" or "Europe/Berlin".
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

func (p *Parser) Location() *time.Location {
	return p.location
}

// Today formats the calendar date of now as YYYY-MM-DD.
func (p *Parser) Today(now time.Time) string {
	return now.In(p.location).Format(DateFormatISO)
}

// HasDueDateHint reports whether text contains language that usually implies a due date.
func HasDueDateHint(text string) bool {
	return dueDateHintRe.MatchString(text)
}

// FormatInstant renders t as an ISO-8601 instant in UTC.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Normalize resolves a due-date string to an instant. Keywords win; then
// relative phrases ("in 3 days", "next friday", "yesterday"); then any
// date or date-time layout dateparse knows. ok is false when nothing parses.
func (p *Parser) Normalize(value string, now time.Time) (time.Time, bool) {
	raw := strings.TrimSpace(value)
	key := strings.ToLower(raw)
	if key == "" {
		return time.Time{}, false
	}
	now = now.In(p.location)

	if shift, ok := keywords[key]; ok {
		return p.startOfDay(shift(now)), true
	}
	if t, ok := p.relative(key, now); ok {
		return t, true
	}

	t, err := dateparse.ParseIn(raw, p.location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (p *Parser) relative(key string, now time.Time) (time.Time, bool) {
	if key == "yesterday" {
		return p.startOfDay(now.AddDate(0, 0, -1)), true
	}

	if m := inAmountRe.FindStringSubmatch(key); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "day":
			return p.startOfDay(now.AddDate(0, 0, n)), true
		case "week":
			return p.startOfDay(now.AddDate(0, 0, 7*n)), true
		default:
			return p.startOfDay(now.AddDate(0, n, 0)), true
		}
	}

	if day, ok := strings.CutPrefix(key, "next "); ok {
		target, known := weekdays[day]
		if !known {
			return time.Time{}, false
		}
		ahead := int(target - now.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		return p.startOfDay(now.AddDate(0, 0, ahead)), true
	}

	return time.Time{}, false
}

func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}
