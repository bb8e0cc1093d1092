package sw

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationRe = regexp.MustCompile(`^([0-9]+)([ywdm])$`)

// parseDate parses a date string in YYYY-MM-DD, YYYY-MM, or YYYY format and
// returns the first and last day of the period it names
func parseDate(dateStr string, loc *time.Location) (first, last time.Time, err error) {
	if t, err := time.ParseInLocation("2006-01-02", dateStr, loc); err == nil {
		return t, t, nil
	}
	if t, err := time.ParseInLocation("2006-01", dateStr, loc); err == nil {
		return t, t.AddDate(0, 1, -1), nil
	}
	if t, err := time.ParseInLocation("2006", dateStr, loc); err == nil {
		return t, time.Date(t.Year(), 12, 31, 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("invalid date format. Use YYYY-MM-DD, YYYY-MM, or YYYY")
}

// endOfDay returns the last second of t's day
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// parseUntilDate parses a date string and returns the end of the period it names
func parseUntilDate(dateStr string, loc *time.Location) (time.Time, error) {
	_, last, err := parseDate(dateStr, loc)
	if err != nil {
		return time.Time{}, err
	}
	return endOfDay(last), nil
}

// parseDuration parses a simplified prometheus-style duration string
// Supports: y (years), w (weeks), d (days), m (months)
// Examples: "30d", "2w", "1y", "6m"
// No combinations allowed (e.g., "1y2w" is invalid)
func parseDuration(durationStr string) (time.Duration, error) {
	matches := durationRe.FindStringSubmatch(durationStr)

	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format. Use format like '30d', '2w', '1y', or '6m' (no combinations allowed)")
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %s", matches[1])
	}

	switch matches[2] {
	case "y":
		// Approximate: 365 days per year
		return time.Duration(value) * 365 * 24 * time.Hour, nil
	case "w":
		return time.Duration(value) * 7 * 24 * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "m":
		// Approximate: 30 days per month
		return time.Duration(value) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid duration unit: %s (use y, w, d, or m)", matches[2])
	}
}

// parseSinceDate parses a --since parameter which can be either:
// - A date string (YYYY-MM-DD, YYYY-MM, or YYYY format), meaning its first day
// - A duration string (30d, 2w, 1y, 6m) - relative to the until date
func parseSinceDate(sinceStr string, untilDate time.Time) (time.Time, error) {
	if duration, err := parseDuration(sinceStr); err == nil {
		return untilDate.Add(-duration), nil
	}

	first, _, err := parseDate(sinceStr, untilDate.Location())
	if err != nil {
		return time.Time{}, err
	}
	return first, nil
}

// ValidateAndParseDates validates and parses the until and since date parameters early
func ValidateAndParseDates(untilStr, sinceStr string, now time.Time) (since, until time.Time, err error) {
	if untilStr != "" {
		until, err = parseUntilDate(untilStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse until date: %w", err)
		}
	} else {
		until = now
	}

	if sinceStr != "" {
		since, err = parseSinceDate(sinceStr, until)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse since date: %w", err)
		}
	} else {
		// Default to 4 weeks before the until date
		defaultDuration, _ := parseDuration("4w")
		since = until.Add(-defaultDuration)
	}

	if !since.Before(until) {
		return time.Time{}, time.Time{}, fmt.Errorf("--since date (%s) must be before --until date (%s)", since.Format("2006-01-02"), until.Format("2006-01-02"))
	}

	return since, until, nil
}

// weekStart returns the Monday starting t's week
func weekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}
