// Package parse converts platform duration and clock strings into minutes.
package parse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	hoursRe   = regexp.MustCompile(`(\d+)\s*h`)
	minutesRe = regexp.MustCompile(`(\d+)\s*min`)
	clockRe   = regexp.MustCompile(`(?i)(\d+):(\d+)\s*(a|p)`)
)

// atoi parses a digit run, rejecting values that could overflow once scaled to minutes.
func atoi(digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// firstInt returns the first capture group of re in text as an int, or 0.
func firstInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ParseDuration converts text like "1 h 23 min" into minutes.
// Missing or malformed components count as zero.
func ParseDuration(text string) int {
	if text == "" {
		return 0
	}
	return firstInt(hoursRe, text)*60 + firstInt(minutesRe, text)
}

// clock24 extracts the 24-hour hour and minute of a 12-hour clock string.
func clock24(text string) (hours, minutes int, ok bool) {
	m := clockRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	hours, err := atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	minutes, err = atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	pm := m[3] == "p" || m[3] == "P"
	switch {
	case pm && hours != 12:
		hours += 12
	case !pm && hours == 12:
		hours = 0
	}
	return hours, minutes, true
}

// ParseTime12 converts a 12-hour clock like "2:30 p.m." into minutes since midnight.
// Only the leading a/p letter is inspected, so "pm", "p. m." and "P.M." all work.
// It returns 0 when the text has no clock, which callers treat as unknown.
func ParseTime12(text string) int {
	hours, minutes, ok := clock24(text)
	if !ok {
		return 0
	}
	return hours*60 + minutes
}

// JoinHour returns the 24-hour hour of a 12-hour clock string and whether one was found.
// Unlike ParseTime12, midnight is reported as a valid hour 0.
func JoinHour(text string) (int, bool) {
	hours, _, ok := clock24(text)
	return hours, ok
}

// FormatMinutes renders minutes as "45m" or "1h 05m".
func FormatMinutes(totalMinutes float64) string {
	rounded := int(math.Round(totalMinutes))
	if rounded < 60 {
		return fmt.Sprintf("%dm", rounded)
	}
	return fmt.Sprintf("%dh %02dm", rounded/60, rounded%60)
}

// FormatClock renders minutes since midnight as a 12-hour clock like "2:30 p.m.".
func FormatClock(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	hours, mins := (minutes/60)%24, minutes%60
	suffix := "a.m."
	if hours >= 12 {
		suffix = "p.m."
	}
	h12 := hours % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, mins, suffix)
}
