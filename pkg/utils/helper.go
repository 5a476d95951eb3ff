package utils

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for all borrow/return dates.
const DateLayout = "2006-01-02"

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseBool parses a query flag case-insensitively. Accepts the strconv forms
// (true/false/1/0/t/f...) in any casing; returns nil when absent or malformed.
func ParseBool(value string) *bool {
	if value == "" {
		return nil
	}

	result, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(value)))
	if err != nil {
		return nil
	}

	return &result
}

// DateOnly truncates a timestamp to midnight UTC. Borrow and return dates are
// compared as whole days, never as instants.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from one date to another. Inputs are
// expected to be DateOnly values.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
