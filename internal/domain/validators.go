package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRegex   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	pointsRegex = regexp.MustCompile(`^\d+$`)
)

// MaxLinePoints caps the stake a single slip line can accumulate.
const MaxLinePoints int64 = 1_000_000_000

// DateLayout is the ISO calendar date format used for scheduling.
const DateLayout = "2006-01-02"

// ValidateDate checks that s is a real YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if s == "" {
		return fmt.Errorf("date is required")
	}
	if !dateRegex.MatchString(s) {
		return fmt.Errorf("invalid date format: %s", s)
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("invalid date: %s", s)
	}
	return nil
}

// ParsePoints converts a points string to an integer stake.
// Non-numeric or empty input yields 0 so callers can treat it as "no stake".
func ParsePoints(s string) int64 {
	s = strings.TrimSpace(s)
	if !pointsRegex.MatchString(s) {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ValidatePoints checks that a stake is a positive whole number.
func ValidatePoints(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("points are required")
	}
	if ParsePoints(s) <= 0 {
		return fmt.Errorf("points must be a positive whole number, got %q", s)
	}
	return nil
}
