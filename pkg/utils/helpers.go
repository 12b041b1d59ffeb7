package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration safely parses a duration string like "5m", falling back
// to five minutes.
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 5 * time.Minute
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 5 * time.Minute
	}
	return duration
}

// ParseFloat parses a cell as a float64. Empty cells and non-numeric
// placeholders (e.g. "..") report ok=false.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseYear parses a cell as a 4-digit-range calendar year.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	y, err := strconv.Atoi(s)
	if err != nil || y < 1000 || y > 9999 {
		return 0, false
	}
	return y, true
}

// ParseOrder parses an order triple like "1,1,1" into (p, d, q).
func ParseOrder(s string) (int, int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("order must be three comma-separated integers, got %q", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return 0, 0, 0, fmt.Errorf("invalid order term %q", p)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}
