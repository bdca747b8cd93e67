package news

import (
	"errors"
	"strconv"
	"strings"
)

const (
	DefaultDisplay = 5
	MinDisplay     = 1
	MaxDisplay     = 10
)

// ParseDisplay turns the raw display parameter into a result count.
// Empty or non-numeric input falls back to DefaultDisplay; numbers too large
// for an int are clamped like any other out-of-range value.
func ParseDisplay(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return MinDisplay
		}
		return MaxDisplay
	}
	if err != nil {
		return DefaultDisplay
	}
	return ClampDisplay(n)
}

func ClampDisplay(n int) int {
	if n < MinDisplay {
		return MinDisplay
	}
	if n > MaxDisplay {
		return MaxDisplay
	}
	return n
}
