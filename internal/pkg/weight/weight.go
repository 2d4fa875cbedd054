// Package weight normalizes free-text catch weights ("12 lb 4 oz", "8oz",
// "3.2") into pounds. Reports without a parseable number are excluded from
// ranking rather than treated as zero.
package weight

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)

// ParsePounds extracts the first number from a weight label and returns its
// value in pounds. A label containing "oz" but not "lb" is read as ounces.
// ok is false when no number is present.
func ParsePounds(label string) (pounds float64, ok bool) {
	s := strings.ReplaceAll(label, ",", "")
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "oz") && !strings.Contains(lower, "lb") {
		return n / 16, true
	}
	return n, true
}
