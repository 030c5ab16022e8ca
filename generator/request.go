package generator

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// wordRangePattern accepts "800-1000", "800 – 1000" and "800 to 1000".
var wordRangePattern = regexp.MustCompile(`^\s*(\S+?)\s*(?:-|–|—|\bto\b)\s*(\S+)\s*$`)

// ParseWordRange parses a "low-high" word range.
func ParseWordRange(s string) (int, int, error) {
	if strings.TrimSpace(s) == "" {
		return 0, 0, &ValidationError{Field: "word range", Reason: "required"}
	}
	m := wordRangePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, &ValidationError{Field: "word range", Reason: "expected two numbers like 800-1000"}
	}
	low, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, &ValidationError{Field: "word range", Reason: "lower bound " + strconv.Quote(m[1]) + " is not a number"}
	}
	high, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, &ValidationError{Field: "word range", Reason: "upper bound " + strconv.Quote(m[2]) + " is not a number"}
	}
	if low <= 0 || high <= 0 {
		return 0, 0, &ValidationError{Field: "word range", Reason: "bounds must be positive"}
	}
	if low > high {
		return 0, 0, &ValidationError{Field: "word range", Reason: "lower bound exceeds upper bound"}
	}
	return low, high, nil
}

// NewRequest validates the two user inputs and builds a Request.
func NewRequest(title, wordRange string) (Request, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Request{}, &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.ContainsFunc(title, unicode.IsControl) {
		return Request{}, &ValidationError{Field: "title", Reason: "must be a single line without control characters"}
	}
	low, high, err := ParseWordRange(wordRange)
	if err != nil {
		return Request{}, err
	}
	return Request{Title: title, MinWords: low, MaxWords: high}, nil
}
