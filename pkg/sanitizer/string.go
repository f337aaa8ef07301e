package sanitizer

import (
	"regexp"
	"strings"
)

// Strategy is one sanitization step; strategies compose into a Pipeline.
type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reWhitespace = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return reWhitespace.ReplaceAllString(s, " ")
}

// SanitizeName normalizes a customer name for storage and display: trimmed,
// inner whitespace collapsed. Returns "" for whitespace-only input, which the
// validator then rejects.
func SanitizeName(input string) string {
	p := Pipeline{
		strings.TrimSpace,
		collapseWhitespace,
	}
	return p.Apply(input)
}
