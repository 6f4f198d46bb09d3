package services

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractSection returns the trimmed text between the first <tag>...</tag>
// pair in text. The match is case-insensitive, non-greedy, and spans
// newlines. The boolean is false when the pair is absent, unterminated, or
// reversed. Model output is unreliable input, so a malformed reply degrades
// to a miss instead of an error.
func ExtractSection(text, tag string) (string, bool) {
	quoted := regexp.QuoteMeta(tag)
	pattern := regexp.MustCompile(fmt.Sprintf(`(?is)<%s>(.*?)</%s>`, quoted, quoted))
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
