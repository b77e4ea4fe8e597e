package answer

import (
	"regexp"
	"strings"
)

// Blocks removed together with their content.
var reasoningBlocks = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<think>.*?</think>`),
	regexp.MustCompile(`(?is)<thinking>.*?</thinking>`),
	regexp.MustCompile(`(?is)\[thinking\].*?\[/thinking\]`),
	regexp.MustCompile("(?is)```thinking.*?```"),
}

// Preambles removed up to (not including) the captured answer marker.
var reasoningPreambles = []*regexp.Regexp{
	regexp.MustCompile(`(?is)thinking:.*?(ответ:|answer:|final answer:|q:|\[1\]|\z)`),
	regexp.MustCompile(`(?is)let me (?:think|analyze|check).*?(answer:|ответ:|based|\z)`),
}

// A leading label needs a separator, so "Some..." keeps its "So".
var answerPrefix = regexp.MustCompile(`(?i)^(?:final answer|answer|ответ|итак|so)(?:[\s:,\-]+|$)`)

// extractAnswer strips leaked reasoning and a leading answer label from a completion.
func extractAnswer(raw string) string {
	cleaned := raw
	for _, re := range reasoningBlocks {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	for _, re := range reasoningPreambles {
		cleaned = re.ReplaceAllString(cleaned, "${1}")
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = answerPrefix.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// hasMarker reports whether text contains any of the markers, case-insensitively.
func hasMarker(text string, markers []string) bool {
	lower := strings.ToLower(text)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
