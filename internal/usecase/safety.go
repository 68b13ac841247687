package usecase

import (
	"regexp"
	"strings"
)

// Known prompt-injection phrasings. Matching input is rejected outright.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all )?previous instructions`),
	regexp.MustCompile(`(?i)reveal (your )?(api key|password|secret)`),
	regexp.MustCompile(`(?i)\bexecute\b`),
	regexp.MustCompile(`(?i)run this`),
	regexp.MustCompile(`(?i)system prompt`),
}

var dangerousChars = strings.NewReplacer("`", "", "$", "", "<", "", ">", "")

// SanitizeInput screens a message before it reaches classification or
// generation. The second return is false for injection attempts; otherwise
// the message comes back with shell/markup metacharacters stripped.
func SanitizeInput(input string) (string, bool) {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(input) {
			return "", false
		}
	}
	return dangerousChars.Replace(input), true
}
