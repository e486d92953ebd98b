package utils

import (
	"strings"
)

func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Truncate cuts s to maxLength runes. Blank input becomes "Unknown".
func Truncate(s string, maxLength int) string {
	defaultString := "Unknown"

	if strings.TrimSpace(s) == "" {
		return defaultString
	}

	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	return string(runes[:maxLength])
}

func NormalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
