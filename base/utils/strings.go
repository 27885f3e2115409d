package utils

import "regexp"

var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// NvlString returns first not empty string value from varargs
//
// return "" if all strings are empty
func NvlString(args ...string) string {
	for _, str := range args {
		if str != "" {
			return str
		}
	}
	return ""
}

// ShortenStringWithEllipsis returns the first N slice of a string and ends with ellipsis.
func ShortenStringWithEllipsis(str string, n int) string {
	if len([]rune(str)) <= n {
		return str
	}
	return string([]rune(str)[:n]) + "..."
}

// SanitizeString returns string with only alphanumeric characters and underscores
func SanitizeString(str string) string {
	return nonAlphanumericRegex.ReplaceAllString(str, "_")
}
