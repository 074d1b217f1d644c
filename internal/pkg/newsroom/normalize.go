package newsroom

import "regexp"

var quotedPattern = regexp.MustCompile(`^["'](.*)["']$`)

// StripQuotes removes one layer of surrounding quote characters, as sent by
// clients that JSON-encode multipart form values.
func StripQuotes(s string) string {
	return quotedPattern.ReplaceAllString(s, "$1")
}
