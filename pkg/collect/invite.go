package collect

import (
	"regexp"
	"strings"
)

var quoted = regexp.MustCompile(`"([^"]*)"`)

// NormalizeInvite reduces a pasted invite code to its bare token. Operators
// paste codes wrapped in JSON fragments or shell quoting; when the input
// contains a double-quoted section the content of the first one wins,
// otherwise the trimmed input is used as-is. The result is then stripped of
// every space, comma and double quote, commas inside the code included.
func NormalizeInvite(raw string) string {
	s := strings.TrimSpace(raw)
	if m := quoted.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.NewReplacer(" ", "", ",", "", `"`, "").Replace(s)
}
