package notion

import (
	"regexp"
	"strings"
)

var (
	separatorRunRe = regexp.MustCompile(`[\s\-_]+`)
	nonWordRe      = regexp.MustCompile(`[^\p{L}\p{N} ]`)
)

// NormalizeKey reduces a property name to the key used for fuzzy lookup:
// lowercase, separator runs collapsed to one space, anything that is not a
// letter, digit or space removed.
func NormalizeKey(name string) string {
	key := strings.ToLower(name)
	key = separatorRunRe.ReplaceAllString(key, " ")
	key = nonWordRe.ReplaceAllString(key, "")
	return strings.TrimSpace(key)
}
