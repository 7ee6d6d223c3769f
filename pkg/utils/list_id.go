package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateListID creates a standardized, human-readable crafting list ID.
// Format: {nameSlug}-{8charHexUUID}
//
// Example:
//   - Input: name="Tier 3 Workshop"
//   - Output: "tier-3-workshop-a3f8e2b1"
//
// The slug keeps IDs recognizable in CLI output and logs; the UUID
// suffix keeps them globally unique.
func GenerateListID(name string) string {
	slug := slugify(name)
	if slug == "" {
		slug = "list"
	}
	return slug + "-" + shortUUID()
}

// slugify lowercases the name and collapses every non-alphanumeric run
// into a single hyphen.
func slugify(name string) string {
	var builder strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			builder.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(builder.String(), "-")
}

// shortUUID creates an 8-character hex string from a UUID. Sufficient
// uniqueness while keeping IDs compact.
func shortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
