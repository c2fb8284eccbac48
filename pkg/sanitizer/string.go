package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// NormalizeRoomType keeps case: room types are matched exactly against the
// hotel's room list.
func NormalizeRoomType(roomType string) string {
	return TrimAndNormalize(roomType)
}
