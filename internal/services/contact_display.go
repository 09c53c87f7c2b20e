package services

import (
	"strings"
	"unicode"

	"imob-followup/internal/models"
)

// Initials returns up to two uppercase letters for avatars.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "?"
	}
	first := []rune(words[0])
	out := []rune{unicode.ToUpper(first[0])}
	if len(words) > 1 {
		last := []rune(words[len(words)-1])
		out = append(out, unicode.ToUpper(last[0]))
	}
	return string(out)
}

func ColorClass(t models.ContactType) string {
	switch t {
	case models.ContactTypeOwner:
		return "bg-blue-100 text-blue-700"
	case models.ContactTypeBuilder:
		return "bg-orange-100 text-orange-700"
	case models.ContactTypeClient:
		return "bg-emerald-100 text-emerald-700"
	default:
		return "bg-gray-100 text-gray-700"
	}
}
