package utils

import (
	"net/url"
	"strings"
)

// NormalizePhone keeps only digits and prefixes Brazilian numbers given with
// area code but without country code (10 or 11 digits) with 55.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 || len(digits) == 10 {
		digits = "55" + digits
	}
	return digits
}

// WhatsAppLink builds the click-to-chat link used when messages are opened in
// the browser instead of being dispatched by the remote service.
func WhatsAppLink(phone, message string) string {
	link := "https://wa.me/" + NormalizePhone(phone)
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}
