package twilio

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// FormatWhatsAppNumber normalizes a phone number into E.164 WhatsApp form.
// 10-digit US numbers get a +1 prefix, 11-digit numbers starting with 1 get
// a +, and numbers already carrying a + pass through.
func FormatWhatsAppNumber(phoneNumber string) string {
	digits := nonDigits.ReplaceAllString(phoneNumber, "")

	switch {
	case len(digits) == 10:
		return "whatsapp:+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "whatsapp:+" + digits
	case strings.HasPrefix(phoneNumber, "+"):
		return "whatsapp:" + phoneNumber
	default:
		return "whatsapp:+" + digits
	}
}
