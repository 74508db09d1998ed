package security

import "strings"

// MaskPAN hides all but the last four digits of a card number.
// Values of four characters or fewer are fully masked.
func MaskPAN(pan string) string {
	pan = strings.TrimSpace(pan)
	if pan == "" {
		return ""
	}
	if len(pan) <= 4 {
		return strings.Repeat("*", len(pan))
	}
	return strings.Repeat("*", len(pan)-4) + pan[len(pan)-4:]
}
