// Package phonenumber normalizes the phone numbers patients type into the
// booking form. Numbers are Peruvian mobiles in practice: nine digits
// starting with 9, often written with spaces, hyphens, a leading zero or a
// country prefix.
package phonenumber

import "strings"

// Digits strips everything that is not an ASCII digit.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DialDigits returns the number in international dialing form without the
// plus sign (the form wa.me expects), applying the local-mobile rules:
// a leading 0 on ten digits is dropped, a bare nine-digit mobile gains the
// country code, a number already carrying the code is kept. Anything else
// is returned as cleaned digits; empty input yields "".
func DialDigits(raw, countryCode string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "0") && len(digits) == 10 {
		digits = digits[1:]
	}
	if len(digits) == 9 && strings.HasPrefix(digits, "9") {
		return countryCode + digits
	}
	return digits
}

// Pretty formats a mobile for display, e.g. "+51 947 236 123". Input that
// does not normalize to a nine-digit mobile comes back as cleaned digits,
// or trimmed unchanged when it contains no digits at all.
func Pretty(raw, countryCode string) string {
	if raw == "" {
		return ""
	}
	digits := Digits(raw)
	if strings.HasPrefix(digits, "0") && len(digits) == 10 {
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, countryCode) && len(digits) == len(countryCode)+9 {
		digits = digits[len(countryCode):]
	}
	if len(digits) == 9 && strings.HasPrefix(digits, "9") {
		return "+" + countryCode + " " + digits[:3] + " " + digits[3:6] + " " + digits[6:]
	}
	if digits == "" {
		return strings.TrimSpace(raw)
	}
	return digits
}
