// Package normalizers provides field normalization functions for identity
// linking. Each normalizer is pure: it either returns a canonical comparable
// string or the empty string meaning "no usable signal". Nothing here ever
// returns an error - messy source data degrades to absence, it does not
// abort a batch.
package normalizers

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("nemail", NormalizeEmail)
	Register("nphone", NormalizePhone)
	Register("nname", NormalizeName)
	Register("digits_only", DigitsOnly)
	Register("nzip", NormalizeZipCode)
	Register("remove_whitespace", RemoveWhitespace)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value. Unknown names pass the value
// through unchanged.
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// emailPattern matches local-part@domain.tld:
// - local part: alphanumeric, dots, underscores, percent, plus, hyphen
// - domain: alphanumeric, dots, hyphens, ending in a TLD of at least 2 letters
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail lowercases and trims an email address, then validates the
// format. Invalid addresses normalize to "" rather than being passed through,
// so a malformed email can never become a linking key.
func NormalizeEmail(s string) string {
	email := strings.ToLower(strings.TrimSpace(s))
	if emailPattern.MatchString(email) {
		return email
	}
	return ""
}

// NormalizePhone reduces a phone number to its last 10 digits. Inputs with
// fewer than 10 digits are rejected to "".
//
// This is US-centric: international numbers (UK +44, AU +61, ...) are not
// specially handled. Keeping the last 10 digits strips a leading +1 country
// code, which is the common case in the source systems we ingest from.
func NormalizePhone(s string) string {
	// Count and slice digits as runes: non-ASCII digits are multi-byte, and
	// byte indexing would miscount them.
	digits := []rune(DigitsOnly(s))
	if len(digits) >= 10 {
		return string(digits[len(digits)-10:])
	}
	return ""
}

// NormalizeName lowercases and trims a person's name.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeZipCode normalizes a US zip code to 5 or 9 digits, "" otherwise.
func NormalizeZipCode(s string) string {
	digits := []rune(DigitsOnly(s))
	if len(digits) == 5 || len(digits) == 9 {
		return string(digits)
	}
	return ""
}

// RemoveWhitespace removes all whitespace characters
func RemoveWhitespace(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
