package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "valid email unchanged", input: "user@example.com", expected: "user@example.com"},
		{name: "uppercase lowered", input: "John@Example.COM", expected: "john@example.com"},
		{name: "whitespace trimmed", input: "  jane@x.com  ", expected: "jane@x.com"},
		{name: "plus addressing allowed", input: "a+tag@example.co", expected: "a+tag@example.co"},
		{name: "subdomain allowed", input: "a@mail.example.com", expected: "a@mail.example.com"},
		{name: "missing tld rejected", input: "a@b", expected: ""},
		{name: "single char tld rejected", input: "a@b.c", expected: ""},
		{name: "garbage rejected", input: "@@@", expected: ""},
		{name: "missing local part rejected", input: "@example.com", expected: ""},
		{name: "empty string", input: "", expected: ""},
		{name: "spaces inside rejected", input: "a b@example.com", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEmail(tt.input))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "formatted US number", input: "(555) 123-4567", expected: "5551234567"},
		{name: "country code stripped", input: "+1-555-123-4567", expected: "5551234567"},
		{name: "bare digits unchanged", input: "5551234567", expected: "5551234567"},
		{name: "seven digits rejected", input: "555-1234", expected: ""},
		{name: "empty rejected", input: "", expected: ""},
		{name: "letters only rejected", input: "call me", expected: ""},
		{name: "keeps last ten of long input", input: "0015551234567", expected: "5551234567"},
		{name: "five arabic-indic digits rejected", input: "١٢٣٤٥", expected: ""},
		{name: "eleven arabic-indic digits keep last ten", input: "١٢٣٤٥٦٧٨٩٠١", expected: "٢٣٤٥٦٧٨٩٠١"},
		{name: "mixed-width digits counted as characters", input: "55٥-123-4567", expected: "55٥1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jane", NormalizeName("  Jane "))
	assert.Equal(t, "o'brien", NormalizeName("O'Brien"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeZipCode(t *testing.T) {
	assert.Equal(t, "90210", NormalizeZipCode("90210"))
	assert.Equal(t, "902101234", NormalizeZipCode("90210-1234"))
	assert.Equal(t, "", NormalizeZipCode("1234"))
}

func TestRegistry(t *testing.T) {
	t.Run("apply known normalizer", func(t *testing.T) {
		assert.Equal(t, "5551234567", Apply("(555) 123-4567", "nphone"))
	})

	t.Run("unknown normalizer passes through", func(t *testing.T) {
		assert.Equal(t, "AS-IS", Apply("AS-IS", "does_not_exist"))
	})

	t.Run("chain applies in order", func(t *testing.T) {
		assert.Equal(t, "abc", ApplyChain("  ABC  ", "trim", "lowercase"))
	})

	t.Run("get returns registered function", func(t *testing.T) {
		fn, ok := Get("nemail")
		assert.True(t, ok)
		assert.Equal(t, "a@b.co", fn("A@B.CO"))
	})
}
