package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"zh", Chinese, true},
		{"chinese", Chinese, true},
		{"en", English, true},
		{"English", English, true},
		{"EN", English, true},
		{"fr", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.in)
		assert.Equal(t, tt.ok, ok, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
	}
}

func TestGet(t *testing.T) {
	zh := Get(Chinese)
	assert.Equal(t, Chinese, zh.Lang)
	assert.Equal(t, "软件更新", zh.Title)

	en := Get(English)
	assert.Equal(t, English, en.Lang)
	assert.Equal(t, "Software Update", en.Title)

	// Unknown languages fall back to the default.
	assert.Equal(t, Chinese, Get(Language("fr")).Lang)
}

func TestParameterizedStrings(t *testing.T) {
	en := Get(English)

	assert.Equal(t, "Processing: app/data.bin", en.StatusProcessing("app/data.bin"))
	assert.Equal(t, "Starting in 3 seconds...", en.StatusStartingIn(3))
	assert.Equal(t, "Replacing files (2/10)...", en.StatusReplacing(2, 10))

	zh := Get(Chinese)
	assert.Contains(t, zh.StatusProcessing("x"), "x")
	assert.Contains(t, zh.StatusReplacing(1, 2), "1/2")
}
