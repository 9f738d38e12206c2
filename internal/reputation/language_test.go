package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLanguage(t *testing.T) {
	cases := []struct {
		name        string
		fingerprint string
		expected    string
	}{
		{"Pipe Delimited", "screen:1920x1080|language:en-US|tz:UTC", "en-US"},
		{"Comma Delimited", "language:ja,platform:mac", "ja"},
		{"Token At End", "screen:800x600|language:zh-CN", "zh-CN"},
		{"Empty Fingerprint", "", DefaultLanguage},
		{"No Language Token", "screen:1920x1080|tz:UTC", DefaultLanguage},
		{"Token Without Colon", "language", DefaultLanguage},
		{"Empty Value", "language:|tz:UTC", DefaultLanguage},
		{"Whitespace Value", "language: fr-FR |tz:UTC", "fr-FR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractLanguage(tc.fingerprint))
		})
	}
}

func TestLanguageMatchesCountry(t *testing.T) {
	cases := []struct {
		name     string
		language string
		country  string
		expected bool
	}{
		{"US English", "en-US", "us", true},
		{"GB English", "en-GB", "gb", true},
		{"Mainland Chinese", "zh-CN", "cn", true},
		{"Bare Chinese Is Mainland", "zh", "cn", true},
		{"Taiwan Chinese In Mainland", "zh-TW", "cn", false},
		{"Taiwan Chinese In Hong Kong", "zh-TW", "hk", true},
		{"Russian In US", "ru-RU", "us", false},
		{"Portuguese In Brazil", "pt-BR", "br", true},
		{"Unknown Country Matches", "en-US", "nl", true},
		{"Empty Language Matches", "", "cn", true},
		{"Empty Country Matches", "en-US", "", true},
		{"Case Insensitive", "EN-us", "US", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LanguageMatchesCountry(tc.language, tc.country))
		})
	}
}
