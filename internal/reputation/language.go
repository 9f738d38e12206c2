package reputation

import (
	"strings"
)

// DefaultLanguage is assumed when a fingerprint carries no usable language
// token. The collection frontend targets a Chinese-speaking audience, so the
// fallback mirrors its default locale.
const DefaultLanguage = "zh-CN"

// countryLanguagePrefixes maps an ISO country code to the browser-language
// prefixes considered consistent with it. Countries not in the table get the
// benefit of the doubt and are treated as matching.
var countryLanguagePrefixes = map[string][]string{
	"cn": {"zh-cn"},
	"tw": {"zh-tw"},
	"hk": {"zh-hk", "zh-tw"},
	"us": {"en"},
	"gb": {"en"},
	"jp": {"ja"},
	"kr": {"ko"},
	"ru": {"ru"},
	"de": {"de"},
	"fr": {"fr"},
	"es": {"es"},
	"it": {"it"},
	"br": {"pt"},
	"pt": {"pt"},
}

// ExtractLanguage pulls a language tag out of an opaque device fingerprint
// by locating a "language:" token and reading up to the next '|' or ','
// delimiter. Absent or malformed tokens yield DefaultLanguage.
func ExtractLanguage(fingerprint string) string {
	if fingerprint == "" {
		return DefaultLanguage
	}

	langIndex := strings.Index(fingerprint, "language")
	if langIndex < 0 {
		return DefaultLanguage
	}

	colonIndex := strings.Index(fingerprint[langIndex:], ":")
	if colonIndex < 0 {
		return DefaultLanguage
	}
	colonIndex += langIndex

	rest := fingerprint[colonIndex+1:]
	end := len(rest)
	if i := strings.Index(rest, "|"); i >= 0 {
		end = i
	} else if i := strings.Index(rest, ","); i >= 0 {
		end = i
	}

	language := strings.TrimSpace(rest[:end])
	if language == "" {
		return DefaultLanguage
	}
	return language
}

// LanguageMatchesCountry reports whether the browser language is plausible
// for the resolved country. Missing data or a country outside the table
// defaults to matching: a consistency check should only penalize observed
// inconsistency, never absent information.
func LanguageMatchesCountry(language, countryCode string) bool {
	if language == "" || countryCode == "" {
		return true
	}

	lang := strings.ToLower(language)
	country := strings.ToLower(countryCode)

	prefixes, known := countryLanguagePrefixes[country]
	if !known {
		return true
	}

	// Bare "zh" is mainland Chinese; "zh-tw" etc. carry their own region.
	if country == "cn" && lang == "zh" {
		return true
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(lang, prefix) {
			return true
		}
	}
	return false
}
