package nvidia

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the locale the lookup service is queried with when
// nothing else is configured.
const DefaultLanguage = "zh-CN"

// languageCodes lists the Windows LCIDs the lookup service understands,
// indexed in the same order as supportedLanguages.
var languageCodes = []int{
	2052, // Simplified Chinese
	1033, // English (US)
	1028, // Traditional Chinese
	1041, // Japanese
	1042, // Korean
	1031, // German
	1036, // French
	3082, // Spanish
	1049, // Russian
}

var supportedLanguages = []language.Tag{
	language.SimplifiedChinese,
	language.AmericanEnglish,
	language.TraditionalChinese,
	language.Japanese,
	language.Korean,
	language.German,
	language.French,
	language.Spanish,
	language.Russian,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// LanguageCode maps a BCP 47 locale such as "zh-CN" or "en-US" onto the
// numeric language code used by the lookup service. Locales whose base
// language is not served are rejected, even when the matcher offers a
// fallback.
func LanguageCode(tag string) (int, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = DefaultLanguage
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return 0, fmt.Errorf("parse language %q: %w", tag, err)
	}
	_, index, confidence := languageMatcher.Match(parsed)
	if confidence < language.High || !sameBase(parsed, supportedLanguages[index]) {
		return 0, fmt.Errorf("language %q is not supported by the driver lookup service", tag)
	}
	return languageCodes[index], nil
}

func sameBase(a, b language.Tag) bool {
	baseA, _ := a.Base()
	baseB, _ := b.Base()
	return baseA == baseB
}
