package i18n

import "golang.org/x/text/language"

var matcher = language.NewMatcher([]language.Tag{
	language.Turkish, // first entry is the fallback
	language.English,
})

// Negotiate picks the supported language that best matches an Accept-Language
// header value. Empty or unparseable headers yield Default.
func Negotiate(acceptLanguage string) Language {
	if acceptLanguage == "" {
		return Default
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	if index == 1 {
		return EN
	}
	return TR
}
