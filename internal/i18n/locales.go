package i18n

// Locale codes served by the site UI.
const (
	LangTR = "tr"
	LangEN = "en"
	LangDE = "de"
	LangES = "es"
	LangFR = "fr"
	LangIT = "it"
	LangRU = "ru"
	LangAR = "ar"
	LangZH = "zh"
	LangJA = "ja"
	LangKO = "ko"
	LangPT = "pt"
)

// DefaultLanguage is the fallback locale when a translation is missing.
const DefaultLanguage = LangEN

// SupportedLocales is the closed set of UI locales.
var SupportedLocales = []string{
	LangTR, LangEN, LangDE, LangES, LangFR, LangIT,
	LangRU, LangAR, LangZH, LangJA, LangKO, LangPT,
}

// EmbeddingLanguages is the subset of locales that get vector
// embeddings. Restricting the index to Turkish and English is a scope
// decision, not a fallback: other translations are simply never
// embedded.
var EmbeddingLanguages = []string{LangTR, LangEN}

// IsSupportedLocale reports whether code is one of the UI locales.
func IsSupportedLocale(code string) bool {
	for _, l := range SupportedLocales {
		if l == code {
			return true
		}
	}
	return false
}

// IsEmbeddingLanguage reports whether translations in code are indexed.
func IsEmbeddingLanguage(code string) bool {
	return code == LangTR || code == LangEN
}

// NormalizeEmbeddingLanguage maps a requested language onto the index
// partitions: "tr" stays "tr", everything else becomes "en".
func NormalizeEmbeddingLanguage(code string) string {
	if code == LangTR {
		return LangTR
	}
	return LangEN
}
