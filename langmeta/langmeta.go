// Package langmeta is the registry of language codes understood by Lingva
// endpoints, with English and native display names for CLI output.
package langmeta

import (
	"sort"
	"strings"
)

// Meta describes one language.
type Meta struct {
	Code   string // code as sent to the endpoint
	Name   string // English name
	Native string
}

// Registry maps canonical codes (see canonicalize) to language metadata.
var Registry = map[string]Meta{
	"af":      {Code: "af", Name: "Afrikaans", Native: "Afrikaans"},
	"am":      {Code: "am", Name: "Amharic", Native: "አማርኛ"},
	"ar":      {Code: "ar", Name: "Arabic", Native: "العربية"},
	"az":      {Code: "az", Name: "Azerbaijani", Native: "Azərbaycan"},
	"be":      {Code: "be", Name: "Belarusian", Native: "Беларуская"},
	"bg":      {Code: "bg", Name: "Bulgarian", Native: "Български"},
	"bn":      {Code: "bn", Name: "Bengali", Native: "বাংলা"},
	"bs":      {Code: "bs", Name: "Bosnian", Native: "Bosanski"},
	"ca":      {Code: "ca", Name: "Catalan", Native: "Català"},
	"cs":      {Code: "cs", Name: "Czech", Native: "Čeština"},
	"cy":      {Code: "cy", Name: "Welsh", Native: "Cymraeg"},
	"da":      {Code: "da", Name: "Danish", Native: "Dansk"},
	"de":      {Code: "de", Name: "German", Native: "Deutsch"},
	"el":      {Code: "el", Name: "Greek", Native: "Ελληνικά"},
	"en":      {Code: "en", Name: "English", Native: "English"},
	"eo":      {Code: "eo", Name: "Esperanto", Native: "Esperanto"},
	"es":      {Code: "es", Name: "Spanish", Native: "Español"},
	"et":      {Code: "et", Name: "Estonian", Native: "Eesti"},
	"eu":      {Code: "eu", Name: "Basque", Native: "Euskara"},
	"fa":      {Code: "fa", Name: "Persian", Native: "فارسی"},
	"fi":      {Code: "fi", Name: "Finnish", Native: "Suomi"},
	"fr":      {Code: "fr", Name: "French", Native: "Français"},
	"ga":      {Code: "ga", Name: "Irish", Native: "Gaeilge"},
	"gl":      {Code: "gl", Name: "Galician", Native: "Galego"},
	"gu":      {Code: "gu", Name: "Gujarati", Native: "ગુજરાતી"},
	"he":      {Code: "he", Name: "Hebrew", Native: "עברית"},
	"hi":      {Code: "hi", Name: "Hindi", Native: "हिन्दी"},
	"hr":      {Code: "hr", Name: "Croatian", Native: "Hrvatski"},
	"hu":      {Code: "hu", Name: "Hungarian", Native: "Magyar"},
	"hy":      {Code: "hy", Name: "Armenian", Native: "Հայերեն"},
	"id":      {Code: "id", Name: "Indonesian", Native: "Bahasa Indonesia"},
	"is":      {Code: "is", Name: "Icelandic", Native: "Íslenska"},
	"it":      {Code: "it", Name: "Italian", Native: "Italiano"},
	"ja":      {Code: "ja", Name: "Japanese", Native: "日本語"},
	"ka":      {Code: "ka", Name: "Georgian", Native: "ქართული"},
	"kk":      {Code: "kk", Name: "Kazakh", Native: "Қазақ"},
	"km":      {Code: "km", Name: "Khmer", Native: "ខ្មែរ"},
	"kn":      {Code: "kn", Name: "Kannada", Native: "ಕನ್ನಡ"},
	"ko":      {Code: "ko", Name: "Korean", Native: "한국어"},
	"ky":      {Code: "ky", Name: "Kyrgyz", Native: "Кыргызча"},
	"lo":      {Code: "lo", Name: "Lao", Native: "ລາວ"},
	"lt":      {Code: "lt", Name: "Lithuanian", Native: "Lietuvių"},
	"lv":      {Code: "lv", Name: "Latvian", Native: "Latviešu"},
	"mk":      {Code: "mk", Name: "Macedonian", Native: "Македонски"},
	"ml":      {Code: "ml", Name: "Malayalam", Native: "മലയാളം"},
	"mn":      {Code: "mn", Name: "Mongolian", Native: "Монгол"},
	"mr":      {Code: "mr", Name: "Marathi", Native: "मराठी"},
	"ms":      {Code: "ms", Name: "Malay", Native: "Bahasa Melayu"},
	"my":      {Code: "my", Name: "Burmese", Native: "မြန်မာ"},
	"ne":      {Code: "ne", Name: "Nepali", Native: "नेपाली"},
	"nl":      {Code: "nl", Name: "Dutch", Native: "Nederlands"},
	"no":      {Code: "no", Name: "Norwegian", Native: "Norsk"},
	"pa":      {Code: "pa", Name: "Punjabi", Native: "ਪੰਜਾਬੀ"},
	"pl":      {Code: "pl", Name: "Polish", Native: "Polski"},
	"pt":      {Code: "pt", Name: "Portuguese", Native: "Português"},
	"ro":      {Code: "ro", Name: "Romanian", Native: "Română"},
	"ru":      {Code: "ru", Name: "Russian", Native: "Русский"},
	"si":      {Code: "si", Name: "Sinhala", Native: "සිංහල"},
	"sk":      {Code: "sk", Name: "Slovak", Native: "Slovenčina"},
	"sl":      {Code: "sl", Name: "Slovenian", Native: "Slovenščina"},
	"sq":      {Code: "sq", Name: "Albanian", Native: "Shqip"},
	"sr":      {Code: "sr", Name: "Serbian", Native: "Српски"},
	"sv":      {Code: "sv", Name: "Swedish", Native: "Svenska"},
	"sw":      {Code: "sw", Name: "Swahili", Native: "Kiswahili"},
	"ta":      {Code: "ta", Name: "Tamil", Native: "தமிழ்"},
	"te":      {Code: "te", Name: "Telugu", Native: "తెలుగు"},
	"tg":      {Code: "tg", Name: "Tajik", Native: "Тоҷикӣ"},
	"th":      {Code: "th", Name: "Thai", Native: "ไทย"},
	"tl":      {Code: "tl", Name: "Filipino", Native: "Filipino"},
	"tr":      {Code: "tr", Name: "Turkish", Native: "Türkçe"},
	"uk":      {Code: "uk", Name: "Ukrainian", Native: "Українська"},
	"ur":      {Code: "ur", Name: "Urdu", Native: "اردو"},
	"uz":      {Code: "uz", Name: "Uzbek", Native: "Oʻzbek"},
	"vi":      {Code: "vi", Name: "Vietnamese", Native: "Tiếng Việt"},
	"zh":      {Code: "zh", Name: "Chinese (Simplified)", Native: "简体中文"},
	"zh-HANT": {Code: "zh_HANT", Name: "Chinese (Traditional)", Native: "繁體中文"},
}

// canonicalize normalizes a language code: "_" becomes "-", the base is
// lowercased and the first subtag uppercased (pt_br → pt-BR).
func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

func lookup(lang string) (Meta, bool) {
	if m, ok := Registry[lang]; ok {
		return m, true
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m, true
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m, true
		}
	}
	return Meta{}, false
}

// Resolve returns metadata for lang, accepting variants like pt_BR and
// falling back to the base language. Unknown codes come back with the code
// itself as name.
func Resolve(lang string) Meta {
	if m, ok := lookup(lang); ok {
		return m
	}
	return Meta{Code: lang, Name: lang, Native: lang}
}

// Known reports whether lang resolves to a registered language.
func Known(lang string) bool {
	_, ok := lookup(lang)
	return ok
}

// Label formats lang for display, e.g. "de (German)".
func Label(lang string) string {
	m, ok := lookup(lang)
	if !ok {
		return lang
	}
	return lang + " (" + m.Name + ")"
}

// Codes returns the endpoint codes of all registered languages, sorted.
func Codes() []string {
	codes := make([]string, 0, len(Registry))
	for _, m := range Registry {
		codes = append(codes, m.Code)
	}
	sort.Strings(codes)
	return codes
}
