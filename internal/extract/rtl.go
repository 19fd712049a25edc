package extract

import "strings"

// rtlLangs are language codes written right-to-left.
var rtlLangs = []string{"ar", "he", "fa", "ur"}

// IsRTLLang reports whether a lang attribute value names an RTL language.
func IsRTLLang(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, l := range rtlLangs {
		if lang == l || strings.HasPrefix(lang, l+"-") {
			return true
		}
	}
	return false
}

// ContainsRTL reports whether the text is predominantly right-to-left script.
// It scans for Arabic and Hebrew code points and flags the text when they make
// up a meaningful share of its letters.
func ContainsRTL(text string) bool {
	var rtl, letters int
	for _, r := range text {
		switch {
		case isRTLRune(r):
			rtl++
			letters++
		case isLetter(r):
			letters++
		}
	}
	if letters == 0 {
		return false
	}
	// A quarter of the letters being RTL script is enough; mixed pages quote
	// Latin brand names and URLs constantly.
	return rtl*4 >= letters
}

func isRTLRune(r rune) bool {
	switch {
	case r >= 0x0590 && r <= 0x05FF: // Hebrew
		return true
	case r >= 0x0600 && r <= 0x06FF: // Arabic
		return true
	case r >= 0x0750 && r <= 0x077F: // Arabic Supplement
		return true
	case r >= 0x08A0 && r <= 0x08FF: // Arabic Extended-A
		return true
	case r >= 0xFB50 && r <= 0xFDFF: // Arabic Presentation Forms-A
		return true
	case r >= 0xFE70 && r <= 0xFEFF: // Arabic Presentation Forms-B
		return true
	}
	return false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x00C0
}
