package seo

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags returns the plain text of an HTML fragment. Non-HTML input passes
// through unchanged apart from whitespace normalization.
func StripTags(content string) string {
	if !strings.Contains(content, "<") {
		return squash(content)
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return squash(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isInvisibleTag(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isInvisibleTag(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isInvisibleTag(name string) bool {
	switch name {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate limits s to max runes. The cut is blunt; it only bounds prompt
// token cost, the model never sees the boundary as meaningful.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// ContainsArabic reports whether s contains any Arabic-range code points.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if (r >= 0x0600 && r <= 0x06FF) || (r >= 0x0750 && r <= 0x077F) ||
			(r >= 0xFB50 && r <= 0xFDFF) || (r >= 0xFE70 && r <= 0xFEFF) {
			return true
		}
	}
	return false
}

// countWords counts whitespace-separated tokens in plain text.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// countOccurrences counts case-insensitive occurrences of needle in text.
func countOccurrences(text, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(needle))
}
