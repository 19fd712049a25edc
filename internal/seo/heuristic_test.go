package seo_test

import (
	"strings"
	"testing"

	"github.com/hassanzn2023/autoblog-sub000/internal/seo"
)

// article builds HTML content with the requested structure.
func article(words, headings, paragraphs, images int, keyword string, keywordCount int) string {
	var b strings.Builder
	for i := 0; i < headings; i++ {
		b.WriteString("<h2>Section heading</h2>")
	}
	filler := words - keywordCount
	var text strings.Builder
	for i := 0; i < filler; i++ {
		text.WriteString("word ")
	}
	for i := 0; i < keywordCount; i++ {
		text.WriteString(keyword + " ")
	}
	perParagraph := text.String()
	if paragraphs > 0 {
		b.WriteString("<p>" + perParagraph + "</p>")
		for i := 1; i < paragraphs; i++ {
			b.WriteString("<p>and so on</p>")
		}
	} else {
		b.WriteString(perParagraph)
	}
	for i := 0; i < images; i++ {
		b.WriteString(`<img src="x.png" alt="diagram">`)
	}
	return b.String()
}

func TestHeuristicAnalyze_EmptyContentBaseScore(t *testing.T) {
	result := seo.HeuristicAnalyze("", "")
	if result.OverallScore != 50 {
		t.Errorf("expected base score 50 for empty content, got %d", result.OverallScore)
	}
}

func TestHeuristicAnalyze_ScoreWithinRange(t *testing.T) {
	inputs := []string{
		"",
		"<p>short</p>",
		article(2000, 10, 20, 5, "go", 40),
		strings.Repeat("keyword ", 500),
	}
	for _, input := range inputs {
		result := seo.HeuristicAnalyze(input, "keyword")
		if result.OverallScore < 0 || result.OverallScore > 100 {
			t.Errorf("score %d outside [0,100]", result.OverallScore)
		}
	}
}

func TestHeuristicAnalyze_StuffingScoresLower(t *testing.T) {
	// ~2% density vs ~5% density, all else equal.
	healthy := seo.HeuristicAnalyze(article(400, 2, 4, 1, "gardening", 8), "gardening")
	stuffed := seo.HeuristicAnalyze(article(400, 2, 4, 1, "gardening", 20), "gardening")

	if stuffed.OverallScore >= healthy.OverallScore {
		t.Errorf("stuffed content (%d) must score strictly below healthy density (%d)",
			stuffed.OverallScore, healthy.OverallScore)
	}
}

func TestHeuristicAnalyze_MissingKeywordRecommendation(t *testing.T) {
	// 300+ words, 2 headings, 1 image, no primary keyword.
	content := article(350, 2, 4, 1, "", 0)
	result := seo.HeuristicAnalyze(content, "")

	var sawMissingKeyword, sawTooShort bool
	for _, cat := range result.Categories {
		for _, issue := range cat.Issues {
			switch issue.Issue {
			case "Primary keyword not found", "Low keyword density":
				sawMissingKeyword = true
			case "Content is too short":
				sawTooShort = true
			}
		}
	}
	if !sawMissingKeyword {
		t.Error("expected a missing-keyword or low-density recommendation")
	}
	if sawTooShort {
		t.Error("did not expect a too-short recommendation for 300+ words")
	}
}

func TestHeuristicAnalyze_ShortContentRecommendation(t *testing.T) {
	result := seo.HeuristicAnalyze("<p>just a few words here</p>", "")
	var sawTooShort bool
	for _, cat := range result.Categories {
		for _, issue := range cat.Issues {
			if issue.Issue == "Content is too short" {
				sawTooShort = true
			}
		}
	}
	if !sawTooShort {
		t.Error("expected a too-short recommendation")
	}
}

func TestHeuristicAnalyze_WordCountBrackets(t *testing.T) {
	// Plain text with no structure or keyword: score is base + word bonus.
	tests := []struct {
		words int
		want  int
	}{
		{0, 50},
		{100, 50},
		{300, 60},
		{600, 65},
		{1000, 70},
	}
	for _, tt := range tests {
		content := strings.TrimSpace(strings.Repeat("word ", tt.words))
		result := seo.HeuristicAnalyze(content, "")
		if result.OverallScore != tt.want {
			t.Errorf("%d words: expected score %d, got %d", tt.words, tt.want, result.OverallScore)
		}
	}
}

func TestStripTags(t *testing.T) {
	got := seo.StripTags("<h1>Title</h1><p>Hello <b>world</b></p><script>alert(1)</script>")
	if strings.Contains(got, "alert") {
		t.Errorf("script content leaked into text: %q", got)
	}
	for _, want := range []string{"Title", "Hello", "world"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := seo.Truncate("abcdef", 4); got != "abcd" {
		t.Errorf("expected abcd, got %q", got)
	}
	if got := seo.Truncate("abc", 4); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	// Rune-safe on multibyte text.
	if got := seo.Truncate("ありがとう", 3); got != "ありが" {
		t.Errorf("expected ありが, got %q", got)
	}
}

func TestContainsArabic(t *testing.T) {
	if !seo.ContainsArabic("تحسين محركات البحث") {
		t.Error("expected Arabic text to be detected")
	}
	if seo.ContainsArabic("search engine optimization") {
		t.Error("expected Latin text not to be detected")
	}
}
