package seo

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
)

// contentStats are the structural counts the heuristic scorer works from.
type contentStats struct {
	words      int
	headings   int
	paragraphs int
	images     int
}

// analyzeStructure counts words, headings, paragraphs and images in an HTML
// fragment. Plain text counts as words only.
func analyzeStructure(content string) contentStats {
	stats := contentStats{words: countWords(StripTags(content))}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return stats
	}
	stats.headings = doc.Find("h1, h2, h3, h4, h5, h6").Length()
	stats.paragraphs = doc.Find("p").Length()
	stats.images = doc.Find("img").Length()
	return stats
}

// HeuristicAnalyze scores content without the model: a deterministic
// threshold scorer used when the LLM path fails or no provider key exists.
//
// Scoring: base 50; word count >=300/600/1000 adds 10/15/20 (highest bracket
// only); headings >=1 and >=3 add 5 each; >=4 paragraphs adds 5; images >=1
// and >=2 add 5 each; keyword presence adds 5, density within [1%,3%] adds
// 10, density above 3% subtracts 5 (stuffing). Clamped to [0,100].
func HeuristicAnalyze(content, primaryKeyword string) *domain.SEOAnalysisResult {
	stats := analyzeStructure(content)
	text := StripTags(content)

	score := 50
	switch {
	case stats.words >= 1000:
		score += 20
	case stats.words >= 600:
		score += 15
	case stats.words >= 300:
		score += 10
	}
	if stats.headings >= 1 {
		score += 5
	}
	if stats.headings >= 3 {
		score += 5
	}
	if stats.paragraphs >= 4 {
		score += 5
	}
	if stats.images >= 1 {
		score += 5
	}
	if stats.images >= 2 {
		score += 5
	}

	occurrences := countOccurrences(text, primaryKeyword)
	density := 0.0
	if stats.words > 0 {
		density = float64(occurrences) / float64(stats.words) * 100
	}
	if occurrences > 0 {
		score += 5
	}
	if density >= 1 && density <= 3 {
		score += 10
	} else if density > 3 {
		score -= 5
	}

	return &domain.SEOAnalysisResult{
		OverallScore: clampScore(score),
		Categories:   heuristicCategories(stats, primaryKeyword, occurrences, density),
		Summary:      "Automatic structural analysis. Scores are based on word count, heading structure, media use and keyword density.",
	}
}

// heuristicCategories emits fixed-text recommendations keyed off the same
// thresholds the scorer uses.
func heuristicCategories(stats contentStats, primaryKeyword string, occurrences int, density float64) []domain.SEOCategory {
	var length, structure, media, keywords []domain.SEOIssue

	if stats.words < 300 {
		length = append(length, domain.SEOIssue{
			Severity: domain.SeverityHigh,
			Issue:    "Content is too short",
			Solution: "Expand the content to at least 300 words; 600 or more ranks better.",
		})
	} else if stats.words < 600 {
		length = append(length, domain.SEOIssue{
			Severity: domain.SeverityLow,
			Issue:    "Content is on the short side",
			Solution: "Consider expanding towards 600+ words for more ranking potential.",
		})
	}

	if stats.headings == 0 {
		structure = append(structure, domain.SEOIssue{
			Severity: domain.SeverityMedium,
			Issue:    "No headings found",
			Solution: "Break the content into sections with H2 and H3 headings.",
		})
	} else if stats.headings < 3 {
		structure = append(structure, domain.SEOIssue{
			Severity: domain.SeverityLow,
			Issue:    "Thin heading structure",
			Solution: "Add more subheadings so readers and crawlers can scan the content.",
		})
	}
	if stats.paragraphs < 4 {
		structure = append(structure, domain.SEOIssue{
			Severity: domain.SeverityLow,
			Issue:    "Few paragraphs",
			Solution: "Split long blocks of text into shorter paragraphs.",
		})
	}

	if stats.images == 0 {
		media = append(media, domain.SEOIssue{
			Severity: domain.SeverityMedium,
			Issue:    "No images found",
			Solution: "Add at least one relevant image with descriptive alt text.",
		})
	} else if stats.images == 1 {
		media = append(media, domain.SEOIssue{
			Severity: domain.SeverityLow,
			Issue:    "Only one image",
			Solution: "A second image or diagram improves engagement on longer content.",
		})
	}

	switch {
	case primaryKeyword == "" || occurrences == 0:
		keywords = append(keywords, domain.SEOIssue{
			Severity: domain.SeverityHigh,
			Issue:    "Primary keyword not found",
			Solution: "Use the primary keyword in the title, the first paragraph and naturally throughout the content.",
		})
	case density > 3:
		keywords = append(keywords, domain.SEOIssue{
			Severity: domain.SeverityMedium,
			Issue:    "Keyword stuffing detected",
			Solution: "Reduce keyword repetition; aim for a density between 1% and 3%.",
		})
	case density < 1:
		keywords = append(keywords, domain.SEOIssue{
			Severity: domain.SeverityMedium,
			Issue:    "Low keyword density",
			Solution: "Mention the primary keyword a few more times; aim for 1% to 3% density.",
		})
	}

	return []domain.SEOCategory{
		{Name: "Content Length", Score: categoryScore(length), Issues: orEmpty(length)},
		{Name: "Structure", Score: categoryScore(structure), Issues: orEmpty(structure)},
		{Name: "Media", Score: categoryScore(media), Issues: orEmpty(media)},
		{Name: "Keywords", Score: categoryScore(keywords), Issues: orEmpty(keywords)},
	}
}

// categoryScore starts at 100 and deducts per issue by severity.
func categoryScore(issues []domain.SEOIssue) int {
	score := 100
	for _, issue := range issues {
		switch issue.Severity {
		case domain.SeverityHigh:
			score -= 40
		case domain.SeverityMedium:
			score -= 25
		case domain.SeverityLow:
			score -= 10
		}
	}
	return clampScore(score)
}

func orEmpty(issues []domain.SEOIssue) []domain.SEOIssue {
	if issues == nil {
		return []domain.SEOIssue{}
	}
	return issues
}
