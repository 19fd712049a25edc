package seo

import (
	"fmt"
	"strings"
)

// Prompt input budgets, in runes. These bound token cost, not quality; models
// extract keywords reliably from the opening of an article.
const (
	keywordContentBudget  = 2000
	analysisContentBudget = 6000
)

const keywordSystemPrompt = "You are an SEO keyword research expert. " +
	"You extract the most relevant search keywords from content. " +
	"You respond with JSON only, never with prose."

const analysisSystemPrompt = "You are an SEO content auditor. " +
	"You score content for search engine optimization and report concrete, actionable issues. " +
	"You respond with JSON only, never with prose."

// buildKeywordPrompt builds the user prompt for primary keyword suggestion.
// note, when present, is a free-text regeneration hint appended verbatim.
func buildKeywordPrompt(content string, count int, note string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract the %d most relevant SEO keywords from the following content.\n\n", count)
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	if note != "" {
		fmt.Fprintf(&b, "Additional instructions from the user: %s\n\n", note)
	}
	b.WriteString("Answer in the same language the content is written in.\n")
	b.WriteString(`Respond with a JSON object of the form {"keywords": ["keyword one", "keyword two"]} and nothing else.`)
	return b.String()
}

// buildSecondaryKeywordPrompt builds the user prompt for secondary keywords
// related to an already chosen primary keyword.
func buildSecondaryKeywordPrompt(primaryKeyword, content string, count int, note string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The primary keyword is %q.\n", primaryKeyword)
	fmt.Fprintf(&b, "Extract the %d best secondary SEO keywords related to the primary keyword from the following content.\n\n", count)
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	if note != "" {
		fmt.Fprintf(&b, "Additional instructions from the user: %s\n\n", note)
	}
	b.WriteString("Answer in the same language the content is written in.\n")
	b.WriteString(`Respond with a JSON object of the form {"keywords": ["keyword one", "keyword two"]} and nothing else.`)
	return b.String()
}

// buildAnalysisPrompt builds the user prompt for the structured SEO report.
func buildAnalysisPrompt(content, primaryKeyword string, secondaryKeywords []string, arabic bool) string {
	var b strings.Builder
	b.WriteString("Analyze the following content for SEO quality.\n\n")
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	if primaryKeyword != "" {
		fmt.Fprintf(&b, "Primary keyword: %s\n", primaryKeyword)
	}
	if len(secondaryKeywords) > 0 {
		fmt.Fprintf(&b, "Secondary keywords: %s\n", strings.Join(secondaryKeywords, ", "))
	}
	b.WriteString("\nRespond with a JSON object with these keys:\n")
	b.WriteString(`- "overallScore": integer 0-100` + "\n")
	b.WriteString(`- "categories": array of {"name", "score", "issues"} where each issue is {"severity": "high"|"medium"|"low", "issue", "solution"}` + "\n")
	b.WriteString(`- "summary": short text summary` + "\n")
	if arabic {
		b.WriteString("\nWrite all issue texts, solutions and the summary in Arabic.\n")
	} else {
		b.WriteString("\nWrite all issue texts, solutions and the summary in the language of the content.\n")
	}
	b.WriteString("Respond with the JSON object and nothing else.")
	return b.String()
}
