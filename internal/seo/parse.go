package seo

import (
	"encoding/json"
	"strings"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
)

// ParseStatus tags how a model response was turned into a usable value.
type ParseStatus int

const (
	// StatusParsed means the response was clean, well-formed JSON.
	StatusParsed ParseStatus = iota
	// StatusRecovered means the response was malformed and the value was
	// salvaged by a best-effort fallback. Callers decide whether a recovered
	// value is acceptable.
	StatusRecovered
)

// ParsedKeywords is the outcome of parsing a keyword-suggestion response.
type ParsedKeywords struct {
	Keywords []string
	Status   ParseStatus
	Warning  string // Set when Status is StatusRecovered
}

// parseKeywordResponse parses the model's keyword output. Clean path: a JSON
// object with a "keywords" array of strings (or objects carrying a text
// field). Fallback: split the raw text on newlines and commas. Returns
// domain.ErrUnparsableOutput when neither yields anything.
func parseKeywordResponse(raw string) (*ParsedKeywords, error) {
	var wrapper struct {
		Keywords []json.RawMessage `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err == nil && wrapper.Keywords != nil {
		keywords := make([]string, 0, len(wrapper.Keywords))
		for _, item := range wrapper.Keywords {
			if text := keywordText(item); text != "" {
				keywords = append(keywords, text)
			}
		}
		if len(keywords) > 0 {
			return &ParsedKeywords{Keywords: keywords, Status: StatusParsed}, nil
		}
	}

	keywords := splitKeywords(raw)
	if len(keywords) == 0 {
		return nil, domain.ErrUnparsableOutput
	}
	return &ParsedKeywords{
		Keywords: keywords,
		Status:   StatusRecovered,
		Warning:  "model output was not valid JSON; keywords recovered by splitting",
	}, nil
}

// keywordText extracts the keyword string from one array element, which may
// be a bare string or an object with a text/keyword field.
func keywordText(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Text    string `json:"text"`
		Keyword string `json:"keyword"`
	}
	if err := json.Unmarshal(item, &obj); err == nil {
		if obj.Text != "" {
			return strings.TrimSpace(obj.Text)
		}
		return strings.TrimSpace(obj.Keyword)
	}
	return ""
}

// splitKeywords is the delimiter fallback: split on newlines and commas, trim
// list markers and JSON punctuation, drop empties.
func splitKeywords(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	})
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		text := strings.Trim(part, " \t\"'[]{}-*•:")
		text = strings.TrimSpace(text)
		if text == "" || strings.EqualFold(text, "keywords") {
			continue
		}
		keywords = append(keywords, text)
	}
	return keywords
}

// analysisPayload is the model-facing shape of an analysis report. Score
// fields are float64 because models emit both 87 and 87.0.
type analysisPayload struct {
	OverallScore *float64 `json:"overallScore"`
	Categories   []struct {
		Name   string            `json:"name"`
		Score  float64           `json:"score"`
		Issues []domain.SEOIssue `json:"issues"`
	} `json:"categories"`
	Summary string `json:"summary"`
}

// parseAnalysisResponse parses the model's SEO report. Clean path: direct
// JSON. Second chance: a fenced ```json code block inside prose. When the
// recovered value fails validation (non-numeric score or missing categories
// array), the raw text is wrapped into a degraded result with RawResponse set
// so the caller can tell it apart from a real report.
func parseAnalysisResponse(raw string) (*domain.SEOAnalysisResult, ParseStatus) {
	status := StatusParsed
	payload, ok := unmarshalAnalysis(raw)
	if !ok {
		status = StatusRecovered
		if fenced := extractFencedJSON(raw); fenced != "" {
			payload, ok = unmarshalAnalysis(fenced)
		}
	}

	if !ok || payload.OverallScore == nil || payload.Categories == nil {
		return &domain.SEOAnalysisResult{
			OverallScore: 0,
			Categories:   []domain.SEOCategory{},
			Summary:      strings.TrimSpace(raw),
			RawResponse:  true,
		}, StatusRecovered
	}

	result := &domain.SEOAnalysisResult{
		OverallScore: clampScore(int(*payload.OverallScore)),
		Categories:   make([]domain.SEOCategory, 0, len(payload.Categories)),
		Summary:      payload.Summary,
	}
	for _, c := range payload.Categories {
		issues := c.Issues
		if issues == nil {
			issues = []domain.SEOIssue{}
		}
		result.Categories = append(result.Categories, domain.SEOCategory{
			Name:   c.Name,
			Score:  clampScore(int(c.Score)),
			Issues: issues,
		})
	}
	return result, status
}

func unmarshalAnalysis(raw string) (*analysisPayload, bool) {
	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

// extractFencedJSON returns the contents of the first ```json fenced block,
// or the first ``` block as a last resort.
func extractFencedJSON(raw string) string {
	for _, fence := range []string{"```json", "```"} {
		start := strings.Index(raw, fence)
		if start < 0 {
			continue
		}
		rest := raw[start+len(fence):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(rest[:end])
	}
	return ""
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
