package domain

// Issue severities used in analysis reports.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// SEOIssue is a single finding within a category.
type SEOIssue struct {
	Severity string `json:"severity"`
	Issue    string `json:"issue"`
	Solution string `json:"solution"`
}

// SEOCategory groups issues under a named aspect of the content.
type SEOCategory struct {
	Name   string     `json:"name"`
	Score  int        `json:"score"`
	Issues []SEOIssue `json:"issues"`
}

// SEOAnalysisResult is the full report for one piece of content. Ephemeral,
// never persisted. RawResponse is set when the model's output could not be
// validated and the report is a degraded wrap of whatever was recovered.
type SEOAnalysisResult struct {
	OverallScore int           `json:"overallScore"`
	Categories   []SEOCategory `json:"categories"`
	Summary      string        `json:"summary"`
	RawResponse  bool          `json:"rawResponse,omitempty"`
}

// AnalyzeRequest is the request body for SEO content analysis.
type AnalyzeRequest struct {
	Content           string   `json:"content"`
	PrimaryKeyword    string   `json:"primaryKeyword,omitempty"`
	SecondaryKeywords []string `json:"secondaryKeywords,omitempty"`
	UserID            string   `json:"userId"`
	WorkspaceID       string   `json:"workspaceId"`
}
