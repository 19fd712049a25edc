package domain

// ExtractRequest is the request body for URL content extraction.
type ExtractRequest struct {
	URL string `json:"url"`
}

// ExtractedContent is the result of extracting readable content from a page.
type ExtractedContent struct {
	Title       string `json:"title"`
	Content     string `json:"content"`     // Cleaned HTML
	TextContent string `json:"textContent"` // Plain text
	Length      int    `json:"length"`      // Length of TextContent in runes
	Excerpt     string `json:"excerpt"`
	Byline      string `json:"byline"`
	SiteName    string `json:"siteName"`
	RTL         bool   `json:"rtl"`
}
