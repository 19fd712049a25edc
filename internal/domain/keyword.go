package domain

// KeywordSuggestion is one suggested keyword. Suggestions are ephemeral:
// generated per request, never persisted.
type KeywordSuggestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// KeywordsRequest is the request body for primary keyword suggestions.
type KeywordsRequest struct {
	Content     string `json:"content"`
	Count       int    `json:"count,omitempty"`
	Note        string `json:"note,omitempty"` // Free-text regeneration hint, passed verbatim to the model
	UserID      string `json:"userId"`
	WorkspaceID string `json:"workspaceId"`
}

// SecondaryKeywordsRequest is the request body for secondary keyword
// suggestions, related to an already chosen primary keyword.
type SecondaryKeywordsRequest struct {
	PrimaryKeyword string `json:"primaryKeyword"`
	Content        string `json:"content"`
	Count          int    `json:"count,omitempty"`
	Note           string `json:"note,omitempty"`
	UserID         string `json:"userId"`
	WorkspaceID    string `json:"workspaceId"`
}

// KeywordsResponse carries the suggestions plus parse provenance. Recovered is
// set when the model's output was not clean JSON and the suggestions were
// salvaged by delimiter splitting.
type KeywordsResponse struct {
	Keywords  []KeywordSuggestion `json:"keywords"`
	Recovered bool                `json:"recovered,omitempty"`
	Warning   string              `json:"warning,omitempty"`
}
