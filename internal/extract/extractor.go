// Package extract turns a URL into clean, readable article content. A
// readability pass runs first; when it fails or comes back empty the extractor
// falls back to a prioritized list of CSS selectors with an unwanted-element
// blocklist, which handles the long tail of blog themes.
package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/hassanzn2023/autoblog-sub000/internal/config"
	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
)

// contentSelectors is tried in order by the fallback extractor. Ordered from
// most specific article containers down to generic page regions.
var contentSelectors = []string{
	"article",
	".post-content",
	".entry-content",
	".article-content",
	".article-body",
	".post-body",
	".content-area",
	"#content",
	"main",
	".site-main",
	"body",
}

// unwantedSelector matches elements stripped from the fallback extraction:
// scripts, chrome, ads, comments and overlays.
const unwantedSelector = "script, style, noscript, iframe, svg, nav, header, footer, aside, form, button, " +
	".advertisement, .ads, .ad, .ad-container, .comments, .comment-section, .comment-respond, " +
	".social-share, .share-buttons, .related-posts, .sidebar, .widget, .modal, .popup, .cookie-banner"

const excerptLimit = 200

// Extractor fetches pages and extracts their readable content.
type Extractor struct {
	client *http.Client
	cfg    config.ExtractConfig
	logger *slog.Logger
}

// New creates a new Extractor.
func New(cfg config.ExtractConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Extract fetches rawURL and returns its readable content.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.ExtractedContent, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", domain.ErrInvalidInput, rawURL)
	}

	body, err := e.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing html: %v", domain.ErrExtractFailed, err)
	}

	result := e.readable(body, pageURL)
	if result == nil {
		e.logger.Info("readability pass failed, using selector fallback", "url", rawURL)
		result = e.selectorFallback(doc)
	}
	if result == nil || strings.TrimSpace(result.TextContent) == "" {
		return nil, fmt.Errorf("%w: no content found at %s", domain.ErrExtractFailed, rawURL)
	}

	if result.Title == "" {
		result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if result.SiteName == "" {
		result.SiteName, _ = doc.Find(`meta[property="og:site_name"]`).Attr("content")
	}
	if result.Byline == "" {
		result.Byline, _ = doc.Find(`meta[name="author"]`).Attr("content")
	}
	if result.Excerpt == "" {
		result.Excerpt = makeExcerpt(doc, result.TextContent)
	}

	result.Length = len([]rune(result.TextContent))
	result.RTL = pageRTL(doc, result.TextContent)
	return result, nil
}

// fetch downloads the page with a browser-like User-Agent and a body cap.
func (e *Extractor) fetch(ctx context.Context, pageURL *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractFailed, err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %s: %v", domain.ErrUpstream, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: fetching %s: status %d", domain.ErrUpstream, pageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrUpstream, pageURL, err)
	}
	return string(data), nil
}

// readable runs the readability algorithm. Returns nil when it fails or finds
// nothing usable.
func (e *Extractor) readable(body string, pageURL *url.URL) *domain.ExtractedContent {
	article, err := readability.FromReader(strings.NewReader(body), pageURL)
	if err != nil {
		return nil
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil
	}
	return &domain.ExtractedContent{
		Title:       article.Title,
		Content:     article.Content,
		TextContent: strings.TrimSpace(article.TextContent),
		Excerpt:     article.Excerpt,
		Byline:      article.Byline,
		SiteName:    article.SiteName,
	}
}

// selectorFallback walks contentSelectors, clones the first match and strips
// the unwanted-element blocklist from the clone.
func (e *Extractor) selectorFallback(doc *goquery.Document) *domain.ExtractedContent {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		clone := sel.Clone()
		clone.Find(unwantedSelector).Remove()

		text := strings.TrimSpace(clone.Text())
		if text == "" {
			continue
		}
		html, err := clone.Html()
		if err != nil {
			continue
		}

		return &domain.ExtractedContent{
			Content:     html,
			TextContent: squashWhitespace(text),
		}
	}
	return nil
}

// pageRTL detects right-to-left content from dir/lang attributes, falling back
// to a Unicode scan of the extracted text.
func pageRTL(doc *goquery.Document, text string) bool {
	for _, root := range []string{"html", "body"} {
		sel := doc.Find(root).First()
		if dir, ok := sel.Attr("dir"); ok && strings.EqualFold(dir, "rtl") {
			return true
		}
		if lang, ok := sel.Attr("lang"); ok && IsRTLLang(lang) {
			return true
		}
	}
	return ContainsRTL(text)
}

// makeExcerpt prefers the meta description, else the head of the text.
func makeExcerpt(doc *goquery.Document, text string) string {
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		return strings.TrimSpace(desc)
	}
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return strings.TrimSpace(string(runes[:excerptLimit])) + "…"
}

// squashWhitespace collapses runs of whitespace left behind by removing
// block elements.
func squashWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
