package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"golang.org/x/net/publicsuffix"

	"article-summarizer/domain"
)

// isoDate is the normalized publication date layout. ISO dates compare
// lexicographically, which the graph layer's range filters rely on.
const isoDate = "2006-01-02"

// Common date shapes scanned for in article text when no structured
// metadata carries a date.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`),
}

// Meta selectors that commonly carry a publication date, in priority order.
var dateMetaSelectors = []string{
	"meta[property='article:published_time']",
	"meta[property='og:article:published_time']",
	"meta[name='date']",
	"meta[name='pubdate']",
	"meta[name='publish-date']",
	"meta[itemprop='datePublished']",
}

// ExtractMetadata derives headline, publication date, and source from a
// fetched document. It never errors: headline falls back to
// domain.UntitledHeadline and the date to domain.UnknownDate. Source comes
// from the URL host only, so Source-node identity is stable regardless of
// extraction quality.
func ExtractMetadata(doc *domain.FetchedDocument) domain.ArticleMetadata {
	meta := domain.ArticleMetadata{
		Headline:        domain.UntitledHeadline,
		PublicationDate: domain.UnknownDate,
		Source:          NormalizeSource(doc.URL),
	}

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return meta
	}

	if headline := extractHeadline(parsed); headline != "" {
		meta.Headline = headline
	}
	if date := extractPublicationDate(parsed, doc.HTML); date != "" {
		meta.PublicationDate = date
	}

	return meta
}

// extractHeadline tries the <title> tag, then og:title, then the first <h1>.
func extractHeadline(doc *goquery.Document) string {
	if title := normalizeWhitespace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	if ogTitle, ok := doc.Find("meta[property='og:title']").First().Attr("content"); ok {
		if title := normalizeWhitespace(ogTitle); title != "" {
			return title
		}
	}

	return normalizeWhitespace(doc.Find("h1").First().Text())
}

// extractPublicationDate tries structured meta tags and <time datetime>
// attributes, then falls back to scanning the leading article text for
// recognizable date shapes. Returns "" when nothing parses.
func extractPublicationDate(doc *goquery.Document, html string) string {
	for _, selector := range dateMetaSelectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if date := normalizeDate(content); date != "" {
				return date
			}
		}
	}

	if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		if date := normalizeDate(datetime); date != "" {
			return date
		}
	}

	// Scan only the first 1000 characters of readable text; bylines and
	// datelines sit near the top of an article.
	sample := ExtractText(html)
	if len(sample) > 1000 {
		sample = sample[:1000]
	}
	for _, pattern := range datePatterns {
		if match := pattern.FindString(sample); match != "" {
			if date := normalizeDate(match); date != "" {
				return date
			}
		}
	}

	return ""
}

// normalizeDate parses an arbitrary date string into the ISO layout.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return ""
	}
	return parsed.Format(isoDate)
}

// NormalizeSource derives the source identifier from a URL: lowercase host,
// "www." stripped, collapsed to the registrable domain so subdomains of one
// publisher map to a single Source node.
func NormalizeSource(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return domain.UnknownSource
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")

	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return registrable
	}
	return host
}
