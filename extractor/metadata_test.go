package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"article-summarizer/domain"
)

func doc(url, html string) *domain.FetchedDocument {
	return &domain.FetchedDocument{URL: url, HTML: html}
}

func TestExtractMetadata_Headline(t *testing.T) {
	t.Run("should prefer the title tag", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a",
			`<html><head><title>Council Approves Budget</title>
			<meta property="og:title" content="OG Title"></head>
			<body><h1>H1 Title</h1></body></html>`))

		assert.Equal(t, "Council Approves Budget", meta.Headline)
	})

	t.Run("should fall back to og:title", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a",
			`<html><head><meta property="og:title" content="OG Headline"></head>
			<body><h1>H1 Title</h1></body></html>`))

		assert.Equal(t, "OG Headline", meta.Headline)
	})

	t.Run("should fall back to the first h1", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a",
			`<html><body><h1>  Late-Breaking   News </h1></body></html>`))

		assert.Equal(t, "Late-Breaking News", meta.Headline)
	})

	t.Run("should use the sentinel when nothing is found", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a", `<html><body><p>text</p></body></html>`))

		assert.Equal(t, domain.UntitledHeadline, meta.Headline)
	})
}

func TestExtractMetadata_PublicationDate(t *testing.T) {
	t.Run("should read article:published_time meta", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a",
			`<html><head><meta property="article:published_time" content="2025-02-21T09:30:00Z"></head></html>`))

		assert.Equal(t, "2025-02-21", meta.PublicationDate)
	})

	t.Run("should read time datetime attribute", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a",
			`<html><body><time datetime="2025-08-03">Aug 3</time></body></html>`))

		assert.Equal(t, "2025-08-03", meta.PublicationDate)
	})

	t.Run("should scan text for month-name dates", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a",
			`<html><body><p>Published Feb. 21, 2025 by the city desk.</p></body></html>`))

		assert.Equal(t, "2025-02-21", meta.PublicationDate)
	})

	t.Run("should use the sentinel when no date parses", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a",
			`<html><body><p>No dates to be found here.</p></body></html>`))

		assert.Equal(t, domain.UnknownDate, meta.PublicationDate)
	})

	t.Run("should ignore unparseable meta content", func(t *testing.T) {
		meta := ExtractMetadata(doc("https://example.com/a",
			`<html><head><meta name="date" content="yesterday-ish"></head>
			<body><p>Filed 2025-03-04 in archives.</p></body></html>`))

		assert.Equal(t, "2025-03-04", meta.PublicationDate)
	})
}

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"strips www prefix", "https://www.ithacavoice.com/2025/a", "ithacavoice.com"},
		{"collapses subdomains", "https://news.ithacavoice.com/a", "ithacavoice.com"},
		{"handles multi-label suffixes", "https://news.bbc.co.uk/article", "bbc.co.uk"},
		{"lowercases hosts", "https://WWW.Example.COM/a", "example.com"},
		{"plain domain unchanged", "https://reuters.com/world", "reuters.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSource(tt.url))
		})
	}
}
