// Package extractor derives summarizable text and structured metadata
// (headline, publication date, source) from fetched article documents.
// Extraction is best effort: missing metadata degrades to sentinel values
// and never fails the item.
package extractor

import (
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Readability sometimes returns only the title or boilerplate; anything
// shorter than this is treated as a failed extraction.
const minReadableLength = 200

// ExtractText converts raw article HTML into plain text paragraphs. It
// removes non-content elements (script/style/navigation), runs
// go-readability over the cleaned markup, and falls back to paragraph
// harvesting and finally plain tag stripping.
func ExtractText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// Short-circuit if the payload is already plain text.
	if !strings.Contains(trimmed, "<") {
		return normalizeWhitespace(trimmed)
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed)); err == nil {
		doc.Find("script, style, noscript, aside, nav, header, footer").Remove()
		doc.Find("iframe, embed, object, video, audio, canvas, form").Remove()
		doc.Find("[class*='social'], [class*='share'], [class*='comment'], [id*='comment']").Remove()

		if cleaned, err := doc.Html(); err == nil && cleaned != "" {
			trimmed = cleaned
		}
	}

	if article, err := readability.FromReader(strings.NewReader(trimmed), nil); err == nil {
		var buf strings.Builder
		if err := article.RenderText(&buf); err == nil {
			text := strings.TrimSpace(buf.String())
			if len(text) >= minReadableLength {
				return normalizeParagraphs(text)
			}
		}
	}

	return extractParagraphs(trimmed)
}

// extractParagraphs harvests text from block elements while preserving
// paragraph boundaries as double newlines.
func extractParagraphs(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return stripTags(html)
	}

	var paragraphs []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, normalizeWhitespace(text))
		}
	})

	if len(paragraphs) == 0 {
		return stripTags(html)
	}

	return strings.Join(paragraphs, "\n\n")
}

// stripTags removes all HTML tags using bluemonday's strict policy.
func stripTags(raw string) string {
	return normalizeWhitespace(bluemonday.StrictPolicy().Sanitize(raw))
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeParagraphs collapses intra-line whitespace but keeps blank-line
// paragraph separation.
func normalizeParagraphs(s string) string {
	var out []string
	for _, block := range strings.Split(s, "\n\n") {
		if normalized := normalizeWhitespace(block); normalized != "" {
			out = append(out, normalized)
		}
	}
	return strings.Join(out, "\n\n")
}
