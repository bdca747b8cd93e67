package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// StripMarkup removes HTML tags, decodes entities and collapses whitespace.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpaces(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpaces(s)
	}

	return collapseSpaces(doc.Text())
}

// NormalizeKeyword trims the keyword and converts it to NFC so that
// decomposed Hangul input matches what providers index.
func NormalizeKeyword(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
