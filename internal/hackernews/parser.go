package hackernews

import (
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

var pointsRe = regexp.MustCompile(`^\s*(\d+)\s+points?\b`)

// ParsePage extracts candidate stories from a listing page. Relative links
// are resolved against base when it is non-nil. Rows without a title are
// still returned; the store consolidates them.
func ParsePage(r io.Reader, base *url.URL) ([]model.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return parseDocument(doc, base), nil
}

func parseDocument(doc *goquery.Document, base *url.URL) []model.Candidate {
	var out []model.Candidate
	doc.Find(".athing").Each(func(_ int, row *goquery.Selection) {
		a := row.Find(".titleline > a").First()
		if a.Length() == 0 {
			// pre-2022 markup
			a = row.Find("a.storylink").First()
		}
		href, _ := a.Attr("href")
		out = append(out, model.Candidate{
			Title:  strings.TrimSpace(a.Text()),
			Link:   resolveLink(base, strings.TrimSpace(href)),
			Points: parsePoints(row.Next().Find(".score").Text()),
		})
	})
	return out
}

// parsePoints reads "N points" / "1 point"; anything else is 0.
func parsePoints(s string) int {
	m := pointsRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func resolveLink(base *url.URL, href string) string {
	if href == "" || base == nil {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(u).String()
}
