package scraper

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockTag matches tags that start a new line of visible text.
var blockTag = regexp.MustCompile(`(?i)<\s*/?\s*(p|li|br|div|ul|ol|h[1-6]|tr)\b[^>]*>`)

// htmlText unescapes an ATS content field (often HTML that was itself
// HTML-escaped) and returns its visible text, one block per line.
// Malformed markup degrades to the unescaped input.
func htmlText(content string) string {
	unescaped := html.UnescapeString(content)
	if !strings.Contains(unescaped, "<") {
		return strings.TrimSpace(unescaped)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(blockTag.ReplaceAllString(unescaped, "\n")))
	if err != nil {
		return strings.TrimSpace(unescaped)
	}
	return collapseLines(doc.Text())
}

// listItems returns the text of every <li> in content, in document order.
func listItems(content string) []string {
	items := make([]string, 0)
	unescaped := html.UnescapeString(content)
	if !strings.Contains(unescaped, "<li") {
		return items
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped))
	if err != nil {
		return items
	}
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			items = append(items, t)
		}
	})
	return items
}

// bulletLines picks "- ", "* " and "• " lines out of plain text.
func bulletLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(line, marker) {
				if item := strings.TrimSpace(strings.TrimPrefix(line, marker)); item != "" {
					lines = append(lines, item)
				}
				break
			}
		}
	}
	return lines
}

func collapseLines(s string) string {
	out := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// BoardHost expands an employer host pattern such as "{token}.greenhouse.io".
func BoardHost(pattern, token string) string {
	return strings.ReplaceAll(pattern, "{token}", token)
}

// absoluteURL resolves href against base. An empty or unparsable href, or
// one that does not resolve to http(s), yields "".
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if !ref.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || !b.IsAbs() {
			return ""
		}
		ref = b.ResolveReference(ref)
	}
	// javascript:, mailto: and the like are not apply links
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}
