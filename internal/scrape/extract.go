package scrape

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// minSelectorChars is the acceptance threshold for a content container;
// anything shorter falls through to the next selector or the whole body.
const minSelectorChars = 200

// noiseSelector matches the elements stripped before structural extraction.
const noiseSelector = "script, style, noscript, nav, header, footer, aside, form, iframe, .ad, .ads, .advert, .advertisement, .social-share, .newsletter, .related, .comments"

// contentSelectors is the priority list of likely article containers.
var contentSelectors = []string{
	"article",
	"main",
	"[role=main]",
	".article-body",
	".article-content",
	".post-content",
	".entry-content",
	".story-body",
	"#content",
	".content",
}

// extractBySelectors strips boilerplate and returns the text of the first
// content container holding at least minSelectorChars characters, falling
// back to whole-body text.
func extractBySelectors(html, _ string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find(noiseSelector).Remove()

	for _, sel := range contentSelectors {
		text := squeeze(doc.Find(sel).First().Text())
		if len(text) >= minSelectorChars {
			return text, nil
		}
	}
	return squeeze(doc.Find("body").Text()), nil
}

// extractReadable applies the readability main-article heuristic.
func extractReadable(html, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(article.TextContent), nil
}

// extractTitle re-parses the winning HTML: first h1 wins, then <title>,
// then a literal placeholder.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "No Title"
	}
	if h1 := squeeze(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if title := squeeze(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return "No Title"
}

// dateSelectors are tried in priority order; attr empty means element text.
var dateSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[name="article:published_time"]`, "content"},
	{`meta[property="og:published_time"]`, "content"},
	{`meta[name="publish-date"]`, "content"},
	{`meta[name="publication_date"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`time[datetime]`, "datetime"},
	{".publish-date", ""},
	{".post-date", ""},
	{".date", ""},
}

var textDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)published:?\s+([A-Z][a-z]+ \d{1,2},? \d{4})`),
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December) \d{1,2},? \d{4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
}

// extractPublishDate tries structured DOM dates first, then date-looking
// patterns inside the extracted text. The first parseable date wins; absence
// is a valid outcome, never an error.
func extractPublishDate(html, text string) *time.Time {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		for _, ds := range dateSelectors {
			sel := doc.Find(ds.selector).First()
			raw := ""
			if ds.attr != "" {
				raw, _ = sel.Attr(ds.attr)
			} else {
				raw = sel.Text()
			}
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			if ts, err := dateparse.ParseAny(raw); err == nil {
				return &ts
			}
		}
	}

	for _, pattern := range textDatePatterns {
		m := pattern.FindStringSubmatch(text)
		if len(m) == 0 {
			continue
		}
		candidate := m[0]
		if len(m) > 1 && m[1] != "" {
			candidate = m[1]
		}
		if ts, err := dateparse.ParseAny(candidate); err == nil {
			return &ts
		}
	}
	return nil
}

func squeeze(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
