package models

import "time"

// Result is one search hit from a web-search provider. PublishedDate is
// best-effort; the zero value means the provider gave no parseable date.
type Result struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Snippet       string    `json:"snippet"`
	PublishedDate time.Time `json:"published_date,omitempty"`
}
