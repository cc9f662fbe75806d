package scrape

import (
	"strings"
	"testing"
)

func TestExtractBySelectorsPriority(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("real article body text. ", 15)
	html := `<html><body>
		<nav>home about contact and a lot of navigation text</nav>
		<div class="content">` + strings.Repeat("sidebar junk ", 30) + `</div>
		<article>` + long + `</article>
	</body></html>`

	got, err := extractBySelectors(html, "https://example.com")
	if err != nil {
		t.Fatalf("extractBySelectors() error = %v", err)
	}
	if !strings.HasPrefix(got, "real article body text.") {
		t.Fatalf("article element should win over .content, got %q", got[:60])
	}
	if strings.Contains(got, "navigation") {
		t.Fatal("nav content must be stripped")
	}
}

func TestExtractBySelectorsBodyFallback(t *testing.T) {
	t.Parallel()
	html := `<html><body><p>short page with no containers</p></body></html>`
	got, err := extractBySelectors(html, "https://example.com")
	if err != nil {
		t.Fatalf("extractBySelectors() error = %v", err)
	}
	if got != "short page with no containers" {
		t.Fatalf("expected body fallback, got %q", got)
	}
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "h1 preferred",
			html: `<html><head><title>Tab Title</title></head><body><h1> Big  Headline </h1></body></html>`,
			want: "Big Headline",
		},
		{
			name: "title fallback",
			html: `<html><head><title>Tab Title</title></head><body><p>no heading</p></body></html>`,
			want: "Tab Title",
		},
		{
			name: "placeholder",
			html: `<html><body><p>nothing</p></body></html>`,
			want: "No Title",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(tt.html); got != tt.want {
				t.Fatalf("extractTitle() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPublishDate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		html     string
		text     string
		wantYear int
		wantNil  bool
	}{
		{
			name:     "meta article published_time",
			html:     `<html><head><meta property="article:published_time" content="2026-03-05T09:30:00Z"></head><body></body></html>`,
			wantYear: 2026,
		},
		{
			name:     "time element datetime attr",
			html:     `<html><body><time datetime="2025-11-20">Nov 20</time></body></html>`,
			wantYear: 2025,
		},
		{
			name:     "published prefix in text",
			html:     `<html><body></body></html>`,
			text:     "Some intro. Published: March 5, 2026 by staff.",
			wantYear: 2026,
		},
		{
			name:     "bare iso date in text",
			html:     `<html><body></body></html>`,
			text:     "snapshot taken 2024-07-01 during the halving cycle",
			wantYear: 2024,
		},
		{
			name:    "absent date is valid",
			html:    `<html><body></body></html>`,
			text:    "no dates anywhere in this document",
			wantNil: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := extractPublishDate(tt.html, tt.text)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil date, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a date, got nil")
			}
			if got.Year() != tt.wantYear {
				t.Fatalf("year got %d, want %d", got.Year(), tt.wantYear)
			}
		})
	}
}
