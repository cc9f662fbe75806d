package chromedp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"cryptoscout/tools/web_fetch/models"
)

// Fetch renders a page in headless Chrome and returns the post-JS HTML.
// Pages that build their content client-side are invisible to a static GET,
// so this fetcher backs the browser-rendered scraping strategies.
type Fetch struct {
	Timeout time.Duration
}

func (f Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, errors.New("invalid url")
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	t0 := time.Now()

	html, err := renderHTML(ctx, url)
	if err != nil {
		return models.Result{URL: url, Status: 599, RenderMS: int(time.Since(t0) / time.Millisecond)}, err
	}

	return models.Result{
		URL:      url,
		HTML:     html,
		Status:   200,
		RenderMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}

func renderHTML(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent("cryptoscout/1.0 (research pipeline)"),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}
