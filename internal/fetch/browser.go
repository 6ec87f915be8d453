package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text trusted from a plain HTTP
// fetch. Shorter text usually means the page renders client-side.
const MinContentLength = 500

// ShouldUseBrowser reports whether extracted text is too short to be the posting.
func ShouldUseBrowser(extractedText string) bool {
	return len([]rune(strings.TrimSpace(extractedText))) < MinContentLength
}

// BrowserOptions configures headless rendering.
type BrowserOptions struct {
	ExecPath string
	Timeout  time.Duration
	// Settle is how long to wait after load for client-side rendering.
	Settle  time.Duration
	Verbose bool
}

// WithBrowser renders a page in headless Chrome and returns the resulting HTML.
func WithBrowser(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	if err := ValidateURL(url); err != nil {
		return "", err
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Settle == 0 {
		opts.Settle = 3 * time.Second
	}
	if opts.Verbose {
		log.Printf("[fetch] starting headless browser for %s", url)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	if opts.Verbose {
		log.Printf("[fetch] rendered %d bytes of HTML", len(html))
	}
	return html, nil
}

// Renderer renders a URL to HTML.
type Renderer func(ctx context.Context, url string) (string, error)

// ChromeRenderer returns a Renderer backed by WithBrowser.
func ChromeRenderer(opts BrowserOptions) Renderer {
	return func(ctx context.Context, url string) (string, error) {
		html, err := WithBrowser(ctx, url, opts)
		if err != nil {
			return "", fmt.Errorf("failed to render %s: %w", url, err)
		}
		return html, nil
	}
}
