package fetch

import (
	"context"
	"fmt"
	"log"
)

// JobOptions configures JobDescription.
type JobOptions struct {
	HTTP *Options
	// Render, when set, is used for client-side rendered postings and for
	// pages whose plain HTML yields too little text.
	Render  Renderer
	Verbose bool
}

// JobDescription downloads a job posting and returns its description text.
// The text is not validated; callers pass it through the same checks as
// pasted text.
func JobDescription(ctx context.Context, urlStr string, opts JobOptions) (string, error) {
	platform := DetectPlatform(urlStr)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	var text string
	if opts.Render == nil || !NeedsBrowser(platform) {
		result, err := URL(ctx, urlStr, opts.HTTP)
		if err != nil {
			return "", err
		}
		text, err = ExtractMainText(result.HTML, content, noise...)
		if err != nil {
			return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
		}
		if opts.Render == nil || !ShouldUseBrowser(text) {
			return text, nil
		}
		if opts.Verbose {
			log.Printf("[fetch] %s: only %d characters over HTTP, rendering in browser", urlStr, len([]rune(text)))
		}
	}

	html, err := opts.Render(ctx, urlStr)
	if err != nil {
		if text != "" {
			log.Printf("[fetch] %s: browser fallback failed, keeping HTTP text: %v", urlStr, err)
			return text, nil
		}
		return "", err
	}

	rendered, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}
	if len(rendered) < len(text) {
		return text, nil
	}
	if rendered == "" {
		return "", fmt.Errorf("no text found at %s", urlStr)
	}
	return rendered, nil
}
