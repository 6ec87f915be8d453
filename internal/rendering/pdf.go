package rendering

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	mmPerInch = 25.4
	pxPerInch = 96.0
	// Chrome accepts print scales in this range.
	minPrintScale = 0.1
	maxPrintScale = 2.0
)

// DefaultExportTimeout bounds one PDF export, browser start included.
const DefaultExportTimeout = 60 * time.Second

// PDFExporter prints rendered HTML to a single A4 page with headless Chrome.
type PDFExporter struct {
	// ExecPath overrides the Chrome binary; empty uses the default lookup.
	ExecPath string
	Timeout  time.Duration
	Page     Page
	Verbose  bool
}

// NewPDFExporter returns an exporter for A4 pages.
func NewPDFExporter(execPath string) *PDFExporter {
	return &PDFExporter{ExecPath: execPath, Timeout: DefaultExportTimeout, Page: A4}
}

// Export loads html into a headless browser, measures the laid out resume and
// prints it scaled to fit one page. Failures are *ExportError.
func (e *PDFExporter) Export(ctx context.Context, html string) ([]byte, error) {
	pg := e.Page
	if pg.Width == 0 {
		pg = A4
	}
	timeout := e.Timeout
	if timeout == 0 {
		timeout = DefaultExportTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var size []float64
	var pdf []byte
	stage := StageLoad
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("#resume", chromedp.ByQuery),
		chromedp.ActionFunc(func(context.Context) error {
			stage = StageMeasure
			return nil
		}),
		chromedp.Evaluate(`(() => { const r = document.getElementById("resume").getBoundingClientRect(); return [r.width, r.height]; })()`, &size),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if len(size) != 2 {
				return fmt.Errorf("unexpected layout measurement %v", size)
			}
			stage = StagePrint
			place := FitToPage(size[0]*mmPerInch/pxPerInch, size[1]*mmPerInch/pxPerInch, pg)
			if e.Verbose {
				log.Printf("[export] content %.0fx%.0fpx, scale %.3f", size[0], size[1], place.Scale)
			}

			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(pg.Width / mmPerInch).
				WithPaperHeight(pg.Height / mmPerInch).
				WithMarginTop(place.Y / mmPerInch).
				WithMarginLeft(place.X / mmPerInch).
				WithMarginRight(place.X / mmPerInch).
				WithMarginBottom(0).
				WithScale(clamp(place.Scale, minPrintScale, maxPrintScale)).
				WithPageRanges("1").
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &ExportError{Stage: stage, Message: "headless browser failed", Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &ExportError{Stage: StagePrint, Message: "browser returned an empty PDF"}
	}
	return pdf, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
