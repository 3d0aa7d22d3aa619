package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// waitForImages resolves once every <img> on the page has decoded, so the
// photo is never captured half-loaded.
const waitForImages = `Promise.all(Array.from(document.images).map(function (img) {
	return img.decode ? img.decode().catch(function () {}) : Promise.resolve();
})).then(function () { return true; })`

// ChromeCapturer captures pages with a headless Chrome started per capture.
// Requires Chrome/Chromium to be installed on the system.
type ChromeCapturer struct {
	ExecPath string // empty uses chromedp's browser lookup
	Verbose  bool
}

// NewChromeCapturer creates a capturer that launches the browser at execPath.
func NewChromeCapturer(execPath string, verbose bool) *ChromeCapturer {
	return &ChromeCapturer{ExecPath: execPath, Verbose: verbose}
}

// Capture loads req.HTML into a blank tab sized to req.Spec and screenshots
// exactly one page at the requested device scale factor.
func (c *ChromeCapturer) Capture(ctx context.Context, req CaptureRequest) ([]byte, error) {
	bg, err := ParseHexColor(req.Background)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	width, height := req.Spec.CSSWidth(), req.Spec.CSSHeight()
	start := time.Now()
	if c.Verbose {
		log.Printf("[BROWSER] capturing %dx%d css px at %gx", width, height, req.Spec.ScaleFactor)
	}

	var buf []byte
	var imagesReady bool
	err = chromedp.Run(browserCtx,
		emulation.SetDeviceMetricsOverride(int64(width), int64(height), req.Spec.ScaleFactor, false),
		emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{
			R: int64(bg.R),
			G: int64(bg.G),
			B: int64(bg.B),
			A: float64(bg.A) / 255,
		}),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, req.HTML).Do(ctx)
		}),
		chromedp.WaitReady(req.Selector, chromedp.ByQuery),
		chromedp.Evaluate(waitForImages, &imagesReady, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithFromSurface(true).
				WithClip(&page.Viewport{
					X:      0,
					Y:      0,
					Width:  float64(width),
					Height: float64(height),
					Scale:  1,
				}).
				Do(ctx)
			if err != nil {
				return err
			}
			buf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser capture failed: %w", err)
	}

	if c.Verbose {
		log.Printf("[BROWSER] captured %d bytes in %v", len(buf), time.Since(start))
	}
	return buf, nil
}
