// Package export rasterizes a rendered CV preview into a PNG image at a fixed
// physical page size.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/preview"
	"github.com/jonathan/cv-studio/internal/themes"
	"golang.org/x/sync/semaphore"
)

// Filename is the name of the downloaded export.
const Filename = "cv.png"

// ContentType is the MIME type of the export.
const ContentType = "image/png"

// DefaultTimeout bounds a single export including its retry.
const DefaultTimeout = 60 * time.Second

// State is the exporter's position in its Idle -> Capturing -> Idle cycle.
type State int32

// Exporter states.
const (
	Idle State = iota
	Capturing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Capturing:
		return "capturing"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// CaptureRequest is what a Capturer needs to produce one image.
type CaptureRequest struct {
	HTML       string   // standalone page containing the capture root
	Selector   string   // CSS selector of the capture root
	Spec       PageSpec // physical size and pixel ratio
	Background string   // CSS hex color painted behind the page
}

// Capturer turns a standalone HTML page into PNG bytes.
type Capturer interface {
	Capture(ctx context.Context, req CaptureRequest) ([]byte, error)
}

// Request is one export of a rendered preview.
type Request struct {
	Node     *preview.Node
	Theme    themes.Definition
	Language i18n.Language
}

// Result is a finished export.
type Result struct {
	PNG      []byte
	Width    int
	Height   int
	Filename string
	Attempts int
}

// Options configures an Exporter.
type Options struct {
	Spec    PageSpec
	Timeout time.Duration
	Retries int // extra attempts after a failed capture
}

// Exporter serializes exports: at most one capture runs at a time and
// concurrent requests are rejected with ErrExportInProgress.
type Exporter struct {
	capturer Capturer
	opts     Options
	gate     *semaphore.Weighted
	state    atomic.Int32
}

// New creates an Exporter. Zero option fields take the A4, DefaultTimeout and
// single-retry defaults.
func New(capturer Capturer, opts Options) *Exporter {
	if opts.Spec == (PageSpec{}) {
		opts.Spec = A4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &Exporter{
		capturer: capturer,
		opts:     opts,
		gate:     semaphore.NewWeighted(1),
	}
}

// NewDefault creates an Exporter with one retry and the default timeout.
func NewDefault(capturer Capturer) *Exporter {
	return New(capturer, Options{Retries: 1})
}

// State returns the current state.
func (e *Exporter) State() State {
	return State(e.state.Load())
}

// Spec returns the page spec the exporter rasterizes at.
func (e *Exporter) Spec() PageSpec {
	return e.opts.Spec
}

// Export renders req to a standalone page and captures it. It returns
// ErrExportInProgress without waiting if another export is running. The
// exporter is back in Idle when Export returns, whatever the outcome.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	if !e.gate.TryAcquire(1) {
		log.Printf("[export] request ignored: %v", ErrExportInProgress)
		return nil, ErrExportInProgress
	}
	defer e.gate.Release(1)

	e.state.Store(int32(Capturing))
	defer e.state.Store(int32(Idle))

	start := time.Now()
	res, err := e.export(ctx, req)
	if err != nil {
		log.Printf("[export] theme=%s failed after %v: %v", req.Theme.Key, time.Since(start), err)
		return nil, err
	}
	log.Printf("[export] theme=%s %dx%d (%d bytes) in %v", req.Theme.Key, res.Width, res.Height, len(res.PNG), time.Since(start))
	return res, nil
}

func (e *Exporter) export(ctx context.Context, req Request) (*Result, error) {
	if req.Node == nil {
		return nil, fmt.Errorf("%w: no rendered preview", ErrCaptureTarget)
	}

	background := req.Theme.Colors.Primary
	page, err := preview.Page(req.Node, req.Theme, req.Language, captureCSS(e.opts.Spec, background))
	if err != nil {
		return nil, fmt.Errorf("failed to build capture page: %w", err)
	}
	selector := "#" + preview.RootID
	if err := checkTarget(page, selector); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	creq := CaptureRequest{
		HTML:       page,
		Selector:   selector,
		Spec:       e.opts.Spec,
		Background: background,
	}

	var lastErr error
	attempts := 1 + e.opts.Retries
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := e.capturer.Capture(ctx, creq)
		if err == nil {
			err = e.verify(data)
		}
		if err == nil {
			return &Result{
				PNG:      data,
				Width:    e.opts.Spec.PixelWidth(),
				Height:   e.opts.Spec.PixelHeight(),
				Filename: Filename,
				Attempts: attempt,
			}, nil
		}

		if errors.Is(err, ErrCorruptImage) {
			lastErr = err
		} else {
			lastErr = &CaptureError{Attempt: attempt, Cause: err}
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			log.Printf("[export] attempt %d failed, retrying: %v", attempt, err)
		}
	}
	return nil, lastErr
}

// checkTarget makes sure the capture root is attached to the page before any
// browser work starts.
func checkTarget(page, selector string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCaptureTarget, err)
	}
	if doc.Find(selector).Length() != 1 {
		return fmt.Errorf("%w: %s", ErrCaptureTarget, selector)
	}
	return nil
}

func (e *Exporter) verify(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty output", ErrCorruptImage)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	w, h := e.opts.Spec.PixelWidth(), e.opts.Spec.PixelHeight()
	if cfg.Width != w || cfg.Height != h {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrCorruptImage, cfg.Width, cfg.Height, w, h)
	}
	return nil
}
