package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/preview"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCapturer paints a PNG of the requested size with the requested
// background, failing the first failFirst calls.
type fakeCapturer struct {
	mu        sync.Mutex
	calls     int
	failFirst int
	requests  []CaptureRequest
	block     chan struct{}
	started   chan struct{}
	size      func(PageSpec) (int, int)
}

func (f *fakeCapturer) Capture(ctx context.Context, req CaptureRequest) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if call <= f.failFirst {
		return nil, errors.New("target closed")
	}

	w, h := req.Spec.PixelWidth(), req.Spec.PixelHeight()
	if f.size != nil {
		w, h = f.size(req.Spec)
	}
	bg, err := ParseHexColor(req.Background)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *fakeCapturer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func request(doc types.CvDocument, key themes.Key) Request {
	def := themes.Resolve(key)
	return Request{
		Node:     preview.Render(doc, def, i18n.EN),
		Theme:    def,
		Language: i18n.EN,
	}
}

func topLeft(t *testing.T, data []byte) color.RGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, g, b, a := img.At(0, 0).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestPageSpec_A4(t *testing.T) {
	assert.Equal(t, 794, A4.CSSWidth())
	assert.Equal(t, 1123, A4.CSSHeight())
	assert.Equal(t, 1588, A4.PixelWidth())
	assert.Equal(t, 2246, A4.PixelHeight())
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#1e2532", color.RGBA{0x1e, 0x25, 0x32, 0xff}, true},
		{"#ffffff", color.RGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"#1e3a8a80", color.RGBA{0x1e, 0x3a, 0x8a, 0x80}, true},
		{"blue", color.RGBA{}, false},
		{"#12345", color.RGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExport_Success(t *testing.T) {
	fake := &fakeCapturer{}
	e := NewDefault(fake)

	doc := types.NewCvDocument()
	doc.FullName = "Ada Lovelace"
	res, err := e.Export(context.Background(), request(doc, themes.Modern))
	require.NoError(t, err)

	assert.Equal(t, Filename, res.Filename)
	assert.Equal(t, 1588, res.Width)
	assert.Equal(t, 2246, res.Height)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, Idle, e.State())

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "#cv", req.Selector)
	assert.Equal(t, A4, req.Spec)
	assert.Equal(t, "#1e2532", req.Background)
	assert.Contains(t, req.HTML, "Ada Lovelace")
	assert.Contains(t, req.HTML, "width:210mm!important")
	assert.Contains(t, req.HTML, "transform:none!important")
}

func TestExport_BackgroundFollowsTheme(t *testing.T) {
	e := NewDefault(&fakeCapturer{})
	doc := types.NewCvDocument()
	doc.FullName = "Ada Lovelace"

	dark, err := e.Export(context.Background(), request(doc, themes.Modern))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x1e, 0x25, 0x32, 0xff}, topLeft(t, dark.PNG))

	light, err := e.Export(context.Background(), request(doc, themes.Minimal))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, topLeft(t, light.PNG))

	assert.Equal(t, "Ada Lovelace", doc.FullName)
}

func TestExport_RetriesOnce(t *testing.T) {
	fake := &fakeCapturer{failFirst: 1}
	e := NewDefault(fake)

	res, err := e.Export(context.Background(), request(types.NewCvDocument(), themes.Minimal))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 2, fake.callCount())
}

func TestExport_FailsAfterRetry(t *testing.T) {
	fake := &fakeCapturer{failFirst: 5}
	e := NewDefault(fake)

	_, err := e.Export(context.Background(), request(types.NewCvDocument(), themes.Minimal))
	var capErr *CaptureError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Attempt)
	assert.Equal(t, 2, fake.callCount())
	assert.Equal(t, Idle, e.State())

	// The exporter is usable again after a failure.
	fake.failFirst = 0
	_, err = e.Export(context.Background(), request(types.NewCvDocument(), themes.Minimal))
	assert.NoError(t, err)
}

func TestExport_MissingTarget(t *testing.T) {
	fake := &fakeCapturer{}
	e := NewDefault(fake)

	_, err := e.Export(context.Background(), Request{Theme: themes.Resolve(themes.Modern)})
	assert.ErrorIs(t, err, ErrCaptureTarget)

	// A tree without the capture root id.
	node := preview.Render(types.NewCvDocument(), themes.Resolve(themes.Modern), i18n.EN)
	node.ID = "elsewhere"
	_, err = e.Export(context.Background(), Request{Node: node, Theme: themes.Resolve(themes.Modern)})
	assert.ErrorIs(t, err, ErrCaptureTarget)

	assert.Equal(t, 0, fake.callCount(), "browser is never started without a target")
	assert.Equal(t, Idle, e.State())
}

func TestExport_WrongSizeIsCorrupt(t *testing.T) {
	fake := &fakeCapturer{size: func(PageSpec) (int, int) { return 100, 100 }}
	e := NewDefault(fake)

	_, err := e.Export(context.Background(), request(types.NewCvDocument(), themes.Modern))
	assert.ErrorIs(t, err, ErrCorruptImage)
	assert.Equal(t, 2, fake.callCount())
}

func TestExport_RejectsConcurrentRequest(t *testing.T) {
	fake := &fakeCapturer{block: make(chan struct{}), started: make(chan struct{}, 1)}
	e := NewDefault(fake)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = e.Export(context.Background(), request(types.NewCvDocument(), themes.Modern))
	}()

	<-fake.started
	assert.Equal(t, Capturing, e.State())

	_, err := e.Export(context.Background(), request(types.NewCvDocument(), themes.Modern))
	assert.ErrorIs(t, err, ErrExportInProgress)

	close(fake.block)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, 1, fake.callCount())
}

func TestExport_Timeout(t *testing.T) {
	fake := &fakeCapturer{block: make(chan struct{})}
	e := New(fake, Options{Timeout: 20 * time.Millisecond, Retries: 1})

	_, err := e.Export(context.Background(), request(types.NewCvDocument(), themes.Modern))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, fake.callCount(), "no retry once the deadline passed")
}

func TestExport_PhotoSectionPerExport(t *testing.T) {
	fake := &fakeCapturer{}
	e := NewDefault(fake)
	doc := types.NewCvDocument()

	_, err := e.Export(context.Background(), request(doc, themes.Modern))
	require.NoError(t, err)

	doc.Photo = "data:image/png;base64,iVBORw0KGgo="
	_, err = e.Export(context.Background(), request(doc, themes.Modern))
	require.NoError(t, err)

	require.Len(t, fake.requests, 2)
	assert.NotContains(t, fake.requests[0].HTML, `data-section="photo"`)
	assert.Contains(t, fake.requests[1].HTML, `data-section="photo"`)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "capturing", Capturing.String())
}

func TestChromeCapturer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	if !chromeAvailable() {
		t.Skip("Chrome not installed")
	}

	e := NewDefault(NewChromeCapturer("", false))
	doc := types.NewCvDocument()
	doc.FullName = "Ada Lovelace"

	res, err := e.Export(context.Background(), request(doc, themes.Minimal))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, topLeft(t, res.PNG))
}

func chromeAvailable() bool {
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
