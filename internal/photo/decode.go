// Package photo turns an uploaded image file into an inline data URI.
package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes is the upload limit used when the caller passes 0.
const DefaultMaxBytes int64 = 5 << 20

var (
	// ErrEmpty is returned for zero-length uploads.
	ErrEmpty = errors.New("photo is empty")
	// ErrTooLarge is returned when the upload exceeds the size limit.
	ErrTooLarge = errors.New("photo exceeds size limit")
	// ErrNotImage is returned when the content is not an image.
	ErrNotImage = errors.New("photo is not an image")
)

// DecodeError wraps a read failure with the stage it happened in.
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("photo decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("photo decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Result is the outcome of an asynchronous decode.
type Result struct {
	DataURI string
	MIME    string
	Err     error
}

// Decode reads an image from r and returns it as a base64 data URI. The
// content type is sniffed from the bytes; the client-declared type is ignored.
func Decode(ctx context.Context, r io.Reader, maxBytes int64) (string, error) {
	uri, _, err := decode(ctx, r, maxBytes)
	return uri, err
}

// DecodeAsync runs Decode on its own goroutine. The returned channel yields
// exactly one Result and is then closed.
func DecodeAsync(ctx context.Context, r io.Reader, maxBytes int64) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		uri, mime, err := decode(ctx, r, maxBytes)
		out <- Result{DataURI: uri, MIME: mime, Err: err}
	}()
	return out
}

func decode(ctx context.Context, r io.Reader, maxBytes int64) (string, string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if r == nil {
		return "", "", ErrEmpty
	}

	// Read one byte past the limit to detect oversize input.
	data, err := io.ReadAll(io.LimitReader(&ctxReader{ctx: ctx, r: r}, maxBytes+1))
	if err != nil {
		return "", "", &DecodeError{Message: "failed to read upload", Cause: err}
	}
	if len(data) == 0 {
		return "", "", ErrEmpty
	}
	if int64(len(data)) > maxBytes {
		return "", "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}

	mtype := mimetype.Detect(data)
	mime := mtype.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}

	var buf bytes.Buffer
	buf.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	buf.WriteString("data:")
	buf.WriteString(mime)
	buf.WriteString(";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(data))

	return buf.String(), mime, nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
