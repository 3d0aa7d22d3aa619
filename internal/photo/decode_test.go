package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	data := pngBytes(t)

	uri, err := Decode(context.Background(), bytes.NewReader(data), 0)
	require.NoError(t, err)

	prefix := "data:image/png;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(context.Background(), bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode(context.Background(), nil, 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDecode_TooLarge(t *testing.T) {
	data := pngBytes(t)
	_, err := Decode(context.Background(), bytes.NewReader(data), int64(len(data)-1))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Decode(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err, "exactly at the limit is accepted")
}

func TestDecode_NotImage(t *testing.T) {
	_, err := Decode(context.Background(), strings.NewReader("just some text, not a picture"), 0)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestDecode_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Decode(ctx, bytes.NewReader(pngBytes(t)), 0)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeAsync(t *testing.T) {
	ch := DecodeAsync(context.Background(), bytes.NewReader(pngBytes(t)), 0)

	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, "image/png", res.MIME)
	assert.True(t, strings.HasPrefix(res.DataURI, "data:image/png;base64,"))

	_, ok = <-ch
	assert.False(t, ok, "channel is closed after the single result")
}
