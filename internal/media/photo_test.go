package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeBoundsAndThumbnail(t *testing.T) {
	photo, err := Normalize(pngBytes(t, 2400, 1200))
	require.NoError(t, err)
	assert.Equal(t, 2400, photo.Width)
	assert.Equal(t, 1200, photo.Height)
	assert.Equal(t, "png", photo.Format)

	full, err := jpeg.DecodeConfig(bytes.NewReader(photo.Full))
	require.NoError(t, err)
	assert.Equal(t, FullMaxSide, full.Width)
	assert.Equal(t, FullMaxSide/2, full.Height)

	thumb, err := jpeg.DecodeConfig(bytes.NewReader(photo.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailSide, thumb.Width)
	assert.Equal(t, ThumbnailSide, thumb.Height)
}

func TestNormalizeKeepsSmallPhotos(t *testing.T) {
	photo, err := Normalize(pngBytes(t, 400, 300))
	require.NoError(t, err)

	full, err := jpeg.DecodeConfig(bytes.NewReader(photo.Full))
	require.NoError(t, err)
	assert.Equal(t, 400, full.Width)
	assert.Equal(t, 300, full.Height)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Normalize(nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestNormalizeHEIFWithoutDecoder(t *testing.T) {
	heif := append([]byte{0, 0, 0, 24}, []byte("ftypheic\x00\x00\x00\x00mif1heic")...)
	_, err := Normalize(heif)
	assert.ErrorIs(t, err, ErrUnsupported)
	if !heicSupported {
		assert.ErrorIs(t, err, ErrHEICUnavailable)
	}
}

func TestContentTypes(t *testing.T) {
	assert.True(t, Accepts("image/png"))
	assert.True(t, Accepts("IMAGE/JPEG; charset=binary"))
	assert.False(t, Accepts("image/svg+xml"))
	assert.False(t, Accepts("application/pdf"))

	assert.Equal(t, "image/png", DetectContentType(pngBytes(t, 2, 2)))
	heic := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
	assert.Equal(t, "image/heic", DetectContentType(heic))
	assert.Equal(t, "", DetectContentType(nil))
}
