// Package media turns uploaded menu photos into the JPEG renditions served
// by the menu.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	FullMaxSide   = 1200
	ThumbnailSide = 320
	JPEGQuality   = 85
)

var ErrUnsupported = errors.New("unsupported image type")

// ErrHEICUnavailable is returned for HEIF uploads on builds without the cgo decoder.
var ErrHEICUnavailable = fmt.Errorf("%w: heic photos need a linux cgo build", ErrUnsupported)

var acceptedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/heic": true,
	"image/heif": true,
}

// Photo holds the stored renditions and the dimensions of the upload.
type Photo struct {
	Full      []byte
	Thumbnail []byte
	Width     int
	Height    int
	Format    string
}

func Accepts(contentType string) bool {
	ct := strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return acceptedContentTypes[ct]
}

func DetectContentType(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
	}
	if isHeifFamily(sample) {
		return "image/heic"
	}
	return http.DetectContentType(sample)
}

// Normalize decodes an upload, applies its EXIF orientation and encodes a
// bounded full-size JPEG plus a square thumbnail.
func Normalize(data []byte) (Photo, error) {
	if len(data) == 0 {
		return Photo{}, ErrUnsupported
	}
	img, format, err := decodeAndAutoRotate(data)
	if err != nil {
		return Photo{}, err
	}

	b := img.Bounds()
	photo := Photo{Width: b.Dx(), Height: b.Dy(), Format: format}

	full := img
	if photo.Width > FullMaxSide || photo.Height > FullMaxSide {
		full = imaging.Fit(img, FullMaxSide, FullMaxSide, imaging.Lanczos)
	}
	if photo.Full, err = encodeJPEG(full); err != nil {
		return Photo{}, err
	}

	thumb := imaging.Fill(img, ThumbnailSide, ThumbnailSide, imaging.Center, imaging.Lanczos)
	if photo.Thumbnail, err = encodeJPEG(thumb); err != nil {
		return Photo{}, err
	}
	return photo, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isHeifFamily(data []byte) bool {
	// ISO BMFF: [size:4][ftyp:4][brand:4]
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "hevc", "hevx", "mif1", "msf1", "heif":
		return true
	}
	return false
}

func decodeAndAutoRotate(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if isHeifFamily(data) {
			heicImg, heicErr := decodeHEIC(data)
			switch {
			case heicErr == nil:
				return heicImg, "heic", nil
			case errors.Is(heicErr, ErrHEICUnavailable):
				return nil, "", heicErr
			}
			return nil, "", ErrUnsupported
		}
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupported
		}
		return nil, "", err
	}

	if !strings.EqualFold(format, "jpeg") {
		return img, format, nil
	}
	return orientate(img, exifOrientation(bytes.NewReader(data))), format, nil
}

// exifOrientation reads the EXIF orientation tag, returning 1 when the block
// is missing or unreadable.
func exifOrientation(r io.Reader) int {
	ex, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := ex.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orient, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orient
}

func orientate(img image.Image, orient int) image.Image {
	switch orient {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
