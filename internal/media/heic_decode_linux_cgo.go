//go:build linux && cgo

package media

import (
	"bytes"
	"image"

	"github.com/jdeng/goheif"
)

const heicSupported = true

// decodeHEIC decodes the primary HEIF image and applies the orientation
// carried in its embedded EXIF block, if any.
func decodeHEIC(data []byte) (image.Image, error) {
	img, err := goheif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	raw, err := goheif.ExtractExif(bytes.NewReader(data))
	if err != nil || len(raw) == 0 {
		return img, nil
	}
	return orientate(img, exifOrientation(bytes.NewReader(raw))), nil
}
