//go:build !linux || !cgo

package media

import "image"

const heicSupported = false

func decodeHEIC([]byte) (image.Image, error) {
	return nil, ErrHEICUnavailable
}
