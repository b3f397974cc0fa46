// Package imaging builds the resized WebP variant stored next to each upload.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	xwebp "golang.org/x/image/webp"
)

const DefaultQuality = 82

// ErrUnsupported is returned for formats that are stored without a variant.
var ErrUnsupported = errors.New("no variant for this format")

func decode(data []byte, mimeType string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch mimeType {
	case "image/jpeg":
		return jpeg.Decode(r)
	case "image/png":
		return png.Decode(r)
	case "image/webp":
		return xwebp.Decode(r)
	}
	return nil, ErrUnsupported
}

// Scale keeps the aspect ratio and never upscales.
func Scale(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return src
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// WebPVariant decodes the upload, scales it to maxWidth and encodes it as WebP.
func WebPVariant(data []byte, mimeType string, maxWidth int) ([]byte, error) {
	img, err := decode(data, mimeType)
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("decode %s: %w", mimeType, err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, Scale(img, maxWidth), &webp.Options{Quality: DefaultQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
