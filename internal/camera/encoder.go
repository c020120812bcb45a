package camera

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
)

// DataURLPrefix prefixes every encoded frame.
const DataURLPrefix = "data:image/jpeg;base64,"

// Encoder downscales snapshots and encodes them as JPEG data URLs.
type Encoder struct {
	// Scale is the resize factor applied to both dimensions. Default: 0.5.
	Scale float64

	// Quality is the JPEG quality in [0,1]. Default: 0.5.
	Quality float64
}

// DefaultEncoder returns the encoder used for quiz submissions.
func DefaultEncoder() Encoder {
	return Encoder{Scale: 0.5, Quality: 0.5}
}

// Encode scales img and returns it as a data URL.
func (e Encoder) Encode(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrEmptyFrame
	}

	scaled := e.resize(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: e.jpegQuality()}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (e Encoder) resize(img image.Image) image.Image {
	if e.Scale <= 0 || e.Scale == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*e.Scale))
	h := max(1, int(float64(b.Dy())*e.Scale))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func (e Encoder) jpegQuality() int {
	q := int(math.Round(e.Quality * 100))
	return min(max(q, 1), 100)
}

// DecodeDataURL reverses Encode, returning the decoded image.
func DecodeDataURL(s string) (image.Image, error) {
	if len(s) < len(DataURLPrefix) || s[:len(DataURLPrefix)] != DataURLPrefix {
		return nil, fmt.Errorf("not a jpeg data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(DataURLPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return img, nil
}
