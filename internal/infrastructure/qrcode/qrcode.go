// Package qrcode renders QR codes for public profile and referral links.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const (
	DefaultSize = 512
	MinSize     = 64
	MaxSize     = 2048
)

// ErrEmptyContent is returned when asked to encode nothing
var ErrEmptyContent = errors.New("qrcode: content is empty")

// PNG encodes content as a square PNG of size pixels with medium error
// correction. A zero size uses DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size == 0 {
		size = DefaultSize
	}
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("qrcode: size %d outside %d..%d", size, MinSize, MaxSize)
	}

	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: scale: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("qrcode: png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI returns the PNG as a data: URI for embedding in HTML
func DataURI(content string, size int) (string, error) {
	data, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
