// Package snapshot converts packed pixel buffers to images and writes them
// to disk.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for file extensions with no encoder.
var ErrUnknownFormat = errors.New("snapshot: unknown image format")

// Format names an image encoding.
type Format uint8

const (
	FormatPNG Format = iota + 1
	FormatBMP
	FormatTIFF
)

// FormatFor picks an encoding from a file name extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// ToRGBA copies a row-major 0x00RRGGBB buffer into an opaque RGBA image.
func ToRGBA(pixels []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	FillRGBA(img.Pix, pixels)
	return img
}

// FillRGBA writes pixels into dst as R, G, B, 0xFF quadruples.
func FillRGBA(dst []byte, pixels []uint32) {
	for i, p := range pixels {
		j := i * 4
		if j+3 >= len(dst) {
			return
		}
		dst[j+0] = byte(p >> 16)
		dst[j+1] = byte(p >> 8)
		dst[j+2] = byte(p)
		dst[j+3] = 0xFF
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return ErrUnknownFormat
}

// Save writes pixels to path, choosing the encoding from its extension.
// Missing parent directories are created.
func Save(path string, pixels []uint32, width, height int) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %q: %w", dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot %q: %w", path, err)
	}
	if err := Encode(out, ToRGBA(pixels, width, height), f); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode snapshot %q: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close snapshot %q: %w", path, err)
	}
	return nil
}
