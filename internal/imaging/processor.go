// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded cover images and renders previews and
// the placeholder shown for materials without an image.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/himlearn/internal/model"
	"github.com/olegiv/himlearn/internal/util"
)

// Supported MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// ErrUnsupportedFormat is returned for data that is not jpeg, png, gif or webp.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("image is too large")

const jpegQuality = 90

// Processor prepares uploads for the backend.
type Processor struct {
	maxBytes int64
}

// NewProcessor creates a processor that rejects uploads above maxBytes.
// A non-positive limit disables the check.
func NewProcessor(maxBytes int64) *Processor {
	return &Processor{maxBytes: maxBytes}
}

// PrepareUpload decodes an uploaded image, applies its EXIF orientation and
// re-encodes it without metadata. The returned upload carries a transliterated
// and slugified filename whose extension matches the output format.
func (p *Processor) PrepareUpload(r io.Reader, filename string) (*model.Upload, error) {
	limit := p.maxBytes
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, ErrTooLarge
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	// No pure Go webp encoder; webp uploads are sent as jpeg.
	if format == "webp" {
		format = "jpeg"
	}
	processed, err := encodeImage(img, format, jpegQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &model.Upload{
		Filename:    UploadFilename(filename, format),
		ContentType: formatToMimeType(format),
		Data:        processed,
	}, nil
}

// UploadFilename returns a safe name for filename with the extension for
// format.
func UploadFilename(filename, format string) string {
	return util.FileStem(filename, "image") + "." + extensionFor(format)
}

// PreviewDataURL returns a thumbnail of the image as a data URL that fits
// within width x height.
func PreviewDataURL(data []byte, width, height int) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if b := img.Bounds(); b.Dx() > width || b.Dy() > height {
		img = imaging.Fit(img, width, height, imaging.Lanczos)
	}
	out, err := encodeImage(img, "jpeg", 80)
	if err != nil {
		return "", err
	}
	return "data:" + MimeTypeJPEG + ";base64," + base64.StdEncoding.EncodeToString(out), nil
}

// Placeholder renders the neutral PNG used when a material has no image or
// its image cannot be fetched.
func Placeholder(width, height int) ([]byte, error) {
	bg := imaging.New(width, height, color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff})

	// A darker inset frame so the tile reads as an image slot.
	inset := min(width, height) / 4
	if inset > 0 {
		frame := imaging.New(width-2*inset, height-2*inset, color.NRGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff})
		bg = imaging.Paste(bg, frame, image.Pt(inset, inset))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, bg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetectMimeType reports the MIME type of image data, without parameters.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// IsImage reports whether mimeType can be processed.
func IsImage(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation applies an EXIF orientation transformation to an image.
// 2 and 4 flip, 3 rotates 180°, 6 and 8 rotate 90°, 5 and 7 rotate and flip.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func extensionFor(format string) string {
	switch format {
	case "png", "gif":
		return format
	default:
		return "jpg"
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	default:
		return MimeTypeJPEG
	}
}
