// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"tiff rejected", []byte{0x49, 0x49, 0x2A, 0x00}, ""},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUploadFilename(t *testing.T) {
	tests := []struct {
		filename string
		format   string
		want     string
	}{
		{"Cover Photo.PNG", "png", "cover-photo.png"},
		{"école d'été.jpeg", "jpeg", "ecole-dete.jpg"},
		{"Привет мир.gif", "gif", "privet-mir.gif"},
		{"../../etc/passwd.png", "png", "passwd.png"},
		{"###.webp", "jpeg", "image.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := UploadFilename(tt.filename, tt.format); got != tt.want {
				t.Errorf("UploadFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestPrepareUpload(t *testing.T) {
	p := NewProcessor(1 << 20)
	data := encodePNG(t, createTestImage(40, 20))

	up, err := p.PrepareUpload(bytes.NewReader(data), "My Cover.png")
	if err != nil {
		t.Fatalf("PrepareUpload: %v", err)
	}
	if up.Filename != "my-cover.png" {
		t.Errorf("Filename = %q", up.Filename)
	}
	if up.ContentType != MimeTypePNG {
		t.Errorf("ContentType = %q", up.ContentType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(up.Data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("size = %dx%d, want 40x20", cfg.Width, cfg.Height)
	}
}

func TestPrepareUploadRejects(t *testing.T) {
	t.Run("not an image", func(t *testing.T) {
		p := NewProcessor(0)
		_, err := p.PrepareUpload(strings.NewReader("hello world"), "a.txt")
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("err = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("too large", func(t *testing.T) {
		data := encodePNG(t, createTestImage(64, 64))
		p := NewProcessor(int64(len(data) - 1))
		_, err := p.PrepareUpload(bytes.NewReader(data), "a.png")
		if !errors.Is(err, ErrTooLarge) {
			t.Errorf("err = %v, want ErrTooLarge", err)
		}
	})
}

func TestPreviewDataURL(t *testing.T) {
	data := encodePNG(t, createTestImage(400, 200))

	url, err := PreviewDataURL(data, 100, 100)
	if err != nil {
		t.Fatalf("PreviewDataURL: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("unexpected prefix: %.40s", url)
	}

	if _, err := PreviewDataURL([]byte("nope"), 10, 10); err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestPlaceholder(t *testing.T) {
	data, err := Placeholder(320, 180)
	if err != nil {
		t.Fatalf("Placeholder: %v", err)
	}
	if DetectMimeType(data) != MimeTypePNG {
		t.Errorf("mime = %q", DetectMimeType(data))
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 180 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(10, 4)
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 10, 4},
		{2, 10, 4},
		{3, 10, 4},
		{4, 10, 4},
		{5, 4, 10},
		{6, 4, 10},
		{7, 4, 10},
		{8, 4, 10},
		{0, 10, 4},
		{9, 10, 4},
	}

	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: size = %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}
