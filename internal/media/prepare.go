package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxUploadSize is the largest file Prepare accepts.
	MaxUploadSize = 10 << 20
	jpegQuality   = 85
)

// ErrTooLarge is returned for files above MaxUploadSize.
var ErrTooLarge = errors.New("image exceeds 10MB")

// Prepared is a decoded, possibly downsized image ready for upload.
type Prepared struct {
	Name    string
	Format  string
	Width   int
	Height  int
	Resized bool
	Data    []byte
}

// Size returns the number of bytes that will be uploaded.
func (p Prepared) Size() int { return len(p.Data) }

// SizeKB rounds Size to kilobytes for display.
func (p Prepared) SizeKB() int { return (len(p.Data) + 512) / 1024 }

// Prepare reads the image at path and checks that it decodes. When maxWidth
// is positive and the image is wider, it is scaled down to maxWidth and
// re-encoded as JPEG; otherwise the original bytes are kept.
func Prepare(path string, maxWidth int) (Prepared, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Prepared{}, fmt.Errorf("stat image: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return Prepared{}, ErrTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Prepared{}, fmt.Errorf("read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Prepared{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	p := Prepared{
		Name:   filepath.Base(path),
		Format: format,
		Width:  w,
		Height: h,
		Data:   data,
	}
	if maxWidth <= 0 || w <= maxWidth {
		return p, nil
	}

	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Prepared{}, fmt.Errorf("encode jpeg: %w", err)
	}

	p.Name = strings.TrimSuffix(p.Name, filepath.Ext(p.Name)) + ".jpg"
	p.Format = "jpeg"
	p.Width = maxWidth
	p.Height = newH
	p.Resized = true
	p.Data = buf.Bytes()
	return p, nil
}
