package mask

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// SupportedExtensions lists the file extensions Load accepts.
var SupportedExtensions = []string{".png", ".bmp", ".tif", ".tiff", ".jpg", ".jpeg"}

// LoadError wraps failures while reading or writing mask files.
type LoadError struct {
	Operation string
	Path      string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("mask %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsSupported reports whether path has an extension Load understands.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Load decodes a label image. Gray pixel values (or palette indices for
// paletted images) become class labels.
func Load(path string) (*Mask, error) {
	if path == "" {
		return nil, &LoadError{Operation: "load", Path: path, Err: errors.New("empty path")}
	}
	if !IsSupported(path) {
		return nil, &LoadError{Operation: "load", Path: path, Err: fmt.Errorf("unsupported format: %s", filepath.Ext(path))}
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &LoadError{Operation: "decode", Path: path, Err: err}
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image into a label mask.
func FromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	switch src := img.(type) {
	case *image.Gray:
		for y := range m.Height {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(m.Labels[y*m.Width:(y+1)*m.Width], src.Pix[off:off+m.Width])
		}
	case *image.Paletted:
		for y := range m.Height {
			for x := range m.Width {
				m.Labels[y*m.Width+x] = src.ColorIndexAt(b.Min.X+x, b.Min.Y+y)
			}
		}
	case *image.Gray16:
		for y := range m.Height {
			for x := range m.Width {
				v := src.Gray16At(b.Min.X+x, b.Min.Y+y).Y
				m.Labels[y*m.Width+x] = uint8(min(v, math.MaxUint8))
			}
		}
	default:
		for y := range m.Height {
			for x := range m.Width {
				g, _ := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
				m.Labels[y*m.Width+x] = g.Y
			}
		}
	}
	return m
}

// ToImage returns the mask as an 8-bit gray image sharing no memory with m.
func (m *Mask) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(img.Pix, m.Labels)
	return img
}

// Save writes the mask as a gray image; the format follows the extension.
func Save(m *Mask, path string) error {
	if !IsSupported(path) {
		return &LoadError{Operation: "save", Path: path, Err: fmt.Errorf("unsupported format: %s", filepath.Ext(path))}
	}
	if err := imaging.Save(m.ToImage(), path); err != nil {
		return &LoadError{Operation: "save", Path: path, Err: err}
	}
	return nil
}

// Downsample shrinks the mask by factor with nearest-neighbour sampling so
// no new labels are invented. Factors <= 1 return a copy.
func Downsample(m *Mask, factor float64) *Mask {
	if factor <= 1 {
		return m.Clone()
	}
	w := max(int(math.Round(float64(m.Width)/factor)), 1)
	h := max(int(math.Round(float64(m.Height)/factor)), 1)
	resized := imaging.Resize(m.ToImage(), w, h, imaging.NearestNeighbor)
	out := New(w, h)
	for y := range h {
		for x := range w {
			out.Labels[y*w+x] = resized.Pix[resized.PixOffset(x, y)]
		}
	}
	return out
}
