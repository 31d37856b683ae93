package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const defaultQuality = 82

// Variant is one encoded conversion ready to be stored.
type Variant struct {
	Name        string
	Size        Size
	Format      Format
	ContentType string
	Data        []byte
}

// Converter scales an uploaded image into every configured size and encodes
// each one as webp and jpg.
type Converter struct {
	sizes   map[Size]int
	quality int
}

// NewConverter takes the longest edge per size name. Unknown names are ignored
// and missing ones keep their default box.
func NewConverter(sizes map[string]int, quality int) *Converter {
	c := &Converter{
		sizes: map[Size]int{
			SizeThumb:  320,
			SizeSmall:  640,
			SizeMedium: 1024,
			SizeLarge:  1600,
		},
		quality: quality,
	}
	for name, edge := range sizes {
		if s, ok := ParseSize(name); ok && edge > 0 {
			c.sizes[s] = edge
		}
	}
	if c.quality <= 0 || c.quality > 100 {
		c.quality = defaultQuality
	}
	return c
}

// Edge returns the bounding box edge of size.
func (c *Converter) Edge(s Size) int { return c.sizes[s] }

// Decode reads jpeg, png, gif or webp data, honouring EXIF orientation.
func (c *Converter) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Convert produces every size in both formats. Images smaller than a box are
// not enlarged; thumbs are cropped to a square.
func (c *Converter) Convert(data []byte) ([]Variant, error) {
	src, err := c.Decode(data)
	if err != nil {
		return nil, err
	}

	out := make([]Variant, 0, len(Sizes)*len(Formats))
	for _, size := range Sizes {
		scaled := c.scale(src, size)
		for _, f := range Formats {
			b, err := c.encode(scaled, f)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", ConversionName(size, f), err)
			}
			out = append(out, Variant{
				Name:        ConversionName(size, f),
				Size:        size,
				Format:      f,
				ContentType: contentType(f),
				Data:        b,
			})
		}
	}
	return out, nil
}

func (c *Converter) scale(src image.Image, size Size) image.Image {
	edge := c.sizes[size]
	b := src.Bounds()
	if size == SizeThumb {
		side := edge
		if b.Dx() < side {
			side = b.Dx()
		}
		if b.Dy() < side {
			side = b.Dy()
		}
		return imaging.Fill(src, side, side, imaging.Center, imaging.Lanczos)
	}
	return imaging.Fit(src, edge, edge, imaging.Lanczos)
}

func (c *Converter) encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatWebp:
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(c.quality)}); err != nil {
			return nil, err
		}
	case FormatJpg:
		// jpeg has no alpha channel
		bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
		flat := imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
		if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	return buf.Bytes(), nil
}

func contentType(f Format) string {
	if f == FormatWebp {
		return "image/webp"
	}
	return "image/jpeg"
}
