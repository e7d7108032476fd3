package pixel

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
)

// Load decodes the PNG at path into a comparison-ready buffer
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return toNRGBA(img), nil
}

// WritePNG encodes img at path, creating parent directories as needed
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ParseHexColor parses "#rgb" and "#rrggbb" into an opaque color
func ParseHexColor(s string) (color.NRGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("hex color %q: want #rgb or #rrggbb", s)
	}
	hex := s[1:]

	parse := func(sub string) (uint8, error) {
		v, err := strconv.ParseUint(sub, 16, 8)
		return uint8(v), err
	}

	var r, g, b uint8
	var err error
	switch len(hex) {
	case 3:
		r, err = parse(string([]byte{hex[0], hex[0]}))
		if err == nil {
			g, err = parse(string([]byte{hex[1], hex[1]}))
		}
		if err == nil {
			b, err = parse(string([]byte{hex[2], hex[2]}))
		}
	case 6:
		r, err = parse(hex[0:2])
		if err == nil {
			g, err = parse(hex[2:4])
		}
		if err == nil {
			b, err = parse(hex[4:6])
		}
	default:
		return color.NRGBA{}, fmt.Errorf("hex color %q: want #rgb or #rrggbb", s)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("hex color %q: %v", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
