// Package ogimage draws social preview cards.
package ogimage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Card dimensions recommended by the major link unfurlers
const (
	Width  = 1200
	Height = 630

	padding    = 80
	titleSize  = 64
	subSize    = 32
	brandSize  = 28
	maxTitleLn = 3
)

// Card is the text drawn on a preview image
type Card struct {
	Title    string
	Subtitle string
	Label    string // small caps line above the title, e.g. "PROPERTY"
	Brand    string
}

var (
	background = color.RGBA{R: 16, G: 32, B: 56, A: 255}
	accent     = color.RGBA{R: 201, G: 162, B: 39, A: 255}
	textLight  = color.RGBA{R: 245, G: 245, B: 240, A: 255}
	textMuted  = color.RGBA{R: 170, G: 182, B: 200, A: 255}
)

type faces struct {
	title, subtitle, label, brand font.Face
}

var (
	facesOnce sync.Once
	loaded    *faces
	loadErr   error
)

func loadFaces() (*faces, error) {
	facesOnce.Do(func() {
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			loadErr = fmt.Errorf("failed to parse bold font: %w", err)
			return
		}
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			loadErr = fmt.Errorf("failed to parse regular font: %w", err)
			return
		}
		face := func(f *opentype.Font, size float64) font.Face {
			if loadErr != nil {
				return nil
			}
			ff, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
			if err != nil {
				loadErr = fmt.Errorf("failed to create font face: %w", err)
			}
			return ff
		}
		loaded = &faces{
			title:    face(bold, titleSize),
			subtitle: face(regular, subSize),
			label:    face(bold, 22),
			brand:    face(bold, brandSize),
		}
	})
	return loaded, loadErr
}

// Render writes the card as PNG
func Render(w io.Writer, card Card) error {
	img, err := Draw(card)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Draw lays out the card
func Draw(card Card) (*image.RGBA, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, Height-12, Width, Height), &image.Uniform{C: accent}, image.Point{}, draw.Src)

	y := padding + 20
	if card.Label != "" {
		drawText(img, f.label, accent, padding, y, strings.ToUpper(card.Label))
		y += 60
	} else {
		y += 30
	}

	lines := wrap(f.title, card.Title, Width-2*padding, maxTitleLn)
	for _, line := range lines {
		y += titleSize
		drawText(img, f.title, textLight, padding, y, line)
		y += 12
	}

	if card.Subtitle != "" {
		y += 24
		for _, line := range wrap(f.subtitle, card.Subtitle, Width-2*padding, 2) {
			y += subSize
			drawText(img, f.subtitle, textMuted, padding, y, line)
			y += 10
		}
	}

	if card.Brand != "" {
		drawText(img, f.brand, textLight, padding, Height-padding+10, card.Brand)
	}
	return img, nil
}

func drawText(dst draw.Image, face font.Face, c color.Color, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// wrap breaks text into at most maxLines lines no wider than width pixels.
// Overflow is cut with an ellipsis on the last line.
func wrap(face font.Face, text string, width, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	limit := fixed.I(width)

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate) <= limit {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	lines = append(lines, current)

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		runes := []rune(lines[maxLines-1])
		for len(runes) > 0 && font.MeasureString(face, string(runes)+"…") > limit {
			runes = runes[:len(runes)-1]
		}
		lines[maxLines-1] = strings.TrimSpace(string(runes)) + "…"
	}
	return lines
}
