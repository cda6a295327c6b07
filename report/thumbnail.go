package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	thumbWidth  = 320
	thumbHeight = 240
	lineHeight  = 14
	maxPreview  = 12
)

// writeThumbnail draws a rough text preview of the table so Telegram
// shows something meaningful next to the PDF document.
func writeThumbnail(path string, t Table) error {
	img := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ink := color.RGBA{A: 255}
	y := lineHeight + 4
	drawLine(img, ink, 8, y, t.Title)
	y += lineHeight + 4
	drawLine(img, ink, 8, y, strings.Join(t.Headers, " | "))
	y += lineHeight

	for i, row := range t.Rows {
		if i >= maxPreview || y > thumbHeight-lineHeight {
			drawLine(img, ink, 8, y, "...")
			break
		}
		drawLine(img, ink, 8, y, strings.Join(row, " | "))
		y += lineHeight
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create thumbnail %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("report: encode thumbnail %s: %w", path, err)
	}
	return nil
}

func drawLine(img *image.RGBA, ink color.Color, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
