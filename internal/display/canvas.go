package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Panel is the device the canvas is flushed to. *ssd1306.Dev satisfies it.
type Panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// compactFace is basicfont 7x13 packed to a 6px advance so that
// MaxCharsPerLine glyphs fit the panel width.
var compactFace = &basicfont.Face{
	Advance: TextWidth,
	Width:   6,
	Height:  TextHeight,
	Ascent:  11,
	Descent: 2,
	Mask:    basicfont.Face7x13.Mask,
	Ranges:  basicfont.Face7x13.Ranges,
}

// progress bar placement
const (
	barMarginX = 8
	barTop     = 36
	barHeight  = 10
)

// scroll bar placement along the right edge
const (
	scrollBarWidth   = 2
	scrollThumbMin   = 4
	scrollTrackSpace = 2 // every other row of the track is lit
)

// Canvas implements Surface on a 1-bit frame buffer.
type Canvas struct {
	panel Panel
	img   *image1bit.VerticalLSB
}

// NewCanvas creates a canvas matching the panel bounds.
func NewCanvas(panel Panel) *Canvas {
	return &Canvas{
		panel: panel,
		img:   image1bit.NewVerticalLSB(panel.Bounds()),
	}
}

// Image returns the frame buffer.
func (c *Canvas) Image() *image1bit.VerticalLSB {
	return c.img
}

// Clear blanks the frame buffer.
func (c *Canvas) Clear() {
	for i := range c.img.Pix {
		c.img.Pix[i] = 0
	}
}

// RenderLine draws one horizontally centred line with its top at y.
func (c *Canvas) RenderLine(text string, y int) error {
	if err := ValidateLine(text); err != nil {
		return err
	}
	w := c.img.Bounds().Dx()
	x := (w - len([]rune(text))*TextWidth) / 2
	if x < 0 {
		x = 0
	}

	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(image1bit.On),
		Face: compactFace,
		Dot:  fixed.P(x, y+compactFace.Ascent),
	}
	d.DrawString(text)
	return nil
}

// RenderMultiLine wraps text and draws it from y with gap pixels between lines.
func (c *Canvas) RenderMultiLine(text string, y, gap int) error {
	lines, err := WrapText(text)
	if err != nil {
		return err
	}
	if err := fitLines(len(lines), y, gap); err != nil {
		return err
	}
	return c.drawLines(lines, y, TextHeight+gap)
}

// RenderMultiLineScroll draws the lines of text visible at offset.
func (c *Canvas) RenderMultiLineScroll(text string, y, gap, offset int) error {
	lines, err := ScrollWindow(text, y, gap, offset)
	if err != nil {
		return err
	}
	return c.drawLines(lines, y, TextHeight+gap)
}

func (c *Canvas) drawLines(lines []string, y, pitch int) error {
	for i, line := range lines {
		if err := c.RenderLine(line, y+i*pitch); err != nil {
			return err
		}
	}
	return nil
}

// RenderScrollBar draws a dotted track on the right edge with a solid thumb
// at currentStep.
func (c *Canvas) RenderScrollBar(maxStep, currentStep int) error {
	if maxStep <= 0 || currentStep < 0 || currentStep >= maxStep {
		return fmt.Errorf("%w: step %d of %d", ErrScrollRange, currentStep, maxStep)
	}
	top, height := ScrollThumb(maxStep, currentStep)
	b := c.img.Bounds()
	x0 := b.Dx() - scrollBarWidth

	for y := 0; y < b.Dy(); y += scrollTrackSpace {
		c.img.SetBit(b.Dx()-1, y, image1bit.On)
	}
	for y := top; y < top+height; y++ {
		for x := x0; x < b.Dx(); x++ {
			c.img.SetBit(x, y, image1bit.On)
		}
	}
	return nil
}

// ScrollThumb returns the top row and height of the scroll bar thumb.
// The first step sits at the top of the screen, the last at the bottom.
func ScrollThumb(maxStep, currentStep int) (top, height int) {
	height = ScreenHeight / maxStep
	if height < scrollThumbMin {
		height = scrollThumbMin
	}
	if maxStep == 1 {
		return 0, ScreenHeight
	}
	return currentStep * (ScreenHeight - height) / (maxStep - 1), height
}

// RenderPagination draws the page dots centred along the bottom edge.
func (c *Canvas) RenderPagination(maxPage, currentPage, radius, margin int) error {
	if maxPage <= 0 || currentPage < 0 || currentPage >= maxPage {
		return fmt.Errorf("%w: page %d of %d", ErrPageRange, currentPage, maxPage)
	}
	b := c.img.Bounds()
	diameter := 2*radius + 1
	total := maxPage*diameter + (maxPage-1)*margin
	x0 := (b.Dx()-total)/2 + radius
	cy := b.Dy() - radius - 1

	for p := 0; p < maxPage; p++ {
		cx := x0 + p*(diameter+margin)
		c.circle(cx, cy, radius, p == currentPage)
	}
	return nil
}

func (c *Canvas) circle(cx, cy, r int, filled bool) {
	r2 := r * r
	inner := (r - 1) * (r - 1)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := dx*dx + dy*dy
			if d > r2 {
				continue
			}
			if filled || d > inner {
				c.img.SetBit(cx+dx, cy+dy, image1bit.On)
			}
		}
	}
}

// RenderProgressBar draws an outlined bar filled to fraction.
func (c *Canvas) RenderProgressBar(fraction float64) error {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	b := c.img.Bounds()
	x0, x1 := barMarginX, b.Dx()-barMarginX-1
	y0, y1 := barTop, barTop+barHeight-1

	for x := x0; x <= x1; x++ {
		c.img.SetBit(x, y0, image1bit.On)
		c.img.SetBit(x, y1, image1bit.On)
	}
	for y := y0; y <= y1; y++ {
		c.img.SetBit(x0, y, image1bit.On)
		c.img.SetBit(x1, y, image1bit.On)
	}

	fill := int(fraction * float64(x1-x0-3))
	for x := x0 + 2; x < x0+2+fill; x++ {
		for y := y0 + 2; y <= y1-2; y++ {
			c.img.SetBit(x, y, image1bit.On)
		}
	}
	return nil
}

// Flush pushes the frame buffer to the panel.
func (c *Canvas) Flush() error {
	if err := c.panel.Draw(c.img.Bounds(), c.img, image.Point{}); err != nil {
		return fmt.Errorf("draw panel: %w", err)
	}
	return nil
}
