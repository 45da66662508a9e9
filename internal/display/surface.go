// Package display renders device frames onto a small monochrome panel.
package display

import (
	"errors"
	"fmt"
	"strings"
)

// Surface is the rendering target used by the page routines.
type Surface interface {
	// Clear blanks the frame buffer.
	Clear()
	// RenderLine draws one horizontally centred line with its top at y.
	RenderLine(text string, y int) error
	// RenderMultiLine wraps text and draws it from y with gap pixels between lines.
	RenderMultiLine(text string, y, gap int) error
	// RenderMultiLineScroll wraps text and draws the window of lines that
	// starts at wrapped line offset.
	RenderMultiLineScroll(text string, y, gap, offset int) error
	// RenderScrollBar draws a vertical position bar along the right edge.
	RenderScrollBar(maxStep, currentStep int) error
	// RenderPagination draws one dot per page, filled for currentPage.
	RenderPagination(maxPage, currentPage, radius, margin int) error
	// RenderProgressBar draws a horizontal bar filled to fraction (0..1).
	RenderProgressBar(fraction float64) error
	// Flush pushes the frame buffer to the panel.
	Flush() error
}

// Panel geometry and text limits for the 128x64 OLED.
const (
	ScreenWidth  = 128
	ScreenHeight = 64

	// Glyph cell of the font. TextHeight covers ascent plus descent.
	TextWidth  = 6
	TextHeight = 13

	// MaxCharsPerLine keeps one column of margin. MaxLines bounds a wrapped
	// text buffer; fewer lines fit on screen at once, so taller text scrolls.
	MaxCharsPerLine = ScreenWidth/TextWidth - 1
	MaxLines        = 7

	// ScrollBottom is the last row scrolled text may use; the rows below
	// are kept for the pagination dots.
	ScrollBottom = ScreenHeight - 6
)

var (
	ErrLineTooLong  = errors.New("display: line too long")
	ErrTextOverflow = errors.New("display: text does not fit")
	ErrPageRange    = errors.New("display: page out of range")
	ErrScrollRange  = errors.New("display: scroll step out of range")
)

// ValidateLine checks a single line against the per-line limit.
func ValidateLine(text string) error {
	if n := len([]rune(text)); n > MaxCharsPerLine {
		return fmt.Errorf("%w: %d > %d chars", ErrLineTooLong, n, MaxCharsPerLine)
	}
	return nil
}

// WrapText splits text on newlines and word-wraps each paragraph to
// MaxCharsPerLine. Words longer than a line are split.
func WrapText(text string) ([]string, error) {
	lines := wrapLines(text)
	if len(lines) > MaxLines {
		return nil, fmt.Errorf("%w: %d > %d lines", ErrTextOverflow, len(lines), MaxLines)
	}
	return lines, nil
}

func wrapLines(text string) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para)...)
	}
	return lines
}

// fitLines reports ErrTextOverflow when n lines drawn from y would run past
// the bottom row of the screen.
func fitLines(n, y, gap int) error {
	if bottom := y + n*(TextHeight+gap) - gap; bottom > ScreenHeight {
		return fmt.Errorf("%w: %d lines from y=%d", ErrTextOverflow, n, y)
	}
	return nil
}

// visibleLines is how many lines of pitch TextHeight+gap fit between y and
// ScrollBottom.
func visibleLines(y, gap int) int {
	n := (ScrollBottom - y + gap) / (TextHeight + gap)
	if n < 1 {
		return 1
	}
	return n
}

// ScrollSteps returns the number of distinct scroll offsets for text drawn
// from y. Text that fits has a single step.
func ScrollSteps(text string, y, gap int) int {
	n := len(wrapLines(text)) - visibleLines(y, gap) + 1
	if n < 1 {
		return 1
	}
	return n
}

// ScrollWindow returns the wrapped lines visible at offset.
func ScrollWindow(text string, y, gap, offset int) ([]string, error) {
	if steps := ScrollSteps(text, y, gap); offset < 0 || offset >= steps {
		return nil, fmt.Errorf("%w: offset %d of %d", ErrScrollRange, offset, steps)
	}
	lines, err := WrapText(text)
	if err != nil {
		return nil, err
	}
	end := offset + visibleLines(y, gap)
	if end > len(lines) {
		end = len(lines)
	}
	return lines[offset:end], nil
}

func wrapParagraph(para string) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur []rune
	for _, w := range words {
		word := []rune(w)
		for len(word) > MaxCharsPerLine {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(word[:MaxCharsPerLine]))
			word = word[MaxCharsPerLine:]
		}
		switch {
		case len(cur) == 0:
			cur = word
		case len(cur)+1+len(word) <= MaxCharsPerLine:
			cur = append(append(cur, ' '), word...)
		default:
			lines = append(lines, string(cur))
			cur = word
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
