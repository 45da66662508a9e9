package display

import (
	"fmt"
	"strings"
)

// Call is one recorded Surface operation.
type Call struct {
	Op          string // "line", "multiline", "scroll", "pagination", "scrollbar", "bar"
	Text        string
	Y           int
	Gap         int
	MaxPage     int // also the step count of a scrollbar
	CurrentPage int // also the offset of a scroll or scrollbar
	Fraction    float64
}

// FakeSurface records drawing calls for test assertions. It applies the
// same text limits as Canvas.
type FakeSurface struct {
	// Calls holds the operations since the last Clear.
	Calls []Call

	// Clears and Flushes count those calls.
	Clears  int
	Flushes int

	// FlushError, if set, will be returned by Flush.
	FlushError error
}

// NewFakeSurface creates a FakeSurface for testing.
func NewFakeSurface() *FakeSurface {
	return &FakeSurface{}
}

func (f *FakeSurface) Clear() {
	f.Clears++
	f.Calls = nil
}

func (f *FakeSurface) RenderLine(text string, y int) error {
	if err := ValidateLine(text); err != nil {
		return err
	}
	f.Calls = append(f.Calls, Call{Op: "line", Text: text, Y: y})
	return nil
}

func (f *FakeSurface) RenderMultiLine(text string, y, gap int) error {
	lines, err := WrapText(text)
	if err != nil {
		return err
	}
	if err := fitLines(len(lines), y, gap); err != nil {
		return err
	}
	f.Calls = append(f.Calls, Call{Op: "multiline", Text: text, Y: y, Gap: gap})
	return nil
}

// RenderMultiLineScroll records the visible lines joined by newlines.
func (f *FakeSurface) RenderMultiLineScroll(text string, y, gap, offset int) error {
	lines, err := ScrollWindow(text, y, gap, offset)
	if err != nil {
		return err
	}
	f.Calls = append(f.Calls, Call{Op: "scroll", Text: strings.Join(lines, "\n"), Y: y, Gap: gap, CurrentPage: offset})
	return nil
}

func (f *FakeSurface) RenderScrollBar(maxStep, currentStep int) error {
	if maxStep <= 0 || currentStep < 0 || currentStep >= maxStep {
		return fmt.Errorf("%w: step %d of %d", ErrScrollRange, currentStep, maxStep)
	}
	f.Calls = append(f.Calls, Call{Op: "scrollbar", MaxPage: maxStep, CurrentPage: currentStep})
	return nil
}

func (f *FakeSurface) RenderPagination(maxPage, currentPage, radius, margin int) error {
	if maxPage <= 0 || currentPage < 0 || currentPage >= maxPage {
		return fmt.Errorf("%w: page %d of %d", ErrPageRange, currentPage, maxPage)
	}
	f.Calls = append(f.Calls, Call{Op: "pagination", MaxPage: maxPage, CurrentPage: currentPage})
	return nil
}

func (f *FakeSurface) RenderProgressBar(fraction float64) error {
	f.Calls = append(f.Calls, Call{Op: "bar", Fraction: fraction})
	return nil
}

func (f *FakeSurface) Flush() error {
	if f.FlushError != nil {
		return f.FlushError
	}
	f.Flushes++
	return nil
}

// Texts returns the text of every line, multiline and scroll call, in order.
func (f *FakeSurface) Texts() []string {
	var out []string
	for _, c := range f.Calls {
		if c.Op == "line" || c.Op == "multiline" || c.Op == "scroll" {
			out = append(out, c.Text)
		}
	}
	return out
}

// Find returns the first call with the given op.
func (f *FakeSurface) Find(op string) (Call, bool) {
	for _, c := range f.Calls {
		if c.Op == op {
			return c, true
		}
	}
	return Call{}, false
}
