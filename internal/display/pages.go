package display

import (
	"fmt"
	"time"

	"github.com/sweeney/standup-mate/internal/logic"
)

// Pagination dot geometry
const (
	paginationRadius = 2
	paginationMargin = 3
)

// Setup page help text, scrolled a line at a time.
const (
	setupText = "StandUp Mate\nPress: next page\nHold: recalibrate\n" +
		"Stand up when the\nLEDs start to chase.\nSit back down to\nrestart the timer."
	setupY   = 0
	setupGap = 2

	scrollPeriod = 2 * time.Second
)

// Render draws the page matching f.Page and flushes the surface. Scrolling
// pages are drawn from their first line.
func Render(s Surface, f logic.Frame) error {
	return renderFrame(s, f, 0)
}

func renderFrame(s Surface, f logic.Frame, scroll int) error {
	s.Clear()

	var err error
	switch f.Page {
	case logic.PageSetup:
		err = renderSetupPage(s, scroll)
	case logic.PageRemainingTime:
		h, m, sec := SplitDuration(f.Remaining)
		err = renderRemainingTimePage(s, h, m, sec, f.Posture)
	case logic.PageRemainingBar:
		err = renderRemainingBarPage(s, f.Remaining, f.RemainingPercent)
	case logic.PageCalibration:
		err = renderCalibrationPage(s, f.CalibProgress)
	case logic.PageStand:
		err = renderStandPage(s, f.SirenOn)
	case logic.PageComplement:
		err = renderComplementPage(s)
	default:
		err = fmt.Errorf("%w: unknown page %d", ErrPageRange, int(f.Page))
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", f.Page, err)
	}

	if f.ShowPagination && f.Page.IsNormal() {
		if err := s.RenderPagination(logic.MaxPage, int(f.Page), paginationRadius, paginationMargin); err != nil {
			return fmt.Errorf("render pagination: %w", err)
		}
	}

	return s.Flush()
}

// SplitDuration breaks d into whole hours, minutes and seconds.
func SplitDuration(d time.Duration) (hours, minutes, seconds int) {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return total / 3600, (total % 3600) / 60, total % 60
}

func renderSetupPage(s Surface, scroll int) error {
	if err := s.RenderMultiLineScroll(setupText, setupY, setupGap, scroll); err != nil {
		return err
	}
	if steps := setupSteps(); steps > 1 {
		return s.RenderScrollBar(steps, scroll)
	}
	return nil
}

func setupSteps() int {
	return ScrollSteps(setupText, setupY, setupGap)
}

func renderRemainingTimePage(s Surface, hours, minutes, seconds int, posture logic.Posture) error {
	if err := s.RenderLine("Remaining", 4); err != nil {
		return err
	}
	if err := s.RenderLine(fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds), 20); err != nil {
		return err
	}
	return s.RenderLine(postureLabel(posture), 38)
}

func renderRemainingBarPage(s Surface, remaining time.Duration, fraction float64) error {
	mins := int((remaining + time.Minute - 1) / time.Minute)
	if err := s.RenderLine(fmt.Sprintf("%d min left", mins), 12); err != nil {
		return err
	}
	return s.RenderProgressBar(fraction)
}

func renderCalibrationPage(s Surface, progress float64) error {
	if err := s.RenderLine("Calibrating", 6); err != nil {
		return err
	}
	if err := s.RenderLine("Sit as usual", 20); err != nil {
		return err
	}
	return s.RenderProgressBar(progress)
}

func renderStandPage(s Surface, siren bool) error {
	text := "Time to stand up!\n\nPress to dismiss"
	if !siren {
		text = "Time to stand up!\n\nSit back down when\nyou are done"
	}
	return s.RenderMultiLine(text, 6, 2)
}

func renderComplementPage(s Surface) error {
	return s.RenderMultiLine("Well done!\n\nTimer restarted", 12, 2)
}

func postureLabel(p logic.Posture) string {
	switch p {
	case logic.PostureSitting:
		return "Sitting"
	case logic.PostureStanding:
		return "Standing"
	case logic.PostureAway:
		return "Away"
	}
	return ""
}

// renderKey captures everything visible on screen. Fields a page does not
// draw stay zero so they cannot trigger a redraw.
type renderKey struct {
	page        logic.PageID
	pagination  bool
	posture     logic.Posture
	siren       bool
	remainingS  int
	calibration int
	scroll      int
}

func keyOf(f logic.Frame, scroll int) renderKey {
	k := renderKey{page: f.Page, pagination: f.ShowPagination}
	switch f.Page {
	case logic.PageSetup:
		k.scroll = scroll
	case logic.PageRemainingTime:
		k.remainingS = int(f.Remaining / time.Second)
		k.posture = f.Posture
	case logic.PageRemainingBar:
		k.remainingS = int(f.Remaining / time.Second)
	case logic.PageCalibration:
		k.calibration = int(f.CalibProgress * 100)
	case logic.PageStand:
		k.siren = f.SirenOn
	}
	return k
}

// Renderer redraws the surface only when a frame asks for it or its visible
// content changed. It also advances the Setup page scroll every
// scrollPeriod.
type Renderer struct {
	surface Surface
	last    renderKey
	drawn   bool

	scroll   int
	scrollAt time.Time
}

// NewRenderer creates a renderer for the given surface.
func NewRenderer(s Surface) *Renderer {
	return &Renderer{surface: s}
}

// Render draws f if needed and reports whether it did.
func (r *Renderer) Render(f logic.Frame) (bool, error) {
	r.advanceScroll(f)
	key := keyOf(f, r.scroll)
	if r.drawn && !f.Redraw && key == r.last {
		return false, nil
	}
	if err := renderFrame(r.surface, f, r.scroll); err != nil {
		return false, err
	}
	r.last = key
	r.drawn = true
	return true, nil
}

// Scroll returns the current Setup page scroll offset.
func (r *Renderer) Scroll() int {
	return r.scroll
}

func (r *Renderer) advanceScroll(f logic.Frame) {
	if f.Page != logic.PageSetup || !r.drawn || r.last.page != logic.PageSetup {
		r.scroll = 0
		r.scrollAt = f.Time
		return
	}
	if f.Time.Sub(r.scrollAt) >= scrollPeriod {
		r.scroll = (r.scroll + 1) % setupSteps()
		r.scrollAt = f.Time
	}
}
