package logic

import "time"

// NavResult reports what a Navigator.Update call did.
type NavResult struct {
	// Changed is true when the current page changed.
	Changed bool
	// Acknowledged is true when the stand alert was acknowledged.
	Acknowledged bool
	// Recalibrate is true when a long press requested a new calibration.
	Recalibrate bool
}

// Navigator owns the current page.
type Navigator struct {
	paginationWindow   time.Duration
	complementDuration time.Duration

	current PageID
	last    PageID

	paginationUntil time.Time
	complementUntil time.Time
}

// NewNavigator creates a navigator that starts on the calibration page and
// returns to the remaining time page once calibration completes.
func NewNavigator(paginationWindow, complementDuration time.Duration) *Navigator {
	return &Navigator{
		paginationWindow:   paginationWindow,
		complementDuration: complementDuration,
		current:            PageCalibration,
		last:               PageRemainingTime,
	}
}

// Update applies this tick's switch edges to the current page.
func (n *Navigator) Update(now time.Time, toggled, longPressed bool) NavResult {
	var res NavResult

	switch n.current {
	case PageStand:
		if toggled {
			res.Acknowledged = true
			res.Changed = n.restore(now)
		}
	case PageComplement:
		if toggled || !now.Before(n.complementUntil) {
			res.Changed = n.restore(now)
		}
	case PageCalibration:
		// Left only through FinishCalibration
	default:
		if longPressed {
			n.last = n.current
			n.current = PageCalibration
			res.Recalibrate = true
			res.Changed = true
		} else if toggled {
			n.current = (n.current + 1) % MaxPage
			n.paginationUntil = now.Add(n.paginationWindow)
			res.Changed = true
		}
	}

	return res
}

// FinishCalibration leaves the calibration page.
func (n *Navigator) FinishCalibration(now time.Time) bool {
	if n.current != PageCalibration {
		return false
	}
	return n.restore(now)
}

// ShowStand forces the stand page regardless of the current page.
func (n *Navigator) ShowStand(now time.Time) bool {
	if n.current == PageStand {
		return false
	}
	if n.current.IsNormal() {
		n.last = n.current
	}
	n.current = PageStand
	return true
}

// ShowComplement shows the complement page for the complement duration.
func (n *Navigator) ShowComplement(now time.Time) bool {
	if n.current.IsNormal() {
		n.last = n.current
	}
	n.complementUntil = now.Add(n.complementDuration)
	changed := n.current != PageComplement
	n.current = PageComplement
	return changed
}

// restore returns to the page that was active before the special page.
func (n *Navigator) restore(now time.Time) bool {
	if !n.last.IsNormal() {
		n.last = PageRemainingTime
	}
	n.current = n.last
	n.paginationUntil = now.Add(n.paginationWindow)
	return true
}

// ShowPagination reports whether the pagination dots are visible.
func (n *Navigator) ShowPagination(now time.Time) bool {
	return n.current.IsNormal() && now.Before(n.paginationUntil)
}

// CurrentPage returns the current page.
func (n *Navigator) CurrentPage() PageID {
	return n.current
}

// LastPage returns the normal page restored when a special page exits.
func (n *Navigator) LastPage() PageID {
	return n.last
}
