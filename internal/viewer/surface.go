package viewer

import (
	"math"
	"sort"
)

// Surface resolves scroll requests against the laid-out document.
//
// It owns the per-file scroll offsets remembered while the viewer
// connection lives, and tracks which pages of the current load already have
// an element to scroll to. All methods key off the session's current file
// and load identity, so callbacks from an earlier load never act on the
// current one.
type Surface struct {
	session *Session

	offsets map[string]float64 // last scrollTop per file, last write wins

	loadID      string       // load the fields below belong to
	rendered    map[int]bool // pages with a scroll target element
	initialDone bool         // first resolution happened for this load
	failed      bool
}

// NewSurface creates a surface bound to session.
func NewSurface(session *Session) *Surface {
	return &Surface{
		session:  session,
		offsets:  make(map[string]float64),
		rendered: make(map[int]bool),
	}
}

// sync resets per-load fields when the session started a new load.
func (s *Surface) sync() {
	st := s.session.Snapshot()
	if st.LoadID == s.loadID {
		return
	}
	s.loadID = st.LoadID
	s.rendered = make(map[int]bool)
	s.initialDone = false
	s.failed = false
}

// DocumentLoaded records the page count reported for a load and attempts
// the first scroll resolution. Stale completions are discarded.
func (s *Surface) DocumentLoaded(file, loadID string, pages int) []Command {
	if !s.session.IsCurrent(file, loadID) {
		return nil
	}
	s.sync()
	s.session.SetTotalPages(pages)

	cmds := []Command{s.pageCommand()}
	return append(cmds, s.Resolve()...)
}

// PageRendered marks page as scrollable and retries a pending resolution.
func (s *Surface) PageRendered(file, loadID string, page int) []Command {
	if !s.session.IsCurrent(file, loadID) {
		return nil
	}
	s.sync()
	if page < 1 {
		return nil
	}
	s.rendered[page] = true
	return s.Resolve()
}

// LoadFailed shows the inline failure indicator. The session stays open.
func (s *Surface) LoadFailed(file, loadID string) []Command {
	if !s.session.IsCurrent(file, loadID) {
		return nil
	}
	s.sync()
	s.failed = true
	return []Command{{Type: CmdFailed, File: file, LoadID: loadID}}
}

// Failed reports whether the current load failed.
func (s *Surface) Failed() bool {
	s.sync()
	return s.failed
}

// Resolve turns the pending scroll request into a scroll command.
//
// The first resolution after a load either restores the remembered offset
// (no explicit navigation pending) or jumps to the requested page. Later
// requests scroll smoothly. A request whose page has no element yet is left
// pending until a later page-count or page-render event resolves it.
func (s *Surface) Resolve() []Command {
	s.sync()
	st := s.session.Snapshot()
	if !st.IsOpen || st.TotalPages == 0 {
		return nil
	}

	if !s.initialDone {
		if offset, ok := s.offsets[st.File]; ok && st.Page == 1 && st.PendingScroll == 0 {
			s.initialDone = true
			s.session.ClearScrollRequest()
			return []Command{{Type: CmdRestore, File: st.File, Offset: offset}}
		}

		target := st.PendingScroll
		if target == 0 {
			target = st.Page
		}
		if !s.rendered[target] {
			return nil
		}
		s.initialDone = true
		s.session.ClearScrollRequest()
		return []Command{{Type: CmdJump, File: st.File, Page: target}}
	}

	if st.PendingScroll == 0 || !s.rendered[st.PendingScroll] {
		return nil
	}
	s.session.ClearScrollRequest()
	return []Command{{Type: CmdSmooth, File: st.File, Page: st.PendingScroll}}
}

// Scrolled records the scroll offset for the active file and updates the
// page nearest the viewport top. pageTops holds each rendered page's top
// edge relative to the viewport top.
func (s *Surface) Scrolled(file, loadID string, top float64, pageTops map[int]float64) []Command {
	if !s.session.IsCurrent(file, loadID) {
		return nil
	}
	s.sync()
	s.offsets[file] = top

	page, ok := NearestPage(pageTops)
	if !ok {
		return nil
	}
	if page == s.session.Snapshot().Page {
		return nil
	}
	s.session.SetPage(page)
	return []Command{s.pageCommand()}
}

// Select scrolls to a page chosen in the panel toolbar.
// It does not create a pending request: unrendered pages are ignored.
func (s *Surface) Select(page int) []Command {
	s.sync()
	st := s.session.Snapshot()
	if !st.IsOpen || !s.rendered[page] {
		return nil
	}
	return []Command{{Type: CmdSmooth, File: st.File, Page: page}}
}

// Offset returns the remembered scroll offset for file.
func (s *Surface) Offset(file string) (float64, bool) {
	v, ok := s.offsets[file]
	return v, ok
}

func (s *Surface) pageCommand() Command {
	st := s.session.Snapshot()
	return Command{Type: CmdPage, File: st.File, Page: st.Page, Total: st.TotalPages}
}

// NearestPage returns the page whose top edge is closest to the viewport
// top. Ties resolve to the lowest page number.
func NearestPage(pageTops map[int]float64) (int, bool) {
	if len(pageTops) == 0 {
		return 0, false
	}

	pages := make([]int, 0, len(pageTops))
	for p := range pageTops {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	best, bestDist := 0, math.Inf(1)
	for _, p := range pages {
		if d := math.Abs(pageTops[p]); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, true
}
