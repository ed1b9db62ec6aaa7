// Package viewer holds the PDF viewer panel state.
//
// A Session is the single source of truth for what the panel shows: whether
// it is open, which file, page and highlight are active, and a one-shot
// pending scroll request. A Surface consumes that request once the document
// is laid out. A Controller applies browser events to both in order and
// produces the commands the browser executes.
//
// None of the types here are safe for concurrent use. Each viewer
// connection owns its own Session, Surface and Controller and drives them
// from a single goroutine.
package viewer

import "github.com/google/uuid"

// State is a read-only copy of a Session.
type State struct {
	IsOpen        bool
	File          string
	Page          int // page shown in the panel chrome, >= 1
	TotalPages    int // 0 until the document reports its page count
	Highlight     string
	PendingScroll int // one-shot scroll request, 0 when absent
	LoadID        string
}

// Session is the viewer state machine. The zero value is not usable;
// create sessions with NewSession.
type Session struct {
	state State
	newID func() string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLoadIDs replaces the load identity generator (tests use counters).
func WithLoadIDs(gen func() string) SessionOption {
	return func(s *Session) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewSession creates a closed session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		state: State{Page: 1},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open shows file at page with an optional highlight.
//
// When the same file is already open only the highlight and the pending
// scroll request change; the page count and load identity are kept so the
// panel can navigate without reloading. Otherwise the session is replaced
// wholesale and a new load begins. Returns true when a new load began.
func (s *Session) Open(file string, page int, highlight string) bool {
	if page < 1 {
		page = 1
	}

	if s.state.IsOpen && s.state.File == file {
		s.state.Highlight = highlight
		s.state.PendingScroll = page
		return false
	}

	s.state = State{
		IsOpen:        true,
		File:          file,
		Page:          page,
		TotalPages:    0,
		Highlight:     highlight,
		PendingScroll: page,
		LoadID:        s.newID(),
	}
	return true
}

// Resume reopens the most recently closed file without an explicit page
// target, letting the surface restore the remembered scroll offset.
// Returns false when the session is open or has never shown a file.
func (s *Session) Resume() bool {
	if s.state.IsOpen || s.state.File == "" {
		return false
	}

	s.state = State{
		IsOpen: true,
		File:   s.state.File,
		Page:   1,
		LoadID: s.newID(),
	}
	return true
}

// Close hides the panel and drops any pending scroll request.
// The last file is kept so Resume can reopen it.
func (s *Session) Close() {
	s.state.IsOpen = false
	s.state.PendingScroll = 0
}

// SetTotalPages records the page count of the open document.
// Ignored while closed.
func (s *Session) SetTotalPages(n int) {
	if !s.state.IsOpen || n < 0 {
		return
	}
	s.state.TotalPages = n
}

// SetPage updates the page shown in the panel chrome.
// It never touches the pending scroll request.
func (s *Session) SetPage(n int) {
	if n < 1 {
		return
	}
	s.state.Page = n
}

// ClearScrollRequest drops the pending scroll request. Safe to repeat.
func (s *Session) ClearScrollRequest() {
	s.state.PendingScroll = 0
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	return s.state
}

// IsCurrent reports whether a completion for file/loadID still belongs to
// the open document. Completions for closed sessions, other files or
// earlier loads are stale.
func (s *Session) IsCurrent(file, loadID string) bool {
	return s.state.IsOpen && s.state.File == file && s.state.LoadID == loadID
}
