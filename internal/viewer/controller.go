package viewer

import "github.com/alnah/go-termblog/internal/pdflink"

// EventType names a message from the browser panel.
type EventType string

// Events reported by the panel script.
const (
	EvClick    EventType = "click"    // click inside the article
	EvLoaded   EventType = "loaded"   // document page count known
	EvFailed   EventType = "failed"   // document failed to load
	EvRendered EventType = "rendered" // one page element is in the DOM
	EvScroll   EventType = "scroll"   // panel scrolled
	EvSelect   EventType = "select"   // page picked in the toolbar
	EvClose    EventType = "close"    // close button or backdrop
	EvKey      EventType = "key"      // key pressed while the page has focus
	EvResume   EventType = "resume"   // reopen the last document
)

// Event is one message from the browser panel.
type Event struct {
	Type     EventType       `json:"type"`
	File     string          `json:"file,omitempty"`
	LoadID   string          `json:"loadId,omitempty"`
	Pages    int             `json:"pages,omitempty"`
	Page     int             `json:"page,omitempty"`
	Top      float64         `json:"top,omitempty"`
	PageTops map[int]float64 `json:"pageTops,omitempty"`
	Key      string          `json:"key,omitempty"`
	Click    *Click          `json:"click,omitempty"`
}

// DocURLFunc returns the URL the panel fetches to render file's pages.
type DocURLFunc func(file, highlight string) string

// Controller applies panel events to a Session and its Surface.
type Controller struct {
	session *Session
	surface *Surface
	docURL  DocURLFunc
}

// NewController creates a controller for a fresh closed session.
func NewController(docURL DocURLFunc, opts ...SessionOption) *Controller {
	session := NewSession(opts...)
	return &Controller{
		session: session,
		surface: NewSurface(session),
		docURL:  docURL,
	}
}

// Session exposes the controlled session for inspection.
func (c *Controller) Session() *Session { return c.session }

// Surface exposes the controlled surface for inspection.
func (c *Controller) Surface() *Surface { return c.surface }

// Handle applies ev and returns the commands for the panel, in order.
// Unknown or stale events produce no commands.
func (c *Controller) Handle(ev Event) []Command {
	switch ev.Type {
	case EvClick:
		if ev.Click == nil {
			return nil
		}
		addr, ok := Intercept(*ev.Click)
		if !ok {
			return nil
		}
		return c.Open(addr)

	case EvLoaded:
		return c.surface.DocumentLoaded(ev.File, ev.LoadID, ev.Pages)

	case EvFailed:
		return c.surface.LoadFailed(ev.File, ev.LoadID)

	case EvRendered:
		return c.surface.PageRendered(ev.File, ev.LoadID, ev.Page)

	case EvScroll:
		return c.surface.Scrolled(ev.File, ev.LoadID, ev.Top, ev.PageTops)

	case EvSelect:
		return c.surface.Select(ev.Page)

	case EvClose:
		return c.Close()

	case EvKey:
		if ev.Key == "Escape" && c.session.Snapshot().IsOpen {
			return c.Close()
		}
		return nil

	case EvResume:
		if !c.session.Resume() {
			return nil
		}
		return []Command{c.openCommand()}
	}
	return nil
}

// Open navigates the panel to addr.
func (c *Controller) Open(addr pdflink.Address) []Command {
	before := c.session.Snapshot()
	if !c.session.Open(addr.File, addr.Page, addr.Highlight) {
		var cmds []Command
		if before.Highlight != addr.Highlight {
			cmds = append(cmds, Command{
				Type:      CmdHighlight,
				File:      addr.File,
				LoadID:    before.LoadID,
				URL:       c.docURL(addr.File, addr.Highlight),
				Highlight: addr.Highlight,
			})
		}
		return append(cmds, c.surface.Resolve()...)
	}
	return []Command{c.openCommand()}
}

// Close hides the panel.
func (c *Controller) Close() []Command {
	c.session.Close()
	return []Command{{Type: CmdClose}}
}

func (c *Controller) openCommand() Command {
	st := c.session.Snapshot()
	addr := pdflink.Address{File: st.File, Page: 1}
	return Command{
		Type:      CmdOpen,
		File:      st.File,
		LoadID:    st.LoadID,
		URL:       c.docURL(st.File, st.Highlight),
		Href:      addr.Href(),
		Highlight: st.Highlight,
		Page:      st.PendingScroll,
	}
}
