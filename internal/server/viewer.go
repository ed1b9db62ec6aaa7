package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/alnah/go-termblog/internal/pdfindex"
	"github.com/alnah/go-termblog/internal/viewer"
)

// maxEventSize caps one browser message. Scroll events carry a position per
// page, so this leaves room for very long documents.
const maxEventSize = 256 << 10

var pagesTemplate = template.Must(template.New("pages").Parse(
	`{{range .}}<div class="viewer-page{{if .Matched}} viewer-match{{end}}" data-page="{{.Number}}">` +
		`<span class="viewer-page-number">{{.Number}}</span>` +
		`<pre class="viewer-text">{{.Text}}</pre></div>` + "\n" +
		`{{end}}`))

type pageFragment struct {
	Number  int
	Matched bool
	Text    template.HTML
}

// DocURL returns the viewer route rendering file with highlight marks.
func DocURL(file, highlight string) string {
	u := url.URL{Path: strings.TrimSuffix(ViewerDocPath, "/") + "/" + file}
	out := u.EscapedPath()
	if highlight != "" {
		out += "?highlight=" + url.QueryEscape(highlight)
	}
	return out
}

// handleViewerDoc renders every page of a PDF as an HTML fragment for the
// viewer panel.
func (s *Server) handleViewerDoc(w http.ResponseWriter, r *http.Request) {
	file := strings.TrimPrefix(r.URL.Path, ViewerDocPath)
	doc, ok := s.Index().Lookup(file)
	if !ok {
		http.Error(w, "unknown document", http.StatusNotFound)
		return
	}
	if doc.Err != "" {
		http.Error(w, "unreadable document", http.StatusUnprocessableEntity)
		return
	}

	pages := pdfindex.PageView(doc, r.URL.Query().Get("highlight"))
	frags := make([]pageFragment, len(pages))
	for i, p := range pages {
		// PageView escapes the text and adds only <mark> elements.
		frags[i] = pageFragment{Number: p.Number, Matched: p.Matched, Text: template.HTML(p.HTML)} // #nosec G203
	}

	var buf bytes.Buffer
	if err := pagesTemplate.Execute(&buf, frags); err != nil {
		s.log.Error("rendering viewer pages", "file", file, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// checkOrigin accepts same-host pages and the configured allowed origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// handleViewerSocket runs one viewer session. Events are read, applied and
// answered on this goroutine only, so they take effect strictly in order.
func (s *Server) handleViewerSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxEventSize)

	ctrl := viewer.NewController(DocURL, s.cfg.SessionOptions...)
	log := s.log.WithFields(map[string]any{"remote": r.RemoteAddr})
	log.Debug("viewer connected")

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", "error", err)
			}
			log.Debug("viewer disconnected")
			return
		}

		var ev viewer.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			log.Debug("ignoring malformed viewer event", "error", err)
			continue
		}

		cmds := ctrl.Handle(ev)
		if len(cmds) == 0 {
			continue
		}
		log.Trace("viewer event", "type", string(ev.Type), "commands", len(cmds))
		if err := conn.WriteJSON(cmds); err != nil {
			log.Warn("websocket write", "error", err)
			return
		}
	}
}
