package viewer

// CommandType names an instruction sent to the browser panel.
type CommandType string

// Commands understood by the panel script.
const (
	CmdOpen      CommandType = "open"      // load File from URL
	CmdClose     CommandType = "close"     // hide the panel
	CmdHighlight CommandType = "highlight" // re-render marks for Highlight
	CmdJump      CommandType = "jump"      // initial scroll to Page
	CmdSmooth    CommandType = "smooth"    // animated scroll to Page
	CmdRestore   CommandType = "restore"   // set scrollTop to Offset
	CmdPage      CommandType = "page"      // update the chrome page indicator
	CmdFailed    CommandType = "failed"    // show the inline load failure
)

// Command is one instruction for the browser panel.
type Command struct {
	Type      CommandType `json:"type"`
	File      string      `json:"file,omitempty"`
	LoadID    string      `json:"loadId,omitempty"`
	URL       string      `json:"url,omitempty"`
	Href      string      `json:"href,omitempty"`
	Highlight string      `json:"highlight,omitempty"`
	Page      int         `json:"page,omitempty"`
	Total     int         `json:"total,omitempty"`
	Offset    float64     `json:"offset,omitempty"`
}
