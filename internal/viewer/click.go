package viewer

import (
	"strconv"
	"strings"

	"github.com/alnah/go-termblog/internal/pdflink"
)

// PrimaryButton is the DOM MouseEvent.button value of a left click.
const PrimaryButton = 0

// Click describes a click on an element inside a post, as reported by the
// browser script.
type Click struct {
	Button int               `json:"button"`
	Meta   bool              `json:"meta"`
	Ctrl   bool              `json:"ctrl"`
	Shift  bool              `json:"shift"`
	Alt    bool              `json:"alt"`
	Class  string            `json:"class"` // class attribute of the closest anchor
	Data   map[string]string `json:"data"`  // data-* attributes of that anchor
}

// Plain reports whether the click is an unmodified primary-button click.
func (c Click) Plain() bool {
	return c.Button == PrimaryButton && !c.Meta && !c.Ctrl && !c.Shift && !c.Alt
}

// Intercept decides whether the viewer handles a click.
//
// Only plain clicks on a PDF link with a file are intercepted; modified,
// middle and right clicks keep their native anchor behavior.
func Intercept(c Click) (pdflink.Address, bool) {
	if !c.Plain() || !hasClass(c.Class, pdflink.LinkClass) {
		return pdflink.Address{}, false
	}

	file := c.Data[pdflink.AttrFile]
	if file == "" {
		return pdflink.Address{}, false
	}

	page, err := strconv.Atoi(c.Data[pdflink.AttrPage])
	if err != nil || page < 1 {
		page = 1
	}

	return pdflink.Address{
		File:      file,
		Page:      page,
		Highlight: c.Data[pdflink.AttrHighlight],
	}, true
}

func hasClass(classAttr, name string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == name {
			return true
		}
	}
	return false
}
