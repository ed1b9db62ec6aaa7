package pdfindex

import (
	"encoding/json"

	"github.com/alnah/go-termblog/internal/pdflink"
)

// ManifestEntry describes one document in pdfs/index.json.
type ManifestEntry struct {
	File  string `json:"file"`
	Href  string `json:"href"`
	Pages int    `json:"pages"`
	Text  bool   `json:"text"` // page text was extracted
	Error string `json:"error,omitempty"`
}

// Manifest is the JSON document written to pdfs/index.json.
type Manifest struct {
	Files []ManifestEntry `json:"files"`
}

// Manifest summarizes the index, ordered by file.
func (idx *Index) Manifest() Manifest {
	m := Manifest{Files: make([]ManifestEntry, 0, idx.Len())}
	for _, f := range idx.Files() {
		d := idx.docs[f]
		m.Files = append(m.Files, ManifestEntry{
			File:  f,
			Href:  pdflink.Address{File: f}.Href(),
			Pages: d.PageCount,
			Text:  d.HasText(),
			Error: d.Err,
		})
	}
	return m
}

// JSON encodes the manifest with indentation.
func (m Manifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
