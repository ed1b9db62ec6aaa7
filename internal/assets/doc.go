// Package assets provides the HTML templates and static files of the site.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from the go:embed filesystem
//	    ├── FilesystemLoader  - loads from a directory on disk
//	    └── Resolver          - custom-first, falling back to embedded
//
// Resolver is what the site writer uses: a theme directory configured with
// assets.basePath may override any single template or static file while
// the rest keep their embedded defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── templates/
//	│   └── {name}.html    # layout, home, about, blog, post, tags, tag, notfound
//	└── static/
//	    └── {file}         # site.css, viewer.js, copy.js, extra files
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
