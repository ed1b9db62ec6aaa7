package assets

// Loader loads page templates and static files.
type Loader interface {
	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)

	// LoadStatic loads a static file by file name (site.css).
	// Returns ErrStaticNotFound if the file doesn't exist.
	LoadStatic(name string) ([]byte, error)

	// StaticNames lists the available static file names, sorted.
	StaticNames() ([]string, error)
}
