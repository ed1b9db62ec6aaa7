package assets

import "fmt"

// Page template names. LayoutTemplate wraps every other page.
const (
	LayoutTemplate   = "layout"
	HomeTemplate     = "home"
	AboutTemplate    = "about"
	BlogTemplate     = "blog"
	PostTemplate     = "post"
	TagsTemplate     = "tags"
	TagTemplate      = "tag"
	NotFoundTemplate = "notfound"
)

// PageTemplates lists the templates every template set must provide.
var PageTemplates = []string{
	HomeTemplate, AboutTemplate, BlogTemplate, PostTemplate,
	TagsTemplate, TagTemplate, NotFoundTemplate,
}

// TemplateSet holds the template sources used to render the site.
type TemplateSet struct {
	Layout string
	Pages  map[string]string // page template name -> source
}

// LoadTemplateSet loads the layout and every page template from loader.
// Returns ErrIncompleteTemplateSet when one is missing.
func LoadTemplateSet(loader Loader) (*TemplateSet, error) {
	layout, err := loader.LoadTemplate(LayoutTemplate)
	if err != nil {
		return nil, wrapMissing(LayoutTemplate, err)
	}

	ts := &TemplateSet{Layout: layout, Pages: make(map[string]string, len(PageTemplates))}
	for _, name := range PageTemplates {
		src, err := loader.LoadTemplate(name)
		if err != nil {
			return nil, wrapMissing(name, err)
		}
		ts.Pages[name] = src
	}
	return ts, nil
}

func wrapMissing(name string, err error) error {
	if isNotFoundError(err) {
		return fmt.Errorf("%w: %s.html: %v", ErrIncompleteTemplateSet, name, err)
	}
	return err
}
