package output

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-shareforms/pkg/render/template"
	"github.com/goliatone/go-shareforms/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Template names of the three generated documents.
const (
	ModelTemplate       = "model.xml"
	ContextTemplate     = "context.xml"
	ShareConfigTemplate = "share-config.xml"
)

// TemplatesFS exposes the built-in document templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// NewRenderer returns the template engine used by the sinks. Templates in
// overrideDir, when set, shadow the built-in ones of the same name.
func NewRenderer(overrideDir string) (template.TemplateRenderer, error) {
	opts := []gotemplate.Option{gotemplate.WithFS(TemplatesFS())}
	if overrideDir != "" {
		opts = append(opts, gotemplate.WithBaseDir(overrideDir))
	}
	return gotemplate.New(opts...)
}
