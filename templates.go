package shareforms

import (
	"io/fs"

	"github.com/goliatone/go-shareforms/pkg/output"
)

// EmbeddedTemplates exposes the built-in document shells so callers can copy
// them as a starting point for a templates override directory.
func EmbeddedTemplates() fs.FS {
	return output.TemplatesFS()
}
