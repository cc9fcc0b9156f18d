// Package template defines the template engine contract used to render the
// shells of the generated XML documents. The pongo2 implementation lives in
// the gotemplate subpackage.
package template
