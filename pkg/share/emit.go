package share

import (
	"strings"

	"github.com/goliatone/go-shareforms/pkg/formdef"
	"github.com/goliatone/go-shareforms/pkg/xmltext"
)

// AppearanceField is the data behind one <field> appearance entry. ID is the
// namespace-qualified identifier; Label is empty when the field has no
// display name.
type AppearanceField struct {
	ID      string
	Label   string
	Control *Control
}

// NewAppearanceField derives the appearance entry for a leaf. The control is
// resolved through the supplied registry; a nil registry never nests one.
func NewAppearanceField(identifier string, leaf formdef.Leaf, controls *Controls) AppearanceField {
	field := AppearanceField{ID: identifier}
	if leaf.HasName() {
		field.Label = leaf.Name
	}
	if control, ok := controls.Resolve(leaf); ok {
		field.Control = &control
	}
	return field
}

// EmitVisibility renders the <show> entry for a field.
func EmitVisibility(id string) string {
	return "<show id=\"" + xmltext.Escape(id) + "\" />\n"
}

// EmitAppearance renders the <field> entry for a field, nesting the control
// when one was resolved.
func EmitAppearance(field AppearanceField) string {
	var b strings.Builder
	b.WriteString("<field id=\"" + xmltext.Escape(field.ID) + "\"")
	if label := xmltext.Clean(field.Label); label != "" {
		b.WriteString(" label=\"" + label + "\"")
	}
	b.WriteString(">\n")
	if field.Control != nil {
		b.WriteString("  <control template=\"" + field.Control.Template + "\">\n")
		for _, param := range field.Control.Params {
			b.WriteString("    <control-param name=\"" + param.Name + "\">" + xmltext.Escape(param.Value) + "</control-param>\n")
		}
		b.WriteString("  </control>\n")
	}
	b.WriteString("</field>\n")
	return b.String()
}
