package model

import (
	"github.com/goliatone/go-shareforms/pkg/formdef"
	"github.com/goliatone/go-shareforms/pkg/mapping"
	"github.com/goliatone/go-shareforms/pkg/xmltext"
)

// Property is a content-model <property>. Text values are stored ready for
// XML output: the title is cleaned display text, the default and allowed
// values are the stored data escaped verbatim.
type Property struct {
	Name          string
	Title         string
	Type          string
	Default       string
	HasDefault    bool
	AllowedValues []string
}

// Association is a content-model <association>.
type Association struct {
	Name       string
	Title      string
	Descriptor mapping.Association
}

// TypeDef is one <type> block: a form's task type with its properties and
// associations. Associations are always emitted after every property.
type TypeDef struct {
	Name         string
	Title        string
	Parent       string
	Properties   []Property
	Associations []Association
}

// Identifier returns the namespace-qualified name for a field id.
func Identifier(namespace, fieldID string) string {
	return namespace + ":" + fieldID
}

// NewProperty derives a Property from a flattened leaf. An empty propType
// falls back to d:text.
func NewProperty(namespace string, leaf formdef.Leaf, propType string) Property {
	if propType == "" {
		propType = mapping.TextType
	}
	p := Property{
		Name: xmltext.Escape(Identifier(namespace, leaf.ID)),
		Type: propType,
	}
	if leaf.HasName() {
		p.Title = xmltext.Clean(leaf.Name)
	}
	if leaf.IsReadOnly() {
		p.Default = xmltext.Escape(leaf.Value)
		p.HasDefault = true
	}
	if names := leaf.OptionNames(); len(names) > 0 {
		p.AllowedValues = make([]string, len(names))
		for i, name := range names {
			p.AllowedValues[i] = xmltext.Escape(name)
		}
	}
	return p
}

// NewAssociation derives an Association from a flattened leaf.
func NewAssociation(namespace string, leaf formdef.Leaf, descriptor mapping.Association) Association {
	a := Association{
		Name:       xmltext.Escape(Identifier(namespace, leaf.ID)),
		Descriptor: descriptor,
	}
	if leaf.HasName() {
		a.Title = xmltext.Clean(leaf.Name)
	}
	return a
}
