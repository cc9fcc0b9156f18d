package workflow

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/goliatone/go-shareforms/pkg/mapping"
)

// FormKeyAttr is the local name of the Activiti form key attribute.
const FormKeyAttr = "formKey"

// FormReference is an element carrying an activiti:formKey attribute, with
// its 0-based position among all such elements.
type FormReference struct {
	Element *etree.Element
	Key     string
	Index   int
}

// FormReferences returns every element with a form key, in document order.
func (d *Document) FormReferences() []FormReference {
	var refs []FormReference
	d.Walk(func(el *etree.Element) bool {
		if attr := formKeyAttr(el); attr != nil {
			refs = append(refs, FormReference{Element: el, Key: attr.Value, Index: len(refs)})
		}
		return true
	})
	return refs
}

// Tag returns the element's qualified tag as {namespace}local.
func (r FormReference) Tag() string {
	return "{" + r.Element.NamespaceURI() + "}" + r.Element.Tag
}

// ID returns the element id, or "(n/a)".
func (r FormReference) ID() string {
	return r.Element.SelectAttrValue("id", "(n/a)")
}

// Name returns the element's name attribute and whether it is set.
func (r FormReference) Name() (string, bool) {
	attr := r.Element.SelectAttr("name")
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// NewKey returns the namespace-qualified form type for this reference.
func (r FormReference) NewKey(namespace string) string {
	return namespace + ":Form" + strconv.Itoa(r.Index)
}

// SetFormKey rewrites the form key in place, keeping the attribute's prefix
// and position.
func (r FormReference) SetFormKey(key string) {
	if attr := formKeyAttr(r.Element); attr != nil {
		attr.Value = key
	}
}

func formKeyAttr(el *etree.Element) *etree.Attr {
	for i := range el.Attr {
		attr := &el.Attr[i]
		if attr.Key == FormKeyAttr && attr.Space != "" && attr.NamespaceURI() == mapping.ActivitiNamespace {
			return attr
		}
	}
	return nil
}
