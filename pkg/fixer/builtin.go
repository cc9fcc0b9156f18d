package fixer

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/goliatone/go-shareforms/pkg/mapping"
	"github.com/goliatone/go-shareforms/pkg/workflow"
)

// InitiatorExpression is how Alfresco refers to the user who started the
// workflow.
const InitiatorExpression = "${initiator.properties.userName}"

// InitiatorAssignee replaces the Activiti Enterprise $INITIATOR assignee
// placeholder with the Alfresco initiator expression.
type InitiatorAssignee struct{}

func (InitiatorAssignee) Name() string { return "initiator-assignee" }

func (InitiatorAssignee) Fix(doc *workflow.Document) (int, error) {
	changes := 0
	doc.Walk(func(el *etree.Element) bool {
		for i := range el.Attr {
			attr := &el.Attr[i]
			if attr.Key != "assignee" || attr.NamespaceURI() != mapping.ActivitiNamespace {
				continue
			}
			if strings.TrimSpace(attr.Value) == "$INITIATOR" {
				attr.Value = InitiatorExpression
				changes++
			}
		}
		return true
	})
	return changes, nil
}

// StartInitiator makes every process start event record its initiator in the
// "initiator" variable, which Alfresco workflows rely on.
type StartInitiator struct{}

func (StartInitiator) Name() string { return "start-initiator" }

func (StartInitiator) Fix(doc *workflow.Document) (int, error) {
	root := doc.Root()
	prefix := ""
	changes := 0
	for _, proc := range root.ChildElements() {
		if proc.Tag != "process" || proc.NamespaceURI() != mapping.BPMN20Namespace {
			continue
		}
		for _, el := range proc.ChildElements() {
			if el.Tag != "startEvent" || el.NamespaceURI() != mapping.BPMN20Namespace {
				continue
			}
			if hasAttr(el, "initiator", mapping.ActivitiNamespace) {
				continue
			}
			if prefix == "" {
				prefix = ensurePrefix(root, mapping.ActivitiNamespace, "activiti")
			}
			el.CreateAttr(prefix+":initiator", "initiator")
			changes++
		}
	}
	return changes, nil
}

// ModelerExtensions strips the Activiti modeler's layout metadata, which the
// Alfresco engine does not understand, and drops extensionElements left
// empty.
type ModelerExtensions struct{}

func (ModelerExtensions) Name() string { return "modeler-extensions" }

func (ModelerExtensions) Fix(doc *workflow.Document) (int, error) {
	var elements []*etree.Element
	changes := 0
	doc.Walk(func(el *etree.Element) bool {
		if el.NamespaceURI() == mapping.ModelerNamespace {
			elements = append(elements, el)
			return false
		}
		var keys []string
		for _, attr := range el.Attr {
			if attr.Space != "" && attr.Space != "xmlns" && attr.NamespaceURI() == mapping.ModelerNamespace {
				keys = append(keys, attr.FullKey())
			}
		}
		for _, key := range keys {
			el.RemoveAttr(key)
			changes++
		}
		return true
	})
	for _, el := range elements {
		if parent := el.Parent(); parent != nil {
			parent.RemoveChild(el)
			changes++
		}
	}

	var empty []*etree.Element
	doc.Walk(func(el *etree.Element) bool {
		if el.Tag == "extensionElements" && el.NamespaceURI() == mapping.BPMN20Namespace && isBlank(el) {
			empty = append(empty, el)
			return false
		}
		return true
	})
	for _, el := range empty {
		if parent := el.Parent(); parent != nil {
			parent.RemoveChild(el)
			changes++
		}
	}
	return changes, nil
}

func hasAttr(el *etree.Element, key, namespace string) bool {
	for _, attr := range el.Attr {
		if attr.Key == key && attr.Space != "" && attr.NamespaceURI() == namespace {
			return true
		}
	}
	return false
}

// ensurePrefix returns the prefix bound to namespace on root, declaring it
// with fallback when missing.
func ensurePrefix(root *etree.Element, namespace, fallback string) string {
	for _, attr := range root.Attr {
		if attr.Space == "xmlns" && attr.Value == namespace {
			return attr.Key
		}
	}
	root.CreateAttr("xmlns:"+fallback, namespace)
	return fallback
}

func isBlank(el *etree.Element) bool {
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.Element:
			return false
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return false
			}
		}
	}
	return true
}
