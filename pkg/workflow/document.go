package workflow

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/beevik/etree"

	"github.com/goliatone/go-shareforms/pkg/failure"
	"github.com/goliatone/go-shareforms/pkg/mapping"
)

var (
	utf8BOM        = []byte("\xef\xbb\xbf")
	declarationsOK = [][]byte{
		[]byte("<?xml version='1.0'"),
		[]byte(`<?xml version="1.0"`),
	}
)

// Precheck rejects input that is not an exported BPMN 2.0 definition: it
// must open with an XML 1.0 declaration and reference the BPMN model
// namespace.
func Precheck(raw []byte, location string) error {
	body := bytes.TrimPrefix(raw, utf8BOM)
	declared := false
	for _, prefix := range declarationsOK {
		if bytes.HasPrefix(body, prefix) {
			declared = true
			break
		}
	}
	if !declared || !bytes.Contains(body, []byte(mapping.BPMN20Namespace)) {
		return failure.Usage(failure.CodeNotAWorkflow, "%s isn't a BPMN 2.0 workflow definition", location)
	}
	return nil
}

// Document is a parsed workflow. Edits are made in place on the element
// tree so unknown content survives the round trip.
type Document struct {
	source Source
	tree   *etree.Document
}

// Parse prechecks and parses raw workflow XML.
func Parse(src Source, raw []byte) (*Document, error) {
	if src == nil {
		src = SourceFromMemory("workflow")
	}
	if err := Precheck(raw, src.Location()); err != nil {
		return nil, err
	}
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(raw); err != nil {
		return nil, failure.Wrap(failure.KindStructural, failure.CodeWorkflowParse, err, "cannot parse %s", src.Location())
	}
	if tree.Root() == nil {
		return nil, failure.Structural(failure.CodeWorkflowParse, "%s has no root element", src.Location())
	}
	return &Document{source: src, tree: tree}, nil
}

// Open reads and parses a workflow file.
func Open(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.Wrap(failure.KindUsage, failure.CodeUsage, err, "cannot read workflow %s", path)
	}
	return Parse(SourceFromFile(path), raw)
}

// OpenFS reads and parses a workflow from fsys.
func OpenFS(fsys fs.FS, name string) (*Document, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, failure.Wrap(failure.KindUsage, failure.CodeUsage, err, "cannot read workflow %s", name)
	}
	return Parse(SourceFromFS(name), raw)
}

// Source returns the origin of the document.
func (d *Document) Source() Source { return d.source }

// Root returns the definitions element.
func (d *Document) Root() *etree.Element { return d.tree.Root() }

// Process is the single process definition of a workflow.
type Process struct {
	Element *etree.Element
	ID      string
}

// SingleProcess returns the only BPMN process among the root's direct
// children. Any other count is a structural error listing the ids found.
func (d *Document) SingleProcess() (Process, error) {
	var found []Process
	for _, child := range d.Root().ChildElements() {
		if child.Tag == "process" && child.NamespaceURI() == mapping.BPMN20Namespace {
			found = append(found, Process{Element: child, ID: child.SelectAttrValue("id", "")})
		}
	}
	if len(found) == 1 {
		return found[0], nil
	}
	ids := make([]string, len(found))
	for i, p := range found {
		ids[i] = p.ID
	}
	err := failure.Structural(failure.CodeProcessCount,
		"expected 1 process definition in your BPMN file, but found %d", len(found))
	return Process{}, err.WithDetails(
		"only one process per file is supported",
		fmt.Sprintf("found: %v", ids),
	)
}

// Bytes serialises the document, keeping its XML declaration. A declaration
// is added when the source had none.
func (d *Document) Bytes() ([]byte, error) {
	if !hasDeclaration(d.tree) {
		d.tree.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="UTF-8"`))
	}
	data, err := d.tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("workflow: serialise %s: %w", d.source.Location(), err)
	}
	return data, nil
}

func hasDeclaration(tree *etree.Document) bool {
	for _, token := range tree.Child {
		if pi, ok := token.(*etree.ProcInst); ok && pi.Target == "xml" {
			return true
		}
	}
	return false
}

// Walk visits every descendant element of the root in document order. The
// root itself is not visited. Returning false from fn skips the element's
// children.
func (d *Document) Walk(fn func(el *etree.Element) bool) {
	walk(d.Root(), fn)
}

func walk(parent *etree.Element, fn func(el *etree.Element) bool) {
	for _, child := range parent.ChildElements() {
		if fn(child) {
			walk(child, fn)
		}
	}
}
