package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-shareforms/pkg/render/template"
)

// Header carries the values every document shell needs.
type Header struct {
	ModelName    string
	NamespaceURI string
	Prefix       string
	ModuleName   string
}

// Sink is an output document with a begin, write*, complete lifecycle.
// Complete returns the path the document will have once the run is
// committed.
type Sink interface {
	Begin(header Header) error
	Write(fragment string) error
	Complete() (string, error)
}

var (
	// ErrNotBegun is returned when a sink is written before Begin.
	ErrNotBegun = errors.New("output: sink not begun")
	// ErrCompleted is returned when a sink is used after Complete.
	ErrCompleted = errors.New("output: sink already completed")
)

type sinkState int

const (
	stateNew sinkState = iota
	stateOpen
	stateDone
)

// Document is a Sink that buffers fragments and, on completion, renders them
// into a template shell and stages the result.
type Document struct {
	kind     string
	template string
	suffix   string
	renderer template.TemplateRenderer
	stage    *Stage

	state  sinkState
	header Header
	body   strings.Builder
}

var _ Sink = (*Document)(nil)

// NewModelSink returns the sink for <module>-model.xml.
func NewModelSink(stage *Stage, renderer template.TemplateRenderer) *Document {
	return newDocument("model", ModelTemplate, "-model.xml", stage, renderer)
}

// NewContextSink returns the sink for <module>-context.xml.
func NewContextSink(stage *Stage, renderer template.TemplateRenderer) *Document {
	return newDocument("context", ContextTemplate, "-context.xml", stage, renderer)
}

// NewShareConfigSink returns the sink for <module>-share-config-custom.xml.
func NewShareConfigSink(stage *Stage, renderer template.TemplateRenderer) *Document {
	return newDocument("share-config", ShareConfigTemplate, "-share-config-custom.xml", stage, renderer)
}

func newDocument(kind, tpl, suffix string, stage *Stage, renderer template.TemplateRenderer) *Document {
	return &Document{
		kind:     kind,
		template: tpl,
		suffix:   suffix,
		renderer: renderer,
		stage:    stage,
	}
}

// FileName returns the document file name for a module.
func (d *Document) FileName(module string) string {
	return module + d.suffix
}

// Begin opens the document.
func (d *Document) Begin(header Header) error {
	switch d.state {
	case stateOpen:
		return fmt.Errorf("output: %s sink already begun", d.kind)
	case stateDone:
		return ErrCompleted
	}
	if strings.TrimSpace(header.ModuleName) == "" {
		return fmt.Errorf("output: %s sink: module name required", d.kind)
	}
	d.header = header
	d.state = stateOpen
	return nil
}

// Write appends a fragment to the document body.
func (d *Document) Write(fragment string) error {
	switch d.state {
	case stateNew:
		return ErrNotBegun
	case stateDone:
		return ErrCompleted
	}
	d.body.WriteString(fragment)
	return nil
}

// Complete renders the document and stages it.
func (d *Document) Complete() (string, error) {
	switch d.state {
	case stateNew:
		return "", ErrNotBegun
	case stateDone:
		return "", ErrCompleted
	}
	if d.renderer == nil || d.stage == nil {
		return "", fmt.Errorf("output: %s sink has no renderer or stage", d.kind)
	}

	rendered, err := d.renderer.RenderTemplate(d.template, map[string]any{
		"model_name":    d.header.ModelName,
		"namespace_uri": d.header.NamespaceURI,
		"prefix":        d.header.Prefix,
		"module":        d.header.ModuleName,
		"body":          d.body.String(),
	})
	if err != nil {
		return "", fmt.Errorf("output: render %s: %w", d.kind, err)
	}

	path, err := d.stage.WriteFile(d.FileName(d.header.ModuleName), []byte(rendered))
	if err != nil {
		return "", err
	}
	d.state = stateDone
	return path, nil
}
