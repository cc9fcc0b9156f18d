package orchestrator

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-shareforms/pkg/fixer"
	"github.com/goliatone/go-shareforms/pkg/mapping"
	"github.com/goliatone/go-shareforms/pkg/render/template"
	"github.com/goliatone/go-shareforms/pkg/share"
)

// Option customises the converter configuration.
type Option func(*Converter)

// WithLogger sets the logger. Progress is logged at info, per-field detail
// at debug and soft issues at warn.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTables replaces the built-in type mapping tables.
func WithTables(tables mapping.Tables) Option {
	return func(c *Converter) {
		t := tables
		c.tables = &t
	}
}

// WithFixers replaces the built-in workflow fixers. Pass an empty registry
// to leave the workflow untouched apart from form keys.
func WithFixers(registry *fixer.Registry) Option {
	return func(c *Converter) {
		c.fixers = registry
	}
}

// WithControls replaces the built-in Share control registry.
func WithControls(controls *share.Controls) Option {
	return func(c *Converter) {
		c.controls = controls
	}
}

// WithRenderer injects the template engine used for document shells.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(c *Converter) {
		c.renderer = renderer
	}
}

// WithTemplatesDir makes templates in dir shadow the built-in document
// shells. Ignored when WithRenderer is used.
func WithTemplatesDir(dir string) Option {
	return func(c *Converter) {
		c.templatesDir = dir
	}
}

// WithRunID overrides the run id generator.
func WithRunID(fn func() string) Option {
	return func(c *Converter) {
		if fn != nil {
			c.runID = fn
		}
	}
}
