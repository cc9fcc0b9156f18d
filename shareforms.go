// Package shareforms converts Activiti Enterprise workflow exports into the
// Alfresco Share artifacts needed to deploy them: a content model, a Spring
// context, a Share form configuration and a patched BPMN file.
package shareforms

import (
	"context"

	"github.com/goliatone/go-shareforms/pkg/orchestrator"
)

// Request aliases orchestrator.Request for callers using the top-level module.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// NewConverter exposes the converter constructor from the top-level module.
func NewConverter(options ...orchestrator.Option) *orchestrator.Converter {
	return orchestrator.New(options...)
}

// Convert runs a single conversion with the given options. It is the simplest
// entry point for callers that do not need to reuse a converter.
func Convert(ctx context.Context, req Request, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Convert(ctx, req)
}
