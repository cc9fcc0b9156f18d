package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-shareforms/pkg/archive"
	"github.com/goliatone/go-shareforms/pkg/fixer"
	"github.com/goliatone/go-shareforms/pkg/formdef"
	"github.com/goliatone/go-shareforms/pkg/mapping"
	"github.com/goliatone/go-shareforms/pkg/output"
	"github.com/goliatone/go-shareforms/pkg/render/template"
	"github.com/goliatone/go-shareforms/pkg/share"
	"github.com/goliatone/go-shareforms/pkg/workflow"
)

// Stage names a phase of a conversion run.
type Stage string

const (
	StageScanning   Stage = "scanning"
	StageForms      Stage = "forms"
	StagePatching   Stage = "patching"
	StageFinalizing Stage = "finalizing"
)

// Request describes one conversion.
type Request struct {
	// WorkflowPath is the exported BPMN 2.0 file.
	WorkflowPath string
	// ArchivePath is the exported app zip holding the form models.
	ArchivePath string
	// Namespace is the prefix for generated type and field names.
	Namespace string
	// ModuleName names the output files. Defaults to DefaultModule.
	ModuleName string
	// OutputDir must exist. Defaults to the working directory.
	OutputDir string
}

// FormSummary describes one converted form.
type FormSummary struct {
	Index     int
	OldKey    string
	NewKey    string
	TaskID    string
	Entry     string
	Fields    int
	StartTask bool
}

// Result reports a completed run.
type Result struct {
	RunID string
	// Files lists the written paths: model, context, share config, workflow.
	Files   []string
	Forms   []FormSummary
	NoForms bool
	Issues  []formdef.Issue
	Fixes   []fixer.Result
}

// Converter turns an Activiti Enterprise export into Alfresco artefacts.
// A Converter holds no per-run state and may be reused.
type Converter struct {
	logger       *zap.Logger
	tables       *mapping.Tables
	fixers       *fixer.Registry
	controls     *share.Controls
	renderer     template.TemplateRenderer
	templatesDir string
	runID        func() string
	initErr      error
}

// New constructs a Converter, filling anything not supplied through options
// with the built-in implementation.
func New(options ...Option) *Converter {
	c := &Converter{
		logger: zap.NewNop(),
		runID:  uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.applyDefaults()
	return c
}

func (c *Converter) applyDefaults() {
	if c.tables == nil {
		t := mapping.Defaults()
		c.tables = &t
	}
	if c.fixers == nil {
		c.fixers = fixer.Default()
	}
	if c.controls == nil {
		c.controls = share.NewControls()
	}
	if c.renderer == nil {
		renderer, err := output.NewRenderer(c.templatesDir)
		if err != nil {
			c.initErr = fmt.Errorf("orchestrator: template renderer: %w", err)
			return
		}
		c.renderer = renderer
	}
}

// run carries the state of a single conversion.
type run struct {
	logger   *zap.Logger
	naming   Naming
	process  workflow.Process
	archive  *archive.Archive
	modelOut output.Sink
	shareOut output.Sink
	result   *Result
}

// Convert performs the conversion. Output files only appear in the output
// directory when every stage succeeds.
func (c *Converter) Convert(ctx context.Context, req Request) (result Result, err error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if c.initErr != nil {
		return Result{}, c.initErr
	}

	result.RunID = c.runID()
	logger := c.logger.With(zap.String("run_id", result.RunID))

	logger.Info("stage", zap.String("stage", string(StageScanning)))
	naming, err := NewNaming(req.Namespace, req.ModuleName)
	if err != nil {
		return result, err
	}
	doc, err := workflow.Open(req.WorkflowPath)
	if err != nil {
		return result, err
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	stage, err := output.NewStage(outputDir)
	if err != nil {
		return result, err
	}
	logger.Info("output files will be placed in directory", zap.String("output_dir", outputDir))
	defer func() {
		if err != nil {
			if discardErr := stage.Discard(); discardErr != nil {
				logger.Warn("discard staged output", zap.Error(discardErr))
			}
		}
	}()

	arc, err := archive.Open(req.ArchivePath, archive.WithLogger(logger))
	if err != nil {
		return result, err
	}
	defer arc.Close()

	process, err := doc.SingleProcess()
	if err != nil {
		return result, err
	}
	refs := doc.FormReferences()
	if len(refs) == 0 {
		result.NoForms = true
		logger.Info("no forms found in your workflow; it can be loaded into Alfresco as-is")
	}

	r := &run{
		logger:   logger,
		naming:   naming,
		process:  process,
		archive:  arc,
		modelOut: output.NewModelSink(stage, c.renderer),
		shareOut: output.NewShareConfigSink(stage, c.renderer),
		result:   &result,
	}
	contextOut := output.NewContextSink(stage, c.renderer)
	for _, sink := range []output.Sink{r.modelOut, contextOut, r.shareOut} {
		if err = sink.Begin(naming.Header()); err != nil {
			return result, err
		}
	}

	logger.Info("stage", zap.String("stage", string(StageForms)), zap.Int("forms", len(refs)))
	for _, ref := range refs {
		if err = ctx.Err(); err != nil {
			return result, err
		}
		if err = c.convertForm(r, ref); err != nil {
			return result, err
		}
	}

	logger.Info("stage", zap.String("stage", string(StagePatching)))
	result.Fixes, err = c.fixers.Apply(doc)
	if err != nil {
		return result, err
	}
	for _, fix := range result.Fixes {
		logger.Debug("workflow fixed", zap.String("fixer", fix.Name), zap.Int("changes", fix.Changes))
	}

	logger.Info("stage", zap.String("stage", string(StageFinalizing)))
	for _, sink := range []output.Sink{r.modelOut, contextOut, r.shareOut} {
		if _, err = sink.Complete(); err != nil {
			return result, err
		}
	}
	data, err := doc.Bytes()
	if err != nil {
		return result, err
	}
	if _, err = stage.WriteFile(naming.WorkflowFile(), data); err != nil {
		return result, err
	}
	result.Files, err = stage.Commit()
	if err != nil {
		return result, err
	}

	logger.Info("conversion completed", zap.Strings("files", result.Files))
	return result, nil
}
