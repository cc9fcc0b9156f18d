package orchestrator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-shareforms/pkg/failure"
	"github.com/goliatone/go-shareforms/pkg/formdef"
	"github.com/goliatone/go-shareforms/pkg/mapping"
	"github.com/goliatone/go-shareforms/pkg/model"
	"github.com/goliatone/go-shareforms/pkg/share"
	"github.com/goliatone/go-shareforms/pkg/workflow"
	"github.com/goliatone/go-shareforms/pkg/xmltext"
)

// fallbackFieldType replaces field types missing from the tables.
const fallbackFieldType = "text"

// convertForm translates one referenced form, appends its fragments to the
// model and Share sinks and rewrites the reference's form key.
func (c *Converter) convertForm(r *run, ref workflow.FormReference) error {
	newKey := ref.NewKey(r.naming.Namespace())
	logger := r.logger.With(zap.String("form_key", ref.Key), zap.String("new_key", newKey))
	logger.Info("processing form", zap.String("tag", ref.Element.Tag), zap.String("task_id", ref.ID()))

	task, err := c.tables.ResolveTaskType(ref.Tag())
	if err != nil {
		return err
	}

	entry, err := r.archive.ReadFormModel(ref.Key)
	if err != nil {
		return err
	}
	logger.Info("reading form model", zap.String("entry", entry.Name))

	def, err := formdef.Decode(entry.Data, entry.Name)
	if err != nil {
		return err
	}

	typeDef := model.TypeDef{Name: newKey, Parent: task.ModelType}
	if name, ok := ref.Name(); ok {
		typeDef.Title = xmltext.Clean(name)
	}
	cfg := share.NewFormConfig(r.process.ID, newKey)

	leaves, issues := formdef.Flatten(def.Fields)
	seen := make(map[string]struct{}, len(leaves))
	for _, leaf := range leaves {
		identifier := model.Identifier(r.naming.Namespace(), leaf.ID)
		if _, dup := seen[identifier]; dup {
			return failure.Structural(failure.CodeDuplicateFieldID,
				"form model %s defines %s more than once", entry.Name, identifier)
		}
		seen[identifier] = struct{}{}
		logger.Debug("field", zap.String("id", leaf.ID), zap.String("name", leaf.Name), zap.String("type", leaf.Type))

		fm, ok := c.tables.ResolveFieldType(leaf.Type)
		if !ok {
			issues = append(issues, formdef.Issue{
				Kind:    formdef.IssueUnmappedType,
				FieldID: leaf.ID,
				Message: fmt.Sprintf("unhandled type %s", leaf.Type),
			})
			leaf.Type = fallbackFieldType
			fm, _ = c.tables.ResolveFieldType(leaf.Type)
			if fm.PropertyType == "" && fm.Association == nil {
				fm.PropertyType = mapping.TextType
			}
		}
		if isChoice(leaf.Type) && len(leaf.Options) == 0 {
			issues = append(issues, formdef.Issue{
				Kind:    formdef.IssueMissingOptions,
				FieldID: leaf.ID,
				Message: fmt.Sprintf("%s field has no options", leaf.Type),
			})
		}

		if fm.PropertyType != "" {
			typeDef.Properties = append(typeDef.Properties, model.NewProperty(r.naming.Namespace(), leaf, fm.PropertyType))
		}
		if fm.Association != nil {
			typeDef.Associations = append(typeDef.Associations, model.NewAssociation(r.naming.Namespace(), leaf, *fm.Association))
		}
		cfg.Record(share.NewAppearanceField(identifier, leaf, c.controls))
	}

	for _, issue := range issues {
		logger.Warn("form issue",
			zap.String("kind", string(issue.Kind)),
			zap.String("field", issue.FieldID),
			zap.String("detail", issue.Message),
		)
	}
	r.result.Issues = append(r.result.Issues, issues...)

	if err := r.modelOut.Write(model.EmitType(typeDef)); err != nil {
		return err
	}
	if task.IsStart {
		if err := r.shareOut.Write(cfg.Render(share.Variant{StartTask: true, StartEvent: true})); err != nil {
			return err
		}
	}
	if err := r.shareOut.Write(cfg.Render(share.Variant{StartTask: task.IsStart})); err != nil {
		return err
	}

	ref.SetFormKey(newKey)
	r.result.Forms = append(r.result.Forms, FormSummary{
		Index:     ref.Index,
		OldKey:    ref.Key,
		NewKey:    newKey,
		TaskID:    ref.ID(),
		Entry:     entry.Name,
		Fields:    len(leaves),
		StartTask: task.IsStart,
	})
	return nil
}

func isChoice(fieldType string) bool {
	return fieldType == "dropdown" || fieldType == "radio-buttons"
}
