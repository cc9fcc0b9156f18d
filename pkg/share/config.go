package share

import (
	"strings"

	"github.com/goliatone/go-shareforms/pkg/xmltext"
)

// Fields Alfresco adds to every workflow form.
const (
	PackageItemsField = "packageItems"
	TransitionsField  = "transitions"
)

// Variant selects which Share config block Render produces.
//
// StartEvent renders the block shown when a workflow is started, keyed by
// the process id. Otherwise the block is keyed by the form's task type.
// StartTask marks the form as belonging to a start task; such blocks have no
// transitions.
type Variant struct {
	StartTask  bool
	StartEvent bool
}

// FormConfig collects the visibility and appearance fragments of a single
// form. Fields are recorded once and may be rendered for several variants.
type FormConfig struct {
	processID  string
	formKey    string
	visibility []string
	appearance []string
}

// NewFormConfig starts the config of the form with the given new form key.
func NewFormConfig(processID, formKey string) *FormConfig {
	return &FormConfig{processID: processID, formKey: formKey}
}

// FormKey returns the namespace-qualified form type name.
func (f *FormConfig) FormKey() string { return f.formKey }

// RecordVisibility appends a <show> entry fragment.
func (f *FormConfig) RecordVisibility(fragment string) {
	f.visibility = append(f.visibility, fragment)
}

// RecordAppearance appends a <field> entry fragment.
func (f *FormConfig) RecordAppearance(fragment string) {
	f.appearance = append(f.appearance, fragment)
}

// Record emits and records both fragments for a field.
func (f *FormConfig) Record(field AppearanceField) {
	f.RecordVisibility(EmitVisibility(field.ID))
	f.RecordAppearance(EmitAppearance(field))
}

// Len reports the number of recorded fields.
func (f *FormConfig) Len() int { return len(f.visibility) }

// Render returns the complete <config> block for a variant. Recorded
// fragments are not consumed.
func (f *FormConfig) Render(v Variant) string {
	var b strings.Builder
	if v.StartEvent {
		b.WriteString("   <config evaluator=\"string-compare\" condition=\"activiti$" + xmltext.Escape(f.processID) + "\">\n")
	} else {
		b.WriteString("   <config evaluator=\"task-type\" condition=\"" + xmltext.Escape(f.formKey) + "\">\n")
	}
	b.WriteString("      <forms>\n")
	b.WriteString("         <form>\n")

	b.WriteString("            <field-visibility>\n")
	for _, fragment := range f.visibility {
		writeIndented(&b, fragment, "               ")
	}
	b.WriteString("               " + EmitVisibility(PackageItemsField))
	if !v.StartTask {
		b.WriteString("               " + EmitVisibility(TransitionsField))
	}
	b.WriteString("            </field-visibility>\n")

	b.WriteString("            <appearance>\n")
	b.WriteString("               <set id=\"items\" appearance=\"title\" label-id=\"workflow.set.items\" />\n")
	if !v.StartTask {
		b.WriteString("               <set id=\"response\" appearance=\"title\" label-id=\"workflow.set.response\" />\n")
	}
	for _, fragment := range f.appearance {
		writeIndented(&b, fragment, "               ")
	}
	b.WriteString("               <field id=\"" + PackageItemsField + "\" set=\"items\" />\n")
	if !v.StartTask {
		b.WriteString("               <field id=\"" + TransitionsField + "\" set=\"response\" />\n")
	}
	b.WriteString("            </appearance>\n")

	b.WriteString("         </form>\n")
	b.WriteString("      </forms>\n")
	b.WriteString("   </config>\n")
	return b.String()
}

func writeIndented(b *strings.Builder, fragment, indent string) {
	for _, line := range strings.SplitAfter(fragment, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(indent)
		b.WriteString(line)
	}
}
