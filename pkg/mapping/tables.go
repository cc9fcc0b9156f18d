package mapping

import (
	"strings"

	"github.com/goliatone/go-shareforms/pkg/failure"
)

// XML namespaces used by Activiti Enterprise exports.
const (
	BPMN20Namespace   = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	ActivitiNamespace = "http://activiti.org/bpmn"
	ModelerNamespace  = "http://activiti.com/modeler"
)

// Content-model types referenced by the defaults.
const (
	StartTaskType    = "bpm:startTask"
	WorkflowTaskType = "bpm:workflowTask"
	TextType         = "d:text"
)

// Association describes the source/target cardinality of an association
// property. Field order follows the content model's <source>/<target> blocks.
type Association struct {
	SourceMandatory bool   `json:"sourceMandatory" yaml:"sourceMandatory"`
	SourceMany      bool   `json:"sourceMany" yaml:"sourceMany"`
	TargetClass     string `json:"targetClass" yaml:"targetClass"`
	TargetMandatory bool   `json:"targetMandatory" yaml:"targetMandatory"`
	TargetMany      bool   `json:"targetMany" yaml:"targetMany"`
}

// FieldMapping is the resolution of a form field type: a property type, an
// association descriptor, or both when a table maps the same key twice.
type FieldMapping struct {
	PropertyType string
	Association  *Association
}

// IsAssociation reports whether the mapping carries an association.
func (m FieldMapping) IsAssociation() bool {
	return m.Association != nil
}

// TaskType is the resolution of a BPMN element tag.
type TaskType struct {
	ModelType string
	IsStart   bool
}

// Tables holds the lookup tables. Values are treated as immutable once handed
// to a converter; use Clone before mutating a shared instance.
type Tables struct {
	// TaskTypes maps namespace URI -> local element name -> model parent type.
	TaskTypes map[string]map[string]string
	// StartTaskType marks which parent type denotes a start task.
	StartTaskType string
	// PropertyTypes maps form field type -> content-model property type.
	PropertyTypes map[string]string
	// Associations maps form field type -> association descriptor.
	Associations map[string]Association
}

// Defaults returns the built-in tables for Activiti Enterprise form exports.
func Defaults() Tables {
	return Tables{
		TaskTypes: map[string]map[string]string{
			BPMN20Namespace: {
				"startEvent": StartTaskType,
				"userTask":   WorkflowTaskType,
			},
		},
		StartTaskType: StartTaskType,
		PropertyTypes: map[string]string{
			"text":            TextType,
			"multi-line-text": "d:mltext",
			"integer":         "d:int",
			"amount":          "d:double",
			"boolean":         "d:boolean",
			"date":            "d:date",
			"readonly-text":   TextType,
			"readonly":        TextType,
			"dropdown":        TextType,
			"radio-buttons":   TextType,
			"hyperlink":       TextType,
		},
		Associations: map[string]Association{
			"people": {
				TargetClass: "cm:person",
			},
			"functional-group": {
				TargetClass: "cm:authorityContainer",
			},
			"upload": {
				SourceMany:  true,
				TargetClass: "cm:content",
				TargetMany:  true,
			},
		},
	}
}

// Clone returns a deep copy so callers can layer overrides safely.
func (t Tables) Clone() Tables {
	out := Tables{
		StartTaskType: t.StartTaskType,
		TaskTypes:     make(map[string]map[string]string, len(t.TaskTypes)),
		PropertyTypes: make(map[string]string, len(t.PropertyTypes)),
		Associations:  make(map[string]Association, len(t.Associations)),
	}
	for ns, tags := range t.TaskTypes {
		inner := make(map[string]string, len(tags))
		for tag, modelType := range tags {
			inner[tag] = modelType
		}
		out.TaskTypes[ns] = inner
	}
	for k, v := range t.PropertyTypes {
		out.PropertyTypes[k] = v
	}
	for k, v := range t.Associations {
		out.Associations[k] = v
	}
	return out
}

// SplitTag splits a "{namespace}local" tag. ok is false when the tag carries
// no namespace.
func SplitTag(tag string) (namespace, local string, ok bool) {
	if !strings.HasPrefix(tag, "{") {
		return "", tag, false
	}
	end := strings.Index(tag, "}")
	if end < 0 {
		return "", tag, false
	}
	return tag[1:end], tag[end+1:], true
}

// ResolveTaskType maps a namespaced element tag to its content-model parent
// type. The task tables are closed: a missing namespace or element is a
// structural error rather than a silent fallback.
func (t Tables) ResolveTaskType(tag string) (TaskType, error) {
	ns, local, ok := SplitTag(tag)
	if !ok {
		return TaskType{}, failure.Structural(failure.CodeTaskTypeUnmapped,
			"task with form but no namespace - %s", tag)
	}
	byTag, ok := t.TaskTypes[ns]
	if !ok {
		return TaskType{}, failure.Structural(failure.CodeTaskTypeUnmapped,
			"no tag mappings found for namespace %s", ns).WithDetails("unable to process " + tag)
	}
	modelType, ok := byTag[local]
	if !ok || modelType == "" {
		return TaskType{}, failure.Structural(failure.CodeTaskTypeUnmapped,
			"no tag mappings found for tag %s", local).WithDetails("unable to process " + tag)
	}
	return TaskType{
		ModelType: modelType,
		IsStart:   modelType == t.StartTaskType,
	}, nil
}

// ResolveFieldType looks a form field type up in the property and
// association tables. Unlike task types, field types are open-ended, so a
// miss returns ok=false for the caller to degrade gracefully.
func (t Tables) ResolveFieldType(fieldType string) (FieldMapping, bool) {
	var (
		out   FieldMapping
		found bool
	)
	if propType, ok := t.PropertyTypes[fieldType]; ok && propType != "" {
		out.PropertyType = propType
		found = true
	}
	if assoc, ok := t.Associations[fieldType]; ok {
		a := assoc
		out.Association = &a
		found = true
	}
	return out, found
}
