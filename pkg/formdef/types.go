package formdef

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ContainerFieldType is the fieldType Activiti uses for layout containers.
const ContainerFieldType = "ContainerRepresentation"

// ColumnKeys are the container column keys, in traversal order.
var ColumnKeys = []string{"1", "2", "3", "4"}

// ReadOnlyTextType is the field type rendered as a read-only value.
const ReadOnlyTextType = "readonly-text"

// strayQuote is the right single quotation mark (U+2019) the Activiti
// modeler sometimes leaves inside generated field ids.
const strayQuote = "’"

// Definition is one exported form model.
type Definition struct {
	Name   string  `json:"name,omitempty"`
	Fields []Field `json:"fields"`
}

// Option is a choice of an enumerated field.
type Option struct {
	Name string `json:"name"`
}

// Field is either a container (FieldType == ContainerFieldType) whose
// Columns hold nested fields, or a leaf input.
type Field struct {
	ID        string             `json:"id"`
	Name      *string            `json:"name,omitempty"`
	Type      string             `json:"type"`
	FieldType string             `json:"fieldType,omitempty"`
	Value     any                `json:"value,omitempty"`
	ReadOnly  bool               `json:"readOnly,omitempty"`
	Required  bool               `json:"required,omitempty"`
	Options   []Option           `json:"options,omitempty"`
	Columns   map[string][]Field `json:"fields,omitempty"`
}

// IsContainer reports whether the field only groups other fields.
func (f Field) IsContainer() bool {
	return f.FieldType == ContainerFieldType
}

// Leaf is a flattened, non-container field ready for emission.
type Leaf struct {
	ID      string
	Name    string
	Type    string
	Value   string
	Options []Option
}

// HasName reports whether the field carries a display name.
func (l Leaf) HasName() bool {
	return strings.TrimSpace(l.Name) != ""
}

// IsReadOnly reports whether the leaf renders as a fixed value.
func (l Leaf) IsReadOnly() bool {
	return l.Type == ReadOnlyTextType
}

// OptionNames returns the option display names in order.
func (l Leaf) OptionNames() []string {
	if len(l.Options) == 0 {
		return nil
	}
	names := make([]string, len(l.Options))
	for i, opt := range l.Options {
		names[i] = opt.Name
	}
	return names
}

// NormalizeID strips the stray quotation mark from a field id. It is
// idempotent.
func NormalizeID(id string) string {
	return strings.ReplaceAll(id, strayQuote, "")
}

func toLeaf(f Field) Leaf {
	leaf := Leaf{
		ID:      NormalizeID(f.ID),
		Type:    f.Type,
		Value:   stringValue(f.Value),
		Options: append([]Option(nil), f.Options...),
	}
	if f.Name != nil {
		leaf.Name = *f.Name
	}
	return leaf
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
