package formdef

import (
	"fmt"
	"sort"
)

// IssueKind classifies soft conditions found while processing a form. None of
// them abort a run.
type IssueKind string

const (
	IssueUnmappedType   IssueKind = "unmapped-type"
	IssueColumnKey      IssueKind = "column-key"
	IssueMissingOptions IssueKind = "missing-options"
)

// Issue is a soft condition reported alongside the flattened output.
type Issue struct {
	Kind    IssueKind
	FieldID string
	Message string
}

func (i Issue) String() string {
	if i.FieldID == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", i.Kind, i.Message, i.FieldID)
}

// Flatten walks fields depth-first, left to right, descending into container
// columns "1".."4" in that order and yielding every leaf with a normalised id.
// Container keys outside that set are reported and skipped.
func Flatten(fields []Field) ([]Leaf, []Issue) {
	var (
		leaves []Leaf
		issues []Issue
	)
	flattenInto(fields, &leaves, &issues)
	return leaves, issues
}

func flattenInto(fields []Field, leaves *[]Leaf, issues *[]Issue) {
	for _, field := range fields {
		if !field.IsContainer() {
			*leaves = append(*leaves, toLeaf(field))
			continue
		}
		for _, key := range ColumnKeys {
			if nested, ok := field.Columns[key]; ok {
				flattenInto(nested, leaves, issues)
			}
		}
		for _, key := range unexpectedColumns(field.Columns) {
			*issues = append(*issues, Issue{
				Kind:    IssueColumnKey,
				FieldID: field.ID,
				Message: fmt.Sprintf("non-int field in fields %q", key),
			})
		}
	}
}

func unexpectedColumns(columns map[string][]Field) []string {
	var out []string
	for key := range columns {
		if !isColumnKey(key) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func isColumnKey(key string) bool {
	for _, k := range ColumnKeys {
		if k == key {
			return true
		}
	}
	return false
}
