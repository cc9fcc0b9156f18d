// Package failure classifies the fatal conditions of a conversion run. Usage
// errors mean the inputs were not acceptable before any processing started;
// structural errors mean the workflow/archive pair cannot be converted without
// misrepresenting the source. Both abort the run; soft conditions never reach
// this package.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind separates usage problems from structural ones.
type Kind string

const (
	KindUsage      Kind = "usage"
	KindStructural Kind = "structural"
)

// Code is a stable identifier callers can switch on.
type Code string

// Usage codes.
const (
	CodeUsage            Code = "USAGE"
	CodeNamespaceInvalid Code = "NAMESPACE_INVALID"
	CodeOutputDirMissing Code = "OUTPUT_DIR_MISSING"
	CodeNotAWorkflow     Code = "NOT_A_WORKFLOW"
	CodeConfigInvalid    Code = "CONFIG_INVALID"
)

// Structural codes.
const (
	CodeProcessCount     Code = "PROCESS_COUNT"
	CodeTaskTypeUnmapped Code = "TASK_TYPE_UNMAPPED"
	CodeFormModelMissing Code = "FORM_MODEL_MISSING"
	CodeFormModelInvalid Code = "FORM_MODEL_INVALID"
	CodeDuplicateFieldID Code = "DUPLICATE_FIELD_ID"
	CodeWorkflowParse    Code = "WORKFLOW_PARSE"
)

// Error is the typed error returned for every fatal condition.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(" error [")
	b.WriteString(string(e.Code))
	b.WriteString("]: ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithDetails returns a copy carrying extra diagnostic lines (printed by the
// CLI below the main message).
func (e *Error) WithDetails(details ...string) *Error {
	clone := *e
	clone.Details = append(append([]string(nil), e.Details...), details...)
	return &clone
}

// Usage builds a usage error.
func Usage(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindUsage, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Structural builds a structural error.
func Structural(code Code, format string, args ...any) *Error {
	return &Error{Kind: KindStructural, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new error of the given kind.
func Wrap(kind Kind, code Code, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of the first failure.Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind, true
	}
	return "", false
}

// CodeOf reports the code of the first failure.Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target.Code, true
	}
	return "", false
}

// Is reports whether err carries the supplied code.
func Is(err error, code Code) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}
