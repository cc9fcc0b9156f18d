// Package share emits the Alfresco Share form configuration for converted
// forms: a <show> visibility entry and a <field> appearance entry per field,
// with the control template chosen through a priority registry.
//
// A start task yields two config blocks from the same recorded fields, one
// keyed by the process id for the start-workflow page and one keyed by the
// task type.
package share
