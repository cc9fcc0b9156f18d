// Package workflow loads, inspects and rewrites exported BPMN 2.0 workflow
// definitions. Parsing is namespace aware and every edit happens in place,
// so the saved document differs from the input only where it was changed.
package workflow
