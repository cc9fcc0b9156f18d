// Package orchestrator runs a conversion: it scans the workflow for form
// references, translates each referenced form model into content-model and
// Share config fragments, patches the workflow and commits every output file
// together.
package orchestrator
