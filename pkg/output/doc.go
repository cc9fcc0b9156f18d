// Package output writes the generated model, context and Share config
// documents. Each document is a Sink; fragments are buffered and rendered
// into an embedded template shell on completion. All files of a run are
// staged and only become visible in the output directory on Commit.
package output
