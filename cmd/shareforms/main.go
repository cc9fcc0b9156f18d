// Command shareforms converts an Activiti Enterprise workflow export into an
// Alfresco content model, Spring context, Share form configuration and
// patched workflow definition.
//
//	shareforms <exported.bpmn> <exported-app.zip> <namespace prefix> [module name] [output dir]
package main

import (
	"os"
)

func main() {
	app := newApp(os.Stdout, os.Stderr, surveyPrompter{})
	os.Exit(app.execute(os.Args[1:]))
}
