package orchestrator

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-shareforms/pkg/failure"
	"github.com/goliatone/go-shareforms/pkg/output"
)

// DefaultModule is used when no module name is given.
const DefaultModule = "FIXME"

// namespacePattern is an XML NCName without '_'.
var namespacePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.-]*$`)

// Naming holds the names derived from the namespace prefix and module name.
// It is validated once and passed by value.
type Naming struct {
	namespace string
	module    string
}

// NewNaming validates the namespace prefix. The prefix becomes part of every
// generated type and field name, so it must be a valid XML name without ':'
// (one is added) or '_' (Share cannot handle it).
func NewNaming(namespace, module string) (Naming, error) {
	if !namespacePattern.MatchString(namespace) {
		return Naming{}, failure.Usage(failure.CodeNamespaceInvalid,
			"namespace should be of the form namespace not name:space or name_space").WithDetails(
			"eg sample-wf, which will map to sample-wf:Form1 sample-wf:Form2 etc",
			"namespace should not contain a : as one will be added",
			"namespace should not contain a _ as that confuses the Share forms engine",
			"namespace should start with a letter and use only letters, digits, '-' and '.'",
		)
	}
	if strings.TrimSpace(module) == "" {
		module = DefaultModule
	}
	return Naming{namespace: namespace, module: module}, nil
}

// Namespace returns the namespace prefix.
func (n Naming) Namespace() string { return n.namespace }

// Module returns the module name.
func (n Naming) Module() string { return n.module }

// ModelName returns the content model name, <ns>:model.
func (n Naming) ModelName() string { return n.namespace + ":model" }

// NamespaceURI returns the content model namespace URI.
func (n Naming) NamespaceURI() string { return "Activit_Exported_" + n.namespace }

// WorkflowFile returns the file name of the patched workflow.
func (n Naming) WorkflowFile() string { return n.module + ".bpmn20.xml" }

// Header returns the shell values shared by the output documents.
func (n Naming) Header() output.Header {
	return output.Header{
		ModelName:    n.ModelName(),
		NamespaceURI: n.NamespaceURI(),
		Prefix:       n.namespace,
		ModuleName:   n.module,
	}
}
