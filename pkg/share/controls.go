package share

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-shareforms/pkg/formdef"
)

// Built-in control identifiers exposed by the registry.
const (
	ControlReadOnly  = "readonly"
	ControlSelectOne = "selectone"
)

// Share form control templates.
const (
	ReadOnlyTemplate  = "/org/alfresco/components/form/controls/readonly.ftl"
	SelectOneTemplate = "/org/alfresco/components/form/controls/selectone.ftl"
)

// Param is a <control-param> entry.
type Param struct {
	Name  string
	Value string
}

// Control is a Share control template with its parameters.
type Control struct {
	Name     string
	Template string
	Params   []Param
}

// Matcher decides whether a control should handle the supplied field.
type Matcher func(leaf formdef.Leaf) bool

// Builder produces the control for a matched field.
type Builder func(leaf formdef.Leaf) Control

type rule struct {
	name     string
	priority int
	match    Matcher
	build    Builder
	order    int
}

// Controls selects Share control templates for fields based on registered
// matchers. Higher priority wins; ties fall back to registration order. An
// empty registry never resolves a control.
type Controls struct {
	mu    sync.RWMutex
	rules []rule
}

// NewControls constructs a registry with the built-in controls registered.
func NewControls() *Controls {
	reg := &Controls{}
	reg.registerBuiltins()
	return reg
}

// Register adds a control with the provided name and priority. Later
// registrations with the same priority lose to earlier ones.
func (c *Controls) Register(name string, priority int, matcher Matcher, builder Builder) {
	if c == nil || matcher == nil || builder == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		build:    builder,
		order:    len(c.rules),
	})
}

// Resolve returns the control for a field, if any.
func (c *Controls) Resolve(leaf formdef.Leaf) (Control, bool) {
	if c == nil {
		return Control{}, false
	}
	c.mu.RLock()
	if len(c.rules) == 0 {
		c.mu.RUnlock()
		return Control{}, false
	}
	rules := append([]rule(nil), c.rules...)
	c.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(leaf) {
			control := entry.build(leaf)
			control.Name = entry.name
			return control, true
		}
	}
	return Control{}, false
}

func (c *Controls) registerBuiltins() {
	c.Register(ControlReadOnly, 90, func(leaf formdef.Leaf) bool {
		return leaf.IsReadOnly()
	}, func(leaf formdef.Leaf) Control {
		return Control{
			Template: ReadOnlyTemplate,
			Params:   []Param{{Name: "value", Value: leaf.Value}},
		}
	})

	c.Register(ControlSelectOne, 80, func(leaf formdef.Leaf) bool {
		if leaf.Type != "radio-buttons" && leaf.Type != "dropdown" {
			return false
		}
		return len(leaf.Options) > 0
	}, func(leaf formdef.Leaf) Control {
		return Control{
			Template: SelectOneTemplate,
			Params:   []Param{{Name: "options", Value: strings.Join(leaf.OptionNames(), ",")}},
		}
	})
}
