package share

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-shareforms/pkg/formdef"
)

func TestResolveBuiltins(t *testing.T) {
	reg := NewControls()

	cases := []struct {
		name   string
		leaf   formdef.Leaf
		expect string
		params []Param
	}{
		{
			name:   "readonly text",
			leaf:   formdef.Leaf{ID: "status", Type: "readonly-text", Value: "Draft"},
			expect: ControlReadOnly,
			params: []Param{{Name: "value", Value: "Draft"}},
		},
		{
			name:   "dropdown with options",
			leaf:   formdef.Leaf{ID: "colour", Type: "dropdown", Options: []formdef.Option{{Name: "Red"}, {Name: "Blue"}}},
			expect: ControlSelectOne,
			params: []Param{{Name: "options", Value: "Red,Blue"}},
		},
		{
			name:   "radio buttons with options",
			leaf:   formdef.Leaf{ID: "size", Type: "radio-buttons", Options: []formdef.Option{{Name: "S"}}},
			expect: ControlSelectOne,
			params: []Param{{Name: "options", Value: "S"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.leaf)
			if !ok {
				t.Fatalf("expected control %q, got none", tc.expect)
			}
			if got.Name != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got.Name)
			}
			if diff := cmp.Diff(tc.params, got.Params); diff != "" {
				t.Fatalf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveNoControl(t *testing.T) {
	reg := NewControls()

	for _, leaf := range []formdef.Leaf{
		{ID: "a", Type: "dropdown"},
		{ID: "b", Type: "text"},
		{ID: "c", Type: "people"},
	} {
		if got, ok := reg.Resolve(leaf); ok {
			t.Fatalf("expected no control for %s, got %q", leaf.Type, got.Name)
		}
	}
}

func TestRegisterPriorityAndOrder(t *testing.T) {
	reg := &Controls{}
	always := func(formdef.Leaf) bool { return true }
	build := func(template string) Builder {
		return func(formdef.Leaf) Control { return Control{Template: template} }
	}
	reg.Register("low", 10, always, build("low.ftl"))
	reg.Register("first", 50, always, build("first.ftl"))
	reg.Register("second", 50, always, build("second.ftl"))

	got, ok := reg.Resolve(formdef.Leaf{})
	if !ok || got.Name != "first" || got.Template != "first.ftl" {
		t.Fatalf("expected earliest highest priority control, got %+v (ok=%v)", got, ok)
	}
}

func TestRegisterIgnoresInvalid(t *testing.T) {
	reg := &Controls{}
	reg.Register("  ", 10, func(formdef.Leaf) bool { return true }, func(formdef.Leaf) Control { return Control{} })
	reg.Register("x", 10, nil, nil)

	if _, ok := reg.Resolve(formdef.Leaf{}); ok {
		t.Fatalf("expected empty registry")
	}

	var nilReg *Controls
	if _, ok := nilReg.Resolve(formdef.Leaf{}); ok {
		t.Fatalf("nil registry resolved a control")
	}
}
