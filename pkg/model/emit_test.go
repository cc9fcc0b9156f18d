package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-shareforms/pkg/formdef"
	"github.com/goliatone/go-shareforms/pkg/mapping"
)

func TestNewPropertyReadOnlyDefault(t *testing.T) {
	leaf := formdef.Leaf{ID: "status", Name: "Status", Type: "readonly-text", Value: "Draft"}
	p := NewProperty("wf", leaf, "d:text")

	out := EmitProperty(p)
	for _, want := range []string{
		`<property name="wf:status">`,
		"<title>Status</title>",
		"<type>d:text</type>",
		"<default>Draft</default>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<constraints>") {
		t.Fatalf("unexpected constraint block:\n%s", out)
	}
}

func TestNewPropertyListConstraint(t *testing.T) {
	leaf := formdef.Leaf{
		ID:      "colour",
		Type:    "dropdown",
		Options: []formdef.Option{{Name: "Red"}, {Name: "Blue"}, {Name: "Red"}},
	}
	p := NewProperty("wf", leaf, "d:text")

	if diff := cmp.Diff([]string{"Red", "Blue", "Red"}, p.AllowedValues); diff != "" {
		t.Fatalf("allowed values mismatch (-want +got):\n%s", diff)
	}

	out := EmitProperty(p)
	if strings.Contains(out, "<title>") {
		t.Fatalf("title emitted without a display name:\n%s", out)
	}
	if strings.Contains(out, "<default>") {
		t.Fatalf("default emitted for a non read-only field:\n%s", out)
	}
	red := strings.Index(out, "<value>Red</value>")
	blue := strings.Index(out, "<value>Blue</value>")
	if red < 0 || blue < 0 || red > blue {
		t.Fatalf("expected Red before Blue:\n%s", out)
	}
	if got := strings.Count(out, "<value>Red</value>"); got != 2 {
		t.Fatalf("expected duplicate option kept, got %d", got)
	}
	if !strings.Contains(out, `<constraint type="LIST">`) {
		t.Fatalf("missing LIST constraint:\n%s", out)
	}
}

func TestNewPropertyFallsBackToText(t *testing.T) {
	p := NewProperty("wf", formdef.Leaf{ID: "x", Type: "signature"}, "")
	if p.Type != mapping.TextType {
		t.Fatalf("expected %s, got %s", mapping.TextType, p.Type)
	}
}

func TestNewPropertySanitizesDisplayText(t *testing.T) {
	p := NewProperty("wf", formdef.Leaf{ID: "x", Name: "<i>Cost</i> & fees", Type: "amount"}, "d:double")
	if p.Title != "Cost &amp; fees" {
		t.Fatalf("unexpected title %q", p.Title)
	}
}

func TestNewPropertyKeepsStoredValues(t *testing.T) {
	leaf := formdef.Leaf{
		ID:      "age",
		Name:    "Age",
		Type:    "readonly-text",
		Value:   " x<y ",
		Options: []formdef.Option{{Name: "Age<18"}, {Name: "Age>=18"}},
	}
	p := NewProperty("wf", leaf, "d:text")

	if p.Default != " x&lt;y " {
		t.Fatalf("stored value changed: %q", p.Default)
	}
	if diff := cmp.Diff([]string{"Age&lt;18", "Age&gt;=18"}, p.AllowedValues); diff != "" {
		t.Fatalf("option names changed (-want +got):\n%s", diff)
	}
	out := EmitProperty(p)
	if !strings.Contains(out, "<default> x&lt;y </default>") {
		t.Fatalf("expected escaped default:\n%s", out)
	}
}

func TestEmitAssociation(t *testing.T) {
	descriptor := mapping.Association{SourceMany: true, TargetClass: "cm:content", TargetMany: true}
	a := NewAssociation("wf", formdef.Leaf{ID: "docs", Name: "Documents", Type: "upload"}, descriptor)

	want := strings.Join([]string{
		`         <association name="wf:docs">`,
		`           <title>Documents</title>`,
		`           <source>`,
		`             <mandatory>false</mandatory>`,
		`             <many>true</many>`,
		`           </source>`,
		`           <target>`,
		`             <class>cm:content</class>`,
		`             <mandatory>false</mandatory>`,
		`             <many>true</many>`,
		`           </target>`,
		`         </association>`,
		``,
	}, "\n")
	if diff := cmp.Diff(want, EmitAssociation(a)); diff != "" {
		t.Fatalf("association mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitTypeOrdersPropertiesBeforeAssociations(t *testing.T) {
	def := TypeDef{
		Name:   "wf:Form0",
		Title:  "Review",
		Parent: "bpm:workflowTask",
		Properties: []Property{
			{Name: "wf:a", Type: "d:text"},
			{Name: "wf:b", Type: "d:int"},
		},
		Associations: []Association{
			{Name: "wf:who", Descriptor: mapping.Association{TargetClass: "cm:person"}},
		},
	}
	out := EmitType(def)

	lastProp := strings.LastIndex(out, "</property>")
	firstAssoc := strings.Index(out, "<association ")
	if lastProp < 0 || firstAssoc < 0 || lastProp > firstAssoc {
		t.Fatalf("associations must follow every property:\n%s", out)
	}
	if !strings.HasPrefix(out, `    <type name="wf:Form0">`) || !strings.HasSuffix(out, "    </type>\n") {
		t.Fatalf("type block not closed correctly:\n%s", out)
	}
	if !strings.Contains(out, "<parent>bpm:workflowTask</parent>") {
		t.Fatalf("missing parent:\n%s", out)
	}
}

func TestEmitTypeEscapesNameAndParent(t *testing.T) {
	out := EmitType(TypeDef{Name: `wf:"Form0"`, Parent: "bpm:a&b"})
	if !strings.Contains(out, `<type name="wf:&#34;Form0&#34;">`) {
		t.Fatalf("type name not escaped:\n%s", out)
	}
	if !strings.Contains(out, "<parent>bpm:a&amp;b</parent>") {
		t.Fatalf("parent not escaped:\n%s", out)
	}
}

func TestEmitTypeWithoutAssociations(t *testing.T) {
	out := EmitType(TypeDef{Name: "wf:Form1", Parent: "bpm:startTask"})
	if strings.Contains(out, "<associations>") {
		t.Fatalf("empty associations block emitted:\n%s", out)
	}
	if strings.Contains(out, "<title>") {
		t.Fatalf("title emitted without a name:\n%s", out)
	}
	if !strings.Contains(out, "<properties>\n       </properties>") {
		t.Fatalf("expected empty properties block:\n%s", out)
	}
}
