package mapping

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestApplyYAMLOverrides(t *testing.T) {
	doc := []byte(`
startTaskType: bpm:startTask
taskTypes:
  "http://www.omg.org/spec/BPMN/20100524/MODEL":
    userTask: bpm:activitiOutcomeTask
propertyTypes:
  signature: d:content
  hyperlink: ""
associationTypes:
  attachments:
    sourceMany: true
    targetClass: cm:content
    targetMany: true
`)

	got, err := Apply(Defaults(), doc, "overrides.yaml")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if got.TaskTypes[BPMN20Namespace]["userTask"] != "bpm:activitiOutcomeTask" {
		t.Fatalf("userTask override not applied: %v", got.TaskTypes)
	}
	if got.TaskTypes[BPMN20Namespace]["startEvent"] != StartTaskType {
		t.Fatalf("startEvent default lost: %v", got.TaskTypes)
	}
	if got.PropertyTypes["signature"] != "d:content" {
		t.Fatalf("signature property missing")
	}
	if _, ok := got.PropertyTypes["hyperlink"]; ok {
		t.Fatalf("empty property type should remove hyperlink")
	}
	m, ok := got.ResolveFieldType("attachments")
	if !ok || !m.IsAssociation() || m.Association.TargetClass != "cm:content" {
		t.Fatalf("attachments association missing: %+v", m)
	}
}

func TestApplyJSONOverrides(t *testing.T) {
	doc := []byte(`{"propertyTypes": {"rating": "d:int"}}`)
	got, err := Apply(Defaults(), doc, "overrides.json")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.PropertyTypes["rating"] != "d:int" {
		t.Fatalf("rating not mapped: %v", got.PropertyTypes)
	}
}

func TestApplyRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":           "   ",
		"garbage":         "::: not yaml :::\n\t- [",
		"assoc no target": `{"associationTypes": {"x": {"sourceMany": true}}}`,
	}
	for name, doc := range cases {
		if _, err := Apply(Defaults(), []byte(doc), name); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFSLayersInPathOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml":    {Data: []byte("propertyTypes:\n  rating: d:int\n")},
		"b.json":    {Data: []byte(`{"propertyTypes": {"rating": "d:long"}}`)},
		"notes.txt": {Data: []byte("ignored")},
	}
	got, err := LoadFS(Defaults(), fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if got.PropertyTypes["rating"] != "d:long" {
		t.Fatalf("expected later file to win, got %q", got.PropertyTypes["rating"])
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappings.yml")
	if err := os.WriteFile(path, []byte("propertyTypes:\n  color: d:text\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadFile(Defaults(), path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if got.PropertyTypes["color"] != TextType {
		t.Fatalf("color not mapped")
	}

	if _, err := LoadFile(Defaults(), filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}
