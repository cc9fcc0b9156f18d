package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-shareforms/pkg/failure"
	"github.com/goliatone/go-shareforms/pkg/fixer"
	"github.com/goliatone/go-shareforms/pkg/formdef"
	"github.com/goliatone/go-shareforms/pkg/testsupport"
)

const startForm = `{
  "name": "Start",
  "fields": [
    {"id": "amount", "name": "Amount", "type": "amount"},
    {"id": "approver’", "name": "Approver", "type": "people"},
    {"id": "reason", "name": "Reason", "type": "multi-line-text"}
  ]
}`

const reviewForm = `{
  "name": "Review",
  "fields": [
    {
      "id": "layout",
      "fieldType": "ContainerRepresentation",
      "type": "container",
      "fields": {
        "1": [{"id": "status", "name": "Status", "type": "readonly-text", "value": "Draft"}],
        "2": [{"id": "colour", "name": "Colour", "type": "dropdown", "options": [{"name": "Red"}, {"name": "Blue"}]}]
      }
    },
    {"id": "docs", "name": "Documents", "type": "upload"}
  ]
}`

type fixture struct {
	workflow string
	archive  string
	out      string
}

func newFixture(t *testing.T, processes []string, tasks []testsupport.Task, entries ...testsupport.ZipEntry) fixture {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return fixture{
		workflow: testsupport.WriteFile(t, dir, "exported.bpmn20.xml", testsupport.WorkflowXML(processes, tasks...)),
		archive:  testsupport.WriteArchive(t, dir, "exported-app.zip", entries...),
		out:      out,
	}
}

func (f fixture) request() Request {
	return Request{
		WorkflowPath: f.workflow,
		ArchivePath:  f.archive,
		Namespace:    "wf",
		ModuleName:   "expenses",
		OutputDir:    f.out,
	}
}

func expensesFixture(t *testing.T) fixture {
	t.Helper()
	return newFixture(t, []string{"expenseProcess"},
		[]testsupport.Task{
			{Tag: "startEvent", ID: "start", FormKey: "5001"},
			{Tag: "userTask", ID: "review", Name: "Review expense", FormKey: "5002", Attrs: `activiti:assignee="$INITIATOR"`},
		},
		testsupport.ZipEntry{Name: "bpmn-models/Expenses-1.bpmn", Data: "<x/>"},
		testsupport.ZipEntry{Name: "form-models/Start-5001.json", Data: startForm},
		testsupport.ZipEntry{Name: "form-models/Review-5002.json", Data: reviewForm},
	)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Fatalf("expected no output, found %v", names)
	}
}

func TestConvertRewritesFormKeys(t *testing.T) {
	f := expensesFixture(t)
	conv := New(WithRunID(func() string { return "run-1" }))

	result, err := conv.Convert(context.Background(), f.request())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if result.RunID != "run-1" || result.NoForms {
		t.Fatalf("unexpected result %+v", result)
	}

	want := []string{
		filepath.Join(f.out, "expenses-model.xml"),
		filepath.Join(f.out, "expenses-context.xml"),
		filepath.Join(f.out, "expenses-share-config-custom.xml"),
		filepath.Join(f.out, "expenses.bpmn20.xml"),
	}
	if strings.Join(result.Files, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected files %v", result.Files)
	}

	if len(result.Forms) != 2 || result.Forms[0].NewKey != "wf:Form0" || result.Forms[1].NewKey != "wf:Form1" {
		t.Fatalf("unexpected forms %+v", result.Forms)
	}
	if !result.Forms[0].StartTask || result.Forms[1].StartTask {
		t.Fatalf("unexpected start flags %+v", result.Forms)
	}

	wf := readFile(t, want[3])
	for _, key := range []string{`activiti:formKey="wf:Form0"`, `activiti:formKey="wf:Form1"`} {
		if !strings.Contains(wf, key) {
			t.Fatalf("expected %s in workflow:\n%s", key, wf)
		}
	}
	for _, old := range []string{`"5001"`, `"5002"`} {
		if strings.Contains(wf, old) {
			t.Fatalf("old form key %s left in workflow:\n%s", old, wf)
		}
	}
	if !strings.Contains(wf, `activiti:assignee="${initiator.properties.userName}"`) {
		t.Fatalf("fixers not applied:\n%s", wf)
	}
}

func TestConvertEmitsModelAndShareConfig(t *testing.T) {
	f := expensesFixture(t)

	result, err := New().Convert(context.Background(), f.request())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	modelXML := readFile(t, result.Files[0])
	shareXML := readFile(t, result.Files[2])

	for _, want := range []string{
		`<model name="wf:model"`,
		`<namespace uri="Activit_Exported_wf" prefix="wf" />`,
		`<type name="wf:Form0">`,
		`<parent>bpm:startTask</parent>`,
		`<type name="wf:Form1">`,
		`<title>Review expense</title>`,
		`<parent>bpm:workflowTask</parent>`,
		`<property name="wf:amount">`,
		`<type>d:double</type>`,
		`<association name="wf:approver">`,
		`<class>cm:person</class>`,
		`<default>Draft</default>`,
		`<value>Red</value>`,
		`<class>cm:content</class>`,
	} {
		if !strings.Contains(modelXML, want) {
			t.Fatalf("expected %q in model:\n%s", want, modelXML)
		}
	}

	if got := strings.Count(shareXML, `evaluator="string-compare" condition="activiti$expenseProcess"`); got != 1 {
		t.Fatalf("expected one start-event block, got %d:\n%s", got, shareXML)
	}
	if got := strings.Count(shareXML, `evaluator="task-type"`); got != 2 {
		t.Fatalf("expected two task blocks, got %d:\n%s", got, shareXML)
	}
	if !strings.Contains(shareXML, `condition="wf:Form0"`) || !strings.Contains(shareXML, `condition="wf:Form1"`) {
		t.Fatalf("task blocks not keyed by new form keys:\n%s", shareXML)
	}
	if !strings.Contains(shareXML, "/org/alfresco/components/form/controls/selectone.ftl") ||
		!strings.Contains(shareXML, "/org/alfresco/components/form/controls/readonly.ftl") {
		t.Fatalf("controls missing:\n%s", shareXML)
	}

	contextXML := readFile(t, result.Files[1])
	if !strings.Contains(contextXML, "alfresco/module/expenses/expenses-model.xml") {
		t.Fatalf("context does not reference the model:\n%s", contextXML)
	}
}

func TestConvertModelAndShareConfigAgree(t *testing.T) {
	f := expensesFixture(t)

	result, err := New().Convert(context.Background(), f.request())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	modelXML := readFile(t, result.Files[0])
	shareXML := readFile(t, result.Files[2])

	names := regexp.MustCompile(`<(?:property|association) name="([^"]+)">`).FindAllStringSubmatch(modelXML, -1)
	if len(names) != 6 {
		t.Fatalf("expected 6 model entries, got %d", len(names))
	}
	for _, m := range names {
		if !strings.Contains(shareXML, `<show id="`+m[1]+`" />`) {
			t.Fatalf("%s has no visibility entry", m[1])
		}
		if !strings.Contains(shareXML, `<field id="`+m[1]+`"`) {
			t.Fatalf("%s has no appearance entry", m[1])
		}
	}
}

func TestConvertWithoutForms(t *testing.T) {
	f := newFixture(t, []string{"plain"},
		[]testsupport.Task{{Tag: "userTask", ID: "t1"}},
		testsupport.ZipEntry{Name: "bpmn-models/Plain-1.bpmn", Data: "<x/>"},
	)
	core, logs := observer.New(zapcore.InfoLevel)

	result, err := New(WithLogger(zap.New(core))).Convert(context.Background(), f.request())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !result.NoForms || len(result.Forms) != 0 {
		t.Fatalf("expected no forms, got %+v", result)
	}
	if len(result.Files) != 4 {
		t.Fatalf("expected all four files, got %v", result.Files)
	}
	if logs.FilterMessageSnippet("no forms found").Len() != 1 {
		t.Fatalf("expected no-forms log line")
	}
	if strings.Contains(readFile(t, result.Files[0]), "<type ") {
		t.Fatalf("unexpected type in model")
	}
}

func TestConvertUnmappedFieldTypeWarns(t *testing.T) {
	cases := []struct {
		name      string
		fieldType string
	}{
		{name: "unknown type", fieldType: "signature"},
		{name: "empty type", fieldType: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := `{"fields":[{"id":"sig","name":"Signature","type":"` + tc.fieldType + `"}]}`
			f := newFixture(t, []string{"p"},
				[]testsupport.Task{{Tag: "userTask", ID: "t1", FormKey: "9"}},
				testsupport.ZipEntry{Name: "form-models/Sign-9.json", Data: form},
			)
			core, logs := observer.New(zapcore.WarnLevel)

			result, err := New(WithLogger(zap.New(core))).Convert(context.Background(), f.request())
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if len(result.Issues) != 1 || result.Issues[0].Kind != formdef.IssueUnmappedType || result.Issues[0].FieldID != "sig" {
				t.Fatalf("unexpected issues %+v", result.Issues)
			}
			warnings := logs.FilterMessage("form issue").All()
			if len(warnings) != 1 {
				t.Fatalf("expected one warning, got %d", len(warnings))
			}
			if warnings[0].ContextMap()["kind"] != string(formdef.IssueUnmappedType) {
				t.Fatalf("unexpected warning fields %v", warnings[0].ContextMap())
			}
			if !strings.Contains(readFile(t, result.Files[0]), "<property name=\"wf:sig\">\n           <title>Signature</title>\n           <type>d:text</type>") {
				t.Fatalf("expected d:text fallback")
			}
		})
	}
}

func TestConvertFailuresLeaveNoOutput(t *testing.T) {
	cases := []struct {
		name    string
		fixture func(t *testing.T) fixture
		mutate  func(*Request)
		code    failure.Code
		kind    failure.Kind
	}{
		{
			name: "multiple processes",
			fixture: func(t *testing.T) fixture {
				return newFixture(t, []string{"a", "b"},
					[]testsupport.Task{{Tag: "userTask", ID: "t1", FormKey: "1"}},
					testsupport.ZipEntry{Name: "form-models/A-1.json", Data: `{"fields":[]}`},
				)
			},
			code: failure.CodeProcessCount,
			kind: failure.KindStructural,
		},
		{
			name: "missing form model",
			fixture: func(t *testing.T) fixture {
				return newFixture(t, []string{"p"},
					[]testsupport.Task{
						{Tag: "userTask", ID: "t1", FormKey: "1"},
						{Tag: "userTask", ID: "t2", FormKey: "2"},
					},
					testsupport.ZipEntry{Name: "form-models/A-1.json", Data: `{"fields":[]}`},
				)
			},
			code: failure.CodeFormModelMissing,
			kind: failure.KindStructural,
		},
		{
			name: "unmapped task type",
			fixture: func(t *testing.T) fixture {
				return newFixture(t, []string{"p"},
					[]testsupport.Task{{Tag: "serviceTask", ID: "t1", FormKey: "1"}},
					testsupport.ZipEntry{Name: "form-models/A-1.json", Data: `{"fields":[]}`},
				)
			},
			code: failure.CodeTaskTypeUnmapped,
			kind: failure.KindStructural,
		},
		{
			name: "duplicate field id",
			fixture: func(t *testing.T) fixture {
				form := `{"fields":[{"id":"a","type":"text"},{"id":"a’","type":"integer"}]}`
				return newFixture(t, []string{"p"},
					[]testsupport.Task{{Tag: "userTask", ID: "t1", FormKey: "1"}},
					testsupport.ZipEntry{Name: "form-models/A-1.json", Data: form},
				)
			},
			code: failure.CodeDuplicateFieldID,
			kind: failure.KindStructural,
		},
		{
			name: "invalid form model",
			fixture: func(t *testing.T) fixture {
				return newFixture(t, []string{"p"},
					[]testsupport.Task{{Tag: "userTask", ID: "t1", FormKey: "1"}},
					testsupport.ZipEntry{Name: "form-models/A-1.json", Data: `{"fields":[{"name":"no id"}]}`},
				)
			},
			code: failure.CodeFormModelInvalid,
			kind: failure.KindStructural,
		},
		{
			name:    "invalid namespace",
			fixture: expensesFixture,
			mutate:  func(r *Request) { r.Namespace = "name_space" },
			code:    failure.CodeNamespaceInvalid,
			kind:    failure.KindUsage,
		},
		{
			name:    "not a workflow",
			fixture: expensesFixture,
			mutate:  func(r *Request) { r.WorkflowPath = r.ArchivePath },
			code:    failure.CodeNotAWorkflow,
			kind:    failure.KindUsage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.fixture(t)
			req := f.request()
			if tc.mutate != nil {
				tc.mutate(&req)
			}

			_, err := New().Convert(context.Background(), req)
			if !failure.Is(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if kind, _ := failure.KindOf(err); kind != tc.kind {
				t.Fatalf("expected %s error, got %s", tc.kind, kind)
			}
			assertEmptyDir(t, f.out)
		})
	}
}

func TestConvertMissingOutputDir(t *testing.T) {
	f := expensesFixture(t)
	req := f.request()
	req.OutputDir = filepath.Join(f.out, "missing")

	_, err := New().Convert(context.Background(), req)
	if !failure.Is(err, failure.CodeOutputDirMissing) {
		t.Fatalf("expected OUTPUT_DIR_MISSING, got %v", err)
	}
}

func TestConvertCancelled(t *testing.T) {
	f := expensesFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Convert(ctx, f.request())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	assertEmptyDir(t, f.out)
}

func TestConvertWithoutFixers(t *testing.T) {
	f := expensesFixture(t)

	result, err := New(WithFixers(fixer.NewRegistry())).Convert(context.Background(), f.request())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(result.Fixes) != 0 {
		t.Fatalf("unexpected fixes %+v", result.Fixes)
	}
	if !strings.Contains(readFile(t, result.Files[3]), `activiti:assignee="$INITIATOR"`) {
		t.Fatalf("workflow changed without fixers")
	}
}
