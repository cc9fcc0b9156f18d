package testsupport

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ZipEntry is one file of an in-memory archive.
type ZipEntry struct {
	Name string
	Data string
}

// BuildArchive returns zip bytes holding entries in the given order.
func BuildArchive(t *testing.T, entries ...ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, entry := range entries {
		f, err := w.Create(entry.Name)
		if err != nil {
			t.Fatalf("zip create %s: %v", entry.Name, err)
		}
		if _, err := io.WriteString(f, entry.Data); err != nil {
			t.Fatalf("zip write %s: %v", entry.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// WriteArchive writes an archive into dir and returns its path.
func WriteArchive(t *testing.T, dir, name string, entries ...ZipEntry) string {
	t.Helper()
	return WriteFile(t, dir, name, BuildArchive(t, entries...))
}

// WriteFile writes data into dir/name and returns the path.
func WriteFile[T string | []byte](t *testing.T, dir, name string, data T) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// Task describes a form-bearing element of a generated workflow.
type Task struct {
	Tag     string
	ID      string
	Name    string
	FormKey string
	Attrs   string
}

// WorkflowXML renders an Activiti export with one process per id in
// processIDs. The tasks are placed in the first process.
func WorkflowXML(processIDs []string, tasks ...Task) string {
	var b strings.Builder
	b.WriteString("<?xml version='1.0' encoding='UTF-8'?>\n")
	b.WriteString(`<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL"` +
		` xmlns:activiti="http://activiti.org/bpmn"` +
		` xmlns:modeler="http://activiti.com/modeler"` +
		` targetNamespace="http://www.activiti.org/processdef">` + "\n")
	for i, id := range processIDs {
		fmt.Fprintf(&b, "  <process id=%q name=%q>\n", id, id)
		if i == 0 {
			for _, task := range tasks {
				b.WriteString("    <" + task.Tag + ` id="` + task.ID + `"`)
				if task.Name != "" {
					b.WriteString(` name="` + task.Name + `"`)
				}
				if task.FormKey != "" {
					b.WriteString(` activiti:formKey="` + task.FormKey + `"`)
				}
				if task.Attrs != "" {
					b.WriteString(" " + task.Attrs)
				}
				b.WriteString("/>\n")
			}
		}
		b.WriteString("  </process>\n")
	}
	b.WriteString("</definitions>\n")
	return b.String()
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
