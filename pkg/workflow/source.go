package workflow

import (
	"path/filepath"
)

// Source identifies where a workflow document originated.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindMemory SourceKind = "memory"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a file inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type memorySource struct {
	label string
}

func (s memorySource) Location() string { return s.label }
func (s memorySource) Kind() SourceKind { return SourceKindMemory }

// SourceFromMemory labels a document built or received in memory.
func SourceFromMemory(label string) Source {
	return memorySource{label: label}
}
