// Package archive reads form models out of an Activiti Enterprise app
// export. Form models live under form-models/ and are named
// <anything>-<formKey>.json.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-shareforms/pkg/failure"
)

// FormModelDir is the archive folder holding form model JSON files.
const FormModelDir = "form-models/"

// Entry is a form model read from the archive.
type Entry struct {
	Name string
	Data []byte
}

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Archive) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Archive is an opened app export.
type Archive struct {
	location string
	reader   *zip.Reader
	closer   io.Closer
	logger   *zap.Logger
}

// Open opens the zip file at path.
func Open(path string, opts ...Option) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, failure.Wrap(failure.KindUsage, failure.CodeUsage, err, "cannot open app archive %s", path)
	}
	a := newArchive(path, &rc.Reader, opts)
	a.closer = rc
	return a, nil
}

// FromBytes opens an in-memory zip. location is only used in messages.
func FromBytes(location string, data []byte, opts ...Option) (*Archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, failure.Wrap(failure.KindUsage, failure.CodeUsage, err, "cannot open app archive %s", location)
	}
	return newArchive(location, reader, opts), nil
}

func newArchive(location string, reader *zip.Reader, opts []Option) *Archive {
	a := &Archive{location: location, reader: reader, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Location returns the path the archive was opened from.
func (a *Archive) Location() string { return a.location }

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Names lists the archive entries in stored order.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.reader.File))
	for _, f := range a.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// Locate returns the entry name holding the form model for key. When more
// than one entry matches, the last one in archive order wins and the others
// are logged.
func (a *Archive) Locate(key string) (string, error) {
	suffix := "-" + key + ".json"
	var matches []string
	for _, f := range a.reader.File {
		if strings.HasPrefix(f.Name, FormModelDir) && strings.HasSuffix(f.Name, suffix) {
			matches = append(matches, f.Name)
		}
	}
	if len(matches) == 0 {
		return "", failure.Structural(failure.CodeFormModelMissing,
			"%s doesn't have a form-model for %s", a.location, key)
	}
	chosen := matches[len(matches)-1]
	if len(matches) > 1 {
		a.logger.Warn("several form models match form key",
			zap.String("form_key", key),
			zap.String("chosen", chosen),
			zap.Strings("ignored", matches[:len(matches)-1]),
		)
	}
	return chosen, nil
}

// ReadFormModel locates and reads the form model for key.
func (a *Archive) ReadFormModel(key string) (Entry, error) {
	name, err := a.Locate(key)
	if err != nil {
		return Entry{}, err
	}
	data, err := a.read(name)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Data: data}, nil
}

func (a *Archive) read(name string) ([]byte, error) {
	var last *zip.File
	for _, f := range a.reader.File {
		if f.Name == name {
			last = f
		}
	}
	if last == nil {
		return nil, fmt.Errorf("archive: entry %s not found", name)
	}
	rc, err := last.Open()
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("archive: read %s: %w", name, err)
	}
	return data, nil
}
