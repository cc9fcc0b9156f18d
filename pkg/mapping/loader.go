package mapping

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of a mapping override document.
type overrideFile struct {
	StartTaskType    string                       `json:"startTaskType" yaml:"startTaskType"`
	TaskTypes        map[string]map[string]string `json:"taskTypes" yaml:"taskTypes"`
	PropertyTypes    map[string]string            `json:"propertyTypes" yaml:"propertyTypes"`
	AssociationTypes map[string]Association       `json:"associationTypes" yaml:"associationTypes"`
}

// LoadFile reads a JSON or YAML override document from disk and layers it
// over base.
func LoadFile(base Tables, path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("mapping: read %s: %w", path, err)
	}
	return Apply(base, data, path)
}

// LoadFS walks fsys and layers every JSON/YAML document over base in lexical
// path order.
func LoadFS(base Tables, fsys fs.FS) (Tables, error) {
	out := base.Clone()
	if fsys == nil {
		return out, nil
	}
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isMappingFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("mapping: read %s: %w", path, err)
		}
		out, err = Apply(out, data, path)
		return err
	})
	if err != nil {
		return Tables{}, err
	}
	return out, nil
}

// Apply parses data (JSON first, then YAML) and merges it over base. Entries
// in the document replace entries with the same key; an empty property type
// removes the key.
func Apply(base Tables, data []byte, source string) (Tables, error) {
	doc, err := parseOverride(data, source)
	if err != nil {
		return Tables{}, err
	}

	out := base.Clone()
	if v := strings.TrimSpace(doc.StartTaskType); v != "" {
		out.StartTaskType = v
	}
	for ns, tags := range doc.TaskTypes {
		ns = strings.TrimSpace(ns)
		if ns == "" {
			return Tables{}, fmt.Errorf("mapping: %s defines task types for an empty namespace", source)
		}
		if out.TaskTypes[ns] == nil {
			out.TaskTypes[ns] = make(map[string]string, len(tags))
		}
		for tag, modelType := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				return Tables{}, fmt.Errorf("mapping: %s namespace %s defines an empty tag", source, ns)
			}
			out.TaskTypes[ns][tag] = strings.TrimSpace(modelType)
		}
	}
	for fieldType, propType := range doc.PropertyTypes {
		fieldType = strings.TrimSpace(fieldType)
		if fieldType == "" {
			return Tables{}, fmt.Errorf("mapping: %s defines an empty property field type", source)
		}
		if strings.TrimSpace(propType) == "" {
			delete(out.PropertyTypes, fieldType)
			continue
		}
		out.PropertyTypes[fieldType] = strings.TrimSpace(propType)
	}
	for fieldType, assoc := range doc.AssociationTypes {
		fieldType = strings.TrimSpace(fieldType)
		if fieldType == "" {
			return Tables{}, fmt.Errorf("mapping: %s defines an empty association field type", source)
		}
		if strings.TrimSpace(assoc.TargetClass) == "" {
			return Tables{}, fmt.Errorf("mapping: %s association %q has no targetClass", source, fieldType)
		}
		out.Associations[fieldType] = assoc
	}
	return out, nil
}

func parseOverride(data []byte, source string) (overrideFile, error) {
	var doc overrideFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return overrideFile{}, fmt.Errorf("mapping: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = overrideFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return overrideFile{}, fmt.Errorf("mapping: parse %s: invalid JSON or YAML", source)
}

func isMappingFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
