package formdef

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/goliatone/go-shareforms/pkg/failure"
)

//go:embed schema/form-model.schema.json
var schemaFS embed.FS

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func formSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := schemaFS.ReadFile("schema/form-model.schema.json")
		if err != nil {
			schemaErr = fmt.Errorf("formdef: read embedded schema: %w", err)
			return
		}
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("formdef: compile embedded schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Validate checks raw against the embedded form-model schema. It returns a
// structural error listing every violation.
func Validate(raw []byte, source string) error {
	s, err := formSchema()
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return failure.Wrap(failure.KindStructural, failure.CodeFormModelInvalid, err,
			"form model %s is not valid JSON", source)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return failure.Structural(failure.CodeFormModelInvalid,
		"form model %s does not match the expected structure", source).WithDetails(details...)
}

// Decode validates and decodes a form model.
func Decode(raw []byte, source string) (Definition, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Definition{}, failure.Structural(failure.CodeFormModelInvalid, "form model %s is empty", source)
	}
	if err := Validate(raw, source); err != nil {
		return Definition{}, err
	}
	var def Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return Definition{}, failure.Wrap(failure.KindStructural, failure.CodeFormModelInvalid, err,
			"decode form model %s", source)
	}
	return def, nil
}
