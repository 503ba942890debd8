package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up at the book root.
const FileName = "booksync.yaml"

// ErrSchemaValidation wraps schema violations found in a config file.
var ErrSchemaValidation = errors.New("booksync config: schema validation failed")

//go:embed schema.json
var schemaDocument []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Load reads path over Default and validates the result. A missing file is
// only an error when the caller named it explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("booksync config: read %s: %w", path, err)
	}

	cfg, err = Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("booksync config: decode: %w", err)
	}
	if len(raw) == 0 {
		return cfg, cfg.Validate()
	}
	if err := validateDocument(raw); err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("booksync config: decode: %w", err)
	}
	return cfg, cfg.Validate()
}

func validateDocument(raw map[string]any) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	// the validator wants plain JSON values, so round trip through encoding/json
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("booksync config: encode for validation: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("booksync config: encode for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", ErrSchemaValidation, strings.Join(validationMessages(verr), "; "))
		}
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("booksync.schema.json", bytes.NewReader(schemaDocument)); err != nil {
			schemaErr = fmt.Errorf("booksync config: load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("booksync.schema.json")
	})
	return compiledSchema, schemaErr
}

func validationMessages(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return []string{fmt.Sprintf("%s: %s", location, err.Message)}
	}
	var out []string
	for _, cause := range err.Causes {
		out = append(out, validationMessages(cause)...)
	}
	return out
}
