// Package schema turns raw schema documents into ready-to-use model.Configs
// and back into shareable snapshot documents.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/qrscout/internal/model"
)

//go:embed default.json
var defaultDocument []byte

// DefaultName is used for exported file names when a schema has no title.
const DefaultName = "QRScout"

// document is the top-level shape of a schema file. Sections is decoded in a
// second pass so that an absent key can be told apart from an empty array.
type document struct {
	Title    string          `json:"title"`
	Sections json.RawMessage `json:"sections"`
}

// Parse decodes a JSON schema document into a Config without initializing
// field values. Any structural problem is reported as a model.ErrMalformedSchema
// error and no Config is returned.
func Parse(data []byte) (*model.Config, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, model.Malformed(errors.New("empty document"))
	}
	if data[0] != '{' {
		return nil, model.Malformed(errors.New("document must be a JSON object"))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, model.Malformed(fmt.Errorf("decode document: %w", err))
	}
	if len(doc.Sections) == 0 || string(doc.Sections) == "null" {
		return nil, model.Malformed(&model.ValidationError{Errors: []model.FieldError{{
			Field:   "sections",
			Message: "is required",
		}}})
	}

	var sections []model.Section
	if err := json.Unmarshal(doc.Sections, &sections); err != nil {
		return nil, model.Malformed(fmt.Errorf("decode sections: %w", err))
	}

	cfg := &model.Config{Title: doc.Title, Sections: sections}
	if err := model.Validate(cfg); err != nil {
		return nil, model.Malformed(err)
	}
	return cfg, nil
}

// Build returns a deep copy of cfg with every field's value set to its
// default. This is the only way a Config becomes ready for editing.
func Build(cfg *model.Config) *model.Config {
	out := cfg.Clone()
	for i := range out.Sections {
		for j := range out.Sections[i].Fields {
			f := &out.Sections[i].Fields[j]
			f.Value = f.DefaultValue
		}
	}
	return out
}

// Load parses data and initializes every value from its default.
func Load(data []byte) (*model.Config, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(cfg), nil
}

// Default returns a ready copy of the built-in schema.
func Default() *model.Config {
	cfg, err := Load(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("schema: built-in document is invalid: %v", err))
	}
	return cfg
}

// DefaultDocument returns the raw built-in schema document.
func DefaultDocument() []byte {
	return bytes.Clone(defaultDocument)
}

// Strip returns a deep copy of cfg with every value cleared. Defaults and
// structure are kept, so the result is safe to share.
func Strip(cfg *model.Config) *model.Config {
	out := cfg.Clone()
	for i := range out.Sections {
		for j := range out.Sections[i].Fields {
			out.Sections[i].Fields[j].Value = model.Unset()
		}
	}
	return out
}

// Marshal encodes cfg as indented JSON.
func Marshal(cfg *model.Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML converts a YAML schema document into its JSON form. Mapping key
// order is kept, so choices appear in the order they were written.
func FromYAML(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, model.Malformed(fmt.Errorf("decode yaml: %w", err))
	}
	var buf bytes.Buffer
	if err := writeYAMLNode(&buf, &doc); err != nil {
		return nil, model.Malformed(fmt.Errorf("convert yaml: %w", err))
	}
	return buf.Bytes(), nil
}

func writeYAMLNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case 0:
		buf.WriteString("null")
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLNode(buf, n.Content[0])
	case yaml.AliasNode:
		return writeYAMLNode(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeYAMLNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		out, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(out)
	}
	return nil
}

// ReadFile reads a schema document from disk and returns it as JSON text.
// Files ending in .yaml or .yml are converted; anything else is taken as JSON.
// The document is not validated.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	}
	return data, nil
}

// LoadFile reads and loads a schema document from disk.
func LoadFile(path string) (*model.Config, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Name returns the schema name used in file names: the title with everything
// but letters and digits removed, or DefaultName.
func Name(cfg *model.Config) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cfg.Title)
	if name == "" {
		return DefaultName
	}
	return name
}

// FileName returns the export file name for cfg, "<SchemaName>_config.json".
func FileName(cfg *model.Config) string {
	return Name(cfg) + "_config.json"
}
