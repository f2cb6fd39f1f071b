package schema

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/rules"
)

// Document keys understood by Parse.
const (
	keyValidateOn = "validateOn"
	keyMessages   = "messages"
	keyConditions = "conditions"
	keyFields     = "fields"

	entryKeyValue   = "value"
	entryKeyMessage = "message"
)

// LoadFile reads a JSON or YAML schema document from disk.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, filepath.Clean(path))
}

// LoadFS reads a JSON or YAML schema document from fsys.
func LoadFS(fsys fs.FS, name string) (Config, error) {
	if fsys == nil {
		return Config{}, fmt.Errorf("schema: filesystem is not configured")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Config{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// IsSchemaFile reports whether path has a supported extension.
func IsSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Parse decodes a schema document. JSON is accepted as a YAML subset; both
// keep field and rule declaration order. source only labels errors.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("schema: file %s is empty", source)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Config{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", source, err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("schema: %s: document must be a mapping", source)
	}

	var cfg Config
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i].Value, doc.Content[i+1]
		switch key {
		case keyValidateOn:
			cfg.ValidateOn = strings.TrimSpace(value.Value)
		case keyMessages:
			messages, err := decodeStringMap(value, source, key)
			if err != nil {
				return Config{}, err
			}
			cfg.Messages = make(map[string]rules.Message, len(messages))
			for name, text := range messages {
				if msg := rules.MessageOf(text); msg != nil {
					cfg.Messages[name] = msg
				}
			}
		case keyConditions:
			conditions, err := decodeStringMap(value, source, key)
			if err != nil {
				return Config{}, err
			}
			cfg.Conditions = conditions
		case keyFields:
			fields, err := decodeFields(value, source)
			if err != nil {
				return Config{}, err
			}
			cfg.Fields = fields
		default:
			return Config{}, fmt.Errorf("schema: %s: unknown key %q (line %d)", source, key, doc.Content[i].Line)
		}
	}

	return cfg, nil
}

func decodeStringMap(node *yaml.Node, source, key string) (map[string]string, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema: %s: %s must be a mapping (line %d)", source, key, node.Line)
	}
	out := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("schema: %s: %s.%s must be a string (line %d)", source, key, name, value.Line)
		}
		out[name] = value.Value
	}
	return out, nil
}

func decodeFields(node *yaml.Node, source string) ([]FieldConfig, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema: %s: fields must be a mapping (line %d)", source, node.Line)
	}

	fields := make([]FieldConfig, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, body := strings.TrimSpace(node.Content[i].Value), node.Content[i+1]
		field := FieldConfig{Name: name}

		switch body.Kind {
		case yaml.MappingNode:
			for j := 0; j+1 < len(body.Content); j += 2 {
				entry, err := decodeEntry(body.Content[j].Value, body.Content[j+1])
				if err != nil {
					return nil, fmt.Errorf("schema: %s: field %q: %w (line %d)", source, name, err, body.Content[j].Line)
				}
				field.Entries = append(field.Entries, entry)
			}
		case yaml.ScalarNode:
			// `name:` with no rules declares a field without validation.
			if body.Tag != "!!null" {
				return nil, fmt.Errorf("schema: %s: field %q must be a mapping of rules (line %d)", source, name, body.Line)
			}
		default:
			return nil, fmt.Errorf("schema: %s: field %q must be a mapping of rules (line %d)", source, name, body.Line)
		}

		fields = append(fields, field)
	}
	return fields, nil
}

func decodeEntry(rule string, node *yaml.Node) (Entry, error) {
	entry := Entry{Rule: strings.TrimSpace(rule)}

	if node.Kind == yaml.MappingNode && hasKey(node, entryKeyValue) {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i].Value, node.Content[i+1]
			switch key {
			case entryKeyValue:
				if err := value.Decode(&entry.Value); err != nil {
					return Entry{}, fmt.Errorf("rule %q: %w", rule, err)
				}
			case entryKeyMessage:
				entry.Message = rules.MessageOf(value.Value)
			default:
				return Entry{}, fmt.Errorf("rule %q: unknown key %q", rule, key)
			}
		}
		return entry, nil
	}

	if err := node.Decode(&entry.Value); err != nil {
		return Entry{}, fmt.Errorf("rule %q: %w", rule, err)
	}
	return entry, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
