package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ariel-frischer/convlog/internal/changelog"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
	TypeStringList
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeStringList:
		return "list"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "generator.preset")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Min           *int            // Lower bound for int types
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"infile": {
		Path:        "infile",
		Type:        TypeString,
		Description: "Changelog file to prepend to (empty disables the update)",
		Default:     "CHANGELOG.md",
	},
	"tag_name": {
		Path:        "tag_name",
		Type:        TypeString,
		Description: "Tag template with a ${version} placeholder",
		Default:     "",
	},
	"dry_run": {
		Path:        "dry_run",
		Type:        TypeBool,
		Description: "Log the update without generating or writing",
		Default:     false,
	},
	"debug": {
		Path:        "debug",
		Type:        TypeBool,
		Description: "Enable debug logging",
		Default:     false,
	},
	"generator.engine": {
		Path:          "generator.engine",
		Type:          TypeEnum,
		AllowedValues: []string{"builtin", "exec"},
		Description:   "Changelog engine",
		Default:       "builtin",
	},
	"generator.preset": {
		Path:          "generator.preset",
		Type:          TypeEnum,
		AllowedValues: changelog.PresetNames(),
		Description:   "Rendering convention",
		Default:       "angular",
	},
	"generator.release_count": {
		Path:        "generator.release_count",
		Type:        TypeInt,
		Min:         intPtr(0),
		Description: "Releases rendered per update (0 = whole history)",
		Default:     1,
	},
	"generator.repository_url": {
		Path:        "generator.repository_url",
		Type:        TypeString,
		Description: "Repository URL used for compare, commit and issue links",
		Default:     "",
	},
	"generator.command": {
		Path:        "generator.command",
		Type:        TypeString,
		Description: "External engine command (exec engine)",
		Default:     "conventional-changelog",
	},
	"generator.args": {
		Path:        "generator.args",
		Type:        TypeStringList,
		Description: "Extra arguments for the external engine (comma-separated when set)",
		Default:     []string{},
	},
}

func intPtr(n int) *int { return &n }

// SortedKeys returns the known key paths in lexical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(schema, value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeStringList:
		return parseStringListValue(value), nil
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses an integer value and checks its lower bound.
func parseIntValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	if schema.Min != nil && n < *schema.Min {
		return ParsedValue{}, fmt.Errorf("invalid value: %d (must be at least %d)", n, *schema.Min)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}

// parseStringListValue splits a comma-separated value. An empty value is an empty list.
func parseStringListValue(value string) ParsedValue {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return ParsedValue{Raw: value, Parsed: items, Type: TypeStringList}
}
