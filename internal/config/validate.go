package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax checks if the YAML file has valid syntax.
// Returns nil if valid, or a ValidationError with line/column information if invalid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing file is not an error - will use defaults
		}
		if os.IsPermission(err) {
			return &ValidationError{
				FilePath: filePath,
				Message:  "permission denied",
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}
	return ValidateYAMLSyntaxFromBytes(data, filePath)
}

// ValidateYAMLSyntaxFromBytes checks if YAML data has valid syntax.
// Returns nil if valid, or a ValidationError if invalid.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	// Empty data is valid - will use defaults
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			return &ValidationError{
				FilePath: filePath,
				Message:  strings.Join(typeError.Errors, "; "),
			}
		}

		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}

	return nil
}

// ValidateConfigValues checks configuration values against the key schema.
// Returns nil if valid, or a ValidationError with field information if invalid.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	checks := []struct {
		key   string
		value string
	}{
		{"generator.engine", cfg.Generator.Engine},
		{"generator.preset", cfg.Generator.Preset},
		{"generator.release_count", strconv.Itoa(cfg.Generator.ReleaseCount)},
	}
	for _, c := range checks {
		if _, err := ValidateValue(c.key, c.value); err != nil {
			return &ValidationError{FilePath: filePath, Field: c.key, Message: err.Error()}
		}
	}

	if cfg.Generator.Engine == "exec" && strings.TrimSpace(cfg.Generator.Command) == "" {
		return &ValidationError{
			FilePath: filePath,
			Field:    "generator.command",
			Message:  "is required when generator.engine is exec",
		}
	}

	if err := validateTypes(cfg.Generator.Types); err != nil {
		return &ValidationError{FilePath: filePath, Field: "generator.types", Message: err.Error()}
	}

	return nil
}

// validateTypes rejects type entries without a name and duplicate names.
func validateTypes(types []changelog.TypeConfig) error {
	seen := make(map[string]bool, len(types))
	for i, t := range types {
		name := strings.ToLower(strings.TrimSpace(t.Type))
		if name == "" {
			return fmt.Errorf("entry %d: type is required", i)
		}
		if seen[name] {
			return fmt.Errorf("entry %d: duplicate type %q", i, t.Type)
		}
		seen[name] = true
		if !t.Hidden && strings.TrimSpace(t.Section) == "" {
			return fmt.Errorf("entry %d: section is required for visible type %q", i, t.Type)
		}
	}
	return nil
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages for cleaner output.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		if strings.HasPrefix(errMsg, "yaml:") {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}
