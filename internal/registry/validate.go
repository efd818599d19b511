package registry

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationError is a problem found at a path inside a permissions document.
type ValidationError struct {
	Path    string
	Line    int
	Message string
}

func (e ValidationError) Error() string {
	prefix := e.Path
	if e.Line > 0 {
		prefix = fmt.Sprintf("line %d: %s", e.Line, e.Path)
	}
	if prefix != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return e.Message
}

// ValidationResult contains all validation errors found
type ValidationResult struct {
	Errors []ValidationError
}

func (r *ValidationResult) AddError(node *yaml.Node, path, message string) {
	line := 0
	if node != nil {
		line = node.Line
	}
	r.Errors = append(r.Errors, ValidationError{Path: path, Line: line, Message: message})
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

var knownKeys = map[string]bool{
	"title":           true,
	"description":     true,
	"restrict access": true,
}

// Validate checks a permissions document more strictly than Parse: every
// problem is reported rather than the first.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		result.AddError(nil, "", fmt.Sprintf("invalid YAML: %v", err))
		return result
	}
	if len(doc.Content) == 0 {
		return result
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		result.AddError(root, "", "document must be a mapping of permission names")
		return result
	}

	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		name := key.Value

		switch {
		case strings.TrimSpace(name) == "":
			result.AddError(key, "", "permission name is empty")
			continue
		case name != strings.TrimSpace(name):
			result.AddError(key, name, "permission name has leading or trailing spaces")
		case strings.Contains(name, ","):
			result.AddError(key, name, "permission name must not contain a comma")
		}
		if seen[name] {
			result.AddError(key, name, "duplicate permission")
		}
		seen[name] = true

		validatePermission(value, name, result)
	}
	return result
}

func validatePermission(node *yaml.Node, path string, result *ValidationResult) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return
	}
	if node.Kind != yaml.MappingNode {
		result.AddError(node, path, "must be a mapping")
		return
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		field := path + "." + key.Value

		if !knownKeys[key.Value] {
			result.AddError(key, field, "unknown field")
			continue
		}

		switch key.Value {
		case "title", "description":
			if value.Kind != yaml.ScalarNode || value.Tag != "!!str" {
				result.AddError(value, field, "must be a string")
			} else if key.Value == "title" && strings.TrimSpace(value.Value) == "" {
				result.AddError(value, field, "must not be empty")
			}
		case "restrict access":
			if value.Kind != yaml.ScalarNode || value.Tag != "!!bool" {
				result.AddError(value, field, "must be true or false")
			}
		}
	}
}
