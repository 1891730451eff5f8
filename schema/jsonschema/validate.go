package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError reports one contract violation at a document path.
type ValidationError struct {
	Path   string
	Detail string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("jsonschema: %s: %s", e.Path, e.Detail)
}

// ValidationErrors aggregates every violation found in one pass.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "jsonschema: no violations"
	}
	parts := make([]string, len(e))
	for i, item := range e {
		parts[i] = item.Error()
	}
	return strings.Join(parts, "; ")
}

// ValidateBytes parses JSON bytes and validates the resulting payload.
func ValidateBytes(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("jsonschema: parse document: %w", err)
	}
	return Validate(payload)
}

// Validate checks a generic document payload against the wire contract.
// It walks every parser recursively and returns all violations at once.
func Validate(payload map[string]any) error {
	v := &validator{}
	if payload == nil {
		v.fail("$", "document is not an object")
		return v.result()
	}
	if _, ok := asInt(payload["schema_version"]); !ok {
		v.fail("$.schema_version", "missing or not an integer")
	}
	if env, ok := payload["env"]; ok && env != nil {
		if _, ok := env.(map[string]any); !ok {
			v.fail("$.env", "not an object")
		}
	}
	root, ok := payload["root"].(map[string]any)
	if !ok {
		v.fail("$.root", "missing or not an object")
		return v.result()
	}
	v.parser("$.root", root)
	return v.result()
}

type validator struct {
	violations ValidationErrors
}

func (v *validator) fail(path, format string, args ...any) {
	v.violations = append(v.violations, &ValidationError{
		Path:   path,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (v *validator) result() error {
	if len(v.violations) == 0 {
		return nil
	}
	return v.violations
}

func (v *validator) parser(path string, node map[string]any) {
	if s, ok := node["prog"].(string); !ok || s == "" {
		v.fail(path+".prog", "missing or empty")
	}
	v.optionalString(path, node, "description", "epilog", "usage", "formatter",
		"prefix_chars", "fromfile_prefix_chars", "conflict_handler")
	v.optionalBool(path, node, "add_help", "allow_abbrev", "exit_on_error")

	for i, item := range v.objectList(path+".arguments", node["arguments"]) {
		if item != nil {
			v.argument(fmt.Sprintf("%s.arguments[%d]", path, i), item)
		}
	}
	for i, item := range v.objectList(path+".groups", node["groups"]) {
		if item != nil {
			v.group(fmt.Sprintf("%s.groups[%d]", path, i), item)
		}
	}
	for i, item := range v.objectList(path+".mutex_groups", node["mutex_groups"]) {
		if item != nil {
			v.stringList(fmt.Sprintf("%s.mutex_groups[%d].arguments", path, i), item["arguments"])
		}
	}
	if raw, ok := node["subparsers"]; ok && raw != nil {
		sub, ok := raw.(map[string]any)
		if !ok {
			v.fail(path+".subparsers", "not an object")
			return
		}
		v.subparsers(path+".subparsers", sub)
	}
}

func (v *validator) argument(path string, node map[string]any) {
	if s, ok := node["dest"].(string); !ok || s == "" {
		v.fail(path+".dest", "missing or empty")
	}
	action, ok := node["action"].(string)
	if !ok || action == "" {
		v.fail(path+".action", "missing or empty")
	} else if !contains(actionKindList(), action) {
		v.fail(path+".action", "unknown action kind %q", action)
	}
	if action == "custom" {
		if s, ok := node["custom_action"].(string); !ok || s == "" {
			v.fail(path+".custom_action", "required for custom actions")
		}
	}
	v.stringList(path+".flags", node["flags"])
	v.optionalString(path, node, "help", "metavar", "version", "custom_action")
	v.optionalBool(path, node, "required")
	v.nargs(path+".nargs", node["nargs"])
	v.typeRef(path+".type", node["type"])
}

func (v *validator) group(path string, node map[string]any) {
	if s, ok := node["title"].(string); !ok || s == "" {
		v.fail(path+".title", "missing or empty")
	}
	v.stringList(path+".arguments", node["arguments"])
}

func (v *validator) subparsers(path string, node map[string]any) {
	if s, ok := node["dest"].(string); !ok || s == "" {
		v.fail(path+".dest", "missing or empty")
	}
	commands := v.objectList(path+".commands", node["commands"])
	for i, cmd := range commands {
		if cmd == nil {
			continue
		}
		cmdPath := fmt.Sprintf("%s.commands[%d]", path, i)
		names, ok := cmd["names"].([]any)
		if !ok || len(names) == 0 {
			v.fail(cmdPath+".names", "missing or empty")
		} else {
			v.stringList(cmdPath+".names", cmd["names"])
		}
		child, ok := cmd["parser"].(map[string]any)
		if !ok {
			v.fail(cmdPath+".parser", "missing or not an object")
			continue
		}
		v.parser(cmdPath+".parser", child)
	}
}

func (v *validator) nargs(path string, raw any) {
	if raw == nil {
		return
	}
	switch value := raw.(type) {
	case string:
		if !contains([]any{"?", "*", "+", "..."}, value) {
			v.fail(path, "unknown nargs symbol %q", value)
		}
	default:
		n, ok := asInt(raw)
		if !ok {
			v.fail(path, "must be an integer or symbol")
			return
		}
		if n < 0 {
			v.fail(path, "count must not be negative")
		}
	}
}

func (v *validator) typeRef(path string, raw any) {
	if raw == nil {
		return
	}
	node, ok := raw.(map[string]any)
	if !ok {
		v.fail(path, "not an object")
		return
	}
	kind, ok := node["kind"].(string)
	if !ok || kind == "" {
		v.fail(path+".kind", "missing or empty")
		return
	}
	if !contains(typeRefKindList(), kind) {
		v.fail(path+".kind", "unknown kind %q", kind)
		return
	}
	switch kind {
	case "builtin", "import":
		if s, ok := node["name"].(string); !ok || s == "" {
			v.fail(path+".name", "required for %s references", kind)
		}
	case "expr":
		if s, ok := node["engine"].(string); !ok || s == "" {
			v.fail(path+".engine", "required for expr references")
		}
		if s, ok := node["source"].(string); !ok || s == "" {
			v.fail(path+".source", "required for expr references")
		}
	}
}

func (v *validator) objectList(path string, raw any) []map[string]any {
	if raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		v.fail(path, "not an array")
		return nil
	}
	out := make([]map[string]any, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			v.fail(fmt.Sprintf("%s[%d]", path, i), "not an object")
			continue
		}
		out[i] = obj
	}
	return out
}

func (v *validator) stringList(path string, raw any) {
	if raw == nil {
		return
	}
	list, ok := raw.([]any)
	if !ok {
		v.fail(path, "not an array")
		return
	}
	for i, item := range list {
		if _, ok := item.(string); !ok {
			v.fail(fmt.Sprintf("%s[%d]", path, i), "not a string")
		}
	}
}

func (v *validator) optionalString(path string, node map[string]any, keys ...string) {
	for _, key := range keys {
		raw, ok := node[key]
		if !ok || raw == nil {
			continue
		}
		if _, ok := raw.(string); !ok {
			v.fail(path+"."+key, "not a string")
		}
	}
}

func (v *validator) optionalBool(path string, node map[string]any, keys ...string) {
	for _, key := range keys {
		raw, ok := node[key]
		if !ok || raw == nil {
			continue
		}
		if _, ok := raw.(bool); !ok {
			v.fail(path+"."+key, "not a boolean")
		}
	}
}

func asInt(raw any) (int64, bool) {
	switch value := raw.(type) {
	case json.Number:
		n, err := value.Int64()
		return n, err == nil
	case float64:
		if value != float64(int64(value)) {
			return 0, false
		}
		return int64(value), true
	case int:
		return int64(value), true
	case int64:
		return value, true
	default:
		return 0, false
	}
}

func contains(list []any, value string) bool {
	for _, item := range list {
		if s, ok := item.(string); ok && s == value {
			return true
		}
	}
	return false
}
