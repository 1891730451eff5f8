// Package jsonschema describes the argdoc document wire contract as a
// JSON Schema and validates raw payloads against it before hydration.
package jsonschema

// Draft is the JSON Schema dialect the generated document declares.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Generate builds the JSON Schema for the versioned document envelope.
// The result is a plain map so callers can feed it to any encoder.
func Generate() map[string]any {
	return map[string]any{
		"$schema":     Draft,
		"$id":         "https://github.com/goliatone/go-argdoc/schema/document.json",
		"title":       "ArgdocDocument",
		"type":        "object",
		"required":    []any{"schema_version", "root"},
		"properties": map[string]any{
			"schema_version": map[string]any{"type": "integer", "minimum": 1},
			"env":            ref("env"),
			"root":           ref("parser"),
		},
		"$defs": map[string]any{
			"env":        envSchema(),
			"parser":     parserSchema(),
			"argument":   argumentSchema(),
			"group":      groupSchema(),
			"mutexGroup": mutexGroupSchema(),
			"subparsers": subparsersSchema(),
			"command":    commandSchema(),
			"typeRef":    typeRefSchema(),
			"nargs":      nargsSchema(),
		},
	}
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/$defs/" + name}
}

func str() map[string]any     { return map[string]any{"type": "string"} }
func boolean() map[string]any { return map[string]any{"type": "boolean"} }

func strArray() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": str(),
	}
}

func refArray(name string) map[string]any {
	return map[string]any{
		"type":  "array",
		"items": ref(name),
	}
}

func envSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tool_version": str(),
			"go_version":   str(),
			"os":           str(),
			"arch":         str(),
			"created_at":   map[string]any{"type": "string", "format": "date-time"},
			"snapshot_id":  str(),
		},
	}
}

func parserSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"prog"},
		"properties": map[string]any{
			"prog":                  str(),
			"description":           str(),
			"epilog":                str(),
			"usage":                 str(),
			"formatter":             str(),
			"add_help":              boolean(),
			"allow_abbrev":          boolean(),
			"prefix_chars":          str(),
			"fromfile_prefix_chars": str(),
			"argument_default":      map[string]any{},
			"conflict_handler":      str(),
			"exit_on_error":         boolean(),
			"arguments":             refArray("argument"),
			"groups":                refArray("group"),
			"mutex_groups":          refArray("mutexGroup"),
			"subparsers":            ref("subparsers"),
		},
	}
}

func argumentSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"dest", "action"},
		"properties": map[string]any{
			"flags":         strArray(),
			"dest":          str(),
			"action":        map[string]any{"type": "string", "enum": actionKindList()},
			"custom_action": str(),
			"nargs":         ref("nargs"),
			"const":         map[string]any{},
			"default":       map[string]any{},
			"type":          ref("typeRef"),
			"choices":       map[string]any{"type": "array"},
			"required":      boolean(),
			"help":          str(),
			"metavar":       str(),
			"version":       str(),
		},
	}
}

func groupSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"title"},
		"properties": map[string]any{
			"title":       str(),
			"description": str(),
			"arguments":   strArray(),
		},
	}
}

func mutexGroupSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"required":  boolean(),
			"arguments": strArray(),
		},
	}
}

func subparsersSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"dest", "commands"},
		"properties": map[string]any{
			"dest":        str(),
			"title":       str(),
			"description": str(),
			"required":    boolean(),
			"commands":    refArray("command"),
		},
	}
}

func commandSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"names", "parser"},
		"properties": map[string]any{
			"names":  strArray(),
			"parser": ref("parser"),
		},
	}
}

func typeRefSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"kind"},
		"properties": map[string]any{
			"kind":     map[string]any{"type": "string", "enum": typeRefKindList()},
			"name":     str(),
			"path":     str(),
			"mode":     str(),
			"encoding": str(),
			"errors":   str(),
			"engine":   str(),
			"source":   str(),
		},
	}
}

func nargsSchema() map[string]any {
	return map[string]any{
		"oneOf": []any{
			map[string]any{"type": "integer", "minimum": 0},
			map[string]any{"type": "string", "enum": []any{"?", "*", "+", "..."}},
		},
	}
}

func actionKindList() []any {
	return []any{
		"store", "store_const", "store_true", "store_false",
		"append", "append_const", "count", "help", "version",
		"extend", "boolean_optional", "custom",
	}
}

func typeRefKindList() []any {
	return []any{"builtin", "import", "file", "expr"}
}
