package jsonschema

import (
	"errors"
	"strings"
	"testing"
)

func validPayload() map[string]any {
	return map[string]any{
		"schema_version": 1,
		"root": map[string]any{
			"prog": "backup",
			"arguments": []any{
				map[string]any{
					"dest":   "verbose",
					"flags":  []any{"-v", "--verbose"},
					"action": "count",
				},
				map[string]any{
					"dest":   "paths",
					"action": "store",
					"nargs":  "+",
					"type": map[string]any{
						"kind": "builtin",
						"name": "string",
					},
				},
			},
			"groups": []any{
				map[string]any{
					"title":     "output",
					"arguments": []any{"verbose"},
				},
			},
			"subparsers": map[string]any{
				"dest": "command",
				"commands": []any{
					map[string]any{
						"names": []any{"run", "r"},
						"parser": map[string]any{
							"prog": "backup run",
						},
					},
				},
			},
		},
	}
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	if err := Validate(validPayload()); err != nil {
		t.Fatalf("unexpected violations: %v", err)
	}
}

func TestValidateBytes(t *testing.T) {
	data := []byte(`{"schema_version": 1, "root": {"prog": "tool"}}`)
	if err := ValidateBytes(data); err != nil {
		t.Fatalf("unexpected violations: %v", err)
	}
	if err := ValidateBytes([]byte("{broken")); err == nil {
		t.Fatal("malformed JSON accepted")
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(payload map[string]any)
		path   string
	}{
		{
			name:   "missing schema version",
			mutate: func(p map[string]any) { delete(p, "schema_version") },
			path:   "$.schema_version",
		},
		{
			name:   "fractional schema version",
			mutate: func(p map[string]any) { p["schema_version"] = 1.5 },
			path:   "$.schema_version",
		},
		{
			name:   "missing root",
			mutate: func(p map[string]any) { delete(p, "root") },
			path:   "$.root",
		},
		{
			name:   "empty prog",
			mutate: func(p map[string]any) { root(p)["prog"] = "" },
			path:   "$.root.prog",
		},
		{
			name: "unknown action",
			mutate: func(p map[string]any) {
				argument(p, 0)["action"] = "teleport"
			},
			path: "$.root.arguments[0].action",
		},
		{
			name: "custom action without name",
			mutate: func(p map[string]any) {
				argument(p, 0)["action"] = "custom"
			},
			path: "$.root.arguments[0].custom_action",
		},
		{
			name: "bad nargs symbol",
			mutate: func(p map[string]any) {
				argument(p, 1)["nargs"] = "??"
			},
			path: "$.root.arguments[1].nargs",
		},
		{
			name: "negative nargs",
			mutate: func(p map[string]any) {
				argument(p, 1)["nargs"] = -1
			},
			path: "$.root.arguments[1].nargs",
		},
		{
			name: "type ref without kind",
			mutate: func(p map[string]any) {
				argument(p, 1)["type"] = map[string]any{"name": "string"}
			},
			path: "$.root.arguments[1].type.kind",
		},
		{
			name: "unknown type ref kind",
			mutate: func(p map[string]any) {
				argument(p, 1)["type"] = map[string]any{"kind": "unresolvable"}
			},
			path: "$.root.arguments[1].type.kind",
		},
		{
			name: "expr ref without source",
			mutate: func(p map[string]any) {
				argument(p, 1)["type"] = map[string]any{"kind": "expr", "engine": "expr"}
			},
			path: "$.root.arguments[1].type.source",
		},
		{
			name: "group without title",
			mutate: func(p map[string]any) {
				group(p, 0)["title"] = ""
			},
			path: "$.root.groups[0].title",
		},
		{
			name: "command without names",
			mutate: func(p map[string]any) {
				command(p, 0)["names"] = []any{}
			},
			path: "$.root.subparsers.commands[0].names",
		},
		{
			name: "nested parser without prog",
			mutate: func(p map[string]any) {
				command(p, 0)["parser"] = map[string]any{}
			},
			path: "$.root.subparsers.commands[0].parser.prog",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload()
			tc.mutate(payload)
			err := Validate(payload)
			if err == nil {
				t.Fatal("expected violations")
			}
			var violations ValidationErrors
			if !errors.As(err, &violations) {
				t.Fatalf("error is %T, want ValidationErrors", err)
			}
			found := false
			for _, violation := range violations {
				if violation.Path == tc.path {
					found = true
				}
			}
			if !found {
				t.Fatalf("no violation at %s, got %v", tc.path, err)
			}
		})
	}
}

func TestValidateReportsAllViolationsAtOnce(t *testing.T) {
	payload := validPayload()
	delete(payload, "schema_version")
	root(payload)["prog"] = ""
	argument(payload, 0)["action"] = "teleport"

	err := Validate(payload)
	var violations ValidationErrors
	if !errors.As(err, &violations) {
		t.Fatalf("error is %T, want ValidationErrors", err)
	}
	if len(violations) != 3 {
		t.Fatalf("got %d violations, want 3: %v", len(violations), err)
	}
}

func TestGenerate(t *testing.T) {
	schema := Generate()
	if schema["$schema"] != Draft {
		t.Fatalf("$schema = %v", schema["$schema"])
	}
	defs, ok := schema["$defs"].(map[string]any)
	if !ok {
		t.Fatal("$defs missing")
	}
	for _, name := range []string{"parser", "argument", "group", "subparsers", "typeRef", "nargs", "env"} {
		if _, ok := defs[name]; !ok {
			t.Fatalf("$defs.%s missing", name)
		}
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := &ValidationError{Path: "$.root.prog", Detail: "missing or empty"}
	if got := err.Error(); !strings.Contains(got, "$.root.prog") {
		t.Fatalf("unexpected message %q", got)
	}
	var nilErr *ValidationError
	if nilErr.Error() != "<nil>" {
		t.Fatal("nil receiver should stringify safely")
	}
}

func root(payload map[string]any) map[string]any {
	return payload["root"].(map[string]any)
}

func argument(payload map[string]any, i int) map[string]any {
	return root(payload)["arguments"].([]any)[i].(map[string]any)
}

func group(payload map[string]any, i int) map[string]any {
	return root(payload)["groups"].([]any)[i].(map[string]any)
}

func command(payload map[string]any, i int) map[string]any {
	sub := root(payload)["subparsers"].(map[string]any)
	return sub["commands"].([]any)[i].(map[string]any)
}
