package hydrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type envelope struct {
	SchemaVersion int     `json:"schema_version"`
	Root          rootDoc `json:"root"`
}

type rootDoc struct {
	Prog        string   `json:"prog"`
	Description string   `json:"description"`
	Flags       []string `json:"flags"`
	Retries     int      `json:"retries"`
}

func TestDecodeEnvelope(t *testing.T) {
	decoder := NewDecoder[envelope](WithUseNumber[envelope]())

	payload := map[string]any{
		"schema_version": json.Number("1"),
		"root": map[string]any{
			"prog":        "backup",
			"description": "nightly backup tool",
			"flags":       []any{"--verbose", "-v"},
			"retries":     json.Number("3"),
		},
	}

	got, err := decoder.Decode(Context{Format: "json", Prog: "backup"}, payload)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	want := envelope{
		SchemaVersion: 1,
		Root: rootDoc{
			Prog:        "backup",
			Description: "nightly backup tool",
			Flags:       []string{"--verbose", "-v"},
			Retries:     3,
		},
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("decoded envelope mismatch:\nwant: %#v\n got: %#v", want, got)
	}
}

func TestDecodeNilPayload(t *testing.T) {
	decoder := NewDecoder[envelope]()
	if _, err := decoder.Decode(Context{Format: "json"}, nil); err == nil {
		t.Fatal("expected error for nil payload")
	}
}

func TestPreHookRewritesPayload(t *testing.T) {
	legacyVersion := func(_ Context, payload map[string]any) (map[string]any, error) {
		if _, ok := payload["schema_version"]; ok {
			return payload, nil
		}
		raw, ok := payload["version"].(string)
		if !ok {
			return nil, fmt.Errorf("missing version field")
		}
		n, err := json.Number(raw).Int64()
		if err != nil {
			return nil, err
		}
		delete(payload, "version")
		payload["schema_version"] = n
		return payload, nil
	}

	decoder := NewDecoder[envelope](WithPreHook[envelope](legacyVersion))
	got, err := decoder.Decode(Context{Format: "json"}, map[string]any{
		"version": "1",
		"root":    map[string]any{"prog": "sync"},
	})
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.SchemaVersion != 1 {
		t.Fatalf("expected schema version 1, got %d", got.SchemaVersion)
	}
	if got.Root.Prog != "sync" {
		t.Fatalf("expected prog %q, got %q", "sync", got.Root.Prog)
	}
}

func TestPreHookDoesNotMutateInput(t *testing.T) {
	strip := func(_ Context, payload map[string]any) (map[string]any, error) {
		delete(payload, "root")
		return payload, nil
	}

	decoder := NewDecoder[envelope](WithPreHook[envelope](strip))
	input := map[string]any{
		"schema_version": 1,
		"root":           map[string]any{"prog": "sync"},
	}
	if _, err := decoder.Decode(Context{Format: "json"}, input); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if _, ok := input["root"]; !ok {
		t.Fatal("pre-hook mutation leaked into caller payload")
	}
}

func TestPostHookValidates(t *testing.T) {
	requireProg := func(ctx Context, doc *envelope) error {
		if doc.Root.Prog == "" {
			return errors.New("root parser has no prog")
		}
		return nil
	}

	decoder := NewDecoder[envelope](WithPostHook[envelope](requireProg))
	_, err := decoder.Decode(Context{Format: "json"}, map[string]any{
		"schema_version": 1,
		"root":           map[string]any{},
	})
	if err == nil {
		t.Fatal("expected post-hook failure")
	}
	if !strings.Contains(err.Error(), "post-hook") {
		t.Fatalf("expected post-hook error, got %v", err)
	}
}

func TestCustomDecoder(t *testing.T) {
	fromString := func(ctx Context, payload map[string]any) (envelope, error) {
		var zero envelope
		raw, ok := payload["document"].(string)
		if !ok || raw == "" {
			return zero, fmt.Errorf("missing document string for %q", ctx.Prog)
		}
		var out envelope
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return zero, err
		}
		return out, nil
	}

	decoder := NewDecoder[envelope](WithCustomDecoder[envelope](fromString))
	got, err := decoder.Decode(Context{Format: "json", Prog: "sync"}, map[string]any{
		"document": `{"schema_version":1,"root":{"prog":"sync"}}`,
	})
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.SchemaVersion != 1 || got.Root.Prog != "sync" {
		t.Fatalf("custom decode mismatch: %#v", got)
	}
}
