package argdoc

import (
	"strconv"
	"testing"
)

func TestParseActionKind(t *testing.T) {
	for _, kind := range []ActionKind{
		ActionStore, ActionStoreConst, ActionStoreTrue, ActionStoreFalse,
		ActionAppend, ActionAppendConst, ActionCount, ActionHelp,
		ActionVersion, ActionExtend, ActionBooleanOptional, ActionCustom,
	} {
		parsed, ok := ParseActionKind(string(kind))
		if !ok || parsed != kind {
			t.Fatalf("ParseActionKind(%q) = %q, %v", kind, parsed, ok)
		}
	}
	if _, ok := ParseActionKind("teleport"); ok {
		t.Fatal("unknown action recognized")
	}
	if _, ok := ParseActionKind(""); ok {
		t.Fatal("empty action recognized")
	}
}

func TestActionRegistry(t *testing.T) {
	registry := NewActionRegistry()

	handler := func(arg *Argument, values []string) (any, error) {
		return strconv.Atoi(values[0])
	}
	if err := registry.Register("actiontest.ParseInt", handler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("actiontest.ParseInt", handler); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if err := registry.Register("", handler); err == nil {
		t.Fatal("empty name accepted")
	}
	if err := registry.Register("actiontest.Nil", nil); err == nil {
		t.Fatal("nil handler accepted")
	}

	found, ok := registry.Lookup("actiontest.ParseInt")
	if !ok {
		t.Fatal("lookup failed")
	}
	value, err := found(nil, []string{"12"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if value != 12 {
		t.Fatalf("handler = %v, want 12", value)
	}

	if _, ok := registry.Lookup("actiontest.Missing"); ok {
		t.Fatal("lookup invented a handler")
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "actiontest.ParseInt" {
		t.Fatalf("names = %v", names)
	}
}

func TestArgumentValidation(t *testing.T) {
	p := New("tool")

	if _, err := p.Add(); err == nil {
		t.Fatal("argument without flags or positional accepted")
	}
	if _, err := p.Add(WithFlags("--x"), WithPositional("x")); err == nil {
		t.Fatal("argument with both flags and positional accepted")
	}
	if _, err := p.Add(WithFlags("x")); err == nil {
		t.Fatal("flag without prefix char accepted")
	}
	if _, err := p.Add(WithPositional("src"), WithRequired(true)); err == nil {
		t.Fatal("required positional accepted")
	}
	if _, err := p.Add(WithFlags("--set"), WithAction(ActionCustom)); err == nil {
		t.Fatal("custom action without handler name accepted")
	}

	if _, err := p.Add(WithFlags("--ok")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := p.Add(WithFlags("--ok")); err == nil {
		t.Fatal("duplicate dest accepted")
	}
}

func TestDeriveDest(t *testing.T) {
	tests := []struct {
		flags []string
		want  string
	}{
		{[]string{"-v", "--verbose"}, "verbose"},
		{[]string{"--dry-run"}, "dry_run"},
		{[]string{"-n"}, "n"},
		{[]string{"--log-level", "-l"}, "log_level"},
	}
	p := New("tool")
	for _, tc := range tests {
		arg, err := p.Add(WithFlags(tc.flags...))
		if err != nil {
			t.Fatalf("add %v: %v", tc.flags, err)
		}
		if arg.Dest() != tc.want {
			t.Fatalf("dest for %v = %q, want %q", tc.flags, arg.Dest(), tc.want)
		}
	}
}
