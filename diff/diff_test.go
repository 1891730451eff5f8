package diff

import (
	"strings"
	"testing"

	"github.com/goliatone/go-argdoc"
)

func dumpParser(t *testing.T, build func(p *argdoc.Parser)) *argdoc.Document {
	t.Helper()
	p := argdoc.New("deploy")
	build(p)
	doc, err := argdoc.Dump(p, argdoc.WithoutEnv())
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	return doc
}

func mustAdd(t *testing.T, p *argdoc.Parser, opts ...argdoc.ArgOption) {
	t.Helper()
	if _, err := p.Add(opts...); err != nil {
		t.Fatalf("add argument: %v", err)
	}
}

func TestIdenticalDocumentsHaveNoDiff(t *testing.T) {
	build := func(p *argdoc.Parser) {
		mustAdd(t, p, argdoc.WithFlags("--verbose"), argdoc.WithAction(argdoc.ActionCount))
	}
	old := dumpParser(t, build)
	new := dumpParser(t, build)
	if entries := Documents(old, new); len(entries) != 0 {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestAddedAndRemovedArguments(t *testing.T) {
	old := dumpParser(t, func(p *argdoc.Parser) {
		mustAdd(t, p, argdoc.WithFlags("--verbose"), argdoc.WithAction(argdoc.ActionCount))
		mustAdd(t, p, argdoc.WithFlags("--legacy"), argdoc.WithAction(argdoc.ActionStoreTrue))
	})
	new := dumpParser(t, func(p *argdoc.Parser) {
		mustAdd(t, p, argdoc.WithFlags("--verbose"), argdoc.WithAction(argdoc.ActionCount))
		mustAdd(t, p, argdoc.WithFlags("--dry-run"), argdoc.WithAction(argdoc.ActionStoreTrue))
	})

	entries := Documents(old, new)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(entries), entries)
	}
	byKind := map[Kind]Entry{}
	for _, e := range entries {
		byKind[e.Kind] = e
	}
	added, ok := byKind[KindAdded]
	if !ok || added.Path != "root.arguments[dry_run]" {
		t.Fatalf("added entry = %+v", added)
	}
	removed, ok := byKind[KindRemoved]
	if !ok || removed.Path != "root.arguments[legacy]" {
		t.Fatalf("removed entry = %+v", removed)
	}
}

func TestChangedArgumentFields(t *testing.T) {
	old := dumpParser(t, func(p *argdoc.Parser) {
		mustAdd(t, p,
			argdoc.WithFlags("--retries"),
			argdoc.WithType(argdoc.Int),
			argdoc.WithDefault(3),
			argdoc.WithHelp("retry count"),
		)
	})
	new := dumpParser(t, func(p *argdoc.Parser) {
		mustAdd(t, p,
			argdoc.WithFlags("--retries"),
			argdoc.WithType(argdoc.Int),
			argdoc.WithDefault(5),
			argdoc.WithHelp("maximum retry count"),
		)
	})

	entries := Documents(old, new)
	paths := map[string]Entry{}
	for _, e := range entries {
		if e.Kind != KindChanged {
			t.Fatalf("unexpected kind %s in %v", e.Kind, e)
		}
		paths[e.Path] = e
	}
	if len(paths) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(paths), entries)
	}
	if _, ok := paths["root.arguments[retries].default"]; !ok {
		t.Fatalf("no default change in %v", entries)
	}
	if _, ok := paths["root.arguments[retries].help"]; !ok {
		t.Fatalf("no help change in %v", entries)
	}
}

func TestReorderedSiblingsDoNotDiff(t *testing.T) {
	old := dumpParser(t, func(p *argdoc.Parser) {
		mustAdd(t, p, argdoc.WithFlags("--alpha"))
		mustAdd(t, p, argdoc.WithFlags("--beta"))
	})
	new := dumpParser(t, func(p *argdoc.Parser) {
		mustAdd(t, p, argdoc.WithFlags("--beta"))
		mustAdd(t, p, argdoc.WithFlags("--alpha"))
	})
	if entries := Documents(old, new); len(entries) != 0 {
		t.Fatalf("reordering produced entries: %v", entries)
	}
}

func TestSubcommandRecursion(t *testing.T) {
	old := dumpParser(t, func(p *argdoc.Parser) {
		commands, err := p.AddSubparsers("command")
		if err != nil {
			t.Fatalf("add subparsers: %v", err)
		}
		run, err := commands.AddParser("run")
		if err != nil {
			t.Fatalf("add run: %v", err)
		}
		mustAdd(t, run, argdoc.WithFlags("--fast"), argdoc.WithAction(argdoc.ActionStoreTrue))
	})
	new := dumpParser(t, func(p *argdoc.Parser) {
		commands, err := p.AddSubparsers("command")
		if err != nil {
			t.Fatalf("add subparsers: %v", err)
		}
		run, err := commands.AddParser("run")
		if err != nil {
			t.Fatalf("add run: %v", err)
		}
		mustAdd(t, run, argdoc.WithFlags("--fast"), argdoc.WithAction(argdoc.ActionStoreFalse))
		if _, err := commands.AddParser("status"); err != nil {
			t.Fatalf("add status: %v", err)
		}
	})

	entries := Documents(old, new)
	var sawAction, sawStatus bool
	for _, e := range entries {
		switch {
		case e.Kind == KindChanged && e.Path == "root.subparsers.commands[run].parser.arguments[fast].action":
			sawAction = true
		case e.Kind == KindAdded && e.Path == "root.subparsers.commands[status]":
			sawStatus = true
		}
	}
	if !sawAction {
		t.Fatalf("nested action change not reported: %v", entries)
	}
	if !sawStatus {
		t.Fatalf("new command not reported: %v", entries)
	}
}

func TestNilDocuments(t *testing.T) {
	doc := dumpParser(t, func(p *argdoc.Parser) {})

	if entries := Documents(nil, nil); len(entries) != 0 {
		t.Fatalf("nil vs nil produced entries: %v", entries)
	}

	entries := Documents(nil, doc)
	var sawRoot bool
	for _, e := range entries {
		if e.Kind == KindAdded && e.Path == "root" {
			sawRoot = true
		}
	}
	if !sawRoot {
		t.Fatalf("added root not reported: %v", entries)
	}

	entries = Documents(doc, nil)
	sawRoot = false
	for _, e := range entries {
		if e.Kind == KindRemoved && e.Path == "root" {
			sawRoot = true
		}
	}
	if !sawRoot {
		t.Fatalf("removed root not reported: %v", entries)
	}
}

func TestEnvMetadataIsIgnored(t *testing.T) {
	p := argdoc.New("deploy")
	withEnv, err := argdoc.Dump(p)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	withoutEnv, err := argdoc.Dump(p, argdoc.WithoutEnv())
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if entries := Documents(withEnv, withoutEnv); len(entries) != 0 {
		t.Fatalf("env metadata leaked into diff: %v", entries)
	}
}

func TestEntryString(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{Kind: KindAdded, Path: "root.arguments[x]", New: "argument --x"}, "+ root.arguments[x]"},
		{Entry{Kind: KindRemoved, Path: "root.arguments[y]", Old: "argument --y"}, "- root.arguments[y]"},
		{Entry{Kind: KindChanged, Path: "root.prog", Old: "a", New: "b"}, "~ root.prog: a -> b"},
	}
	for _, tc := range tests {
		if got := tc.entry.String(); !strings.HasPrefix(got, tc.want) {
			t.Fatalf("String() = %q, want prefix %q", got, tc.want)
		}
	}
}
