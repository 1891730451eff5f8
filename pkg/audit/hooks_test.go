package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Notify(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestHooksNotifyNormalizes(t *testing.T) {
	rec := &recorder{}
	hooks := Hooks{rec}

	err := hooks.Notify(context.Background(), Event{
		Verb:     "  dump  ",
		Prog:     " backup ",
		Dest:     " level ",
		Detail:   " converter dropped ",
		Metadata: map[string]any{"format": "json"},
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("got %d events", len(rec.events))
	}
	got := rec.events[0]
	if got.Verb != "dump" || got.Prog != "backup" || got.Dest != "level" {
		t.Fatalf("event not trimmed: %+v", got)
	}
	if got.Detail != "converter dropped" {
		t.Fatalf("detail = %q", got.Detail)
	}
	if got.OccurredAt.IsZero() {
		t.Fatal("OccurredAt not stamped")
	}
}

func TestHooksNotifyClonesMetadata(t *testing.T) {
	rec := &recorder{}
	metadata := map[string]any{"format": "json"}

	if err := (Hooks{rec}).Notify(context.Background(), Event{
		Verb:     VerbDump,
		Prog:     "backup",
		Metadata: metadata,
	}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	metadata["format"] = "yaml"
	if rec.events[0].Metadata["format"] != "json" {
		t.Fatal("metadata was not cloned")
	}
}

func TestHooksNotifySkipsIncompleteEvents(t *testing.T) {
	rec := &recorder{}
	hooks := Hooks{rec}

	if err := hooks.Notify(context.Background(), Event{Prog: "backup"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := hooks.Notify(context.Background(), Event{Verb: VerbLoad}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("incomplete events delivered: %v", rec.events)
	}
}

func TestHooksNotifyJoinsErrors(t *testing.T) {
	first := errors.New("first sink down")
	second := errors.New("second sink down")
	ok := &recorder{}
	hooks := Hooks{&recorder{err: first}, ok, &recorder{err: second}, nil}

	err := hooks.Notify(context.Background(), Event{Verb: VerbLoad, Prog: "backup"})
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("err = %v, want both sink errors", err)
	}
	if len(ok.events) != 1 {
		t.Fatal("healthy hook skipped after a failing one")
	}
}

func TestHookFunc(t *testing.T) {
	var got Event
	fn := HookFunc(func(_ context.Context, event Event) error {
		got = event
		return nil
	})
	if err := fn.Notify(context.Background(), Event{Verb: VerbDump, Prog: "backup"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got.Verb != VerbDump {
		t.Fatalf("event = %+v", got)
	}

	var nilFn HookFunc
	if err := nilFn.Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("nil HookFunc errored: %v", err)
	}
}

func TestNormalizeEventKeepsTimestamp(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	got := NormalizeEvent(Event{Verb: VerbDump, Prog: "backup", OccurredAt: at})
	if !got.OccurredAt.Equal(at) {
		t.Fatalf("OccurredAt = %v, want %v", got.OccurredAt, at)
	}
}

func TestEmitterDefaults(t *testing.T) {
	rec := &recorder{}

	emitter := NewEmitter(Hooks{rec}, Config{Enabled: true})
	if !emitter.Enabled() {
		t.Fatal("emitter should be enabled")
	}
	if err := emitter.Emit(context.Background(), Event{Verb: VerbDump, Prog: "backup"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if rec.events[0].Metadata["channel"] != "argdoc" {
		t.Fatalf("metadata = %v", rec.events[0].Metadata)
	}
}

func TestEmitterCustomChannel(t *testing.T) {
	rec := &recorder{}
	emitter := NewEmitter(Hooks{rec}, Config{Enabled: true, Channel: "contracts"})
	if err := emitter.Emit(context.Background(), Event{Verb: VerbLoad, Prog: "backup"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if rec.events[0].Metadata["channel"] != "contracts" {
		t.Fatalf("metadata = %v", rec.events[0].Metadata)
	}
}

func TestEmitterDisabled(t *testing.T) {
	rec := &recorder{}

	for name, emitter := range map[string]*Emitter{
		"nil":      nil,
		"no hooks": NewEmitter(nil, Config{Enabled: true}),
		"disabled": NewEmitter(Hooks{rec}, Config{Enabled: false}),
	} {
		if emitter.Enabled() {
			t.Fatalf("%s emitter reports enabled", name)
		}
		if err := emitter.Emit(context.Background(), Event{Verb: VerbDump, Prog: "backup"}); err != nil {
			t.Fatalf("%s emit: %v", name, err)
		}
	}
	if len(rec.events) != 0 {
		t.Fatalf("disabled emitter delivered events: %v", rec.events)
	}
}
