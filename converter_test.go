package argdoc

import (
	"reflect"
	"strconv"
	"testing"
	"time"
)

func TestBuiltinConverters(t *testing.T) {
	tests := []struct {
		name      string
		converter *Converter
		raw       string
		want      any
	}{
		{"int", Int, "42", int64(42)},
		{"int negative", Int, "-9", int64(-9)},
		{"float", Float, "1.25", 1.25},
		{"string", String, "plain", "plain"},
		{"bool true", Bool, "true", true},
		{"bool numeric", Bool, "1", true},
		{"duration", Duration, "1m30s", 90 * time.Second},
		{"time", Time, "2024-05-01T12:30:00Z", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.converter.Convert(tc.raw)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if stamp, ok := tc.want.(time.Time); ok {
				if !got.(time.Time).Equal(stamp) {
					t.Fatalf("convert = %v, want %v", got, tc.want)
				}
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("convert = %v (%T), want %v (%T)", got, got, tc.want, tc.want)
			}
		})
	}
}

func TestBuiltinConvertersReject(t *testing.T) {
	tests := []struct {
		name      string
		converter *Converter
		raw       string
	}{
		{"int", Int, "forty"},
		{"float", Float, "x"},
		{"bool", Bool, "maybe"},
		{"bytes", Bytes, "not-base64!"},
		{"duration", Duration, "fast"},
		{"time", Time, "yesterday"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.converter.Convert(tc.raw); err == nil {
				t.Fatalf("convert %q succeeded, want error", tc.raw)
			}
		})
	}
}

func TestBuiltinConverterRefs(t *testing.T) {
	for name, converter := range builtinConverters {
		ref := converter.Ref()
		if ref.Kind != TypeRefBuiltin || ref.Name != name {
			t.Fatalf("builtin %q carries ref %+v", name, ref)
		}
	}
}

func TestNilConverterPassesThrough(t *testing.T) {
	var c *Converter
	got, err := c.Convert("raw")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got != "raw" {
		t.Fatalf("convert = %v, want raw token", got)
	}
	if ref := c.Ref(); ref.Kind != "" {
		t.Fatalf("nil converter ref = %+v", ref)
	}
}

func TestConverterRegistry(t *testing.T) {
	registry := NewConverterRegistry()

	port := func(raw string) (any, error) {
		return strconv.Atoi(raw)
	}
	registered, err := registry.Register("nettest/flags.Port", port)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if ref := registered.Ref(); ref.Kind != TypeRefImport || ref.Path != "nettest/flags.Port" {
		t.Fatalf("registered ref = %+v", ref)
	}

	if _, err := registry.Register("nettest/flags.Port", port); err == nil {
		t.Fatal("duplicate registration succeeded")
	}
	if _, err := registry.Register("", port); err == nil {
		t.Fatal("empty name accepted")
	}
	if _, err := registry.Register("nettest/flags.Nil", nil); err == nil {
		t.Fatal("nil function accepted")
	}

	found, ok := registry.Lookup("nettest/flags.Port")
	if !ok || found != registered {
		t.Fatal("lookup did not return the registered converter")
	}
	if _, ok := registry.Lookup("nettest/flags.Missing"); ok {
		t.Fatal("lookup invented a converter")
	}

	byFn, ok := registry.For(port)
	if !ok || byFn != registered {
		t.Fatal("identity match failed for registered function")
	}
	if _, ok := registry.For(func(string) (any, error) { return nil, nil }); ok {
		t.Fatal("identity match invented a converter")
	}

	if names := registry.Names(); len(names) != 1 || names[0] != "nettest/flags.Port" {
		t.Fatalf("names = %v", names)
	}
}

func TestConverterForMatchesBuiltins(t *testing.T) {
	found, ok := ConverterFor(Int.fn)
	if !ok || found != Int {
		t.Fatal("ConverterFor did not match the int builtin")
	}
	if _, ok := ConverterFor(nil); ok {
		t.Fatal("ConverterFor matched nil")
	}
}

func TestAnonymousConverterHasNoRef(t *testing.T) {
	anonymous := ConverterFunc(func(raw string) (any, error) { return raw, nil })
	if ref := anonymous.Ref(); ref.Kind != "" {
		t.Fatalf("anonymous ref = %+v", ref)
	}

	_, err := converterRef("dest", anonymous)
	if err == nil {
		t.Fatal("expected UnrepresentableConverterError")
	}
	if _, ok := err.(*UnrepresentableConverterError); !ok {
		t.Fatalf("got %T: %v", err, err)
	}
}
