package argdoc

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"
)

// ConvertFunc turns one raw command-line token into the argument's stored
// value.
type ConvertFunc func(raw string) (any, error)

// Converter couples a conversion function with the provenance needed to
// record it in a document. Converters built through the package constructors
// (builtins, RegisterConverter, FileType, the expression engines) carry a
// portable reference; ConverterFunc wraps an arbitrary function and is
// deliberately unrepresentable.
type Converter struct {
	fn     ConvertFunc
	ref    TypeRef
	detail string
}

// Convert applies the converter to raw.
func (c *Converter) Convert(raw string) (any, error) {
	if c == nil || c.fn == nil {
		return raw, nil
	}
	return c.fn(raw)
}

// Ref returns a copy of the converter's portable reference. The zero Kind
// means the converter cannot be represented in a document.
func (c *Converter) Ref() TypeRef {
	if c == nil {
		return TypeRef{}
	}
	return c.ref
}

// ConverterFunc wraps fn without provenance. Dumping a parser that uses the
// result fails with UnrepresentableConverterError in strict mode; register
// the function under a stable name instead when round-tripping matters.
func ConverterFunc(fn ConvertFunc) *Converter {
	return &Converter{fn: fn, detail: "anonymous converter has no stable identity"}
}

func builtin(name string, fn ConvertFunc) *Converter {
	return &Converter{fn: fn, ref: TypeRef{Kind: TypeRefBuiltin, Name: name}}
}

// Builtin converters. These resolve deterministically on load in every
// process; the table is closed.
var (
	Int = builtin("int", func(raw string) (any, error) {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argdoc: invalid integer %q", raw)
		}
		return v, nil
	})

	Float = builtin("float", func(raw string) (any, error) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("argdoc: invalid float %q", raw)
		}
		return v, nil
	})

	String = builtin("string", func(raw string) (any, error) {
		return raw, nil
	})

	Bool = builtin("bool", func(raw string) (any, error) {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("argdoc: invalid boolean %q", raw)
		}
		return v, nil
	})

	Bytes = builtin("bytes", func(raw string) (any, error) {
		v, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("argdoc: invalid base64 value %q", raw)
		}
		return v, nil
	})

	Duration = builtin("duration", func(raw string) (any, error) {
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("argdoc: invalid duration %q", raw)
		}
		return v, nil
	})

	Time = builtin("time", func(raw string) (any, error) {
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("argdoc: invalid RFC 3339 timestamp %q", raw)
		}
		return v, nil
	})
)

var builtinConverters = map[string]*Converter{
	"int":      Int,
	"float":    Float,
	"string":   String,
	"bool":     Bool,
	"bytes":    Bytes,
	"duration": Duration,
	"time":     Time,
}

func builtinConverter(name string) (*Converter, bool) {
	c, ok := builtinConverters[name]
	return c, ok
}

// ConverterRegistry stores named converters. Names are the portable identity
// a converter is dumped under; a package-qualified path such as
// "mytool/flags.ParseLevel" keeps them unambiguous across processes.
type ConverterRegistry struct {
	mu         sync.RWMutex
	converters map[string]*Converter
	byFn       map[uintptr]string
}

// NewConverterRegistry constructs an empty registry.
func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{
		converters: make(map[string]*Converter),
		byFn:       make(map[uintptr]string),
	}
}

// Register stores fn under name and returns the registered converter. The
// converter carries an import reference so it round-trips through documents.
func (r *ConverterRegistry) Register(name string, fn ConvertFunc) (*Converter, error) {
	if fn == nil {
		return nil, fmt.Errorf("argdoc: converter %q is nil", name)
	}
	if name == "" {
		return nil, fmt.Errorf("argdoc: converter name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.converters == nil {
		r.converters = make(map[string]*Converter)
		r.byFn = make(map[uintptr]string)
	}
	if _, exists := r.converters[name]; exists {
		return nil, fmt.Errorf("argdoc: converter %q already registered", name)
	}
	c := &Converter{fn: fn, ref: TypeRef{Kind: TypeRefImport, Path: name}}
	r.converters[name] = c
	r.byFn[reflect.ValueOf(fn).Pointer()] = name
	return c, nil
}

// Lookup returns the converter registered for name.
func (r *ConverterRegistry) Lookup(name string) (*Converter, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[name]
	return c, ok
}

// For matches fn by identity against the registry, returning the registered
// converter when found.
func (r *ConverterRegistry) For(fn ConvertFunc) (*Converter, bool) {
	if r == nil || fn == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byFn[reflect.ValueOf(fn).Pointer()]
	if !ok {
		return nil, false
	}
	return r.converters[name], true
}

// Names returns registered converter names sorted alphabetically.
func (r *ConverterRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultConverters is the process-wide registry. Like a module import
// cache, repeated lookups observe the same object; this package never
// invalidates it.
var defaultConverters = NewConverterRegistry()

// RegisterConverter registers fn in the process-wide converter registry.
func RegisterConverter(name string, fn ConvertFunc) (*Converter, error) {
	return defaultConverters.Register(name, fn)
}

// LookupConverter resolves name against the process-wide converter registry.
func LookupConverter(name string) (*Converter, bool) {
	return defaultConverters.Lookup(name)
}

// ConverterFor matches fn by identity against builtins and the process-wide
// registry.
func ConverterFor(fn ConvertFunc) (*Converter, bool) {
	if fn == nil {
		return nil, false
	}
	ptr := reflect.ValueOf(fn).Pointer()
	for _, c := range builtinConverters {
		if reflect.ValueOf(c.fn).Pointer() == ptr {
			return c, true
		}
	}
	return defaultConverters.For(fn)
}
