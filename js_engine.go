//go:build js_eval

package argdoc

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEngine constructs a ConverterEngine backed by goja.
func NewJSEngine(opts ...JSEngineOption) ConverterEngine {
	cfg := applyJSEngineOptions(opts)
	return &jsEngine{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

func (e *jsEngine) Name() string { return "js" }

func (e *jsEngine) Compile(source string) (ConverterProgram, error) {
	if source == "" {
		return nil, wrapEngineError("js", fmt.Errorf("source must not be empty"))
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return &jsProgram{
		engine:  e,
		source:  source,
		program: program,
	}, nil
}

func (e *jsEngine) loadOrCompile(source string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapSource(source), false)
	if err != nil {
		return nil, wrapConversionError("js", source, err)
	}
	if e.cache != nil {
		e.cache.Set(source, program)
	}
	return program, nil
}

func (e *jsEngine) run(raw, source string, program *goja.Program) (any, error) {
	vm := goja.New()
	e.injectContext(vm, raw)
	if program != nil {
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, wrapConversionError("js", source, err)
		}
		return value.Export(), nil
	}
	value, err := vm.RunString(e.wrapSource(source))
	if err != nil {
		return nil, wrapConversionError("js", source, err)
	}
	return value.Export(), nil
}

func (e *jsEngine) injectContext(vm *goja.Runtime, raw string) {
	vm.Set("value", raw)
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
}

func (e *jsEngine) wrapSource(source string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", source)
}

type jsProgram struct {
	engine  *jsEngine
	source  string
	program *goja.Program
}

func (p *jsProgram) Convert(raw string) (any, error) {
	if p.engine == nil {
		return nil, wrapEngineError("js", fmt.Errorf("program missing engine"))
	}
	return p.engine.run(raw, p.source, p.program)
}

func jsEngineAvailable() bool {
	return true
}
