package argdoc

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEngineOption configures an expr converter engine instance.
type ExprEngineOption func(*exprEngine)

// ExprWithProgramCache wires a ProgramCache into the expr engine.
func ExprWithProgramCache(cache ProgramCache) ExprEngineOption {
	return func(e *exprEngine) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr engine.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEngineOption {
	return func(e *exprEngine) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprEngine compiles converter expressions using github.com/expr-lang/expr.
type exprEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEngine constructs a ConverterEngine backed by expr-lang/expr.
func NewExprEngine(opts ...ExprEngineOption) ConverterEngine {
	e := &exprEngine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEngine) Name() string { return "expr" }

// Compile returns a program that evaluates source with the raw token bound
// as "value".
func (e *exprEngine) Compile(source string) (ConverterProgram, error) {
	if source == "" {
		return nil, wrapEngineError("expr", fmt.Errorf("source must not be empty"))
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return &exprProgram{
		engine:  e,
		program: program,
		source:  source,
	}, nil
}

func (e *exprEngine) loadOrCompile(source string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registryNames() {
		fn := e.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(source, options...)
	if err != nil {
		return nil, wrapConversionError("expr", source, err)
	}
	if e.cache != nil {
		e.cache.Set(source, program)
	}
	return program, nil
}

type exprProgram struct {
	engine  *exprEngine
	program *exprvm.Program
	source  string
}

func (p *exprProgram) Convert(raw string) (any, error) {
	if p.engine == nil {
		return nil, wrapEngineError("expr", fmt.Errorf("program missing engine"))
	}
	env := p.engine.environment(raw)
	result, err := exprlang.Run(p.program, env)
	if err != nil {
		return nil, wrapConversionError("expr", p.source, err)
	}
	return result, nil
}

func (e *exprEngine) environment(raw string) map[string]any {
	env := map[string]any{
		"value": raw,
	}
	if e.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		for _, name := range e.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

func (e *exprEngine) registryNames() []string {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprEngine) registryFunction(name string) func(...any) (any, error) {
	if e == nil || e.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
