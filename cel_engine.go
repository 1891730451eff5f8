package argdoc

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEngineOption configures the CEL converter engine.
type CELEngineOption func(*celEngine)

// CELWithProgramCache wires a ProgramCache into the CEL engine.
func CELWithProgramCache(cache ProgramCache) CELEngineOption {
	return func(e *celEngine) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL engine.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEngineOption {
	return func(e *celEngine) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celBundle struct {
	env     *celgo.Env
	program celgo.Program
}

type celEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEngine constructs a ConverterEngine backed by cel-go.
func NewCELEngine(opts ...CELEngineOption) ConverterEngine {
	e := &celEngine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEngine) Name() string { return "cel" }

func (e *celEngine) Compile(source string) (ConverterProgram, error) {
	if source == "" {
		return nil, wrapEngineError("cel", fmt.Errorf("source must not be empty"))
	}
	bundle, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return &celProgram{
		engine: e,
		bundle: bundle,
		source: source,
	}, nil
}

func (e *celEngine) loadOrCompile(source string) (*celBundle, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			if bundle, ok := cached.(*celBundle); ok {
				return bundle, nil
			}
		}
	}

	env, err := e.buildEnv()
	if err != nil {
		return nil, wrapConversionError("cel", source, err)
	}
	ast, issues := env.Parse(source)
	if issues != nil && issues.Err() != nil {
		return nil, wrapConversionError("cel", source, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapConversionError("cel", source, issues.Err())
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, wrapConversionError("cel", source, err)
	}

	bundle := &celBundle{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(source, bundle)
	}
	return bundle, nil
}

func (e *celEngine) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("value", celgo.StringType),
	}
	if e.registry != nil {
		// CEL overloads are fixed arity, so registry calls are declared
		// for up to three forwarded arguments behind one shared binding.
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string",
				[]*celgo.Type{celgo.StringType}, celgo.DynType),
			celgo.Overload("call_string_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType}, celgo.DynType),
			celgo.Overload("call_string_dyn_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType}, celgo.DynType),
			celgo.Overload("call_string_dyn_dyn_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType, celgo.DynType}, celgo.DynType),
			celgo.SingletonFunctionBinding(e.callBinding()),
		))
	}
	return celgo.NewEnv(opts...)
}

type celProgram struct {
	engine *celEngine
	bundle *celBundle
	source string
}

func (p *celProgram) Convert(raw string) (any, error) {
	if p.engine == nil || p.bundle == nil {
		return nil, wrapEngineError("cel", fmt.Errorf("program missing engine"))
	}
	activation := map[string]any{
		"value": raw,
	}
	out, _, err := p.bundle.program.Eval(activation)
	if err != nil {
		return nil, wrapConversionError("cel", p.source, err)
	}
	return out.Value(), nil
}

func (e *celEngine) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("argdoc: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("argdoc: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("argdoc: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
