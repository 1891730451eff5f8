package argdoc

// ConverterEngine compiles converter expression sources into runnable
// programs. Expression converters are the representable alternative to
// closures: the source string travels in the document and is recompiled at
// load time by the engine named in the reference.
type ConverterEngine interface {
	Name() string
	Compile(source string) (ConverterProgram, error)
}

// ConverterProgram is a compiled converter expression. Convert receives the
// raw token bound as "value" in the expression environment.
type ConverterProgram interface {
	Convert(raw string) (any, error)
}

// ProgramCache stores compiled expression programs keyed by source strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

func compileConverter(engine ConverterEngine, source string) (*Converter, error) {
	program, err := engine.Compile(source)
	if err != nil {
		return nil, err
	}
	return &Converter{
		fn: program.Convert,
		ref: TypeRef{
			Kind:   TypeRefExpr,
			Engine: engine.Name(),
			Source: source,
		},
	}, nil
}

// defaultConverterEngines builds the engine set used when resolving expr
// references. The JS engine is only present under the js_eval build tag.
func defaultConverterEngines() map[string]ConverterEngine {
	engines := map[string]ConverterEngine{}
	for _, engine := range []ConverterEngine{NewExprEngine(), NewCELEngine(), NewJSEngine()} {
		if engine != nil {
			engines[engine.Name()] = engine
		}
	}
	return engines
}

// NewExprConverter compiles source with the expr engine and returns a
// document-representable converter.
func NewExprConverter(source string, opts ...ExprEngineOption) (*Converter, error) {
	return compileConverter(NewExprEngine(opts...), source)
}

// NewCELConverter compiles source with the CEL engine.
func NewCELConverter(source string, opts ...CELEngineOption) (*Converter, error) {
	return compileConverter(NewCELEngine(opts...), source)
}

// NewJSConverter compiles source with the goja engine. It fails unless the
// binary was built with the js_eval tag.
func NewJSConverter(source string, opts ...JSEngineOption) (*Converter, error) {
	engine := NewJSEngine(opts...)
	if engine == nil {
		return nil, wrapEngineError("js", errJSUnavailable)
	}
	return compileConverter(engine, source)
}
