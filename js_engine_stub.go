//go:build !js_eval

package argdoc

// NewJSEngine is unavailable without the js_eval build tag.
func NewJSEngine(opts ...JSEngineOption) ConverterEngine {
	_ = applyJSEngineOptions(opts)
	return nil
}

func jsEngineAvailable() bool {
	return false
}
