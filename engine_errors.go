package argdoc

import (
	"errors"
	"fmt"
	"strings"
)

var errJSUnavailable = errors.New("js engine requires the js_eval build tag")

// ConversionError captures engine metadata alongside the originating error
// for converter expression failures.
type ConversionError struct {
	Engine string
	Source string
	Err    error
}

func (e *ConversionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("argdoc: %s converter %s: %v", e.Engine, describeSource(e.Source), e.Err)
}

func (e *ConversionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeSource(source string) string {
	if source == "" {
		return "source=<empty>"
	}
	return fmt.Sprintf("source=%q", source)
}

func wrapEngineError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "argdoc:") {
		return err
	}
	return fmt.Errorf("argdoc: %s converter engine: %w", engine, err)
}

func wrapConversionError(engine, source string, err error) error {
	if err == nil {
		return nil
	}

	var convErr *ConversionError
	if errors.As(err, &convErr) {
		if convErr.Engine == "" {
			convErr.Engine = engine
		}
		if convErr.Source == "" {
			convErr.Source = source
		}
		return convErr
	}

	return &ConversionError{
		Engine: engine,
		Source: source,
		Err:    err,
	}
}
