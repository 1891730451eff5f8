package argdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// UnrepresentableConverterError reports a dump-time converter with no stable
// identity a document could record, such as an anonymous function.
type UnrepresentableConverterError struct {
	Dest   string
	Detail string
}

func (e *UnrepresentableConverterError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("argdoc: converter for %q cannot be represented: %s", e.Dest, e.Detail)
}

// UnresolvableTypeError reports a load-time type reference that could not be
// turned back into a converter. Path names the reference that failed.
type UnresolvableTypeError struct {
	Dest string
	Path string
	Err  error
}

func (e *UnresolvableTypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("argdoc: cannot resolve type %q for %q", e.Path, e.Dest)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnresolvableTypeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnsupportedSchemaVersionError reports a document whose schema_version is
// outside the set this build understands.
type UnsupportedSchemaVersionError struct {
	Version   int
	Supported []int
}

func (e *UnsupportedSchemaVersionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	supported := make([]string, 0, len(e.Supported))
	for _, v := range e.Supported {
		supported = append(supported, strconv.Itoa(v))
	}
	return fmt.Sprintf("argdoc: unsupported schema version %d (supported: %s)",
		e.Version, strings.Join(supported, ", "))
}

// DanglingGroupReferenceError reports a group member dest that does not
// appear in the owning parser's argument list. It indicates a corrupted or
// hand-edited document and is never downgraded by non-strict loading.
type DanglingGroupReferenceError struct {
	Group string
	Dest  string
}

func (e *DanglingGroupReferenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	group := e.Group
	if group == "" {
		group = "<unnamed>"
	}
	return fmt.Sprintf("argdoc: group %s references unknown argument %q", group, e.Dest)
}

// UnresolvableActionClassError reports a custom action kind with no
// registered handler. An action governs behavior, not just conversion, so
// this is fatal in both strict and non-strict loads.
type UnresolvableActionClassError struct {
	Dest string
	Name string
}

func (e *UnresolvableActionClassError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("argdoc: no registered action %q for %q", e.Name, e.Dest)
}
