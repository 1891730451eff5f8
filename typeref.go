package argdoc

import "fmt"

// TypeRef kinds. Unresolvable is a load-time-only fallback produced by
// non-strict loading; dump never writes it.
const (
	TypeRefBuiltin      = "builtin"
	TypeRefImport       = "import"
	TypeRefFile         = "file"
	TypeRefExpr         = "expr"
	TypeRefUnresolvable = "unresolvable"
)

// TypeRef is the portable reference recorded for a type converter. Exactly
// one variant applies per Kind: Name for builtin, Path for import,
// Mode/Encoding/Errors for file, Engine/Source for expr.
type TypeRef struct {
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Path     string `json:"path,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Encoding string `json:"encoding,omitempty"`
	Errors   string `json:"errors,omitempty"`
	Engine   string `json:"engine,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Describe returns a short human-readable label for error messages and
// summaries.
func (r *TypeRef) Describe() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case TypeRefBuiltin:
		return r.Name
	case TypeRefImport:
		return r.Path
	case TypeRefFile:
		return fmt.Sprintf("file(%s)", r.Mode)
	case TypeRefExpr:
		return fmt.Sprintf("%s(%s)", r.Engine, r.Source)
	case TypeRefUnresolvable:
		return "unresolvable"
	default:
		return r.Kind
	}
}

func (r *TypeRef) clone() *TypeRef {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

// converterRef maps a live converter to its portable reference. A converter
// without provenance cannot be represented; the caller decides whether that
// aborts the dump or degrades to an absent type.
func converterRef(dest string, c *Converter) (*TypeRef, error) {
	if c == nil {
		return nil, nil
	}
	if c.ref.Kind == "" || c.ref.Kind == TypeRefUnresolvable {
		detail := c.detail
		if detail == "" {
			detail = "anonymous converter has no stable identity"
		}
		return nil, &UnrepresentableConverterError{Dest: dest, Detail: detail}
	}
	return c.ref.clone(), nil
}

// resolveTypeRef maps a portable reference back to a live converter.
// Builtin and file variants resolve deterministically from their stored
// data; import and expr variants depend on the process registry and the
// configured engines. Resolution failures are reported as
// UnresolvableTypeError; the caller owns the strict/non-strict branching.
func resolveTypeRef(dest string, ref *TypeRef, engines map[string]ConverterEngine) (*Converter, error) {
	if ref == nil {
		return nil, nil
	}
	switch ref.Kind {
	case TypeRefBuiltin:
		c, ok := builtinConverter(ref.Name)
		if !ok {
			return nil, &UnresolvableTypeError{
				Dest: dest,
				Path: ref.Name,
				Err:  fmt.Errorf("unknown builtin converter"),
			}
		}
		return c, nil
	case TypeRefImport:
		c, ok := LookupConverter(ref.Path)
		if !ok {
			return nil, &UnresolvableTypeError{
				Dest: dest,
				Path: ref.Path,
				Err:  fmt.Errorf("converter not registered"),
			}
		}
		return c, nil
	case TypeRefFile:
		opts := []FileTypeOption{}
		if ref.Encoding != "" {
			opts = append(opts, WithFileEncoding(ref.Encoding))
		}
		if ref.Errors != "" {
			opts = append(opts, WithFileErrors(ref.Errors))
		}
		c, err := FileType(ref.Mode, opts...)
		if err != nil {
			return nil, &UnresolvableTypeError{Dest: dest, Path: ref.Describe(), Err: err}
		}
		return c, nil
	case TypeRefExpr:
		engine := engines[ref.Engine]
		if engine == nil {
			return nil, &UnresolvableTypeError{
				Dest: dest,
				Path: ref.Describe(),
				Err:  fmt.Errorf("converter engine %q not available", ref.Engine),
			}
		}
		c, err := compileConverter(engine, ref.Source)
		if err != nil {
			return nil, &UnresolvableTypeError{Dest: dest, Path: ref.Describe(), Err: err}
		}
		return c, nil
	case TypeRefUnresolvable:
		return nil, &UnresolvableTypeError{
			Dest: dest,
			Path: ref.Describe(),
			Err:  fmt.Errorf("reference was recorded as unresolvable"),
		}
	default:
		return nil, &UnresolvableTypeError{
			Dest: dest,
			Path: ref.Kind,
			Err:  fmt.Errorf("unknown type reference kind"),
		}
	}
}
