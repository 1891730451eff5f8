package argdoc

import (
	"fmt"
	"strings"
)

// Argument is one live argument definition owned by a Parser. Build them
// through Parser.Add (or a group's Add); the zero value is not usable.
type Argument struct {
	flags        []string
	positional   string
	dest         string
	action       ActionKind
	customAction string
	handler      ActionHandler
	nargs        *Nargs
	constVal     any
	defaultVal   any
	converter    *Converter
	choices      []any
	required     bool
	help         string
	metavar      string
	version      string
}

// ArgOption configures an argument added to a parser.
type ArgOption func(*argConfig)

type argConfig struct {
	flags        []string
	positional   string
	dest         string
	action       ActionKind
	customAction string
	nargs        *Nargs
	constVal     any
	constSet     bool
	defaultVal   any
	defaultSet   bool
	converter    *Converter
	choices      []any
	required     bool
	help         string
	metavar      string
	version      string
}

func applyArgOptions(opts []ArgOption) argConfig {
	cfg := argConfig{action: ActionStore}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithFlags declares the option strings for an optional argument, e.g.
// WithFlags("-v", "--verbose").
func WithFlags(flags ...string) ArgOption {
	return func(cfg *argConfig) {
		cfg.flags = append([]string{}, flags...)
	}
}

// WithPositional declares a positional argument; name doubles as the dest.
func WithPositional(name string) ArgOption {
	return func(cfg *argConfig) {
		cfg.positional = name
	}
}

// WithDest overrides the derived destination name.
func WithDest(dest string) ArgOption {
	return func(cfg *argConfig) {
		cfg.dest = dest
	}
}

// WithAction sets the argument's action kind. The default is ActionStore.
func WithAction(kind ActionKind) ArgOption {
	return func(cfg *argConfig) {
		cfg.action = kind
	}
}

// WithCustomAction marks the argument as driven by the handler registered
// under name. The name is the portable identity the action is dumped with.
func WithCustomAction(name string) ArgOption {
	return func(cfg *argConfig) {
		cfg.action = ActionCustom
		cfg.customAction = name
	}
}

// WithNargs sets how many tokens the argument consumes.
func WithNargs(n Nargs) ArgOption {
	return func(cfg *argConfig) {
		nargs := n
		cfg.nargs = &nargs
	}
}

// WithConst sets the constant stored by store_const/append_const actions.
func WithConst(value any) ArgOption {
	return func(cfg *argConfig) {
		cfg.constVal = value
		cfg.constSet = true
	}
}

// WithDefault sets the value used when the argument is absent. The value
// must be representable in a document (scalars, slices, string-keyed maps,
// []byte, time.Duration); Dump fails fast otherwise.
func WithDefault(value any) ArgOption {
	return func(cfg *argConfig) {
		cfg.defaultVal = value
		cfg.defaultSet = true
	}
}

// WithType sets the converter applied to raw tokens.
func WithType(converter *Converter) ArgOption {
	return func(cfg *argConfig) {
		cfg.converter = converter
	}
}

// WithChoices restricts accepted values to the given set, in order.
func WithChoices(choices ...any) ArgOption {
	return func(cfg *argConfig) {
		cfg.choices = append([]any{}, choices...)
	}
}

// WithRequired marks an optional argument as mandatory.
func WithRequired(required bool) ArgOption {
	return func(cfg *argConfig) {
		cfg.required = required
	}
}

// WithHelp sets the help text.
func WithHelp(help string) ArgOption {
	return func(cfg *argConfig) {
		cfg.help = help
	}
}

// WithMetavar sets the name used for the argument in usage messages.
func WithMetavar(metavar string) ArgOption {
	return func(cfg *argConfig) {
		cfg.metavar = metavar
	}
}

// WithVersion sets the version string printed by a version action.
func WithVersion(version string) ArgOption {
	return func(cfg *argConfig) {
		cfg.version = version
	}
}

// Flags returns a copy of the option strings; empty for positionals.
func (a *Argument) Flags() []string {
	return append([]string{}, a.flags...)
}

// Positional reports whether the argument is positional.
func (a *Argument) Positional() bool {
	return len(a.flags) == 0
}

// Dest returns the destination name identifying the argument.
func (a *Argument) Dest() string { return a.dest }

// Action returns the argument's action kind.
func (a *Argument) Action() ActionKind { return a.action }

// CustomAction returns the registered handler name for custom actions.
func (a *Argument) CustomAction() string { return a.customAction }

// Handler returns the custom action handler, when resolved.
func (a *Argument) Handler() ActionHandler { return a.handler }

// Nargs returns the token count spec, or nil when unset.
func (a *Argument) Nargs() *Nargs {
	if a.nargs == nil {
		return nil
	}
	n := *a.nargs
	return &n
}

// Const returns the store_const/append_const constant.
func (a *Argument) Const() any { return a.constVal }

// Default returns the default value.
func (a *Argument) Default() any { return a.defaultVal }

// Converter returns the type converter, or nil when tokens pass through as
// strings.
func (a *Argument) Converter() *Converter { return a.converter }

// Choices returns a copy of the accepted value set.
func (a *Argument) Choices() []any {
	if a.choices == nil {
		return nil
	}
	return append([]any{}, a.choices...)
}

// Required reports whether an optional argument is mandatory.
func (a *Argument) Required() bool { return a.required }

// Help returns the help text.
func (a *Argument) Help() string { return a.help }

// Metavar returns the usage-message name override.
func (a *Argument) Metavar() string { return a.metavar }

// Version returns the version-action string.
func (a *Argument) Version() string { return a.version }

// Convert applies the argument's converter to raw; without a converter the
// token passes through unchanged.
func (a *Argument) Convert(raw string) (any, error) {
	return a.converter.Convert(raw)
}

func newArgument(cfg argConfig, prefixChars string) (*Argument, error) {
	if len(cfg.flags) == 0 && cfg.positional == "" {
		return nil, fmt.Errorf("argdoc: argument needs flags or a positional name")
	}
	if len(cfg.flags) > 0 && cfg.positional != "" {
		return nil, fmt.Errorf("argdoc: argument cannot be both optional and positional")
	}
	if cfg.action == ActionCustom && cfg.customAction == "" {
		return nil, fmt.Errorf("argdoc: custom action needs a registered handler name")
	}
	if cfg.action != ActionCustom && cfg.customAction != "" {
		return nil, fmt.Errorf("argdoc: handler name %q requires ActionCustom", cfg.customAction)
	}

	dest := cfg.dest
	if len(cfg.flags) > 0 {
		for _, flag := range cfg.flags {
			if flag == "" || !strings.ContainsRune(prefixChars, rune(flag[0])) {
				return nil, fmt.Errorf("argdoc: flag %q must start with one of %q", flag, prefixChars)
			}
		}
		if dest == "" {
			dest = deriveDest(cfg.flags, prefixChars)
		}
	} else {
		if cfg.required {
			return nil, fmt.Errorf("argdoc: required is not valid for positional %q", cfg.positional)
		}
		if dest == "" {
			dest = cfg.positional
		}
	}
	if dest == "" {
		return nil, fmt.Errorf("argdoc: cannot derive dest for %v", cfg.flags)
	}

	arg := &Argument{
		flags:        append([]string{}, cfg.flags...),
		positional:   cfg.positional,
		dest:         dest,
		action:       cfg.action,
		customAction: cfg.customAction,
		nargs:        cfg.nargs,
		constVal:     cfg.constVal,
		defaultVal:   cfg.defaultVal,
		converter:    cfg.converter,
		choices:      cfg.choices,
		required:     cfg.required,
		help:         cfg.help,
		metavar:      cfg.metavar,
		version:      cfg.version,
	}
	if cfg.customAction != "" {
		if handler, ok := LookupAction(cfg.customAction); ok {
			arg.handler = handler
		}
	}
	return arg, nil
}

// deriveDest picks the first long option, falling back to the first flag,
// strips prefix characters and normalizes dashes to underscores.
func deriveDest(flags []string, prefixChars string) string {
	chosen := flags[0]
	for _, flag := range flags {
		if len(flag) > 1 && strings.ContainsRune(prefixChars, rune(flag[0])) &&
			strings.ContainsRune(prefixChars, rune(flag[1])) {
			chosen = flag
			break
		}
	}
	trimmed := strings.TrimLeft(chosen, prefixChars)
	return strings.ReplaceAll(trimmed, "-", "_")
}
