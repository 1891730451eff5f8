package argdoc

import (
	"fmt"
	"slices"
)

// Formatter identifies the help-formatting style a parser asks for. The
// value is advisory metadata carried through documents verbatim.
type Formatter string

const (
	FormatterDefault          Formatter = "default"
	FormatterRawDescription   Formatter = "raw_description"
	FormatterRawText          Formatter = "raw_text"
	FormatterArgumentDefaults Formatter = "argument_defaults"
	FormatterMetavarType      Formatter = "metavar_type"
)

// Parser is one live level of a command-line definition: an ordered argument
// list, groups over those arguments, and optionally a set of named
// subcommands, each itself a Parser.
type Parser struct {
	prog                string
	description         string
	epilog              string
	usage               string
	formatter           Formatter
	addHelp             bool
	allowAbbrev         bool
	prefixChars         string
	fromfilePrefixChars string
	argumentDefault     any
	conflictHandler     string
	exitOnError         bool

	arguments   []*Argument
	dests       map[string]*Argument
	groups      []*Group
	mutexGroups []*MutexGroup
	subparsers  *Subparsers

	env   *EnvMetadata
	notes []Note
}

// ParserOption configures a Parser under construction.
type ParserOption func(*parserConfig)

type parserConfig struct {
	description         string
	epilog              string
	usage               string
	formatter           Formatter
	addHelp             bool
	allowAbbrev         bool
	prefixChars         string
	fromfilePrefixChars string
	argumentDefault     any
	conflictHandler     string
	exitOnError         bool
	aliases             []string
}

func applyParserOptions(opts []ParserOption) parserConfig {
	cfg := parserConfig{
		formatter:       FormatterDefault,
		addHelp:         true,
		allowAbbrev:     true,
		prefixChars:     "-",
		conflictHandler: "error",
		exitOnError:     true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithDescription sets the text shown before the argument help.
func WithDescription(description string) ParserOption {
	return func(cfg *parserConfig) {
		cfg.description = description
	}
}

// WithEpilog sets the text shown after the argument help.
func WithEpilog(epilog string) ParserOption {
	return func(cfg *parserConfig) {
		cfg.epilog = epilog
	}
}

// WithUsage overrides the generated usage string.
func WithUsage(usage string) ParserOption {
	return func(cfg *parserConfig) {
		cfg.usage = usage
	}
}

// WithFormatter selects the help-formatting style.
func WithFormatter(formatter Formatter) ParserOption {
	return func(cfg *parserConfig) {
		cfg.formatter = formatter
	}
}

// WithAddHelp toggles the implicit help option.
func WithAddHelp(addHelp bool) ParserOption {
	return func(cfg *parserConfig) {
		cfg.addHelp = addHelp
	}
}

// WithAllowAbbrev toggles unambiguous long-option abbreviation.
func WithAllowAbbrev(allow bool) ParserOption {
	return func(cfg *parserConfig) {
		cfg.allowAbbrev = allow
	}
}

// WithPrefixChars sets the characters option strings start with.
func WithPrefixChars(chars string) ParserOption {
	return func(cfg *parserConfig) {
		if chars != "" {
			cfg.prefixChars = chars
		}
	}
}

// WithFromfilePrefixChars enables @file-style argument files.
func WithFromfilePrefixChars(chars string) ParserOption {
	return func(cfg *parserConfig) {
		cfg.fromfilePrefixChars = chars
	}
}

// WithArgumentDefault sets the parser-wide default value.
func WithArgumentDefault(value any) ParserOption {
	return func(cfg *parserConfig) {
		cfg.argumentDefault = value
	}
}

// WithConflictHandler sets the policy for conflicting option strings.
func WithConflictHandler(handler string) ParserOption {
	return func(cfg *parserConfig) {
		if handler != "" {
			cfg.conflictHandler = handler
		}
	}
}

// WithExitOnError toggles exit-versus-error behavior in the host engine.
func WithExitOnError(exit bool) ParserOption {
	return func(cfg *parserConfig) {
		cfg.exitOnError = exit
	}
}

// WithAliases sets alternate command names. It only has an effect on
// parsers added through Subparsers.AddParser.
func WithAliases(aliases ...string) ParserOption {
	return func(cfg *parserConfig) {
		cfg.aliases = append([]string{}, aliases...)
	}
}

// New constructs an empty Parser for prog.
func New(prog string, opts ...ParserOption) *Parser {
	cfg := applyParserOptions(opts)
	return &Parser{
		prog:                prog,
		description:         cfg.description,
		epilog:              cfg.epilog,
		usage:               cfg.usage,
		formatter:           cfg.formatter,
		addHelp:             cfg.addHelp,
		allowAbbrev:         cfg.allowAbbrev,
		prefixChars:         cfg.prefixChars,
		fromfilePrefixChars: cfg.fromfilePrefixChars,
		argumentDefault:     cfg.argumentDefault,
		conflictHandler:     cfg.conflictHandler,
		exitOnError:         cfg.exitOnError,
		dests:               map[string]*Argument{},
	}
}

// Add defines a new argument on the parser.
func (p *Parser) Add(opts ...ArgOption) (*Argument, error) {
	arg, err := newArgument(applyArgOptions(opts), p.prefixChars)
	if err != nil {
		return nil, err
	}
	if err := p.attach(arg); err != nil {
		return nil, err
	}
	return arg, nil
}

func (p *Parser) attach(arg *Argument) error {
	if _, exists := p.dests[arg.dest]; exists {
		return fmt.Errorf("argdoc: duplicate dest %q on parser %q", arg.dest, p.prog)
	}
	p.arguments = append(p.arguments, arg)
	p.dests[arg.dest] = arg
	return nil
}

// Lookup returns the argument registered under dest.
func (p *Parser) Lookup(dest string) (*Argument, bool) {
	arg, ok := p.dests[dest]
	return arg, ok
}

// Prog returns the program name.
func (p *Parser) Prog() string { return p.prog }

// Description returns the pre-help description text.
func (p *Parser) Description() string { return p.description }

// Epilog returns the post-help text.
func (p *Parser) Epilog() string { return p.epilog }

// Usage returns the usage override, or "".
func (p *Parser) Usage() string { return p.usage }

// FormatterKind returns the help-formatting style.
func (p *Parser) FormatterKind() Formatter { return p.formatter }

// AddHelp reports whether the implicit help option is enabled.
func (p *Parser) AddHelp() bool { return p.addHelp }

// AllowAbbrev reports whether long-option abbreviation is enabled.
func (p *Parser) AllowAbbrev() bool { return p.allowAbbrev }

// PrefixChars returns the option prefix characters.
func (p *Parser) PrefixChars() string { return p.prefixChars }

// FromfilePrefixChars returns the argument-file prefix characters, or "".
func (p *Parser) FromfilePrefixChars() string { return p.fromfilePrefixChars }

// ArgumentDefault returns the parser-wide default value.
func (p *Parser) ArgumentDefault() any { return p.argumentDefault }

// ConflictHandler returns the conflicting-option policy.
func (p *Parser) ConflictHandler() string { return p.conflictHandler }

// ExitOnError reports the host engine's error behavior preference.
func (p *Parser) ExitOnError() bool { return p.exitOnError }

// Arguments returns the arguments in definition order.
func (p *Parser) Arguments() []*Argument {
	return append([]*Argument{}, p.arguments...)
}

// Groups returns the argument groups in definition order.
func (p *Parser) Groups() []*Group {
	return append([]*Group{}, p.groups...)
}

// MutexGroups returns the mutually exclusive groups in definition order.
func (p *Parser) MutexGroups() []*MutexGroup {
	return append([]*MutexGroup{}, p.mutexGroups...)
}

// Commands returns the subcommand set, or nil.
func (p *Parser) Commands() *Subparsers { return p.subparsers }

// Env returns the environment metadata a loaded parser was dumped with, or
// nil. It is informational and never affects reconstruction.
func (p *Parser) Env() *EnvMetadata { return p.env }

// Notes returns the degradations recorded while loading this parser in
// non-strict mode.
func (p *Parser) Notes() []Note {
	return append([]Note{}, p.notes...)
}

// Group organizes arguments for help output. Members belong to the owning
// parser's argument list; the group only references them.
type Group struct {
	title       string
	description string
	members     []*Argument
	parser      *Parser
}

// AddGroup creates a titled argument group on the parser.
func (p *Parser) AddGroup(title, description string) *Group {
	g := &Group{title: title, description: description, parser: p}
	p.groups = append(p.groups, g)
	return g
}

// Add defines a new argument on the owning parser and places it in the
// group.
func (g *Group) Add(opts ...ArgOption) (*Argument, error) {
	arg, err := g.parser.Add(opts...)
	if err != nil {
		return nil, err
	}
	g.members = append(g.members, arg)
	return arg, nil
}

func (g *Group) adopt(arg *Argument) {
	g.members = append(g.members, arg)
}

// Title returns the group title.
func (g *Group) Title() string { return g.title }

// Description returns the group description.
func (g *Group) Description() string { return g.description }

// Members returns the grouped arguments in order.
func (g *Group) Members() []*Argument {
	return append([]*Argument{}, g.members...)
}

// MutexGroup is a set of arguments of which at most one (exactly one when
// required) may be supplied together.
type MutexGroup struct {
	required bool
	members  []*Argument
	parser   *Parser
}

// AddMutexGroup creates a mutually exclusive group on the parser.
func (p *Parser) AddMutexGroup(required bool) *MutexGroup {
	m := &MutexGroup{required: required, parser: p}
	p.mutexGroups = append(p.mutexGroups, m)
	return m
}

// Add defines a new argument on the owning parser and places it in the
// group.
func (m *MutexGroup) Add(opts ...ArgOption) (*Argument, error) {
	arg, err := m.parser.Add(opts...)
	if err != nil {
		return nil, err
	}
	m.members = append(m.members, arg)
	return arg, nil
}

func (m *MutexGroup) adopt(arg *Argument) {
	m.members = append(m.members, arg)
}

// Required reports whether one member must be supplied.
func (m *MutexGroup) Required() bool { return m.required }

// Members returns the grouped arguments in order.
func (m *MutexGroup) Members() []*Argument {
	return append([]*Argument{}, m.members...)
}

// SubparsersOption configures a parser's subcommand set.
type SubparsersOption func(*Subparsers)

// SubparsersTitle sets the help section title for the subcommand list.
func SubparsersTitle(title string) SubparsersOption {
	return func(s *Subparsers) {
		s.title = title
	}
}

// SubparsersDescription sets the help description for the subcommand list.
func SubparsersDescription(description string) SubparsersOption {
	return func(s *Subparsers) {
		s.description = description
	}
}

// SubparsersRequired makes selecting a subcommand mandatory.
func SubparsersRequired(required bool) SubparsersOption {
	return func(s *Subparsers) {
		s.required = required
	}
}

// Subparsers is the ordered subcommand set owned by one parser.
type Subparsers struct {
	dest        string
	title       string
	description string
	required    bool
	commands    []*Command
	parser      *Parser
}

// Command binds a primary name plus aliases to one child parser.
type Command struct {
	names  []string
	parser *Parser
}

// Names returns the command's names; the first entry is the primary name.
func (c *Command) Names() []string {
	return append([]string{}, c.names...)
}

// Parser returns the child parser shared by every name in the set.
func (c *Command) Parser() *Parser { return c.parser }

// AddSubparsers declares the subcommand set for the parser. A parser owns
// at most one.
func (p *Parser) AddSubparsers(dest string, opts ...SubparsersOption) (*Subparsers, error) {
	if p.subparsers != nil {
		return nil, fmt.Errorf("argdoc: parser %q already has subparsers", p.prog)
	}
	if dest == "" {
		return nil, fmt.Errorf("argdoc: subparsers need a dest name")
	}
	s := &Subparsers{dest: dest, parser: p}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	p.subparsers = s
	return s, nil
}

// AddParser registers a new subcommand named name (plus any WithAliases)
// and returns its child parser.
func (s *Subparsers) AddParser(name string, opts ...ParserOption) (*Parser, error) {
	cfg := applyParserOptions(opts)
	child := New(name, opts...)
	names := append([]string{name}, cfg.aliases...)
	if err := s.addCommand(names, child); err != nil {
		return nil, err
	}
	return child, nil
}

func (s *Subparsers) addCommand(names []string, child *Parser) error {
	if len(names) == 0 {
		return fmt.Errorf("argdoc: subcommand needs at least one name")
	}
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("argdoc: subcommand name must not be empty")
		}
		for _, existing := range s.commands {
			if slices.Contains(existing.names, name) {
				return fmt.Errorf("argdoc: subcommand %q already registered", name)
			}
		}
	}
	s.commands = append(s.commands, &Command{
		names:  append([]string{}, names...),
		parser: child,
	})
	return nil
}

// Dest returns the namespace slot the selected command name is stored in.
func (s *Subparsers) Dest() string { return s.dest }

// Title returns the help section title.
func (s *Subparsers) Title() string { return s.title }

// Description returns the help description.
func (s *Subparsers) Description() string { return s.description }

// Required reports whether selecting a subcommand is mandatory.
func (s *Subparsers) Required() bool { return s.required }

// List returns the commands in registration order.
func (s *Subparsers) List() []*Command {
	return append([]*Command{}, s.commands...)
}

// Command resolves name (primary or alias) to its child parser.
func (s *Subparsers) Command(name string) (*Parser, bool) {
	if s == nil {
		return nil, false
	}
	for _, cmd := range s.commands {
		if slices.Contains(cmd.names, name) {
			return cmd.parser, true
		}
	}
	return nil, false
}
