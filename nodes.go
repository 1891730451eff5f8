package argdoc

// Document is the top-level envelope for a dumped parser definition. It is a
// pure tree: no node is shared and nothing points back at an ancestor.
type Document struct {
	SchemaVersion int          `json:"schema_version"`
	Env           *EnvMetadata `json:"env,omitempty"`
	Root          *ParserNode  `json:"root"`
}

// EnvMetadata records reproducibility facts about the environment a document
// was produced in. It is informational only and never consulted during
// reconstruction.
type EnvMetadata struct {
	ToolVersion string `json:"tool_version"`
	GoVersion   string `json:"go_version"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	CreatedAt   string `json:"created_at"`
	SnapshotID  string `json:"snapshot_id"`
}

// ParserNode is the structured form of one parser level: its own arguments,
// its groups, and any nested subcommands.
type ParserNode struct {
	Prog                string `json:"prog"`
	Description         string `json:"description,omitempty"`
	Epilog              string `json:"epilog,omitempty"`
	Usage               string `json:"usage,omitempty"`
	Formatter           string `json:"formatter,omitempty"`
	AddHelp             bool   `json:"add_help"`
	AllowAbbrev         bool   `json:"allow_abbrev"`
	PrefixChars         string `json:"prefix_chars,omitempty"`
	FromfilePrefixChars string `json:"fromfile_prefix_chars,omitempty"`
	ArgumentDefault     any    `json:"argument_default,omitempty"`
	ConflictHandler     string `json:"conflict_handler,omitempty"`
	ExitOnError         bool   `json:"exit_on_error"`

	Arguments   []*ArgumentNode   `json:"arguments"`
	Groups      []*GroupNode      `json:"groups,omitempty"`
	MutexGroups []*MutexGroupNode `json:"mutex_groups,omitempty"`
	Subparsers  *SubparsersNode   `json:"subparsers,omitempty"`
}

// ArgumentNode is the structured form of a single argument definition.
// Flags is empty for positionals; Dest identifies the argument within its
// owning ParserNode.
type ArgumentNode struct {
	Flags        []string `json:"flags,omitempty"`
	Dest         string   `json:"dest"`
	Action       string   `json:"action"`
	CustomAction string   `json:"custom_action,omitempty"`
	Nargs        *Nargs   `json:"nargs,omitempty"`
	Const        any      `json:"const,omitempty"`
	Default      any      `json:"default,omitempty"`
	Type         *TypeRef `json:"type,omitempty"`
	Choices      []any    `json:"choices,omitempty"`
	Required     bool     `json:"required,omitempty"`
	Help         string   `json:"help,omitempty"`
	Metavar      string   `json:"metavar,omitempty"`
	Version      string   `json:"version,omitempty"`
}

// GroupNode records a help-organization group. Arguments lists member dests;
// members always also appear in the owning ParserNode's argument list.
type GroupNode struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Arguments   []string `json:"arguments"`
}

// MutexGroupNode records a mutually exclusive group by member dests.
type MutexGroupNode struct {
	Required  bool     `json:"required,omitempty"`
	Arguments []string `json:"arguments"`
}

// SubparsersNode records the subcommand set owned by a parser. Commands keep
// their registration order; alias sets map to a single shared ParserNode.
type SubparsersNode struct {
	Dest        string         `json:"dest"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required,omitempty"`
	Commands    []*CommandNode `json:"commands"`
}

// CommandNode binds one or more command names to a child parser definition.
type CommandNode struct {
	Names  []string    `json:"names"`
	Parser *ParserNode `json:"parser"`
}
