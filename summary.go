package argdoc

// ArgumentSummary is a flattened, human-oriented view of one argument in a
// document. Paths are space-joined command chains starting at the root prog.
type ArgumentSummary struct {
	Path     string   `json:"path"`
	Dest     string   `json:"dest"`
	Flags    []string `json:"flags,omitempty"`
	Action   string   `json:"action"`
	Nargs    string   `json:"nargs,omitempty"`
	Type     string   `json:"type,omitempty"`
	Required bool     `json:"required"`
	Help     string   `json:"help,omitempty"`
}

// Summarize flattens a parser tree into per-argument descriptors, walking
// subcommands depth-first in document order. A nil node yields nil.
func Summarize(node *ParserNode) []ArgumentSummary {
	if node == nil {
		return nil
	}
	var out []ArgumentSummary
	summarizeParser(node, node.Prog, &out)
	return out
}

func summarizeParser(node *ParserNode, path string, out *[]ArgumentSummary) {
	for _, arg := range node.Arguments {
		if arg == nil {
			continue
		}
		*out = append(*out, summarizeArgument(path, arg))
	}
	if node.Subparsers == nil {
		return
	}
	for _, cmd := range node.Subparsers.Commands {
		if cmd == nil || cmd.Parser == nil || len(cmd.Names) == 0 {
			continue
		}
		summarizeParser(cmd.Parser, path+" "+cmd.Names[0], out)
	}
}

func summarizeArgument(path string, arg *ArgumentNode) ArgumentSummary {
	summary := ArgumentSummary{
		Path:     path,
		Dest:     arg.Dest,
		Flags:    append([]string{}, arg.Flags...),
		Action:   arg.Action,
		Required: arg.Required,
		Help:     arg.Help,
	}
	if arg.Action == string(ActionCustom) && arg.CustomAction != "" {
		summary.Action = arg.CustomAction
	}
	if arg.Nargs != nil {
		summary.Nargs = arg.Nargs.String()
	}
	if arg.Type != nil {
		summary.Type = arg.Type.Describe()
	}
	return summary
}

// CommandPaths lists every command path reachable in the tree, root first.
func CommandPaths(node *ParserNode) []string {
	if node == nil {
		return nil
	}
	var out []string
	walkPaths(node, node.Prog, &out)
	return out
}

func walkPaths(node *ParserNode, path string, out *[]string) {
	*out = append(*out, path)
	if node.Subparsers == nil {
		return
	}
	for _, cmd := range node.Subparsers.Commands {
		if cmd == nil || cmd.Parser == nil || len(cmd.Names) == 0 {
			continue
		}
		walkPaths(cmd.Parser, path+" "+cmd.Names[0], out)
	}
}
