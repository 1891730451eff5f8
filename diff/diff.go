// Package diff computes structural differences between two argdoc
// Documents. Arguments are matched by dest, groups by title, and
// commands by their primary name, so reordering unrelated siblings does
// not drown out the meaningful changes.
package diff

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/goliatone/go-argdoc"
)

// Kind classifies one diff entry.
type Kind string

const (
	KindAdded   Kind = "added"
	KindRemoved Kind = "removed"
	KindChanged Kind = "changed"
)

// Entry records one difference at a document path.
type Entry struct {
	Kind Kind   `json:"kind"`
	Path string `json:"path"`
	Old  any    `json:"old,omitempty"`
	New  any    `json:"new,omitempty"`
}

func (e Entry) String() string {
	switch e.Kind {
	case KindAdded:
		return fmt.Sprintf("+ %s = %v", e.Path, render(e.New))
	case KindRemoved:
		return fmt.Sprintf("- %s = %v", e.Path, render(e.Old))
	default:
		return fmt.Sprintf("~ %s: %v -> %v", e.Path, render(e.Old), render(e.New))
	}
}

func render(value any) any {
	if value == nil {
		return "<nil>"
	}
	return value
}

// Documents compares two documents and returns every difference found.
// A nil document is treated as empty. Environment metadata is ignored;
// it describes the producing machine, not the parser contract.
func Documents(old, new *argdoc.Document) []Entry {
	var out []Entry
	oldVersion, newVersion := 0, 0
	var oldRoot, newRoot *argdoc.ParserNode
	if old != nil {
		oldVersion = old.SchemaVersion
		oldRoot = old.Root
	}
	if new != nil {
		newVersion = new.SchemaVersion
		newRoot = new.Root
	}
	if oldVersion != newVersion {
		out = append(out, Entry{Kind: KindChanged, Path: "schema_version", Old: oldVersion, New: newVersion})
	}
	compareParsers("root", oldRoot, newRoot, &out)
	return out
}

func compareParsers(path string, old, new *argdoc.ParserNode, out *[]Entry) {
	if old == nil && new == nil {
		return
	}
	if old == nil {
		*out = append(*out, Entry{Kind: KindAdded, Path: path, New: describeParser(new)})
		return
	}
	if new == nil {
		*out = append(*out, Entry{Kind: KindRemoved, Path: path, Old: describeParser(old)})
		return
	}

	compareScalar(path+".prog", old.Prog, new.Prog, out)
	compareScalar(path+".description", old.Description, new.Description, out)
	compareScalar(path+".epilog", old.Epilog, new.Epilog, out)
	compareScalar(path+".usage", old.Usage, new.Usage, out)
	compareScalar(path+".formatter", old.Formatter, new.Formatter, out)
	compareScalar(path+".add_help", old.AddHelp, new.AddHelp, out)
	compareScalar(path+".allow_abbrev", old.AllowAbbrev, new.AllowAbbrev, out)
	compareScalar(path+".prefix_chars", old.PrefixChars, new.PrefixChars, out)
	compareScalar(path+".fromfile_prefix_chars", old.FromfilePrefixChars, new.FromfilePrefixChars, out)
	compareScalar(path+".conflict_handler", old.ConflictHandler, new.ConflictHandler, out)
	compareScalar(path+".exit_on_error", old.ExitOnError, new.ExitOnError, out)
	compareValue(path+".argument_default", old.ArgumentDefault, new.ArgumentDefault, out)

	compareArguments(path, old.Arguments, new.Arguments, out)
	compareGroups(path, old.Groups, new.Groups, out)
	compareMutexGroups(path, old.MutexGroups, new.MutexGroups, out)
	compareSubparsers(path, old.Subparsers, new.Subparsers, out)
}

func compareArguments(path string, old, new []*argdoc.ArgumentNode, out *[]Entry) {
	oldByDest := map[string]*argdoc.ArgumentNode{}
	for _, arg := range old {
		if arg != nil {
			oldByDest[arg.Dest] = arg
		}
	}
	seen := map[string]bool{}
	for _, arg := range new {
		if arg == nil {
			continue
		}
		seen[arg.Dest] = true
		argPath := fmt.Sprintf("%s.arguments[%s]", path, arg.Dest)
		prev, ok := oldByDest[arg.Dest]
		if !ok {
			*out = append(*out, Entry{Kind: KindAdded, Path: argPath, New: describeArgument(arg)})
			continue
		}
		compareArgument(argPath, prev, arg, out)
	}
	for _, arg := range old {
		if arg == nil || seen[arg.Dest] {
			continue
		}
		argPath := fmt.Sprintf("%s.arguments[%s]", path, arg.Dest)
		*out = append(*out, Entry{Kind: KindRemoved, Path: argPath, Old: describeArgument(arg)})
	}
}

func compareArgument(path string, old, new *argdoc.ArgumentNode, out *[]Entry) {
	compareValue(path+".flags", old.Flags, new.Flags, out)
	compareScalar(path+".action", old.Action, new.Action, out)
	compareScalar(path+".custom_action", old.CustomAction, new.CustomAction, out)
	compareValue(path+".nargs", old.Nargs, new.Nargs, out)
	compareValue(path+".const", old.Const, new.Const, out)
	compareValue(path+".default", old.Default, new.Default, out)
	compareValue(path+".type", old.Type, new.Type, out)
	compareValue(path+".choices", old.Choices, new.Choices, out)
	compareScalar(path+".required", old.Required, new.Required, out)
	compareScalar(path+".help", old.Help, new.Help, out)
	compareScalar(path+".metavar", old.Metavar, new.Metavar, out)
	compareScalar(path+".version", old.Version, new.Version, out)
}

func compareGroups(path string, old, new []*argdoc.GroupNode, out *[]Entry) {
	oldByTitle := map[string]*argdoc.GroupNode{}
	for _, group := range old {
		if group != nil {
			oldByTitle[group.Title] = group
		}
	}
	seen := map[string]bool{}
	for _, group := range new {
		if group == nil {
			continue
		}
		seen[group.Title] = true
		groupPath := fmt.Sprintf("%s.groups[%s]", path, group.Title)
		prev, ok := oldByTitle[group.Title]
		if !ok {
			*out = append(*out, Entry{Kind: KindAdded, Path: groupPath, New: group.Arguments})
			continue
		}
		compareScalar(groupPath+".description", prev.Description, group.Description, out)
		compareValue(groupPath+".arguments", prev.Arguments, group.Arguments, out)
	}
	for _, group := range old {
		if group == nil || seen[group.Title] {
			continue
		}
		groupPath := fmt.Sprintf("%s.groups[%s]", path, group.Title)
		*out = append(*out, Entry{Kind: KindRemoved, Path: groupPath, Old: group.Arguments})
	}
}

func compareMutexGroups(path string, old, new []*argdoc.MutexGroupNode, out *[]Entry) {
	max := len(old)
	if len(new) > max {
		max = len(new)
	}
	for i := 0; i < max; i++ {
		groupPath := fmt.Sprintf("%s.mutex_groups[%d]", path, i)
		switch {
		case i >= len(old):
			*out = append(*out, Entry{Kind: KindAdded, Path: groupPath, New: new[i].Arguments})
		case i >= len(new):
			*out = append(*out, Entry{Kind: KindRemoved, Path: groupPath, Old: old[i].Arguments})
		default:
			compareScalar(groupPath+".required", old[i].Required, new[i].Required, out)
			compareValue(groupPath+".arguments", old[i].Arguments, new[i].Arguments, out)
		}
	}
}

func compareSubparsers(path string, old, new *argdoc.SubparsersNode, out *[]Entry) {
	if old == nil && new == nil {
		return
	}
	subPath := path + ".subparsers"
	if old == nil {
		*out = append(*out, Entry{Kind: KindAdded, Path: subPath, New: commandNames(new)})
		return
	}
	if new == nil {
		*out = append(*out, Entry{Kind: KindRemoved, Path: subPath, Old: commandNames(old)})
		return
	}
	compareScalar(subPath+".dest", old.Dest, new.Dest, out)
	compareScalar(subPath+".title", old.Title, new.Title, out)
	compareScalar(subPath+".description", old.Description, new.Description, out)
	compareScalar(subPath+".required", old.Required, new.Required, out)

	oldByName := map[string]*argdoc.CommandNode{}
	for _, cmd := range old.Commands {
		if cmd != nil && len(cmd.Names) > 0 {
			oldByName[cmd.Names[0]] = cmd
		}
	}
	seen := map[string]bool{}
	for _, cmd := range new.Commands {
		if cmd == nil || len(cmd.Names) == 0 {
			continue
		}
		name := cmd.Names[0]
		seen[name] = true
		cmdPath := fmt.Sprintf("%s.commands[%s]", subPath, name)
		prev, ok := oldByName[name]
		if !ok {
			*out = append(*out, Entry{Kind: KindAdded, Path: cmdPath, New: describeParser(cmd.Parser)})
			continue
		}
		compareValue(cmdPath+".names", prev.Names, cmd.Names, out)
		compareParsers(cmdPath+".parser", prev.Parser, cmd.Parser, out)
	}
	for _, cmd := range old.Commands {
		if cmd == nil || len(cmd.Names) == 0 || seen[cmd.Names[0]] {
			continue
		}
		cmdPath := fmt.Sprintf("%s.commands[%s]", subPath, cmd.Names[0])
		*out = append(*out, Entry{Kind: KindRemoved, Path: cmdPath, Old: describeParser(cmd.Parser)})
	}
}

func compareScalar[T comparable](path string, old, new T, out *[]Entry) {
	if old == new {
		return
	}
	*out = append(*out, Entry{Kind: KindChanged, Path: path, Old: old, New: new})
}

// compareValue settles structured fields through a JSON round trip so
// semantically equal values with different in-memory shapes match.
func compareValue(path string, old, new any, out *[]Entry) {
	oldNorm := jsonClone(old)
	newNorm := jsonClone(new)
	if reflect.DeepEqual(oldNorm, newNorm) {
		return
	}
	*out = append(*out, Entry{Kind: KindChanged, Path: path, Old: oldNorm, New: newNorm})
}

func jsonClone(value any) any {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Sprintf("%v", value)
	}
	return out
}

func describeParser(node *argdoc.ParserNode) string {
	if node == nil {
		return ""
	}
	return fmt.Sprintf("parser %q (%d arguments)", node.Prog, len(node.Arguments))
}

func describeArgument(node *argdoc.ArgumentNode) string {
	if node == nil {
		return ""
	}
	if len(node.Flags) > 0 {
		return fmt.Sprintf("argument %s", node.Flags[0])
	}
	return fmt.Sprintf("positional %s", node.Dest)
}

func commandNames(node *argdoc.SubparsersNode) []string {
	if node == nil {
		return nil
	}
	var names []string
	for _, cmd := range node.Commands {
		if cmd != nil && len(cmd.Names) > 0 {
			names = append(names, cmd.Names[0])
		}
	}
	return names
}
