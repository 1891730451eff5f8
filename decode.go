package argdoc

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-argdoc/pkg/audit"
)

// decodeParser rebuilds one live parser level from its structured form. The
// shell comes first, then every argument in original order (order drives
// help text and positional matching), then groups re-attached by dest, then
// subparsers recursively.
func decodeParser(node *ParserNode, cfg *loadConfig) (*Parser, error) {
	if node == nil {
		return nil, fmt.Errorf("argdoc: document has no parser node")
	}
	if err := checkGroupReferences(node); err != nil {
		return nil, err
	}

	opts := []ParserOption{
		WithDescription(node.Description),
		WithEpilog(node.Epilog),
		WithUsage(node.Usage),
		WithAddHelp(node.AddHelp),
		WithAllowAbbrev(node.AllowAbbrev),
		WithPrefixChars(node.PrefixChars),
		WithFromfilePrefixChars(node.FromfilePrefixChars),
		WithConflictHandler(node.ConflictHandler),
		WithExitOnError(node.ExitOnError),
	}
	if node.Formatter != "" {
		opts = append(opts, WithFormatter(Formatter(node.Formatter)))
	}
	if node.ArgumentDefault != nil {
		opts = append(opts, WithArgumentDefault(denormalizeValue(node.ArgumentDefault)))
	}
	p := New(node.Prog, opts...)

	// Mutex groups are created up front in document order so member
	// arguments land in them as they are decoded.
	mutexByDest := map[string]*MutexGroup{}
	for _, groupNode := range node.MutexGroups {
		group := p.AddMutexGroup(groupNode.Required)
		for _, dest := range groupNode.Arguments {
			if _, claimed := mutexByDest[dest]; !claimed {
				mutexByDest[dest] = group
			}
		}
	}

	for _, argNode := range node.Arguments {
		argOpts, err := decodeArgument(node.Prog, argNode, cfg)
		if err != nil {
			return nil, err
		}
		if group, ok := mutexByDest[argNode.Dest]; ok {
			if _, err := group.Add(argOpts...); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := p.Add(argOpts...); err != nil {
			return nil, err
		}
	}

	for _, groupNode := range node.Groups {
		group := p.AddGroup(groupNode.Title, groupNode.Description)
		for _, dest := range groupNode.Arguments {
			arg, ok := p.Lookup(dest)
			if !ok {
				return nil, &DanglingGroupReferenceError{Group: groupNode.Title, Dest: dest}
			}
			group.adopt(arg)
		}
	}

	if node.Subparsers != nil {
		sub, err := p.AddSubparsers(node.Subparsers.Dest,
			SubparsersTitle(node.Subparsers.Title),
			SubparsersDescription(node.Subparsers.Description),
			SubparsersRequired(node.Subparsers.Required),
		)
		if err != nil {
			return nil, err
		}
		for _, cmdNode := range node.Subparsers.Commands {
			child, err := decodeParser(cmdNode.Parser, cfg)
			if err != nil {
				return nil, err
			}
			if err := sub.addCommand(cmdNode.Names, child); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// checkGroupReferences verifies every group member dest is present in the
// node's own argument list. This is structural integrity, never downgraded
// by non-strict loading.
func checkGroupReferences(node *ParserNode) error {
	dests := make(map[string]bool, len(node.Arguments))
	for _, argNode := range node.Arguments {
		dests[argNode.Dest] = true
	}
	for _, groupNode := range node.Groups {
		for _, dest := range groupNode.Arguments {
			if !dests[dest] {
				return &DanglingGroupReferenceError{Group: groupNode.Title, Dest: dest}
			}
		}
	}
	for i, groupNode := range node.MutexGroups {
		for _, dest := range groupNode.Arguments {
			if !dests[dest] {
				return &DanglingGroupReferenceError{
					Group: fmt.Sprintf("mutex[%d]", i),
					Dest:  dest,
				}
			}
		}
	}
	return nil
}

func decodeArgument(prog string, node *ArgumentNode, cfg *loadConfig) ([]ArgOption, error) {
	opts := []ArgOption{}
	if len(node.Flags) > 0 {
		opts = append(opts, WithFlags(node.Flags...), WithDest(node.Dest))
	} else {
		opts = append(opts, WithPositional(node.Dest))
	}

	// An action governs behavior, not just conversion, so an unknown kind
	// is fatal regardless of strictness.
	if node.CustomAction != "" {
		if _, ok := LookupAction(node.CustomAction); !ok {
			return nil, &UnresolvableActionClassError{Dest: node.Dest, Name: node.CustomAction}
		}
		opts = append(opts, WithCustomAction(node.CustomAction))
	} else {
		kind, known := ParseActionKind(node.Action)
		if !known {
			return nil, &UnresolvableActionClassError{Dest: node.Dest, Name: node.Action}
		}
		if kind == ActionCustom {
			return nil, &UnresolvableActionClassError{Dest: node.Dest, Name: node.Action}
		}
		opts = append(opts, WithAction(kind))
	}

	if node.Nargs != nil {
		opts = append(opts, WithNargs(*node.Nargs))
	}
	if node.Const != nil {
		opts = append(opts, WithConst(denormalizeValue(node.Const)))
	}
	if node.Default != nil {
		opts = append(opts, WithDefault(denormalizeValue(node.Default)))
	}
	if node.Choices != nil {
		opts = append(opts, WithChoices(denormalizeValues(node.Choices)...))
	}
	if node.Required {
		opts = append(opts, WithRequired(true))
	}
	if node.Help != "" {
		opts = append(opts, WithHelp(node.Help))
	}
	if node.Metavar != "" {
		opts = append(opts, WithMetavar(node.Metavar))
	}
	if node.Version != "" {
		opts = append(opts, WithVersion(node.Version))
	}

	converter, err := resolveTypeRef(node.Dest, node.Type, cfg.engines)
	if err != nil {
		var unresolvable *UnresolvableTypeError
		if !errors.As(err, &unresolvable) || cfg.strict {
			return nil, err
		}
		// Non-strict load substitutes an absent converter; tokens will pass
		// through as strings. Every substitution is recorded.
		note := Note{
			Op:     "load",
			Dest:   node.Dest,
			Path:   unresolvable.Path,
			Detail: "type reference dropped: " + unresolvable.Error(),
		}
		cfg.notes = append(cfg.notes, note)
		cfg.logger.LogCodec(LogEvent{
			Op:     "load",
			Prog:   prog,
			Dest:   node.Dest,
			Path:   unresolvable.Path,
			Detail: note.Detail,
			Err:    err,
		})
		cfg.emitter.Emit(context.Background(), audit.Event{
			Verb:   audit.VerbDegrade,
			Prog:   prog,
			Dest:   node.Dest,
			Path:   unresolvable.Path,
			Detail: note.Detail,
		})
		return opts, nil
	}
	if converter != nil {
		opts = append(opts, WithType(converter))
	}
	return opts, nil
}
