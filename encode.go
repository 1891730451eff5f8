package argdoc

import (
	"context"
	"errors"

	"github.com/goliatone/go-argdoc/pkg/audit"
)

// encodeParser walks one live parser level into its structured form:
// arguments first, then groups referencing them by dest, then subparsers
// recursively.
func encodeParser(p *Parser, cfg *dumpConfig) (*ParserNode, error) {
	argumentDefault, err := normalizeValue(p.argumentDefault)
	if err != nil {
		return nil, err
	}

	node := &ParserNode{
		Prog:                p.prog,
		Description:         p.description,
		Epilog:              p.epilog,
		Usage:               p.usage,
		Formatter:           string(p.formatter),
		AddHelp:             p.addHelp,
		AllowAbbrev:         p.allowAbbrev,
		PrefixChars:         p.prefixChars,
		FromfilePrefixChars: p.fromfilePrefixChars,
		ArgumentDefault:     argumentDefault,
		ConflictHandler:     p.conflictHandler,
		ExitOnError:         p.exitOnError,
		Arguments:           make([]*ArgumentNode, 0, len(p.arguments)),
	}

	for _, arg := range p.arguments {
		argNode, err := encodeArgument(p.prog, arg, cfg)
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, argNode)
	}

	for _, group := range p.groups {
		node.Groups = append(node.Groups, &GroupNode{
			Title:       group.title,
			Description: group.description,
			Arguments:   memberDests(group.members),
		})
	}

	for _, group := range p.mutexGroups {
		node.MutexGroups = append(node.MutexGroups, &MutexGroupNode{
			Required:  group.required,
			Arguments: memberDests(group.members),
		})
	}

	if p.subparsers != nil {
		sub := &SubparsersNode{
			Dest:        p.subparsers.dest,
			Title:       p.subparsers.title,
			Description: p.subparsers.description,
			Required:    p.subparsers.required,
			Commands:    make([]*CommandNode, 0, len(p.subparsers.commands)),
		}
		for _, cmd := range p.subparsers.commands {
			child, err := encodeParser(cmd.parser, cfg)
			if err != nil {
				return nil, err
			}
			sub.Commands = append(sub.Commands, &CommandNode{
				Names:  append([]string{}, cmd.names...),
				Parser: child,
			})
		}
		node.Subparsers = sub
	}

	return node, nil
}

func encodeArgument(prog string, arg *Argument, cfg *dumpConfig) (*ArgumentNode, error) {
	constVal, err := normalizeValue(arg.constVal)
	if err != nil {
		return nil, err
	}
	defaultVal, err := normalizeValue(arg.defaultVal)
	if err != nil {
		return nil, err
	}
	choices, err := normalizeValues(arg.choices)
	if err != nil {
		return nil, err
	}

	node := &ArgumentNode{
		Flags:        append([]string{}, arg.flags...),
		Dest:         arg.dest,
		Action:       string(arg.action),
		CustomAction: arg.customAction,
		Nargs:        arg.Nargs(),
		Const:        constVal,
		Default:      defaultVal,
		Choices:      choices,
		Required:     arg.required,
		Help:         arg.help,
		Metavar:      arg.metavar,
		Version:      arg.version,
	}

	ref, err := converterRef(arg.dest, arg.converter)
	if err != nil {
		var unrep *UnrepresentableConverterError
		if !errors.As(err, &unrep) || cfg.strict {
			return nil, err
		}
		// Non-strict dump drops the converter but keeps the degradation
		// observable through the logger and audit hooks.
		cfg.logger.LogCodec(LogEvent{
			Op:     "dump",
			Prog:   prog,
			Dest:   arg.dest,
			Detail: unrep.Detail,
			Err:    err,
		})
		cfg.emitter.Emit(context.Background(), audit.Event{
			Verb:   audit.VerbDegrade,
			Prog:   prog,
			Dest:   arg.dest,
			Detail: unrep.Detail,
		})
		return node, nil
	}
	node.Type = ref
	return node, nil
}

func memberDests(members []*Argument) []string {
	dests := make([]string, 0, len(members))
	for _, member := range members {
		dests = append(dests, member.dest)
	}
	return dests
}
