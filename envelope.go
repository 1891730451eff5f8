package argdoc

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/goliatone/go-argdoc/internal/envinfo"
	"github.com/goliatone/go-argdoc/pkg/audit"
)

// SchemaVersion is the document schema version this build writes.
const SchemaVersion = 1

var supportedSchemaVersions = []int{1}

// SupportedSchemaVersions returns the schema versions this build can load.
func SupportedSchemaVersions() []int {
	return append([]int{}, supportedSchemaVersions...)
}

// DumpOption configures one Dump call.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	includeEnv bool
	strict     bool
	logger     Logger
	emitter    *audit.Emitter
}

func applyDumpOptions(opts []DumpOption) *dumpConfig {
	cfg := &dumpConfig{
		includeEnv: true,
		strict:     true,
		logger:     noopLogger{},
		emitter:    audit.NewEmitter(nil, audit.Config{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithoutEnv omits the environment metadata block from the document.
func WithoutEnv() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.includeEnv = false
	}
}

// DumpNonStrict downgrades unrepresentable converters to an absent type
// reference instead of failing the dump. Every drop is reported through the
// logger and audit hooks.
func DumpNonStrict() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.strict = false
	}
}

// DumpWithLogger attaches a codec logger to the dump.
func DumpWithLogger(logger Logger) DumpOption {
	return func(cfg *dumpConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// DumpWithHooks fans dump and degradation events out to hooks.
func DumpWithHooks(hooks ...audit.Hook) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.emitter = audit.NewEmitter(audit.Hooks(hooks), audit.Config{Enabled: true})
	}
}

// Dump serializes a live parser into a versioned Document. The parser graph
// is walked once, top-down; the caller must not mutate it concurrently.
func Dump(p *Parser, opts ...DumpOption) (*Document, error) {
	if p == nil {
		return nil, fmt.Errorf("argdoc: parser must not be nil")
	}
	cfg := applyDumpOptions(opts)

	start := time.Now()
	root, err := encodeParser(p, cfg)
	cfg.logger.LogCodec(LogEvent{
		Op:       "dump",
		Prog:     p.prog,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}

	doc := &Document{
		SchemaVersion: SchemaVersion,
		Root:          root,
	}
	if cfg.includeEnv {
		snapshot := envinfo.Collect()
		doc.Env = &EnvMetadata{
			ToolVersion: Version,
			GoVersion:   snapshot.GoVersion,
			OS:          snapshot.OS,
			Arch:        snapshot.Arch,
			CreatedAt:   snapshot.CreatedAt,
			SnapshotID:  snapshot.SnapshotID,
		}
	}

	cfg.emitter.Emit(context.Background(), audit.Event{
		Verb: audit.VerbDump,
		Prog: p.prog,
	})
	return doc, nil
}

// LoadOption configures one Load call.
type LoadOption func(*loadConfig)

type loadConfig struct {
	strict  bool
	logger  Logger
	emitter *audit.Emitter
	engines map[string]ConverterEngine
	notes   []Note
}

func applyLoadOptions(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{
		strict:  true,
		logger:  noopLogger{},
		emitter: audit.NewEmitter(nil, audit.Config{}),
		engines: defaultConverterEngines(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// NonStrict downgrades unresolved type references to an absent converter
// instead of failing the load. Structural errors (dangling group members,
// unsupported schema versions, unresolvable action classes) stay fatal.
func NonStrict() LoadOption {
	return func(cfg *loadConfig) {
		cfg.strict = false
	}
}

// LoadWithLogger attaches a codec logger to the load.
func LoadWithLogger(logger Logger) LoadOption {
	return func(cfg *loadConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// LoadWithHooks fans load and degradation events out to hooks.
func LoadWithHooks(hooks ...audit.Hook) LoadOption {
	return func(cfg *loadConfig) {
		cfg.emitter = audit.NewEmitter(audit.Hooks(hooks), audit.Config{Enabled: true})
	}
}

// WithConverterEngine replaces or adds the engine used to recompile expr
// references, keyed by the engine's name.
func WithConverterEngine(engine ConverterEngine) LoadOption {
	return func(cfg *loadConfig) {
		if engine == nil {
			return
		}
		cfg.engines[engine.Name()] = engine
	}
}

// Load reconstructs a live parser from a Document. The schema version is
// validated before any decoding happens; environment metadata is attached
// to the returned parser without influencing reconstruction.
func Load(doc *Document, opts ...LoadOption) (*Parser, error) {
	if doc == nil {
		return nil, fmt.Errorf("argdoc: document must not be nil")
	}
	if !slices.Contains(supportedSchemaVersions, doc.SchemaVersion) {
		return nil, &UnsupportedSchemaVersionError{
			Version:   doc.SchemaVersion,
			Supported: SupportedSchemaVersions(),
		}
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("argdoc: document has no root parser")
	}
	cfg := applyLoadOptions(opts)

	start := time.Now()
	p, err := decodeParser(doc.Root, cfg)
	cfg.logger.LogCodec(LogEvent{
		Op:       "load",
		Prog:     doc.Root.Prog,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}

	if doc.Env != nil {
		env := *doc.Env
		p.env = &env
		if note, ok := newerToolNote(doc.Env.ToolVersion); ok {
			cfg.notes = append(cfg.notes, note)
			cfg.logger.LogCodec(LogEvent{
				Op:     "load",
				Prog:   doc.Root.Prog,
				Detail: note.Detail,
			})
		}
	}
	p.notes = cfg.notes

	cfg.emitter.Emit(context.Background(), audit.Event{
		Verb: audit.VerbLoad,
		Prog: doc.Root.Prog,
	})
	return p, nil
}

// newerToolNote flags documents produced by a newer go-argdoc release.
// Version strings that do not parse as semver are ignored.
func newerToolNote(toolVersion string) (Note, bool) {
	if toolVersion == "" {
		return Note{}, false
	}
	current, err := semver.NewVersion(Version)
	if err != nil {
		return Note{}, false
	}
	produced, err := semver.NewVersion(toolVersion)
	if err != nil {
		return Note{}, false
	}
	if !produced.GreaterThan(current) {
		return Note{}, false
	}
	return Note{
		Op:     "load",
		Detail: fmt.Sprintf("document produced by go-argdoc %s, newer than this build (%s)", toolVersion, Version),
	}, true
}
