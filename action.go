package argdoc

import (
	"fmt"
	"sort"
	"sync"
)

// ActionKind enumerates the behavior an argument triggers when supplied.
type ActionKind string

const (
	ActionStore           ActionKind = "store"
	ActionStoreConst      ActionKind = "store_const"
	ActionStoreTrue       ActionKind = "store_true"
	ActionStoreFalse      ActionKind = "store_false"
	ActionAppend          ActionKind = "append"
	ActionAppendConst     ActionKind = "append_const"
	ActionCount           ActionKind = "count"
	ActionHelp            ActionKind = "help"
	ActionVersion         ActionKind = "version"
	ActionExtend          ActionKind = "extend"
	ActionBooleanOptional ActionKind = "boolean_optional"
	// ActionCustom marks an argument driven by a registered ActionHandler;
	// the handler name travels separately in the document.
	ActionCustom ActionKind = "custom"
)

var knownActionKinds = map[ActionKind]bool{
	ActionStore:           true,
	ActionStoreConst:      true,
	ActionStoreTrue:       true,
	ActionStoreFalse:      true,
	ActionAppend:          true,
	ActionAppendConst:     true,
	ActionCount:           true,
	ActionHelp:            true,
	ActionVersion:         true,
	ActionExtend:          true,
	ActionBooleanOptional: true,
	ActionCustom:          true,
}

// ParseActionKind maps a document action string onto the closed enumeration.
// The second result is false for strings outside the recognized set.
func ParseActionKind(value string) (ActionKind, bool) {
	kind := ActionKind(value)
	return kind, knownActionKinds[kind]
}

// ActionHandler implements a custom action kind. It receives the argument
// definition and the raw tokens consumed for one occurrence and produces the
// value to store. Execution is owned by the host parsing engine; this
// package only records and restores the binding.
type ActionHandler func(arg *Argument, values []string) (any, error)

// ActionRegistry stores custom action handlers keyed by name. Handler names
// are the portable identity custom actions are dumped under, so they should
// be stable across processes (a package-qualified name works well).
type ActionRegistry struct {
	mu       sync.RWMutex
	handlers map[string]ActionHandler
}

// NewActionRegistry constructs an empty registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{handlers: make(map[string]ActionHandler)}
}

// Register stores handler under name guarding against duplicates.
func (r *ActionRegistry) Register(name string, handler ActionHandler) error {
	if handler == nil {
		return fmt.Errorf("argdoc: action handler %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("argdoc: action handler name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[string]ActionHandler)
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("argdoc: action handler %q already registered", name)
	}
	r.handlers[name] = handler
	return nil
}

// Lookup returns the handler registered for name.
func (r *ActionRegistry) Lookup(name string) (ActionHandler, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

// Names returns registered handler names sorted alphabetically.
func (r *ActionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultActions is the process-wide registry consulted when decoding
// documents. Re-registration never mutates an existing binding, mirroring
// how an import cache hands back the same object on repeated resolution.
var defaultActions = NewActionRegistry()

// RegisterAction registers handler in the process-wide action registry.
func RegisterAction(name string, handler ActionHandler) error {
	return defaultActions.Register(name, handler)
}

// LookupAction resolves name against the process-wide action registry.
func LookupAction(name string) (ActionHandler, bool) {
	return defaultActions.Lookup(name)
}
