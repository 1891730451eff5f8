// Package argdoc serializes command-line parser definitions into portable,
// versioned documents and reconstructs live parsers from them.
//
// A Parser built through this package's builder API can be dumped to a
// Document, a plain JSON-safe tree describing every argument, group,
// mutually exclusive group and nested subcommand, and loaded back into an
// equivalent Parser without re-running the code that defined it. Type
// converters are recorded as portable references (builtin names, registry
// paths, file-opening specs or expression sources) and resolved again at
// load time; converters without a stable identity are reported rather than
// silently dropped.
package argdoc

// Version is the go-argdoc release stamped into dumped documents.
const Version = "0.1.0"
