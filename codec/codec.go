// Package codec marshals argdoc Documents to and from concrete wire
// formats. Every format funnels through a generic map shape before
// hydration so decoding behaves the same regardless of the source bytes.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-argdoc"
	"github.com/goliatone/go-argdoc/internal/hydrate"
)

// Codec encodes and decodes one wire format.
type Codec interface {
	Name() string
	Marshal(doc *argdoc.Document) ([]byte, error)
	Unmarshal(data []byte) (*argdoc.Document, error)
}

// ForName resolves a codec by its canonical name. Names are matched
// case-insensitively; "yml" aliases "yaml".
func ForName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON(), nil
	case "yaml", "yml":
		return YAML(), nil
	case "msgpack":
		return Msgpack(), nil
	default:
		return nil, fmt.Errorf("codec: unknown format %q", name)
	}
}

// ForPath picks a codec from a file extension, defaulting to JSON when
// the extension is unknown or missing.
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML()
	case ".msgpack", ".mp":
		return Msgpack()
	default:
		return JSON()
	}
}

// Names lists the canonical codec names.
func Names() []string {
	return []string{"json", "yaml", "msgpack"}
}

// EncodeDocument marshals doc using the codec named by format.
func EncodeDocument(format string, doc *argdoc.Document) ([]byte, error) {
	c, err := ForName(format)
	if err != nil {
		return nil, err
	}
	return c.Marshal(doc)
}

// DecodeDocument unmarshals data using the codec named by format.
func DecodeDocument(format string, data []byte) (*argdoc.Document, error) {
	c, err := ForName(format)
	if err != nil {
		return nil, err
	}
	return c.Unmarshal(data)
}

func hydrateDocument(format string, payload map[string]any) (*argdoc.Document, error) {
	decoder := hydrate.NewDecoder[argdoc.Document](
		hydrate.WithUseNumber[argdoc.Document](),
	)
	prog := ""
	if root, ok := payload["root"].(map[string]any); ok {
		if value, ok := root["prog"].(string); ok {
			prog = value
		}
	}
	doc, err := decoder.Decode(hydrate.Context{Format: format, Prog: prog}, payload)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
