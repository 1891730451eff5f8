package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-argdoc"
)

type jsonCodec struct {
	indent bool
}

// JSON returns the indented JSON codec, the default interchange format.
func JSON() Codec {
	return jsonCodec{indent: true}
}

// CompactJSON returns a JSON codec without indentation.
func CompactJSON() Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string { return "json" }

func (c jsonCodec) Marshal(doc *argdoc.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("codec: document must not be nil")
	}
	if c.indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

func (jsonCodec) Unmarshal(data []byte) (*argdoc.Document, error) {
	payload, err := jsonToMap(data)
	if err != nil {
		return nil, fmt.Errorf("codec: parse json: %w", err)
	}
	return hydrateDocument("json", payload)
}

// jsonToMap parses bytes into a generic map preserving number precision.
func jsonToMap(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// documentToMap bridges a Document through its JSON form so non-JSON
// codecs see exactly the shape the json tags define.
func documentToMap(doc *argdoc.Document) (map[string]any, error) {
	if doc == nil {
		return nil, fmt.Errorf("codec: document must not be nil")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return jsonToMap(raw)
}
