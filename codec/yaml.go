package codec

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-argdoc"
)

type yamlCodec struct{}

// YAML returns the YAML codec.
func YAML() Codec {
	return yamlCodec{}
}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(doc *argdoc.Document) ([]byte, error) {
	payload, err := documentToMap(doc)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(convertNumbers(payload))
	if err != nil {
		return nil, fmt.Errorf("codec: marshal yaml: %w", err)
	}
	return out, nil
}

func (yamlCodec) Unmarshal(data []byte) (*argdoc.Document, error) {
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("codec: parse yaml: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("codec: empty yaml document")
	}
	return hydrateDocument("yaml", payload)
}

// convertNumbers rewrites json.Number values into int64 or float64 so
// non-JSON encoders emit native numbers instead of strings.
func convertNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = convertNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = convertNumbers(item)
		}
		return out
	default:
		return value
	}
}
