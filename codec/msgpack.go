package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/goliatone/go-argdoc"
)

type msgpackCodec struct{}

// Msgpack returns the MessagePack codec, the compact binary format.
func Msgpack() Codec {
	return msgpackCodec{}
}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Marshal(doc *argdoc.Document) ([]byte, error) {
	payload, err := documentToMap(doc)
	if err != nil {
		return nil, err
	}
	out, err := msgpack.Marshal(convertNumbers(payload))
	if err != nil {
		return nil, fmt.Errorf("codec: marshal msgpack: %w", err)
	}
	return out, nil
}

func (msgpackCodec) Unmarshal(data []byte) (*argdoc.Document, error) {
	var payload map[string]any
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("codec: parse msgpack: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("codec: empty msgpack document")
	}
	return hydrateDocument("msgpack", payload)
}
