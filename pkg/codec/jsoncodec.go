// pkg/codec/jsoncodec.go
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// ErrTrailingContent is returned when a document is followed by more JSON.
var ErrTrailingContent = errors.New("json trailing content")

type jsonCodec struct {
	strict bool
}

// JSONStrict rejects unknown fields. Used for data this module wrote itself
// (cached key-set entries).
var JSONStrict Codec = jsonCodec{strict: true}

// JSON accepts unknown fields. Used for edge events, which carry far more
// than the gate reads.
var JSON Codec = jsonCodec{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	// query strings in redirect locations must keep their '&'
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (c jsonCodec) Unmarshal(data []byte, v any) error {
	return c.decode(bytes.NewReader(data), v)
}

func (c jsonCodec) decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if c.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	// must be EOF
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return ErrTrailingContent
	}
	return nil
}

func (jsonCodec) ContentType() string { return "application/json" }
