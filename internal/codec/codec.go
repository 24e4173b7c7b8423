// Package codec provides the byte encodings durable adapters use for
// snapshots and record payloads.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownCodec is returned by ByName for an unregistered codec name.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec converts values to and from bytes.
type Codec interface {
	// Name is the configuration name, also used as file extension.
	Name() string
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Names of the built-in codecs.
const (
	NameJSON        = "json"
	NameMessagePack = "msgpack"
	NameCBOR        = "cbor"
)

var registry = map[string]Codec{
	NameJSON:        JSON{},
	NameMessagePack: MessagePack{},
	NameCBOR:        newCBOR(),
}

// ByName returns the codec registered under name. An empty name selects JSON.
func ByName(name string) (Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = NameJSON
	}
	c, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Names lists the registered codec names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// JSON encodes with encoding/json. Numbers decode as float64.
type JSON struct{}

func (JSON) Name() string        { return NameJSON }
func (JSON) ContentType() string { return "application/json" }

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// MessagePack encodes with vmihailenco/msgpack. Interface values decode with
// loose typing, so integers come back as int64 or uint64.
type MessagePack struct{}

func (MessagePack) Name() string        { return NameMessagePack }
func (MessagePack) ContentType() string { return "application/msgpack" }

func (MessagePack) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MessagePack) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	return dec.Decode(v)
}

// CBOR encodes with fxamacker/cbor. Maps nested in interface values decode as
// map[string]any and timestamps round-trip as RFC 3339 strings.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBOR() CBOR {
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(fmt.Errorf("cbor encode mode: %w", err))
	}
	dec, err := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}.DecMode()
	if err != nil {
		panic(fmt.Errorf("cbor decode mode: %w", err))
	}
	return CBOR{enc: enc, dec: dec}
}

func (CBOR) Name() string        { return NameCBOR }
func (CBOR) ContentType() string { return "application/cbor" }

func (c CBOR) Marshal(v any) ([]byte, error) {
	if c.enc == nil {
		c = newCBOR()
	}
	return c.enc.Marshal(v)
}

func (c CBOR) Unmarshal(data []byte, v any) error {
	if c.dec == nil {
		c = newCBOR()
	}
	return c.dec.Unmarshal(data, v)
}
