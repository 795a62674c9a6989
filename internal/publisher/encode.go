// internal/publisher/encode.go
package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/tamzrod/vent-edge/internal/poller"
)

// field is one telemetry key/value. value is nil, string, int64 or float64.
type field struct {
	name  string
	value any
}

// fields flattens a reading into the telemetry schema:
// device_id, timestamp, then every register in map order.
// Failed scaled registers become nil.
func fields(deviceID string, r poller.Reading) []field {
	out := make([]field, 0, len(r.Samples)+2)
	out = append(out,
		field{name: "device_id", value: deviceID},
		field{name: "timestamp", value: r.Timestamp},
	)

	for _, s := range r.Samples {
		var v any
		switch s.Spec.Kind {
		case poller.KindRaw:
			v = int64(s.Raw)
		default:
			if !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0) {
				v = s.Value
			}
		}
		out = append(out, field{name: s.Spec.Field, value: v})
	}
	return out
}

type encoder func([]field) ([]byte, error)

func encoderFor(name string) (encoder, error) {
	switch name {
	case "", "json":
		return encodeJSON, nil
	case "cbor":
		return encodeCBOR, nil
	default:
		return nil, fmt.Errorf("publisher: unsupported encoding %q", name)
	}
}

// encodeJSON writes one flat object with keys in schema order.
func encodeJSON(fs []field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, f := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var cborMode = mustCBORMode()

func mustCBORMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

// encodeCBOR writes one map in core deterministic encoding.
func encodeCBOR(fs []field) ([]byte, error) {
	m := make(map[string]any, len(fs))
	for _, f := range fs {
		m[f.name] = f.value
	}
	return cborMode.Marshal(m)
}
