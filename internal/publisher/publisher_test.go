// internal/publisher/publisher_test.go
package publisher

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/vent-edge/internal/logging"
	"github.com/tamzrod/vent-edge/internal/poller"
	"github.com/tamzrod/vent-edge/internal/status"
)

// ---- fake sink ----

type sent struct {
	topic   string
	payload []byte
}

type fakeSink struct {
	state status.Connection
	err   error
	out   []sent
}

func (f *fakeSink) State() status.Connection { return f.state }

func (f *fakeSink) Publish(topic string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.out = append(f.out, sent{topic: topic, payload: payload})
	return nil
}

func connected() *fakeSink {
	return &fakeSink{state: status.Connection{Link: status.Connected, Session: status.Connected}}
}

// reading builds a valid DV10 reading where every register returned addr+200.
func reading() poller.Reading {
	r := poller.Reading{Timestamp: 123456, Valid: true, SuccessCount: 15}
	for _, spec := range poller.DV10 {
		raw := spec.Address + 200
		s := poller.Sample{Spec: spec, Raw: raw, Value: float64(raw), OK: true}
		if spec.Kind == poller.KindScaled {
			s.Raw = 0
			s.Value = float64(raw) / 10.0
		}
		r.Samples = append(r.Samples, s)
	}
	return r
}

func newPublisher(t *testing.T, sink Sink, encoding string) *Publisher {
	t.Helper()
	p, err := New(Config{Topic: "sensors/OLIMEX_POE", DeviceID: "DV10", Encoding: encoding}, sink, logging.Discard())
	require.NoError(t, err)
	return p
}

// ---- tests ----

func TestPublish_JSONSchema(t *testing.T) {
	sink := connected()
	p := newPublisher(t, sink, "json")

	require.NoError(t, p.Publish(reading()))
	require.Len(t, sink.out, 1)
	assert.Equal(t, "sensors/OLIMEX_POE", sink.out[0].topic)

	dec := json.NewDecoder(bytes.NewReader(sink.out[0].payload))
	dec.UseNumber()
	var msg map[string]any
	require.NoError(t, dec.Decode(&msg))

	assert.Len(t, msg, 17)
	assert.Equal(t, "DV10", msg["device_id"])
	assert.Equal(t, json.Number("123456"), msg["timestamp"])
	assert.Equal(t, json.Number("20.1"), msg["heat_exchanger_efficiency"])
	assert.Equal(t, json.Number("202"), msg["run_mode"])
	assert.Equal(t, json.Number("49.2"), msg["extra_supply_air_flow"])
	assert.Equal(t, json.Number("203"), msg["supply_air_fan_runtime"])
	assert.Equal(t, json.Number("204"), msg["extract_air_fan_runtime"])

	for _, spec := range poller.DV10 {
		assert.Contains(t, msg, spec.Field)
	}
}

func TestPublish_JSONKeyOrder(t *testing.T) {
	sink := connected()
	p := newPublisher(t, sink, "")

	require.NoError(t, p.Publish(reading()))

	payload := string(sink.out[0].payload)
	last := -1
	keys := []string{"device_id", "timestamp"}
	for _, spec := range poller.DV10 {
		keys = append(keys, spec.Field)
	}
	for _, k := range keys {
		i := bytes.Index([]byte(payload), []byte(`"`+k+`":`))
		require.Greater(t, i, last, "key %s out of order", k)
		last = i
	}
}

func TestPublish_NaNEncodedAsNull(t *testing.T) {
	sink := connected()
	p := newPublisher(t, sink, "json")

	r := reading()
	r.Samples[3].Value = math.NaN() // supply_air_temp
	r.Samples[3].OK = false

	require.NoError(t, p.Publish(r))

	var msg map[string]any
	require.NoError(t, json.Unmarshal(sink.out[0].payload, &msg))
	v, ok := msg["supply_air_temp"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestPublish_CBOR(t *testing.T) {
	sink := connected()
	p := newPublisher(t, sink, "cbor")

	require.NoError(t, p.Publish(reading()))

	var msg map[string]any
	require.NoError(t, cbor.Unmarshal(sink.out[0].payload, &msg))
	assert.Len(t, msg, 17)
	assert.Equal(t, "DV10", msg["device_id"])
	assert.Equal(t, uint64(202), msg["run_mode"])
	assert.InDelta(t, 20.1, msg["heat_exchanger_efficiency"], 1e-9)
}

func TestPublish_SuppressedWhenInvalid(t *testing.T) {
	sink := connected()
	p := newPublisher(t, sink, "json")

	r := reading()
	r.Valid = false

	err := p.Publish(r)
	assert.ErrorIs(t, err, ErrInvalidReading)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, sink.out)
}

func TestPublish_SuppressedWhenDisconnected(t *testing.T) {
	for _, st := range []status.Connection{
		{},
		{Link: status.Connected, Session: status.Connecting},
		{Link: status.Connected, Session: status.Disconnected},
		{Link: status.Connecting, Session: status.Connected},
	} {
		sink := &fakeSink{state: st}
		p := newPublisher(t, sink, "json")

		assert.ErrorIs(t, p.Publish(reading()), ErrNotConnected)
		assert.Empty(t, sink.out)
	}
}

func TestPublish_SinkFailureReturned(t *testing.T) {
	sink := connected()
	sink.err = errors.New("broken pipe")
	p := newPublisher(t, sink, "json")

	err := p.Publish(reading())
	assert.EqualError(t, err, "broken pipe")
}

func TestPublish_EncodeError(t *testing.T) {
	sink := connected()
	p := newPublisher(t, sink, "json")
	p.encode = func([]field) ([]byte, error) { return nil, errors.New("boom") }

	err := p.Publish(reading())

	var encErr *EncodeError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "json", encErr.Encoding)
	assert.Empty(t, sink.out)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Topic: "t", Encoding: "xml"}, connected(), logging.Discard())
	assert.Error(t, err)

	_, err = New(Config{Encoding: "json"}, connected(), logging.Discard())
	assert.Error(t, err)
}
