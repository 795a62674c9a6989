// internal/connectivity/birth.go
package connectivity

import (
	"encoding/json"

	"github.com/tamzrod/vent-edge/internal/poller"
)

// RebirthMetric is the node control metric announced in NBIRTH
// and honoured in NCMD.
const RebirthMetric = "NodeControl/Rebirth"

type nodeMetric struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

type nodeBirth struct {
	Timestamp int64        `json:"timestamp"`
	Seq       uint64       `json:"seq"`
	Metrics   []nodeMetric `json:"metrics"`
}

type deviceMetric struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// deviceBirth declares names and types only. It carries no values.
type deviceBirth struct {
	Timestamp int64          `json:"timestamp"`
	Seq       uint64         `json:"seq"`
	Metrics   []deviceMetric `json:"metrics"`
}

type nodeDeath struct {
	Timestamp int64 `json:"timestamp"`
}

// nodeCommand is the inbound NCMD shape. Values are left raw so
// unknown metrics of any type decode without error.
type nodeCommand struct {
	Metrics []struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	} `json:"metrics"`
}

func encodeNodeBirth(ts int64, seq uint64) ([]byte, error) {
	return json.Marshal(nodeBirth{
		Timestamp: ts,
		Seq:       seq,
		Metrics:   []nodeMetric{{Name: RebirthMetric, Value: false}},
	})
}

// encodeDeviceBirth lists every register in map order.
func encodeDeviceBirth(ts int64, seq uint64, regs []poller.RegisterSpec) ([]byte, error) {
	metrics := make([]deviceMetric, 0, len(regs))
	for _, r := range regs {
		metrics = append(metrics, deviceMetric{Name: r.Metric, Type: r.Kind.MetricType()})
	}
	return json.Marshal(deviceBirth{Timestamp: ts, Seq: seq, Metrics: metrics})
}

func encodeNodeDeath(ts int64) ([]byte, error) {
	return json.Marshal(nodeDeath{Timestamp: ts})
}

// wantsRebirth reports whether an NCMD payload sets NodeControl/Rebirth to true.
func wantsRebirth(payload []byte) (bool, error) {
	var cmd nodeCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return false, err
	}
	for _, m := range cmd.Metrics {
		if m.Name != RebirthMetric {
			continue
		}
		var v bool
		if err := json.Unmarshal(m.Value, &v); err == nil && v {
			return true, nil
		}
	}
	return false, nil
}
