package model

import "encoding/json"

// EventRecord is the envelope written to sinks for every emitted pool event.
type EventRecord struct {
	Seq       uint64          `json:"seq"`
	Pool      string          `json:"pool"`
	Name      string          `json:"name"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}
