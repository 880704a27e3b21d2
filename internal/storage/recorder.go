package storage

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"pairswap/internal/model"
	"pairswap/internal/state"
)

// Recorder is the journaled in-memory event sink pools emit into. Events
// recorded inside a failing operation are unwound with the rest of the
// journal, so only settled events ever reach downstream sinks.
type Recorder struct {
	journal *state.Journal
	seq     uint64
	events  []model.EventRecord
}

// NewRecorder builds a recorder wired to the given journal.
func NewRecorder(journal *state.Journal) *Recorder {
	return &Recorder{journal: journal}
}

// Record appends an event and journals the append.
func (r *Recorder) Record(pool common.Address, name string, timestamp int64, data json.RawMessage) {
	r.seq++
	r.events = append(r.events, model.EventRecord{
		Seq:       r.seq,
		Pool:      pool.Hex(),
		Name:      name,
		Timestamp: timestamp,
		Data:      data,
	})
	r.journal.Append(func() {
		r.events = r.events[:len(r.events)-1]
		r.seq--
	})
}

// Events returns a copy of every settled event still held.
func (r *Recorder) Events() []model.EventRecord {
	out := make([]model.EventRecord, len(r.events))
	copy(out, r.events)
	return out
}

// Drain returns the held events and clears the buffer. Call only between
// operations, once the journal has been committed; the drain itself is not
// journaled.
func (r *Recorder) Drain() []model.EventRecord {
	out := r.events
	r.events = nil
	return out
}
