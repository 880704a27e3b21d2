package storage

import "pairswap/internal/model"

// Storage defines a sink for settled event records.
type Storage interface {
	PutEventBatch(events []model.EventRecord) error
}
