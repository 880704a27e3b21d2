package state

// Journal is an undo log shared by the token ledger, the pools, and the event
// recorder. Mutating components append an undo closure for every write; an
// external entry point takes a revision before doing any work and reverts to
// it if the operation fails, restoring every balance, reserve, fee bucket, and
// recorded event to its pre-call value.
//
// A Journal is not safe for concurrent use. Calls against a given world are
// assumed to be externally serialized; reentrancy within one call is handled
// by the per-pool guard, not here.
type Journal struct {
	undo []func()
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Append records an undo closure for a write that was just performed.
func (j *Journal) Append(undo func()) {
	j.undo = append(j.undo, undo)
}

// Snapshot returns a revision marker for the current journal position.
func (j *Journal) Snapshot() int {
	return len(j.undo)
}

// RevertTo unwinds every write recorded after the given revision, newest
// first, and truncates the log back to that revision.
func (j *Journal) RevertTo(revision int) {
	if revision < 0 {
		revision = 0
	}
	for i := len(j.undo) - 1; i >= revision; i-- {
		j.undo[i]()
		j.undo[i] = nil
	}
	j.undo = j.undo[:revision]
}

// Commit discards undo history up to the current position. Call it once an
// external operation has fully settled so the log does not grow unbounded.
func (j *Journal) Commit() {
	j.undo = j.undo[:0]
}

// Len reports the number of pending undo entries.
func (j *Journal) Len() int {
	return len(j.undo)
}
