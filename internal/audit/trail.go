package audit

import (
	"maps"
	"sync"
	"time"
)

// MaxEntries is the number of entries a Trail keeps; older ones are dropped.
const MaxEntries = 200

// Trail is an in-memory, capped audit log. Entries are kept in a ring buffer
// and returned newest first.
type Trail struct {
	mu sync.Mutex

	clock   func() time.Time
	entries [MaxEntries]Entry
	next    int
	size    int
}

// NewTrail creates an empty trail. A nil clock means time.Now.
func NewTrail(clock func() time.Time) *Trail {
	if clock == nil {
		clock = time.Now
	}

	return &Trail{clock: clock}
}

// Log stamps the record with the current time and stores it as the newest entry.
func (that *Trail) Log(record Record) Entry {
	entry := Entry{
		Timestamp:   that.clock().UTC().Format(TimestampLayout),
		Action:      record.Action,
		ActorUserID: record.ActorUserID,
		Reason:      record.Reason,
		BeforeState: maps.Clone(record.BeforeState),
		AfterState:  maps.Clone(record.AfterState),
		Metadata:    maps.Clone(record.Metadata),
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.entries[that.next] = entry
	that.next = (that.next + 1) % MaxEntries
	if that.size < MaxEntries {
		that.size++
	}

	return cloneEntry(entry)
}

// Clear drops every entry.
func (that *Trail) Clear() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.entries = [MaxEntries]Entry{}
	that.next = 0
	that.size = 0
}

// Entries returns a copy of the log, newest first.
func (that *Trail) Entries() []Entry {
	that.mu.Lock()
	defer that.mu.Unlock()

	result := make([]Entry, 0, that.size)
	for i := 1; i <= that.size; i++ {
		index := (that.next - i + MaxEntries) % MaxEntries
		result = append(result, cloneEntry(that.entries[index]))
	}

	return result
}

func (that *Trail) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.size
}

func cloneEntry(entry Entry) Entry {
	entry.BeforeState = maps.Clone(entry.BeforeState)
	entry.AfterState = maps.Clone(entry.AfterState)
	entry.Metadata = maps.Clone(entry.Metadata)

	return entry
}
