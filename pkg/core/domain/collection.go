package domain

import "errors"

// DefaultMaxEntries is how many entries a comparison holds side by side.
const DefaultMaxEntries = 3

var (
	ErrCollectionFull = errors.New("entry collection is full")
	ErrEntryIndex     = errors.New("entry index out of range")
)

// EntryCollection is an ordered, bounded list of raw entries. It is a value
// type: Add and Remove return a new collection and never touch the receiver.
type EntryCollection struct {
	entries []RawEntry
	max     int
}

func NewEntryCollection(limit int, entries ...RawEntry) EntryCollection {
	if limit < 1 {
		limit = DefaultMaxEntries
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return EntryCollection{entries: append([]RawEntry(nil), entries...), max: limit}
}

func (c EntryCollection) Len() int   { return len(c.entries) }
func (c EntryCollection) Max() int   { return c.max }
func (c EntryCollection) Full() bool { return len(c.entries) >= c.max }

// Entries returns a copy of the entries in order.
func (c EntryCollection) Entries() []RawEntry {
	return append([]RawEntry(nil), c.entries...)
}

func (c EntryCollection) Add(e RawEntry) (EntryCollection, error) {
	if c.Full() {
		return c, ErrCollectionFull
	}
	next := make([]RawEntry, 0, len(c.entries)+1)
	next = append(next, c.entries...)
	next = append(next, e)
	return EntryCollection{entries: next, max: c.max}, nil
}

func (c EntryCollection) Remove(i int) (EntryCollection, error) {
	if i < 0 || i >= len(c.entries) {
		return c, ErrEntryIndex
	}
	next := make([]RawEntry, 0, len(c.entries)-1)
	next = append(next, c.entries[:i]...)
	next = append(next, c.entries[i+1:]...)
	return EntryCollection{entries: next, max: c.max}, nil
}
