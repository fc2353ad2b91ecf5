package services

import (
	"fmt"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/decoder"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/linkcodec"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
	"go.uber.org/zap"
)

// Source records where the current entries came from.
type Source int

const (
	SourceUserInput Source = iota
	SourceLink
)

func (s Source) String() string {
	if s == SourceLink {
		return "link"
	}
	return "user input"
}

// Workspace holds the entries of one comparison and keeps the history
// collaborator's token in step with them. Populating from a link does not
// write back; every later change does. A Workspace is not safe for
// concurrent use.
type Workspace struct {
	collection domain.EntryCollection
	decoded    []domain.DecodedEntry
	source     Source
	history    ports.History
	logger     *zap.Logger
}

func newWorkspace(maxEntries int, history ports.History, logger *zap.Logger) *Workspace {
	return &Workspace{
		collection: domain.NewEntryCollection(maxEntries),
		source:     SourceUserInput,
		history:    history,
		logger:     logger,
	}
}

// LoadLink replaces the entries with those held by token. It reports
// whether the token decoded; an invalid token leaves the workspace empty.
func (w *Workspace) LoadLink(token string) bool {
	entries, err := linkcodec.DecodeErr(token)
	if err != nil {
		if token != "" {
			w.logger.Debug("ignoring link token", zap.Error(err))
		}
		w.replace(domain.NewEntryCollection(w.collection.Max()), nil)
		return false
	}
	if len(entries) > w.collection.Max() {
		w.logger.Warn("link holds more entries than allowed, keeping the first ones",
			zap.Int("entries", len(entries)), zap.Int("max", w.collection.Max()))
	}

	collection := domain.NewEntryCollection(w.collection.Max(), entries...)
	w.replace(collection, decodeAll(collection.Entries()))
	w.source = SourceLink
	return true
}

// Add decodes e and appends it. If the history collaborator fails the entry
// is kept and the error returned.
func (w *Workspace) Add(e domain.RawEntry) (domain.DecodedEntry, error) {
	next, err := w.collection.Add(e)
	if err != nil {
		return domain.DecodedEntry{}, err
	}
	decoded := decoder.DecodeEntry(e)
	w.replace(next, append(append([]domain.DecodedEntry(nil), w.decoded...), decoded))
	return decoded, w.sync()
}

// Remove drops the entry at index i.
func (w *Workspace) Remove(i int) error {
	next, err := w.collection.Remove(i)
	if err != nil {
		return err
	}
	decoded := make([]domain.DecodedEntry, 0, len(w.decoded)-1)
	decoded = append(decoded, w.decoded[:i]...)
	decoded = append(decoded, w.decoded[i+1:]...)
	w.replace(next, decoded)
	return w.sync()
}

func (w *Workspace) replace(c domain.EntryCollection, decoded []domain.DecodedEntry) {
	w.collection = c
	w.decoded = decoded
}

func (w *Workspace) sync() error {
	w.source = SourceUserInput
	if w.history == nil {
		return nil
	}
	if err := w.history.Replace(w.Token()); err != nil {
		return fmt.Errorf("update history: %w", err)
	}
	return nil
}

// Entries returns the decoded entries in order.
func (w *Workspace) Entries() []domain.DecodedEntry {
	return append([]domain.DecodedEntry(nil), w.decoded...)
}

// Raw returns the raw entries in order.
func (w *Workspace) Raw() []domain.RawEntry {
	return w.collection.Entries()
}

func (w *Workspace) Source() Source { return w.source }
func (w *Workspace) Full() bool     { return w.collection.Full() }

// Token encodes the current entries; it is empty when there are none.
func (w *Workspace) Token() string {
	return linkcodec.Encode(w.collection.Entries())
}

func decodeAll(entries []domain.RawEntry) []domain.DecodedEntry {
	out := make([]domain.DecodedEntry, len(entries))
	for i, e := range entries {
		out[i] = decoder.DecodeEntry(e)
	}
	return out
}
