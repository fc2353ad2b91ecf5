package services

import (
	"errors"
	"testing"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/decoder"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/linkcodec"
)

type fakeHistory struct {
	tokens []string
	err    error
}

func (h *fakeHistory) Replace(token string) error {
	h.tokens = append(h.tokens, token)
	return h.err
}

func TestWorkspaceLoadLinkDoesNotWriteBack(t *testing.T) {
	svc := NewComparisonService(3, nil)
	history := &fakeHistory{}
	ws := svc.NewWorkspace(history)

	token := linkcodec.Encode([]domain.RawEntry{
		{Title: "a", Text: `i:1;`},
		{Title: "b", Text: `{"x":true}`},
	})
	if !ws.LoadLink(token) {
		t.Fatal("LoadLink failed")
	}
	if len(history.tokens) != 0 {
		t.Errorf("loading from a link should not write back, got %v", history.tokens)
	}
	if ws.Source() != SourceLink {
		t.Errorf("source: got %s", ws.Source())
	}

	entries := ws.Entries()
	if len(entries) != 2 || entries[0].Format != decoder.FormatPHPAuto || entries[1].Format != decoder.FormatJSON {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if _, err := ws.Add(domain.RawEntry{Title: "c", Text: `N;`}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(history.tokens) != 1 {
		t.Fatalf("expected one write-back, got %d", len(history.tokens))
	}
	if ws.Source() != SourceUserInput {
		t.Errorf("source after edit: got %s", ws.Source())
	}
	got := linkcodec.Decode(history.tokens[0])
	if len(got) != 3 || got[2].Title != "c" {
		t.Errorf("written token holds %+v", got)
	}
}

func TestWorkspaceBound(t *testing.T) {
	ws := NewComparisonService(3, nil).NewWorkspace(nil)
	for i := 0; i < 3; i++ {
		if _, err := ws.Add(domain.RawEntry{Text: `i:1;`}); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}
	if !ws.Full() {
		t.Error("workspace should be full")
	}
	if _, err := ws.Add(domain.RawEntry{Text: `i:1;`}); !errors.Is(err, domain.ErrCollectionFull) {
		t.Errorf("expected ErrCollectionFull, got %v", err)
	}
	if len(ws.Entries()) != 3 {
		t.Errorf("entries: got %d", len(ws.Entries()))
	}
}

func TestWorkspaceRemoveClearsToken(t *testing.T) {
	history := &fakeHistory{}
	ws := NewComparisonService(3, nil).NewWorkspace(history)
	ws.Add(domain.RawEntry{Title: "only", Text: `b:1;`})

	if err := ws.Remove(1); !errors.Is(err, domain.ErrEntryIndex) {
		t.Errorf("expected ErrEntryIndex, got %v", err)
	}
	if err := ws.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if last := history.tokens[len(history.tokens)-1]; last != "" {
		t.Errorf("empty workspace should clear the token, got %q", last)
	}
}

func TestWorkspaceHistoryFailureKeepsEntry(t *testing.T) {
	history := &fakeHistory{err: errors.New("replaceState blocked")}
	ws := NewComparisonService(3, nil).NewWorkspace(history)

	_, err := ws.Add(domain.RawEntry{Text: `i:1;`})
	if err == nil {
		t.Fatal("expected history error")
	}
	if len(ws.Raw()) != 1 {
		t.Error("entry should be kept when history fails")
	}
}

func TestWorkspaceInvalidLink(t *testing.T) {
	ws := NewComparisonService(3, nil).NewWorkspace(nil)
	ws.Add(domain.RawEntry{Text: `i:1;`})
	if ws.LoadLink("garbage!!") {
		t.Error("LoadLink should fail")
	}
	if len(ws.Entries()) != 0 {
		t.Error("invalid link should leave the workspace empty")
	}
}

func TestWorkspaceTruncatesOversizedLink(t *testing.T) {
	entries := []domain.RawEntry{{Text: "1"}, {Text: "2"}, {Text: "3"}, {Text: "4"}}
	ws := NewComparisonService(3, nil).NewWorkspace(nil)
	ws.LoadLink(linkcodec.Encode(entries))

	raw := ws.Raw()
	if len(raw) != 3 || raw[2].Text != "3" {
		t.Errorf("got %+v", raw)
	}
}
