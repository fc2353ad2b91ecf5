package services

import (
	"errors"
	"testing"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/decoder"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

func TestComparisonServiceAddAndRemove(t *testing.T) {
	svc := NewComparisonService(3, nil)

	first, err := svc.AddEntry("", domain.RawEntry{Title: "one", Text: `a:1:{i:0;s:1:"x";}`})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if first.Token == "" || len(first.Entries) != 1 || first.Entries[0].Format != decoder.FormatPHP {
		t.Fatalf("unexpected comparison: %+v", first)
	}

	second, err := svc.AddEntry(first.Token, domain.RawEntry{Title: "two", Text: `{"x":1}`})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if len(second.Entries) != 2 || second.Entries[0].Title != "one" || second.Entries[1].Title != "two" {
		t.Fatalf("unexpected entries: %+v", second.Entries)
	}

	loaded := svc.Load(second.Token)
	if len(loaded) != 2 || loaded[1].Format != decoder.FormatJSON {
		t.Errorf("Load: %+v", loaded)
	}

	removed, err := svc.RemoveEntry(second.Token, 0)
	if err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	if len(removed.Entries) != 1 || removed.Entries[0].Title != "two" {
		t.Errorf("unexpected entries after remove: %+v", removed.Entries)
	}

	if _, err := svc.RemoveEntry(removed.Token, 4); !errors.Is(err, domain.ErrEntryIndex) {
		t.Errorf("expected ErrEntryIndex, got %v", err)
	}
}

func TestComparisonServiceFull(t *testing.T) {
	svc := NewComparisonService(1, nil)
	c, err := svc.AddEntry("", domain.RawEntry{Text: `N;`})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddEntry(c.Token, domain.RawEntry{Text: `N;`}); !errors.Is(err, domain.ErrCollectionFull) {
		t.Errorf("expected ErrCollectionFull, got %v", err)
	}
}

func TestComparisonServiceLoadInvalid(t *testing.T) {
	svc := NewComparisonService(3, nil)
	if got := svc.Load("not-base64!!"); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
	if got := svc.Load(""); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestComparisonServiceDecodeKeepsSiblings(t *testing.T) {
	svc := NewComparisonService(3, nil)
	got := svc.DecodeAll([]domain.RawEntry{{Text: `{"a":`}, {Text: `i:5;`}})
	if got[0].OK() || got[0].Format != decoder.FormatJSON {
		t.Errorf("first entry: %+v", got[0])
	}
	if !got[1].OK() {
		t.Errorf("a failing entry must not affect its sibling: %+v", got[1])
	}
}
