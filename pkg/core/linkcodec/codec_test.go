package linkcodec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.RawEntry
	}{
		{name: "single", entries: []domain.RawEntry{{Title: "first", Text: `a:1:{i:0;s:1:"x";}`}}},
		{name: "untitled", entries: []domain.RawEntry{{Text: `{"a":1}`}}},
		{
			name: "three entries",
			entries: []domain.RawEntry{
				{Title: "before", Text: `{"a":1,"b":[1,2,3]}`},
				{Title: "", Text: `i:5;`},
				{Title: "after", Text: `s:6:"héllo";`},
			},
		},
		{
			name: "unicode and markup",
			entries: []domain.RawEntry{
				{Title: "日本語 <tag> & \"quotes\"", Text: "emoji 😀\nnew line\ttab"},
				{Title: "empty text", Text: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := Encode(tt.entries)
			if token == "" {
				t.Fatal("empty token")
			}
			if strings.ContainsAny(token, "+/= ") {
				t.Errorf("token is not URL-safe: %q", token)
			}
			got := Decode(token)
			if !reflect.DeepEqual(got, tt.entries) {
				t.Errorf("got %+v want %+v", got, tt.entries)
			}
		})
	}
}

func TestRoundTripLargePayload(t *testing.T) {
	// random-looking text defeats compression so the base64 step spans chunks
	var sb strings.Builder
	seed := uint32(1)
	for sb.Len() < 3*chunkSize {
		seed = seed*1664525 + 1013904223
		sb.WriteByte(byte('!' + seed>>24%90))
	}
	entries := []domain.RawEntry{{Title: "big", Text: sb.String()}}

	token := Encode(entries)
	got := Decode(token)
	if !reflect.DeepEqual(got, entries) {
		t.Fatal("large payload did not survive the round-trip")
	}
}

func TestEncodeEmpty(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("Encode(nil) = %q", got)
	}
	if got := Encode([]domain.RawEntry{}); got != "" {
		t.Errorf("Encode([]) = %q", got)
	}
}

func TestDecodeInvalid(t *testing.T) {
	notJSON := zlibBase64(t, []byte("definitely not json"))
	notList := zlibBase64(t, []byte(`{"title":"x"}`))
	null := zlibBase64(t, []byte(`null`))

	tests := []struct {
		name  string
		token string
		stage string
	}{
		{name: "empty", token: "", stage: "base64"},
		{name: "blank", token: "   ", stage: "base64"},
		{name: "bad alphabet", token: "not-base64!!", stage: "base64"},
		{name: "not compressed", token: base64.RawURLEncoding.EncodeToString([]byte("plain text")), stage: "inflate"},
		{name: "not json", token: notJSON, stage: "json"},
		{name: "not a list", token: notList, stage: "json"},
		{name: "null", token: null, stage: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.token); got != nil {
				t.Errorf("Decode returned %+v", got)
			}
			_, err := DecodeErr(tt.token)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if decodeErr.Stage != tt.stage {
				t.Errorf("stage: got %q want %q", decodeErr.Stage, tt.stage)
			}
			if !errors.Is(err, ErrLinkDecode) {
				t.Error("expected errors.Is(err, ErrLinkDecode)")
			}
		})
	}
}

func TestDecodeTruncatedToken(t *testing.T) {
	token := Encode([]domain.RawEntry{{Title: "t", Text: strings.Repeat("abc", 100)}})
	if got := Decode(token[:len(token)/2]); got != nil {
		t.Errorf("truncated token decoded to %+v", got)
	}
}

func TestDecodeStandardAlphabet(t *testing.T) {
	// tokens produced with btoa() use the standard alphabet with padding,
	// and a '+' may arrive as a space after form decoding
	payload := []byte(`[{"title":null,"serializedData":"i:5;"},{"title":"b","serializedData":"N;"}]`)
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(payload)
	zw.Close()
	std := base64.StdEncoding.EncodeToString(buf.Bytes())

	want := []domain.RawEntry{{Text: "i:5;"}, {Title: "b", Text: "N;"}}
	for _, token := range []string{std, strings.ReplaceAll(std, "+", " ")} {
		if got := Decode(token); !reflect.DeepEqual(got, want) {
			t.Errorf("Decode(%q) = %+v", token, got)
		}
	}
}

func TestDecodeInflateLimit(t *testing.T) {
	bomb := `[{"title":null,"serializedData":"` + strings.Repeat("a", MaxInflatedSize) + `"}]`
	_, err := DecodeErr(zlibBase64(t, []byte(bomb)))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Stage != "inflate" {
		t.Errorf("expected inflate failure, got %v", err)
	}
}

func zlibBase64(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes())
}
