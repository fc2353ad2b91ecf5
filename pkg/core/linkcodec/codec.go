// Package linkcodec packs an ordered list of raw entries into a compact,
// URL-safe token and back.
//
// A token is the JSON list [{"title": ..., "serializedData": ...}], deflated
// in a zlib stream and base64 encoded with the URL-safe alphabet and no
// padding.
package linkcodec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

// MaxInflatedSize caps the JSON payload a token may expand to.
const MaxInflatedSize = 1 << 20

// chunkSize is the number of compressed bytes base64-encoded per step. It is
// a multiple of 3 so chunks concatenate without padding.
const chunkSize = 30 << 10

// ErrLinkDecode matches any *DecodeError.
var ErrLinkDecode = errors.New("link decode failure")

// DecodeError reports the stage at which a token could not be decoded.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode link token: %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrLinkDecode }

// wireEntry keeps the field names used by links already in circulation.
type wireEntry struct {
	Title          *string `json:"title"`
	SerializedData string  `json:"serializedData"`
}

// Encode returns the token for entries, or "" when there are none.
func Encode(entries []domain.RawEntry) string {
	token, err := EncodeErr(entries)
	if err != nil {
		return ""
	}
	return token
}

// EncodeErr is Encode with the underlying error exposed.
func EncodeErr(entries []domain.RawEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	wire := make([]wireEntry, len(entries))
	for i, e := range entries {
		wire[i].SerializedData = e.Text
		if e.Title != "" {
			title := e.Title
			wire[i].Title = &title
		}
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	enc := json.NewEncoder(zw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wire); err != nil {
		return "", fmt.Errorf("encode entries: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress entries: %w", err)
	}

	return encodeChunked(compressed.Bytes()), nil
}

func encodeChunked(data []byte) string {
	var sb strings.Builder
	sb.Grow(base64.RawURLEncoding.EncodedLen(len(data)))
	buf := make([]byte, base64.RawURLEncoding.EncodedLen(chunkSize))
	for len(data) > 0 {
		n := min(chunkSize, len(data))
		m := base64.RawURLEncoding.EncodedLen(n)
		base64.RawURLEncoding.Encode(buf[:m], data[:n])
		sb.Write(buf[:m])
		data = data[n:]
	}
	return sb.String()
}

// Decode returns the entries held by token, or nil when token is empty or
// cannot be decoded at any stage. It never panics on malformed input.
func Decode(token string) []domain.RawEntry {
	entries, err := DecodeErr(token)
	if err != nil {
		return nil
	}
	return entries
}

// DecodeErr is Decode with the failing stage reported as a *DecodeError.
//
// Both base64 alphabets are accepted, with or without padding, and a space
// is read as '+' so tokens that went through form decoding still work.
func DecodeErr(token string) ([]domain.RawEntry, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &DecodeError{Stage: "base64", Err: errors.New("empty token")}
	}

	raw, err := base64.RawStdEncoding.DecodeString(normalize(token))
	if err != nil {
		return nil, &DecodeError{Stage: "base64", Err: err}
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Stage: "inflate", Err: err}
	}
	defer zr.Close()
	payload, err := io.ReadAll(io.LimitReader(zr, MaxInflatedSize+1))
	if err != nil {
		return nil, &DecodeError{Stage: "inflate", Err: err}
	}
	if len(payload) > MaxInflatedSize {
		return nil, &DecodeError{Stage: "inflate", Err: fmt.Errorf("payload exceeds %d bytes", MaxInflatedSize)}
	}

	var wire []wireEntry
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, &DecodeError{Stage: "json", Err: err}
	}
	if wire == nil {
		return nil, &DecodeError{Stage: "json", Err: errors.New("payload is not a list")}
	}

	entries := make([]domain.RawEntry, len(wire))
	for i, w := range wire {
		entries[i].Text = w.SerializedData
		if w.Title != nil {
			entries[i].Title = *w.Title
		}
	}
	return entries, nil
}

func normalize(token string) string {
	return strings.NewReplacer("-", "+", "_", "/", " ", "+", "=", "").Replace(token)
}
