package domain

// RawEntry is the unit persisted in a shareable link: an optional title and
// the untouched serialized payload.
type RawEntry struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// DecodedEntry is a RawEntry plus the outcome of decoding its text. Exactly
// one of Value and Error is set. Format is empty only when neither format
// could be determined.
type DecodedEntry struct {
	Title  string `json:"title,omitempty"`
	Text   string `json:"text"`
	Value  *Value `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
	Format string `json:"format,omitempty"`
}

// Raw drops the decoded data, keeping what survives a link round-trip.
func (e DecodedEntry) Raw() RawEntry {
	return RawEntry{Title: e.Title, Text: e.Text}
}

// OK reports whether decoding succeeded.
func (e DecodedEntry) OK() bool {
	return e.Value != nil
}

// Comparison is a decoded entry collection together with the token that
// reproduces it.
type Comparison struct {
	Token   string         `json:"token"`
	Entries []DecodedEntry `json:"entries"`
}
