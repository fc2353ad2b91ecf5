package services

import (
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/decoder"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/linkcodec"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
	"go.uber.org/zap"
)

type ComparisonService struct {
	maxEntries int
	logger     *zap.Logger
}

func NewComparisonService(maxEntries int, logger *zap.Logger) *ComparisonService {
	if maxEntries < 1 {
		maxEntries = domain.DefaultMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComparisonService{maxEntries: maxEntries, logger: logger.Named("comparison")}
}

func (s *ComparisonService) MaxEntries() int {
	return s.maxEntries
}

func (s *ComparisonService) Decode(entry domain.RawEntry) domain.DecodedEntry {
	decoded := decoder.DecodeEntry(entry)
	s.logger.Debug("decoded entry",
		zap.String("title", entry.Title),
		zap.String("format", decoded.Format),
		zap.Bool("ok", decoded.OK()))
	return decoded
}

func (s *ComparisonService) DecodeAll(entries []domain.RawEntry) []domain.DecodedEntry {
	out := make([]domain.DecodedEntry, len(entries))
	for i, e := range entries {
		out[i] = s.Decode(e)
	}
	return out
}

// Load decodes every entry held by token. An invalid token yields no
// entries rather than an error.
func (s *ComparisonService) Load(token string) []domain.DecodedEntry {
	ws := s.NewWorkspace(nil)
	ws.LoadLink(token)
	return ws.Entries()
}

func (s *ComparisonService) Encode(entries []domain.RawEntry) string {
	return linkcodec.Encode(entries)
}

// NewWorkspace starts an empty comparison whose changes are written to
// history. A nil history disables write-back.
func (s *ComparisonService) NewWorkspace(history ports.History) *Workspace {
	return newWorkspace(s.maxEntries, history, s.logger)
}

// AddEntry appends entry to the comparison held by token.
func (s *ComparisonService) AddEntry(token string, entry domain.RawEntry) (*domain.Comparison, error) {
	rec := &tokenRecorder{}
	ws := s.NewWorkspace(rec)
	ws.LoadLink(token)
	if _, err := ws.Add(entry); err != nil {
		return nil, err
	}
	return &domain.Comparison{Token: rec.token, Entries: ws.Entries()}, nil
}

// RemoveEntry drops the entry at index from the comparison held by token.
func (s *ComparisonService) RemoveEntry(token string, index int) (*domain.Comparison, error) {
	rec := &tokenRecorder{}
	ws := s.NewWorkspace(rec)
	ws.LoadLink(token)
	if err := ws.Remove(index); err != nil {
		return nil, err
	}
	return &domain.Comparison{Token: rec.token, Entries: ws.Entries()}, nil
}

// tokenRecorder is a History that keeps the last token written.
type tokenRecorder struct {
	token string
}

func (r *tokenRecorder) Replace(token string) error {
	r.token = token
	return nil
}

var _ ports.ComparisonService = (*ComparisonService)(nil)
