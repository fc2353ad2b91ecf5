package ports

import (
	"context"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

// ShareRepository defines storage operations for shares
type ShareRepository interface {
	Create(ctx context.Context, share *domain.Share) error
	GetByShortCode(ctx context.Context, code string) (*domain.Share, error)
	ShortCodeExists(ctx context.Context, code string) (bool, error) // Includes deleted shares
	GetByID(ctx context.Context, id int64) (*domain.Share, error)
	Update(ctx context.Context, share *domain.Share) error
	Delete(ctx context.Context, id int64) error // Soft delete
	List(ctx context.Context, limit, offset int, filters map[string]interface{}) ([]domain.Share, error)
	Count(ctx context.Context, filters map[string]interface{}) (int64, error)
	Dump(ctx context.Context) ([]domain.Share, error) // For migration

	// Stats
	RecordVisit(ctx context.Context, visit *domain.Visit) error
	GetShareStats(ctx context.Context, shareID int64) (*domain.ShareStats, error)
	GetDashboardStats(ctx context.Context, limit int, filters map[string]interface{}) ([]domain.Share, int64, error)
}

// ShareService defines the business logic for stored comparisons
type ShareService interface {
	Shorten(ctx context.Context, title string, entries []domain.RawEntry, customCode string) (*domain.Share, error)
	GetToken(ctx context.Context, code string) (string, error)
	GetShareByShortCode(ctx context.Context, code string) (*domain.Share, error)
	UpdateShare(ctx context.Context, id int64, title string, entries []domain.RawEntry) (*domain.Share, error)
	DeleteShare(ctx context.Context, id int64) error
	ListShares(ctx context.Context, page, limit int, search string) ([]domain.Share, int64, error)

	// Stats
	RecordVisit(ctx context.Context, shortCode, referer, userAgent, ip string) error
	GetShareStats(ctx context.Context, id int64) (*domain.ShareStats, error)
	GetDashboard(ctx context.Context, limit int, search string) ([]domain.Share, int64, error)
}

// ComparisonService decodes entries and moves them in and out of link tokens
type ComparisonService interface {
	MaxEntries() int
	Decode(entry domain.RawEntry) domain.DecodedEntry
	DecodeAll(entries []domain.RawEntry) []domain.DecodedEntry
	Load(token string) []domain.DecodedEntry
	Encode(entries []domain.RawEntry) string
	AddEntry(token string, entry domain.RawEntry) (*domain.Comparison, error)
	RemoveEntry(token string, index int) (*domain.Comparison, error)
}

// History is the address-bar collaborator. Replace stores token in the
// current location without navigating; an empty token removes it.
type History interface {
	Replace(token string) error
}

// Clipboard is the system clipboard collaborator.
type Clipboard interface {
	WriteText(text string) error
}
