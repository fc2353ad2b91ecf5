package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"net"
	"time"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/linkcodec"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

const maxShortCodeLen = 64

type ShareService struct {
	repo       ports.ShareRepository
	maxEntries int
	logger     *zap.Logger
}

func NewShareService(repo ports.ShareRepository, maxEntries int, logger *zap.Logger) *ShareService {
	if maxEntries < 1 {
		maxEntries = domain.DefaultMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShareService{repo: repo, maxEntries: maxEntries, logger: logger.Named("share")}
}

func (s *ShareService) Shorten(ctx context.Context, title string, entries []domain.RawEntry, customCode string) (*domain.Share, error) {
	token, err := s.encode(entries)
	if err != nil {
		return nil, err
	}

	code := customCode
	if code == "" {
		code, err = s.freeShortCode(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		if !validShortCode(code) {
			return nil, ErrInvalidShortCode
		}
		taken, err := s.repo.ShortCodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrShortCodeTaken
		}
	}

	now := time.Now()
	share := &domain.Share{
		ShortCode:  code,
		Title:      title,
		Token:      token,
		EntryCount: len(entries),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, share); err != nil {
		// Lost a race for the same code.
		if taken, _ := s.repo.ShortCodeExists(ctx, code); taken {
			return nil, ErrShortCodeTaken
		}
		return nil, err
	}

	s.logger.Info("share created", zap.String("code", code), zap.Int("entries", len(entries)))
	return share, nil
}

// freeShortCode draws random codes until one is unused.
func (s *ShareService) freeShortCode(ctx context.Context) (string, error) {
	for i := 0; i < 5; i++ {
		code, err := generateShortCode(6)
		if err != nil {
			return "", err
		}
		taken, err := s.repo.ShortCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrShortCodeTaken
}

// validShortCode keeps custom codes to one path segment of URL-safe bytes.
func validShortCode(code string) bool {
	if len(code) > maxShortCodeLen {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

func (s *ShareService) encode(entries []domain.RawEntry) (string, error) {
	if len(entries) == 0 {
		return "", ErrNoEntries
	}
	if len(entries) > s.maxEntries {
		return "", ErrTooManyEntries
	}
	return linkcodec.EncodeErr(entries)
}

func (s *ShareService) GetToken(ctx context.Context, code string) (string, error) {
	share, err := s.GetShareByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	return share.Token, nil
}

func (s *ShareService) GetShareByShortCode(ctx context.Context, code string) (*domain.Share, error) {
	share, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrShareNotFound
	}
	return share, nil
}

// UpdateShare changes the title and, when entries is non-nil, the stored
// comparison. Empty arguments leave the field untouched.
func (s *ShareService) UpdateShare(ctx context.Context, id int64, title string, entries []domain.RawEntry) (*domain.Share, error) {
	share, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrShareNotFound
	}

	if title != "" {
		share.Title = title
	}
	if entries != nil {
		token, err := s.encode(entries)
		if err != nil {
			return nil, err
		}
		share.Token = token
		share.EntryCount = len(entries)
	}
	share.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, share); err != nil {
		return nil, err
	}

	return share, nil
}

func (s *ShareService) DeleteShare(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *ShareService) ListShares(ctx context.Context, page, limit int, search string) ([]domain.Share, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	filters := map[string]interface{}{
		"search": search,
	}

	shares, err := s.repo.List(ctx, limit, offset, filters)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	return shares, count, nil
}

func (s *ShareService) RecordVisit(ctx context.Context, shortCode, referer, userAgent, ip string) error {
	share, err := s.GetShareByShortCode(ctx, shortCode)
	if err != nil {
		return err
	}

	visit := &domain.Visit{
		ShareID:   share.ID,
		Referer:   referer,
		UserAgent: userAgent,
		IPHash:    hashIP(ip),
		CreatedAt: time.Now(),
	}
	return s.repo.RecordVisit(ctx, visit)
}

func (s *ShareService) GetShareStats(ctx context.Context, id int64) (*domain.ShareStats, error) {
	return s.repo.GetShareStats(ctx, id)
}

func (s *ShareService) GetDashboard(ctx context.Context, limit int, search string) ([]domain.Share, int64, error) {
	if limit < 1 {
		limit = 10
	}
	filters := map[string]interface{}{
		"search": search,
	}
	return s.repo.GetDashboardStats(ctx, limit, filters)
}

func hashIP(addr string) string {
	ip := addr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		ip = host
	}
	sum := blake3.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateShortCode(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

var _ ports.ShareService = (*ShareService)(nil)
