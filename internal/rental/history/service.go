package history

import (
	"context"
	"database/sql"
	"time"

	"CERS-backend/internal/rental/apperr"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

type ListResult struct {
	Items      []EventResponse `json:"items"`
	Total      int64           `json:"total"`
	NextOffset int             `json:"next_offset"`
}

func (s *Service) List(ctx context.Context, f Filter, p Page) (ListResult, error) {
	rows, total, err := s.store.List(ctx, f, p)
	if err != nil {
		return ListResult{}, err
	}
	items := make([]EventResponse, 0, len(rows))
	for _, ev := range rows {
		items = append(items, toResponse(ev))
	}
	next := p.Offset + p.Limit
	if next >= int(total) {
		next = 0
	}
	return ListResult{Items: items, Total: total, NextOffset: next}, nil
}

// Purge は管理者専用の一括削除。通常のミューテーションと違い Action Guard は通さない。
func (s *Service) Purge(ctx context.Context, before time.Time) (int64, error) {
	if before.IsZero() {
		return 0, apperr.ErrInvalid("before is required")
	}
	return s.store.PurgeBefore(ctx, before)
}
