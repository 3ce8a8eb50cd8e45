package views

import (
	"context"
	"database/sql"

	platformdb "CERS-backend/internal/platform/db"
	"CERS-backend/internal/rental/orders"
)

type Service struct {
	db    *sql.DB
	store *orders.Store
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: orders.NewStore(db)}
}

// CountsFor は user 向けのバッジ数をまとめて返す。
// 読み取り専用Txで取った断面1つから3画面分を数える。
func (s *Service) CountsFor(ctx context.Context, user string) (Counts, error) {
	var snap []orders.Order
	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		var err error
		snap, err = s.store.Snapshot(ctx, tx)
		return err
	})
	if err != nil {
		return Counts{}, err
	}
	return Counts{
		PreparationQueue: PreparationQueueCount(snap),
		PendingApproval:  PendingApprovalCount(snap),
		MyPageReady:      MyPageReadyCount(snap, user),
	}, nil
}
