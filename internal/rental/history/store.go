package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Append(ctx context.Context, ev *Event) error {
	const q = `
	INSERT INTO item_histories
	(history_ulid, entity_type, entity_code, action, from_status, to_status,
	 performed_by, location, item_condition, customer_name, metadata, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q,
		ev.HistoryULID, ev.EntityType, ev.EntityCode, ev.Action,
		ev.FromStatus, ev.ToStatus, ev.PerformedBy,
		nullStrOrNil(ev.Location), nullStrOrNil(ev.Condition),
		nullStrOrNil(ev.CustomerName), nullStrOrNil(ev.Metadata),
		ev.RecordedAt,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	ev.HistoryID = uint64(id)
	return nil
}

func (s *Store) List(ctx context.Context, f Filter, p Page) ([]Event, int64, error) {
	where := strings.Builder{}
	where.WriteString(` WHERE 1=1`)
	args := []any{}
	if f.EntityType != nil {
		where.WriteString(` AND entity_type = ?`)
		args = append(args, *f.EntityType)
	}
	if f.EntityCode != nil {
		where.WriteString(` AND entity_code = ?`)
		args = append(args, *f.EntityCode)
	}
	if f.Action != nil {
		where.WriteString(` AND action = ?`)
		args = append(args, *f.Action)
	}
	if f.From != nil {
		where.WriteString(` AND recorded_at >= ?`)
		args = append(args, *f.From)
	}
	if f.To != nil {
		where.WriteString(` AND recorded_at < ?`)
		args = append(args, *f.To)
	}

	order := "DESC"
	if strings.ToLower(p.Order) == "asc" {
		order = "ASC"
	}
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	q := fmt.Sprintf(`
	SELECT history_id, history_ulid, entity_type, entity_code, action,
	       from_status, to_status, performed_by, location, item_condition,
	       customer_name, metadata, recorded_at
	FROM item_histories%s ORDER BY recorded_at %s LIMIT ? OFFSET ?`, where.String(), order)

	rows, err := s.db.QueryContext(ctx, q, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(
			&ev.HistoryID, &ev.HistoryULID, &ev.EntityType, &ev.EntityCode, &ev.Action,
			&ev.FromStatus, &ev.ToStatus, &ev.PerformedBy, &ev.Location, &ev.Condition,
			&ev.CustomerName, &ev.Metadata, &ev.RecordedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	cq := `SELECT COUNT(*) FROM item_histories` + where.String()
	if err := s.db.QueryRowContext(ctx, cq, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// PurgeBefore は管理者用の一括削除。通常フローからは呼ばれない。
func (s *Store) PurgeBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM item_histories WHERE recorded_at < ?`, t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullStrOrNil(ns sql.NullString) any {
	if ns.Valid {
		return ns.String
	}
	return nil
}
