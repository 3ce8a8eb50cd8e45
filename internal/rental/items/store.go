package items

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"CERS-backend/internal/rental/apperr"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const unitColumns = `item_id, management_code, product_id, status, item_condition,
	location, customer_name, loan_start_date, condition_notes, total_rental_days,
	created_at, updated_at`

func scanUnit(row interface{ Scan(...any) error }) (*EquipmentUnit, error) {
	var u EquipmentUnit
	err := row.Scan(
		&u.ItemID, &u.ManagementCode, &u.ProductID, &u.Status, &u.Condition,
		&u.Location, &u.CustomerName, &u.LoanStartDate, &u.ConditionNotes,
		&u.TotalRentalDays, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) Insert(ctx context.Context, u *EquipmentUnit) error {
	const q = `
	INSERT INTO equipment_items
	(management_code, product_id, status, item_condition, location, condition_notes, total_rental_days)
	VALUES (?, ?, ?, ?, ?, ?, 0)`

	res, err := s.db.ExecContext(ctx, q,
		u.ManagementCode, u.ProductID, u.Status, u.Condition,
		nullStrOrNil(u.Location), nullStrOrNil(u.ConditionNotes),
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	u.ItemID = uint64(id)
	return nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (*EquipmentUnit, error) {
	q := fmt.Sprintf(`SELECT %s FROM equipment_items WHERE management_code = ?`, unitColumns)
	u, err := scanUnit(s.db.QueryRowContext(ctx, q, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound("equipment unit not found")
		}
		return nil, err
	}
	return u, nil
}

// Save は遷移適用後のスナップショットで可変カラムを総入れ替えする。
// 取得→検証→書き込みの楽観方式。後勝ちで上書きする。
func (s *Store) Save(ctx context.Context, u *EquipmentUnit) error {
	const q = `
	UPDATE equipment_items
	SET status = ?, item_condition = ?, location = ?, customer_name = ?,
	    loan_start_date = ?, condition_notes = ?, total_rental_days = ?
	WHERE management_code = ?`

	res, err := s.db.ExecContext(ctx, q,
		u.Status, u.Condition, nullStrOrNil(u.Location), nullStrOrNil(u.CustomerName),
		nullTimeOrNil(u.LoanStartDate), nullStrOrNil(u.ConditionNotes), u.TotalRentalDays,
		u.ManagementCode,
	)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		// 別セッションで削除された場合。0行更新は成功扱いにしない。
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM equipment_items WHERE management_code = ?`, u.ManagementCode).Scan(&n); err == nil && n == 0 {
			return apperr.ErrNotFound("equipment unit was deleted")
		}
	}
	return nil
}

func (s *Store) List(ctx context.Context, q SearchQuery, p Page) ([]EquipmentUnit, int64, error) {
	where := strings.Builder{}
	where.WriteString(` WHERE 1=1`)
	args := []any{}
	if q.ManagementCode != nil {
		where.WriteString(` AND management_code = ?`)
		args = append(args, *q.ManagementCode)
	}
	if q.Status != nil {
		where.WriteString(` AND status = ?`)
		args = append(args, *q.Status)
	}
	if q.Condition != nil {
		where.WriteString(` AND item_condition = ?`)
		args = append(args, *q.Condition)
	}
	if q.ProductID != nil {
		where.WriteString(` AND product_id = ?`)
		args = append(args, *q.ProductID)
	}
	if q.Location != nil {
		where.WriteString(` AND location = ?`)
		args = append(args, *q.Location)
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

	sel := fmt.Sprintf(`SELECT %s FROM equipment_items%s ORDER BY management_code %s LIMIT ? OFFSET ?`,
		unitColumns, where.String(), order)

	rows, err := s.db.QueryContext(ctx, sel, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []EquipmentUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM equipment_items`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Delete は管理者オーバーライド専用。通常フローでは個体を物理削除しない。
func (s *Store) Delete(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM equipment_items WHERE management_code = ?`, code)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return apperr.ErrNotFound("equipment unit not found")
	}
	return nil
}

func nullStrOrNil(ns sql.NullString) any {
	if ns.Valid {
		return ns.String
	}
	return nil
}

func nullTimeOrNil(nt sql.NullTime) any {
	if nt.Valid {
		return nt.Time
	}
	return nil
}
