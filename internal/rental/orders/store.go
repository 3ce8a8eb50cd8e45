package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	platformdb "CERS-backend/internal/platform/db"
	"CERS-backend/internal/rental/apperr"
	"CERS-backend/internal/rental/items"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, opts)
}

// ===== orders =====

const orderColumns = `order_id, order_ulid, status, customer_name, assigned_to, carried_by,
	order_date, required_date, needs_approval, approved_by, approved_at, approval_notes,
	created_at, updated_at`

type rowScanner interface{ Scan(...any) error }

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.OrderID, &o.OrderULID, &o.Status, &o.CustomerName, &o.AssignedTo, &o.CarriedBy,
		&o.OrderDate, &o.RequiredDate, &o.NeedsApproval, &o.ApprovedBy, &o.ApprovedAt,
		&o.ApprovalNotes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) InsertOrderTx(ctx context.Context, tx *sql.Tx, o *Order) error {
	const q = `
	INSERT INTO orders
	(order_ulid, status, customer_name, assigned_to, carried_by, order_date,
	 required_date, needs_approval, approved_by, approved_at, approval_notes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.ExecContext(ctx, q,
		o.OrderULID, o.Status, o.CustomerName,
		nullStrOrNil(o.AssignedTo), nullStrOrNil(o.CarriedBy), o.OrderDate,
		nullTimeOrNil(o.RequiredDate), o.NeedsApproval,
		nullStrOrNil(o.ApprovedBy), nullTimeOrNil(o.ApprovedAt), nullStrOrNil(o.ApprovalNotes),
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	o.OrderID = uint64(id)

	for i := range o.Lines {
		o.Lines[i].OrderID = o.OrderID
		if err := s.insertLineTx(ctx, tx, &o.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertLineTx(ctx context.Context, tx *sql.Tx, l *OrderLine) error {
	slots, err := marshalSlots(l)
	if err != nil {
		return err
	}
	const q = `
	INSERT INTO order_lines
	(order_id, product_id, quantity, assigned_item_ids, approval_status, processing_status)
	VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		l.OrderID, l.ProductID, l.Quantity, slots, l.ApprovalStatus, l.ProcessingStatus)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	l.LineID = uint64(id)
	return nil
}

func (s *Store) GetByULID(ctx context.Context, ulid string) (*Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE order_ulid = ?`, orderColumns)
	o, err := scanOrder(s.db.QueryRowContext(ctx, q, ulid))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound("order not found")
		}
		return nil, err
	}
	lines, err := s.loadLines(ctx, s.db, o.OrderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

// LockByULIDTx は注文行をロックして明細ごと取り直す。
// ミューテーションは必ずこれで取得した最新スナップショットに対して検証する。
func (s *Store) LockByULIDTx(ctx context.Context, tx *sql.Tx, ulid string) (*Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE order_ulid = ? FOR UPDATE`, orderColumns)
	o, err := scanOrder(tx.QueryRowContext(ctx, q, ulid))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound("order not found")
		}
		return nil, err
	}
	lines, err := s.loadLines(ctx, tx, o.OrderID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) loadLines(ctx context.Context, q queryer, orderID uint64) ([]OrderLine, error) {
	const sel = `
	SELECT line_id, order_id, product_id, quantity, assigned_item_ids,
	       approval_status, processing_status, created_at, updated_at
	FROM order_lines WHERE order_id = ? ORDER BY line_id`

	rows, err := q.QueryContext(ctx, sel, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderLine
	for rows.Next() {
		var l OrderLine
		var raw []byte
		if err := rows.Scan(
			&l.LineID, &l.OrderID, &l.ProductID, &l.Quantity, &raw,
			&l.ApprovalStatus, &l.ProcessingStatus, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &l.AssignedItemIDs); err != nil {
				return nil, fmt.Errorf("order_line %d: broken assigned_item_ids: %w", l.LineID, err)
			}
		}
		NormalizeSlots(&l)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) UpdateOrderTx(ctx context.Context, tx *sql.Tx, o *Order) error {
	const q = `
	UPDATE orders
	SET status = ?, customer_name = ?, assigned_to = ?, carried_by = ?,
	    required_date = ?, needs_approval = ?, approved_by = ?, approved_at = ?, approval_notes = ?
	WHERE order_id = ?`
	_, err := tx.ExecContext(ctx, q,
		o.Status, o.CustomerName, nullStrOrNil(o.AssignedTo), nullStrOrNil(o.CarriedBy),
		nullTimeOrNil(o.RequiredDate), o.NeedsApproval,
		nullStrOrNil(o.ApprovedBy), nullTimeOrNil(o.ApprovedAt), nullStrOrNil(o.ApprovalNotes),
		o.OrderID,
	)
	return err
}

func (s *Store) UpdateLineTx(ctx context.Context, tx *sql.Tx, l *OrderLine) error {
	slots, err := marshalSlots(l)
	if err != nil {
		return err
	}
	const q = `
	UPDATE order_lines
	SET assigned_item_ids = ?, approval_status = ?, processing_status = ?
	WHERE line_id = ?`
	// 同値更新で affected=0 になっても成功扱いなので件数は見ない
	_, err = tx.ExecContext(ctx, q, slots, l.ApprovalStatus, l.ProcessingStatus, l.LineID)
	return err
}

// DeleteTx は管理者削除。参照整合性は呼び出し側の責務なので明細を先に消す。
func (s *Store) DeleteTx(ctx context.Context, tx *sql.Tx, orderID uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = ?`, orderID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE order_id = ?`, orderID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return apperr.ErrNotFound("order not found")
	}
	return nil
}

func (s *Store) List(ctx context.Context, f Filter, p Page) ([]Order, int64, error) {
	where := strings.Builder{}
	where.WriteString(` WHERE 1=1`)
	args := []any{}
	if f.Status != nil {
		where.WriteString(` AND status = ?`)
		args = append(args, *f.Status)
	}
	if f.Customer != nil {
		where.WriteString(` AND customer_name = ?`)
		args = append(args, *f.Customer)
	}
	if f.AssignedTo != nil {
		where.WriteString(` AND (assigned_to = ? OR carried_by = ?)`)
		args = append(args, *f.AssignedTo, *f.AssignedTo)
	}
	if f.From != nil {
		where.WriteString(` AND order_date >= ?`)
		args = append(args, *f.From)
	}
	if f.To != nil {
		where.WriteString(` AND order_date < ?`)
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

	sel := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY order_date %s LIMIT ? OFFSET ?`,
		orderColumns, where.String(), order)

	rows, err := s.db.QueryContext(ctx, sel, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		lines, err := s.loadLines(ctx, s.db, out[i].OrderID)
		if err != nil {
			return nil, 0, err
		}
		out[i].Lines = lines
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders`+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UnitAssignedElsewhere: code が他のアクティブ明細に入っていないかのDB側照会。
// メモリ上の AssignedElsewhere と二段構えで重複割当を防ぐ。
func (s *Store) UnitAssignedElsewhere(ctx context.Context, code string, excludeLineID uint64) (bool, error) {
	const q = `
	SELECT COUNT(*)
	FROM order_lines ol
	JOIN orders o ON o.order_id = ol.order_id
	WHERE ol.line_id <> ?
	  AND ol.processing_status <> 'cancelled'
	  AND o.status <> 'cancelled'
	  AND JSON_CONTAINS(ol.assigned_item_ids, JSON_QUOTE(?))`
	var n int
	if err := s.db.QueryRowContext(ctx, q, excludeLineID, code).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Snapshot は画面カウント用の注文スナップショット。
// 読み取り専用Txを渡して一貫した断面で取る。
// 終了済み（cancelled / delivered）はカウント対象外なので最初から外す。
func (s *Store) Snapshot(ctx context.Context, q platformdb.DBTX) ([]Order, error) {
	sel := fmt.Sprintf(
		`SELECT %s FROM orders WHERE status NOT IN ('cancelled', 'delivered') ORDER BY order_date DESC`,
		orderColumns)
	rows, err := q.QueryContext(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		lines, err := s.loadLines(ctx, q, out[i].OrderID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

// ===== equipment_items（注文処理トランザクション内での個体更新） =====

// LockUnitTx は個体行をロックして取得する。
func (s *Store) LockUnitTx(ctx context.Context, tx *sql.Tx, code string) (*items.EquipmentUnit, error) {
	const q = `
	SELECT item_id, management_code, product_id, status, item_condition,
	       location, customer_name, loan_start_date, condition_notes, total_rental_days,
	       created_at, updated_at
	FROM equipment_items WHERE management_code = ? FOR UPDATE`

	var u items.EquipmentUnit
	err := tx.QueryRowContext(ctx, q, code).Scan(
		&u.ItemID, &u.ManagementCode, &u.ProductID, &u.Status, &u.Condition,
		&u.Location, &u.CustomerName, &u.LoanStartDate, &u.ConditionNotes,
		&u.TotalRentalDays, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound("equipment unit not found")
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) SaveUnitTx(ctx context.Context, tx *sql.Tx, u *items.EquipmentUnit) error {
	const q = `
	UPDATE equipment_items
	SET status = ?, item_condition = ?, location = ?, customer_name = ?,
	    loan_start_date = ?, condition_notes = ?, total_rental_days = ?
	WHERE item_id = ?`
	_, err := tx.ExecContext(ctx, q,
		u.Status, u.Condition, nullStrOrNil(u.Location), nullStrOrNil(u.CustomerName),
		nullTimeOrNil(u.LoanStartDate), nullStrOrNil(u.ConditionNotes), u.TotalRentalDays,
		u.ItemID,
	)
	return err
}

// ---- helpers ----

func marshalSlots(l *OrderLine) ([]byte, error) {
	NormalizeSlots(l)
	return json.Marshal(l.AssignedItemIDs)
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
