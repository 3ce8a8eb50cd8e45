package products

import (
	"context"
	"database/sql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// GET /products?all=1
func (s *Store) List(ctx context.Context, includeDisabled bool) ([]Product, error) {
	q := `
		SELECT product_id, product_code, product_name, category, manufacturer, is_disabled
		FROM products
	`
	if !includeDisabled {
		q += ` WHERE is_disabled = 0`
	}
	q += ` ORDER BY product_id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Product, 0, 16)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ProductID, &p.ProductCode, &p.ProductName, &p.Category, &p.Manufacturer, &p.IsDisabled); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) GetByID(ctx context.Context, id uint64) (*Product, error) {
	const q = `
		SELECT product_id, product_code, product_name, category, manufacturer, is_disabled
		FROM products
		WHERE product_id = ?
	`
	var p Product
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&p.ProductID, &p.ProductCode, &p.ProductName, &p.Category, &p.Manufacturer, &p.IsDisabled)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Create(ctx context.Context, p *Product) error {
	const q = `
		INSERT INTO products (product_code, product_name, category, manufacturer, is_disabled)
		VALUES (?, ?, ?, ?, 0)
	`
	r, err := s.db.ExecContext(ctx, q, p.ProductCode, p.ProductName, p.Category, p.Manufacturer)
	if err != nil {
		return err
	}
	lastID, err := r.LastInsertId()
	if err != nil {
		return err
	}
	p.ProductID = uint64(lastID)
	return nil
}

func (s *Store) Update(ctx context.Context, p *Product) error {
	const q = `
		UPDATE products
		SET product_code = ?, product_name = ?, category = ?, manufacturer = ?, is_disabled = ?
		WHERE product_id = ?
	`
	r, err := s.db.ExecContext(ctx, q,
		p.ProductCode, p.ProductName, p.Category, p.Manufacturer, p.IsDisabled, p.ProductID)
	if err != nil {
		return err
	}
	aff, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DELETE: 物理削除はしない。is_disabled=1 にする。
func (s *Store) Disable(ctx context.Context, id uint64) error {
	const q = `
		UPDATE products
		SET is_disabled = 1
		WHERE product_id = ?
	`
	r, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	aff, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
