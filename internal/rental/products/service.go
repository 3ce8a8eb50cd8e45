package products

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"

	"CERS-backend/internal/rental/apperr"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

func parseBoolish(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "1" || s == "true" || s == "yes" || s == "all"
}

func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", apperr.ErrInvalid("product_code is required")
	}
	return code, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.ErrInvalid("product_name is required")
	}
	return name, nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

func (s *Service) List(ctx context.Context, all string) ([]Product, error) {
	return s.store.List(ctx, parseBoolish(all))
}

func (s *Service) Get(ctx context.Context, id uint64) (*Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound("product not found")
		}
		return nil, apperr.ErrInternal("failed to get product")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	code, err := normalizeCode(req.ProductCode)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(req.ProductName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, apperr.ErrInvalid("category is required")
	}
	p := &Product{
		ProductCode:  code,
		ProductName:  name,
		Category:     strings.TrimSpace(req.Category),
		Manufacturer: strings.TrimSpace(req.Manufacturer),
	}
	if err := s.store.Create(ctx, p); err != nil {
		if isDuplicateKey(err) {
			return nil, apperr.ErrConflict("product_code already exists")
		}
		return nil, apperr.ErrInternal("failed to create product")
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uint64, req UpdateProductRequest) (*Product, error) {
	code, err := normalizeCode(req.ProductCode)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(req.ProductName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, apperr.ErrInvalid("category is required")
	}
	p := &Product{
		ProductID:    id,
		ProductCode:  code,
		ProductName:  name,
		Category:     strings.TrimSpace(req.Category),
		Manufacturer: strings.TrimSpace(req.Manufacturer),
		IsDisabled:   req.IsDisabled,
	}
	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound("product not found")
		}
		if isDuplicateKey(err) {
			return nil, apperr.ErrConflict("product_code already exists")
		}
		return nil, apperr.ErrInternal("failed to update product")
	}
	return p, nil
}

func (s *Service) Disable(ctx context.Context, id uint64) error {
	if err := s.store.Disable(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound("product not found")
		}
		return apperr.ErrInternal("failed to disable product")
	}
	return nil
}
