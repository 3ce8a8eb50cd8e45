package items

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"golang.org/x/text/width"

	"CERS-backend/internal/platform/guard"
	"CERS-backend/internal/rental/apperr"
	"CERS-backend/internal/rental/history"
)

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Action Guard のカテゴリ。個体のステータス操作はまとめて1カテゴリ。
const guardStatusUpdate = "status_update"

type Service struct {
	db    *sql.DB
	store *Store
	guard *guard.Guard
	rec   *history.Recorder
	clock Clock
}

func NewService(db *sql.DB, g *guard.Guard, rec *history.Recorder) *Service {
	return &Service{
		db:    db,
		store: NewStore(db),
		guard: g,
		rec:   rec,
		clock: realClock{},
	}
}

// NormalizeCode はスキャン入力の管理コードを照合用に揃える。
// QR/バーコード読みで全角になりがちなので半角に畳んで前後空白を落とす。
func NormalizeCode(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

// registerEvent は登録時の履歴イベント。操作者はトークン由来の actor。
func registerEvent(u *EquipmentUnit, actor string) history.Event {
	return history.Event{
		EntityType:  history.EntityItem,
		EntityCode:  u.ManagementCode,
		Action:      "register",
		FromStatus:  "",
		ToStatus:    string(u.Status),
		PerformedBy: actor,
		Location:    u.Location,
		Condition:   sql.NullString{String: string(u.Condition), Valid: true},
	}
}

// 個体登録。初期ステータスは available。
func (s *Service) Register(ctx context.Context, req RegisterItemRequest, actor string) (ItemResponse, error) {
	code := NormalizeCode(req.ManagementCode)
	if code == "" {
		return ItemResponse{}, apperr.ErrInvalid("management_code is required")
	}
	if req.ProductID == 0 {
		return ItemResponse{}, apperr.ErrInvalid("product_id is required")
	}

	cond := CondGood
	if req.Condition != nil && *req.Condition != "" {
		cond = ItemCondition(*req.Condition)
		if !ValidCondition(cond) {
			return ItemResponse{}, apperr.ErrInvalid("unknown condition")
		}
	}

	u := &EquipmentUnit{
		ManagementCode: code,
		ProductID:      req.ProductID,
		Status:         StatusAvailable,
		Condition:      cond,
		Location:       toNullStr(req.Location),
		ConditionNotes: toNullStr(req.Notes),
	}
	if err := s.store.Insert(ctx, u); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			switch me.Number {
			case 1062:
				return ItemResponse{}, apperr.ErrConflict("management_code already exists")
			case 1452:
				return ItemResponse{}, apperr.ErrInvalid("invalid product_id")
			}
		}
		return ItemResponse{}, err
	}

	s.rec.Record(ctx, registerEvent(u, actor))

	out, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return ItemResponse{}, err
	}
	return toResponse(out), nil
}

func (s *Service) Get(ctx context.Context, code string) (ItemResponse, error) {
	u, err := s.store.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return ItemResponse{}, err
	}
	return toResponse(u), nil
}

func (s *Service) List(ctx context.Context, q SearchQuery, p Page) ([]ItemResponse, int64, error) {
	rows, total, err := s.store.List(ctx, q, p)
	if err != nil {
		return nil, 0, err
	}
	items := make([]ItemResponse, 0, len(rows))
	for i := range rows {
		items = append(items, toResponse(&rows[i]))
	}
	return items, total, nil
}

// 保管中メモ・置き場所の更新。ステータスは動かさない。
func (s *Service) Update(ctx context.Context, code string, req UpdateItemRequest) (ItemResponse, error) {
	u, err := s.store.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return ItemResponse{}, err
	}
	if req.Location != nil {
		u.Location = toNullStr(req.Location)
	}
	if req.ConditionNotes != nil {
		u.ConditionNotes = toNullStr(req.ConditionNotes)
	}
	if err := s.store.Save(ctx, u); err != nil {
		return ItemResponse{}, err
	}
	out, err := s.store.GetByCode(ctx, u.ManagementCode)
	if err != nil {
		return ItemResponse{}, err
	}
	return toResponse(out), nil
}

// ApplyAction は個体1点への遷移要求の入口。
// 毎回DBから取り直した現ステータスに対して検証する（キャッシュに権威を持たせない）。
func (s *Service) ApplyAction(ctx context.Context, code string, req ItemActionRequest, actor string) (ItemActionResponse, error) {
	code = NormalizeCode(code)
	if code == "" {
		return ItemActionResponse{}, apperr.ErrInvalid("management_code is required")
	}
	if req.Action == "" {
		return ItemActionResponse{}, apperr.ErrInvalid("action is required")
	}

	var resp ItemActionResponse
	ran, err := s.guard.Do(guardStatusUpdate, func() error {
		u, err := s.store.GetByCode(ctx, code)
		if err != nil {
			return err
		}

		in := TransitionInput{
			Action:       Action(req.Action),
			Location:     req.Location,
			CustomerName: req.CustomerName,
			Notes:        req.Notes,
			Now:          s.clock.Now(),
		}
		if req.Condition != nil {
			in.Condition = ItemCondition(*req.Condition)
		}

		updated, ch, err := Apply(*u, in)
		if err != nil {
			return err
		}

		if err := s.store.Save(ctx, &updated); err != nil {
			return apperr.ErrPersistence(err.Error())
		}

		performer := actor
		if req.PerformedBy != nil && *req.PerformedBy != "" {
			performer = *req.PerformedBy
		}
		ok := s.rec.Record(ctx, history.Event{
			EntityType:   history.EntityItem,
			EntityCode:   code,
			Action:       string(in.Action),
			FromStatus:   string(ch.From),
			ToStatus:     string(ch.To),
			PerformedBy:  performer,
			Location:     updated.Location,
			Condition:    sql.NullString{String: string(updated.Condition), Valid: true},
			CustomerName: updated.CustomerName,
		})

		resp = ItemActionResponse{
			Item:         toResponse(&updated),
			FromStatus:   ch.From,
			ToStatus:     ch.To,
			AuditPending: !ok,
		}
		return nil
	})
	if err != nil {
		return ItemActionResponse{}, err
	}
	if !ran {
		return ItemActionResponse{}, apperr.ErrBusy("another status update is in flight")
	}
	return resp, nil
}

// Delete は管理者オーバーライド。
func (s *Service) Delete(ctx context.Context, code string) error {
	return s.store.Delete(ctx, NormalizeCode(code))
}
