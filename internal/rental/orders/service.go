package orders

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"CERS-backend/internal/platform/guard"
	"CERS-backend/internal/rental/apperr"
	"CERS-backend/internal/rental/history"
	"CERS-backend/internal/rental/items"
)

// ---- Clock & ID ----
type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Action Guard のカテゴリ
const (
	guardOrderProcessing = "order_processing"
	guardAssignment      = "assignment"
	guardApproval        = "approval"
)

type Service struct {
	db    *sql.DB
	store *Store
	guard *guard.Guard
	rec   *history.Recorder
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB, g *guard.Guard, rec *history.Recorder) *Service {
	return &Service{
		db:    db,
		store: NewStore(db),
		guard: g,
		rec:   rec,
		clock: realClock{},
		id:    ulidGen{},
	}
}

func (s *Service) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.store.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// guarded は二重実行防止を掛けて fn を回す。落とされたら BUSY。
func (s *Service) guarded(category string, fn func() error) error {
	ran, err := s.guard.Do(category, fn)
	if err != nil {
		return err
	}
	if !ran {
		return apperr.ErrBusy(fmt.Sprintf("another %s operation is in flight", category))
	}
	return nil
}

// record は確定済みイベント群をベストエフォートで追記する。
// 1件でも落ちたら audit_pending=true（状態変更は巻き戻さない）。
func (s *Service) record(ctx context.Context, events []history.Event) bool {
	pending := false
	for _, ev := range events {
		if !s.rec.Record(ctx, ev) {
			pending = true
		}
	}
	return pending
}

func performer(actor string, override *string) string {
	if override != nil && *override != "" {
		return *override
	}
	return actor
}

func findLine(o *Order, lineID uint64) (*OrderLine, error) {
	for i := range o.Lines {
		if o.Lines[i].LineID == lineID {
			return &o.Lines[i], nil
		}
	}
	return nil, apperr.ErrNotFound("order line not found")
}

func orderMeta(o *Order, l *OrderLine) sql.NullString {
	m := map[string]any{"order_ulid": o.OrderULID}
	if l != nil {
		m["line_id"] = l.LineID
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// ===== 注文作成 =====

func (s *Service) SubmitOrder(ctx context.Context, req SubmitOrderRequest, actor string) (MutationResponse, error) {
	if req.CustomerName == "" {
		return MutationResponse{}, apperr.ErrInvalid("customer_name is required")
	}
	if len(req.Lines) == 0 {
		return MutationResponse{}, apperr.ErrInvalid("at least one line is required")
	}

	now := s.clock.Now()
	orderDate := now
	if req.OrderDate != nil && *req.OrderDate != "" {
		t, err := time.Parse("2006-01-02", *req.OrderDate)
		if err != nil {
			return MutationResponse{}, apperr.ErrInvalid("invalid order_date format, expected YYYY-MM-DD")
		}
		orderDate = t
	}
	var requiredDate sql.NullTime
	if req.RequiredDate != nil && *req.RequiredDate != "" {
		t, err := time.Parse("2006-01-02", *req.RequiredDate)
		if err != nil {
			return MutationResponse{}, apperr.ErrInvalid("invalid required_date format, expected YYYY-MM-DD")
		}
		requiredDate = sql.NullTime{Time: t, Valid: true}
	}

	type directLine struct {
		idx  int
		code string
	}
	var directs []directLine
	lines := make([]OrderLine, 0, len(req.Lines))
	needsApproval := false
	for i, in := range req.Lines {
		l := OrderLine{
			ProductID:        in.ProductID,
			Quantity:         in.Quantity,
			ProcessingStatus: ProcessingWaiting,
		}
		if in.ManagementCode != nil && *in.ManagementCode != "" {
			// 個体指定注文: 数量1固定・承認スキップ
			code := items.NormalizeCode(*in.ManagementCode)
			if in.Quantity > 1 {
				return MutationResponse{}, apperr.ErrInvalid("management_code order must have quantity 1")
			}
			l.Quantity = 1
			l.ApprovalStatus = ApprovalNotRequired
			directs = append(directs, directLine{idx: i, code: code})
		} else {
			if in.ProductID == 0 {
				return MutationResponse{}, apperr.ErrInvalid(fmt.Sprintf("line %d: product_id is required", i))
			}
			if in.Quantity <= 0 {
				return MutationResponse{}, apperr.ErrInvalid(fmt.Sprintf("line %d: quantity must be > 0", i))
			}
			l.ApprovalStatus = InitialLineApproval(in.NeedsApproval)
			if in.NeedsApproval {
				needsApproval = true
			}
		}
		NormalizeSlots(&l)
		lines = append(lines, l)
	}

	status := OrderApproved
	if needsApproval {
		status = OrderPending
	}

	o := &Order{
		OrderULID:     s.id.NewULID(now),
		Status:        status,
		CustomerName:  req.CustomerName,
		AssignedTo:    toNullStr(req.AssignedTo),
		CarriedBy:     toNullStr(req.CarriedBy),
		OrderDate:     orderDate,
		RequiredDate:  requiredDate,
		NeedsApproval: needsApproval,
		Lines:         lines,
	}

	who := performer(actor, req.PerformedBy)
	var events []history.Event

	err := s.guarded(guardOrderProcessing, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			// 個体指定明細は同一トランザクションで reserved へ
			for _, d := range directs {
				u, err := s.store.LockUnitTx(ctx, tx, d.code)
				if err != nil {
					return err
				}
				updated, ch, err := items.Apply(*u, items.TransitionInput{
					Action: items.ActionReserve,
					Now:    now,
				})
				if err != nil {
					return err
				}
				if err := s.store.SaveUnitTx(ctx, tx, &updated); err != nil {
					return apperr.ErrPersistence(err.Error())
				}
				if o.Lines[d.idx].ProductID == 0 {
					o.Lines[d.idx].ProductID = u.ProductID
				}
				code := d.code
				o.Lines[d.idx].AssignedItemIDs[0] = &code
				events = append(events, history.Event{
					EntityType:  history.EntityItem,
					EntityCode:  d.code,
					Action:      string(items.ActionReserve),
					FromStatus:  string(ch.From),
					ToStatus:    string(ch.To),
					PerformedBy: who,
				})
			}
			return s.store.InsertOrderTx(ctx, tx, o)
		})
	})
	if err != nil {
		return MutationResponse{}, err
	}

	events = append(events, history.Event{
		EntityType:  history.EntityOrder,
		EntityCode:  o.OrderULID,
		Action:      "submit",
		FromStatus:  "",
		ToStatus:    string(o.Status),
		PerformedBy: who,
	})
	pending := s.record(ctx, events)

	return MutationResponse{Order: toResponse(o), AuditPending: pending}, nil
}

// ===== 承認 =====

func (s *Service) ApproveLine(ctx context.Context, orderULID string, lineID uint64, req ApprovalRequest, actor string) (MutationResponse, error) {
	var decided ApprovalStatus
	switch req.Decision {
	case "approve":
		decided = ApprovalApproved
	case "reject":
		decided = ApprovalRejected
	default:
		return MutationResponse{}, apperr.ErrInvalid(`decision must be "approve" or "reject"`)
	}

	now := s.clock.Now()
	who := performer(actor, req.PerformedBy)

	var o *Order
	var events []history.Event

	err := s.guarded(guardApproval, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			o, err = s.store.LockByULIDTx(ctx, tx, orderULID)
			if err != nil {
				return err
			}
			l, err := findLine(o, lineID)
			if err != nil {
				return err
			}
			if l.ApprovalStatus != ApprovalPending {
				return apperr.ErrConflict(
					fmt.Sprintf("line approval is already %s", l.ApprovalStatus))
			}

			from := o.Status
			l.ApprovalStatus = decided
			if err := s.store.UpdateLineTx(ctx, tx, l); err != nil {
				return err
			}

			o.ApprovedBy = sql.NullString{String: who, Valid: true}
			o.ApprovedAt = sql.NullTime{Time: now, Valid: true}
			o.ApprovalNotes = toNullStr(req.Notes)
			o.Status = RollupStatus(o)
			if err := s.store.UpdateOrderTx(ctx, tx, o); err != nil {
				return err
			}

			events = append(events, history.Event{
				EntityType:  history.EntityOrder,
				EntityCode:  o.OrderULID,
				Action:      req.Decision + "_line",
				FromStatus:  string(from),
				ToStatus:    string(o.Status),
				PerformedBy: who,
				Metadata:    orderMeta(o, l),
			})
			return nil
		})
	})
	if err != nil {
		return MutationResponse{}, err
	}

	pending := s.record(ctx, events)
	return MutationResponse{Order: toResponse(o), AuditPending: pending}, nil
}

// ===== 引当 =====

func (s *Service) AssignUnit(ctx context.Context, orderULID string, lineID uint64, req AssignRequest, actor string) (MutationResponse, error) {
	code := items.NormalizeCode(req.ManagementCode)
	if code == "" {
		return MutationResponse{}, apperr.ErrInvalid("management_code is required")
	}

	now := s.clock.Now()
	who := performer(actor, req.PerformedBy)

	var o *Order
	var events []history.Event

	err := s.guarded(guardAssignment, func() error {
		// 全アクティブ明細をまたいだ重複チェック（DB側）
		taken, err := s.store.UnitAssignedElsewhere(ctx, code, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.ErrConflict(fmt.Sprintf("unit %s is already assigned to another line", code))
		}

		return s.withTx(ctx, func(tx *sql.Tx) error {
			o, err = s.store.LockByULIDTx(ctx, tx, orderULID)
			if err != nil {
				return err
			}
			l, err := findLine(o, lineID)
			if err != nil {
				return err
			}
			if !IsPreparationCandidate(l) {
				return apperr.ErrConflict(
					fmt.Sprintf("line is not a preparation candidate (approval=%s, processing=%s)",
						l.ApprovalStatus, l.ProcessingStatus))
			}

			// 事前照会からコミットまでの間に割当が入った可能性があるので、
			// トランザクション内で取り直した断面に対してもう一度確認する
			snap, err := s.store.Snapshot(ctx, tx)
			if err != nil {
				return err
			}
			if AssignedElsewhere(snap, code, l.LineID) {
				return apperr.ErrConflict(fmt.Sprintf("unit %s is already assigned to another line", code))
			}

			u, err := s.store.LockUnitTx(ctx, tx, code)
			if err != nil {
				return err
			}
			updated, ch, err := items.Apply(*u, items.TransitionInput{
				Action: items.ActionReserve,
				Now:    now,
			})
			if err != nil {
				return err
			}

			if err := Assign(l, code); err != nil {
				return err
			}
			if err := s.store.UpdateLineTx(ctx, tx, l); err != nil {
				return err
			}
			if err := s.store.SaveUnitTx(ctx, tx, &updated); err != nil {
				return apperr.ErrPersistence(err.Error())
			}

			events = append(events, history.Event{
				EntityType:  history.EntityItem,
				EntityCode:  code,
				Action:      string(items.ActionReserve),
				FromStatus:  string(ch.From),
				ToStatus:    string(ch.To),
				PerformedBy: who,
				Metadata:    orderMeta(o, l),
			})
			return nil
		})
	})
	if err != nil {
		return MutationResponse{}, err
	}

	pending := s.record(ctx, events)
	return MutationResponse{Order: toResponse(o), AuditPending: pending}, nil
}

func (s *Service) UnassignUnit(ctx context.Context, orderULID string, lineID uint64, managementCode string, actor string) (MutationResponse, error) {
	code := items.NormalizeCode(managementCode)
	now := s.clock.Now()

	var o *Order
	var events []history.Event

	err := s.guarded(guardAssignment, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			o, err = s.store.LockByULIDTx(ctx, tx, orderULID)
			if err != nil {
				return err
			}
			l, err := findLine(o, lineID)
			if err != nil {
				return err
			}
			if err := Unassign(l, code); err != nil {
				return err
			}

			// 個体を保管へ戻す。既に戻っていればそのまま（冪等）。
			ev, err := s.releaseUnitTx(ctx, tx, code, now, actor, o, l)
			if err != nil {
				return err
			}
			if ev != nil {
				events = append(events, *ev)
			}

			// ready だった明細はスロットが欠けたので waiting に戻す
			if l.ProcessingStatus == ProcessingReady {
				l.ProcessingStatus = ProcessingWaiting
			}
			if err := s.store.UpdateLineTx(ctx, tx, l); err != nil {
				return err
			}
			o.Status = RollupStatus(o)
			return s.store.UpdateOrderTx(ctx, tx, o)
		})
	})
	if err != nil {
		return MutationResponse{}, err
	}

	pending := s.record(ctx, events)
	return MutationResponse{Order: toResponse(o), AuditPending: pending}, nil
}

// releaseUnitTx は引当解除・キャンセル時の個体戻し。現ステータスで分岐し、
// 既に解放済みなら何もしない（リバーサルは冪等でなければならない）。
func (s *Service) releaseUnitTx(ctx context.Context, tx *sql.Tx, code string, now time.Time, who string, o *Order, l *OrderLine) (*history.Event, error) {
	u, err := s.store.LockUnitTx(ctx, tx, code)
	if err != nil {
		var api *apperr.APIError
		if errors.As(err, &api) && api.Code == apperr.CodeNotFound {
			return nil, nil // 個体が消えていても解除自体は成立させる
		}
		return nil, err
	}

	var action items.Action
	switch u.Status {
	case items.StatusReserved, items.StatusReadyForDelivery:
		action = items.ActionRelease
	case items.StatusRented:
		// 納品済みの取り消しは返却扱い（貸出日数は積算される）
		action = items.ActionReturn
	default:
		return nil, nil // 既に解放済み
	}

	updated, ch, err := items.Apply(*u, items.TransitionInput{Action: action, Now: now})
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveUnitTx(ctx, tx, &updated); err != nil {
		return nil, apperr.ErrPersistence(err.Error())
	}
	return &history.Event{
		EntityType:  history.EntityItem,
		EntityCode:  code,
		Action:      string(action),
		FromStatus:  string(ch.From),
		ToStatus:    string(ch.To),
		PerformedBy: who,
		Metadata:    orderMeta(o, l),
	}, nil
}

// ===== 準備完了・納品 =====

func (s *Service) MarkLineReady(ctx context.Context, orderULID string, lineID uint64, req PerformerRequest, actor string) (MutationResponse, error) {
	who := performer(actor, req.PerformedBy)

	var o *Order
	var events []history.Event

	err := s.guarded(guardOrderProcessing, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			o, err = s.store.LockByULIDTx(ctx, tx, orderULID)
			if err != nil {
				return err
			}
			l, err := findLine(o, lineID)
			if err != nil {
				return err
			}
			if !IsPreparationCandidate(l) {
				return apperr.ErrConflict(
					fmt.Sprintf("line cannot become ready (approval=%s, processing=%s)",
						l.ApprovalStatus, l.ProcessingStatus))
			}

			// 個体ステータスは毎回取り直して判定する
			statuses := make(map[string]items.ItemStatus, l.Quantity)
			for _, sp := range l.AssignedItemIDs {
				if sp == nil || *sp == "" {
					return apperr.ErrConflict("line has unassigned slots")
				}
				u, err := s.store.LockUnitTx(ctx, tx, *sp)
				if err != nil {
					return err
				}
				statuses[*sp] = u.Status
			}
			ready := IsReadyForDelivery(l, func(code string) (items.ItemStatus, bool) {
				st, ok := statuses[code]
				return st, ok
			})
			if !ready {
				return apperr.ErrConflict("not all assigned units are ready_for_delivery")
			}

			from := o.Status
			l.ProcessingStatus = ProcessingReady
			if err := s.store.UpdateLineTx(ctx, tx, l); err != nil {
				return err
			}
			o.Status = RollupStatus(o)
			if err := s.store.UpdateOrderTx(ctx, tx, o); err != nil {
				return err
			}

			events = append(events, history.Event{
				EntityType:  history.EntityOrder,
				EntityCode:  o.OrderULID,
				Action:      "line_ready",
				FromStatus:  string(from),
				ToStatus:    string(o.Status),
				PerformedBy: who,
				Metadata:    orderMeta(o, l),
			})
			return nil
		})
	})
	if err != nil {
		return MutationResponse{}, err
	}

	pending := s.record(ctx, events)
	return MutationResponse{Order: toResponse(o), AuditPending: pending}, nil
}

// DeliverLine はマイページの受け渡しアクション。明細の全個体を rented に移す。
func (s *Service) DeliverLine(ctx context.Context, orderULID string, lineID uint64, req PerformerRequest, actor string) (MutationResponse, error) {
	now := s.clock.Now()
	who := performer(actor, req.PerformedBy)

	var o *Order
	var events []history.Event

	err := s.guarded(guardOrderProcessing, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			o, err = s.store.LockByULIDTx(ctx, tx, orderULID)
			if err != nil {
				return err
			}
			l, err := findLine(o, lineID)
			if err != nil {
				return err
			}
			if l.ProcessingStatus != ProcessingReady {
				return apperr.ErrConflict(
					fmt.Sprintf("line is %s, only ready lines can be delivered", l.ProcessingStatus))
			}

			for _, sp := range l.AssignedItemIDs {
				if sp == nil || *sp == "" {
					return apperr.ErrConflict("line has unassigned slots")
				}
				u, err := s.store.LockUnitTx(ctx, tx, *sp)
				if err != nil {
					return err
				}
				updated, ch, err := items.Apply(*u, items.TransitionInput{
					Action:       items.ActionDeliver,
					CustomerName: &o.CustomerName,
					Now:          now,
				})
				if err != nil {
					return err
				}
				if err := s.store.SaveUnitTx(ctx, tx, &updated); err != nil {
					return apperr.ErrPersistence(err.Error())
				}
				events = append(events, history.Event{
					EntityType:   history.EntityItem,
					EntityCode:   *sp,
					Action:       string(items.ActionDeliver),
					FromStatus:   string(ch.From),
					ToStatus:     string(ch.To),
					PerformedBy:  who,
					CustomerName: updated.CustomerName,
					Metadata:     orderMeta(o, l),
				})
			}

			from := o.Status
			l.ProcessingStatus = ProcessingDelivered
			if err := s.store.UpdateLineTx(ctx, tx, l); err != nil {
				return err
			}
			o.Status = RollupStatus(o)
			if err := s.store.UpdateOrderTx(ctx, tx, o); err != nil {
				return err
			}

			events = append(events, history.Event{
				EntityType:  history.EntityOrder,
				EntityCode:  o.OrderULID,
				Action:      "deliver_line",
				FromStatus:  string(from),
				ToStatus:    string(o.Status),
				PerformedBy: who,
				Metadata:    orderMeta(o, l),
			})
			return nil
		})
	})
	if err != nil {
		return MutationResponse{}, err
	}

	pending := s.record(ctx, events)
	return MutationResponse{Order: toResponse(o), AuditPending: pending}, nil
}

// ===== キャンセル =====

func (s *Service) CancelLine(ctx context.Context, orderULID string, lineID uint64, req PerformerRequest, actor string) (MutationResponse, error) {
	now := s.clock.Now()
	who := performer(actor, req.PerformedBy)

	var o *Order
	var events []history.Event

	err := s.guarded(guardOrderProcessing, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			o, err = s.store.LockByULIDTx(ctx, tx, orderULID)
			if err != nil {
				return err
			}
			l, err := findLine(o, lineID)
			if err != nil {
				return err
			}
			if l.ProcessingStatus == ProcessingCancelled {
				return nil // 二度目は何もしない（冪等）
			}

			evs, err := s.cancelLineTx(ctx, tx, o, l, now, who)
			if err != nil {
				return err
			}
			events = append(events, evs...)

			o.Status = RollupStatus(o)
			return s.store.UpdateOrderTx(ctx, tx, o)
		})
	})
	if err != nil {
		return MutationResponse{}, err
	}

	pending := s.record(ctx, events)
	return MutationResponse{Order: toResponse(o), AuditPending: pending}, nil
}

func (s *Service) cancelLineTx(ctx context.Context, tx *sql.Tx, o *Order, l *OrderLine, now time.Time, who string) ([]history.Event, error) {
	var events []history.Event
	for _, sp := range l.AssignedItemIDs {
		if sp == nil || *sp == "" {
			continue
		}
		ev, err := s.releaseUnitTx(ctx, tx, *sp, now, who, o, l)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			events = append(events, *ev)
		}
	}
	from := l.ProcessingStatus
	l.ProcessingStatus = ProcessingCancelled
	if err := s.store.UpdateLineTx(ctx, tx, l); err != nil {
		return nil, err
	}
	events = append(events, history.Event{
		EntityType:  history.EntityOrder,
		EntityCode:  o.OrderULID,
		Action:      "cancel_line",
		FromStatus:  string(from),
		ToStatus:    string(ProcessingCancelled),
		PerformedBy: who,
		Metadata:    orderMeta(o, l),
	})
	return events, nil
}

func (s *Service) CancelOrder(ctx context.Context, orderULID string, req PerformerRequest, actor string) (MutationResponse, error) {
	now := s.clock.Now()
	who := performer(actor, req.PerformedBy)

	var o *Order
	var events []history.Event

	err := s.guarded(guardOrderProcessing, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			o, err = s.store.LockByULIDTx(ctx, tx, orderULID)
			if err != nil {
				return err
			}
			if o.Status == OrderCancelled {
				return nil // 冪等
			}
			if o.Status == OrderDelivered {
				return apperr.ErrConflict("delivered orders cannot be cancelled")
			}

			from := o.Status
			for i := range o.Lines {
				l := &o.Lines[i]
				if !l.Active() {
					continue
				}
				evs, err := s.cancelLineTx(ctx, tx, o, l, now, who)
				if err != nil {
					return err
				}
				events = append(events, evs...)
			}
			o.Status = OrderCancelled
			if err := s.store.UpdateOrderTx(ctx, tx, o); err != nil {
				return err
			}
			events = append(events, history.Event{
				EntityType:  history.EntityOrder,
				EntityCode:  o.OrderULID,
				Action:      "cancel_order",
				FromStatus:  string(from),
				ToStatus:    string(OrderCancelled),
				PerformedBy: who,
			})
			return nil
		})
	})
	if err != nil {
		return MutationResponse{}, err
	}

	pending := s.record(ctx, events)
	return MutationResponse{Order: toResponse(o), AuditPending: pending}, nil
}

// Delete は管理者削除。明細を先に消す（参照整合性は呼び出し側の責務）。
// 引当の巻き戻しはキャンセル側の仕事なので、未決着の注文は先にキャンセルさせる。
func (s *Service) Delete(ctx context.Context, orderULID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		o, err := s.store.LockByULIDTx(ctx, tx, orderULID)
		if err != nil {
			return err
		}
		if o.Status != OrderCancelled && o.Status != OrderDelivered {
			return apperr.ErrConflict("cancel the order before deleting it")
		}
		return s.store.DeleteTx(ctx, tx, o.OrderID)
	})
}

// ===== 取得 =====

func (s *Service) Get(ctx context.Context, orderULID string) (OrderResponse, error) {
	o, err := s.store.GetByULID(ctx, orderULID)
	if err != nil {
		return OrderResponse{}, err
	}
	return toResponse(o), nil
}

type ListResult struct {
	Items      []OrderResponse `json:"items"`
	Total      int64           `json:"total"`
	NextOffset int             `json:"next_offset"`
}

func (s *Service) List(ctx context.Context, f Filter, p Page) (ListResult, error) {
	rows, total, err := s.store.List(ctx, f, p)
	if err != nil {
		return ListResult{}, err
	}
	out := make([]OrderResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	next := p.Offset + p.Limit
	if next >= int(total) {
		next = 0
	}
	return ListResult{Items: out, Total: total, NextOffset: next}, nil
}
