package orders

import (
	"database/sql"
	"time"
)

// ===== 注文ステータス =====

type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderPartialApproved OrderStatus = "partial_approved"
	OrderApproved        OrderStatus = "approved"
	OrderReady           OrderStatus = "ready"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
)

// ===== 明細の承認・処理ステータス =====

type ApprovalStatus string

const (
	ApprovalNotRequired ApprovalStatus = "not_required"
	ApprovalPending     ApprovalStatus = "pending"
	ApprovalApproved    ApprovalStatus = "approved"
	ApprovalRejected    ApprovalStatus = "rejected"
)

type ProcessingStatus string

const (
	ProcessingWaiting   ProcessingStatus = "waiting"
	ProcessingReady     ProcessingStatus = "ready"
	ProcessingDelivered ProcessingStatus = "delivered"
	ProcessingCancelled ProcessingStatus = "cancelled"
)

// Order は orders テーブルの1行 + 明細。
type Order struct {
	OrderID       uint64
	OrderULID     string
	Status        OrderStatus
	CustomerName  string
	AssignedTo    sql.NullString // 準備担当
	CarriedBy     sql.NullString // 配送担当
	OrderDate     time.Time
	RequiredDate  sql.NullTime
	NeedsApproval bool
	ApprovedBy    sql.NullString
	ApprovedAt    sql.NullTime
	ApprovalNotes sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Lines []OrderLine
}

// OrderLine は1品目×数量の要求。AssignedItemIDs は長さ == Quantity の
// スロット配列で、未充当スロットは nil（穴は詰めない。位置に意味はなく
// 占有数だけが意味を持つ）。
type OrderLine struct {
	LineID           uint64
	OrderID          uint64
	ProductID        uint64
	Quantity         int
	AssignedItemIDs  []*string
	ApprovalStatus   ApprovalStatus
	ProcessingStatus ProcessingStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Active は明細がまだ生きているか（キャンセル済みでないか）。
func (l *OrderLine) Active() bool {
	return l.ProcessingStatus != ProcessingCancelled
}

// 一覧取得用の検索条件
type Filter struct {
	Status     *OrderStatus
	Customer   *string
	AssignedTo *string
	From       *time.Time
	To         *time.Time
}

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}

// ---- helpers ----

func toNullStr(s *string) (ns sql.NullString) {
	if s != nil && *s != "" {
		ns.Valid, ns.String = true, *s
	}
	return
}

func nullToPtr(ns sql.NullString) *string {
	if ns.Valid {
		v := ns.String
		return &v
	}
	return nil
}
