package items

import (
	"database/sql"
	"time"
)

// ===== ステータス =====

type ItemStatus string

const (
	StatusAvailable        ItemStatus = "available"
	StatusReserved         ItemStatus = "reserved"
	StatusReadyForDelivery ItemStatus = "ready_for_delivery"
	StatusRented           ItemStatus = "rented"
	StatusReturned         ItemStatus = "returned"
	StatusCleaning         ItemStatus = "cleaning"
	StatusMaintenance      ItemStatus = "maintenance"
	StatusDemoCancelled    ItemStatus = "demo_cancelled"
	StatusOutOfOrder       ItemStatus = "out_of_order"
	StatusUnknown          ItemStatus = "unknown"
)

// ===== 状態（コンディション） =====

type ItemCondition string

const (
	CondExcellent   ItemCondition = "excellent"
	CondGood        ItemCondition = "good"
	CondFair        ItemCondition = "fair"
	CondCaution     ItemCondition = "caution"
	CondNeedsRepair ItemCondition = "needs_repair"
	CondUnknown     ItemCondition = "unknown"
)

func ValidCondition(c ItemCondition) bool {
	switch c {
	case CondExcellent, CondGood, CondFair, CondCaution, CondNeedsRepair, CondUnknown:
		return true
	}
	return false
}

// EquipmentUnit は equipment_items テーブルの1行。個体管理される物品1点。
// customer_name / loan_start_date は status=rented の間だけ値を持つ。
type EquipmentUnit struct {
	ItemID          uint64
	ManagementCode  string
	ProductID       uint64
	Status          ItemStatus
	Condition       ItemCondition
	Location        sql.NullString
	CustomerName    sql.NullString
	LoanStartDate   sql.NullTime
	ConditionNotes  sql.NullString
	TotalRentalDays int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// 一覧取得用の検索条件
type SearchQuery struct {
	Status         *ItemStatus
	Condition      *ItemCondition
	ProductID      *uint64
	Location       *string
	ManagementCode *string
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
