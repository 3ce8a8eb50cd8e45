package history

import (
	"database/sql"
	"time"
)

// 対象エンティティ種別
const (
	EntityItem  = "item"
	EntityOrder = "order"
)

// Event は状態変更1件の追記専用レコード。通常フローでは更新・削除しない。
type Event struct {
	HistoryID    uint64
	HistoryULID  string
	EntityType   string
	EntityCode   string // management_code または order_ulid
	Action       string
	FromStatus   string
	ToStatus     string
	PerformedBy  string
	Location     sql.NullString
	Condition    sql.NullString
	CustomerName sql.NullString
	Metadata     sql.NullString // JSON文字列
	RecordedAt   time.Time
}

// 一覧取得用の検索条件
type Filter struct {
	EntityType *string
	EntityCode *string
	Action     *string
	From       *time.Time
	To         *time.Time
}

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}
