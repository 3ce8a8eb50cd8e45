package items

import (
	"fmt"
	"time"

	"CERS-backend/internal/rental/apperr"
)

// ===== アクション =====

type Action string

const (
	ActionReserve           Action = "reserve"             // 注文への引当
	ActionRent              Action = "rent"                // 配送中注文への直接引当
	ActionPrepare           Action = "prepare"             // 準備完了
	ActionDeliver           Action = "deliver"             // 納品（貸出開始）
	ActionReturn            Action = "return"              // 返却
	ActionDemoCancel        Action = "demo_cancel"         // デモキャンセル
	ActionDemoCancelRestock Action = "demo_cancel_restock" // デモキャンセル即時在庫戻し
	ActionDisinfect         Action = "disinfect"           // 消毒完了
	ActionMaintenanceDone   Action = "maintenance_done"    // メンテ点検完了
	ActionRestock           Action = "restock"             // 在庫戻し
	ActionRepairDone        Action = "repair_done"         // 修理完了
	ActionRelease           Action = "release"             // 引当解除（キャンセル戻し）
	ActionMarkOutOfOrder    Action = "mark_out_of_order"   // 故障登録
)

// (現ステータス, アクション) → 遷移先。ここに無い組み合わせは全部拒否。
var transitions = map[ItemStatus]map[Action]ItemStatus{
	StatusAvailable: {
		ActionReserve: StatusReserved,
		ActionRent:    StatusRented,
		// restock系は繰り返し実行しても安全（available→availableを許す）
		ActionRestock:    StatusAvailable,
		ActionRepairDone: StatusAvailable,
	},
	StatusReserved: {
		ActionPrepare: StatusReadyForDelivery,
		ActionRelease: StatusAvailable,
	},
	StatusReadyForDelivery: {
		ActionDeliver: StatusRented,
		ActionRelease: StatusAvailable,
	},
	StatusRented: {
		ActionReturn:            StatusReturned,
		ActionDemoCancel:        StatusDemoCancelled,
		ActionDemoCancelRestock: StatusAvailable,
	},
	StatusReturned: {
		ActionDisinfect: StatusCleaning,
	},
	StatusCleaning: {
		ActionMaintenanceDone: StatusMaintenance,
	},
	StatusMaintenance: {
		ActionRestock: StatusAvailable,
	},
	StatusDemoCancelled: {
		ActionRestock: StatusAvailable,
	},
	StatusOutOfOrder: {
		ActionRepairDone: StatusAvailable,
	},
}

// TransitionInput は1回の遷移要求。
type TransitionInput struct {
	Action       Action
	Condition    ItemCondition // 空なら据え置き
	Location     *string
	CustomerName *string // rent/deliver で必須
	Notes        *string
	Now          time.Time
}

// Change は遷移結果のサマリ。履歴イベントの材料になる。
type Change struct {
	From ItemStatus
	To   ItemStatus
}

// Apply は遷移を検証して適用後のコピーを返す。副作用は一切ここで完結する
// （rented脱出時の貸出日数の積算とcustomer欄のクリア、故障状態の強制付け替え）。
// 不正な遷移は書き込み前に INVALID_TRANSITION で拒否する。
func Apply(u EquipmentUnit, in TransitionInput) (EquipmentUnit, Change, error) {
	if in.Condition != "" && !ValidCondition(in.Condition) {
		return u, Change{}, apperr.ErrInvalid(fmt.Sprintf("unknown condition %q", in.Condition))
	}

	cond := u.Condition
	if in.Condition != "" {
		cond = in.Condition
	}

	var to ItemStatus
	if in.Action == ActionMarkOutOfOrder {
		// 故障登録はどのステータスからでも可。ただし needs_repair が前提。
		if cond != CondNeedsRepair {
			return u, Change{}, apperr.ErrTransition("mark_out_of_order requires condition needs_repair")
		}
		to = StatusOutOfOrder
	} else {
		next, ok := transitions[u.Status][in.Action]
		if !ok {
			return u, Change{}, apperr.ErrTransition(
				fmt.Sprintf("action %q not allowed from status %q", in.Action, u.Status))
		}
		to = next
	}

	// 状態優先ルール: needs_repair が記録されたら行き先によらず out_of_order
	if cond == CondNeedsRepair {
		to = StatusOutOfOrder
	}

	from := u.Status

	// rented に入るときは貸出先が必須
	if to == StatusRented && from != StatusRented {
		if in.CustomerName == nil || *in.CustomerName == "" {
			return u, Change{}, apperr.ErrInvalid("customer_name is required when renting")
		}
	}

	// ---- ここから先は検証済み。コピーに副作用を畳み込む ----

	// rented を抜けるとき: 経過日数を積算して貸出先をクリア
	if from == StatusRented && to != StatusRented {
		if u.LoanStartDate.Valid {
			u.TotalRentalDays += daysBetween(u.LoanStartDate.Time, in.Now)
		}
		u.CustomerName = toNullStr(nil)
		u.LoanStartDate.Valid = false
		u.LoanStartDate.Time = time.Time{}
	}

	// rented に入るとき: 貸出先と貸出開始日をセット
	if to == StatusRented && from != StatusRented {
		u.CustomerName = toNullStr(in.CustomerName)
		u.LoanStartDate.Valid = true
		u.LoanStartDate.Time = truncateToDay(in.Now)
	}

	u.Status = to
	u.Condition = cond
	if in.Location != nil {
		u.Location = toNullStr(in.Location)
	}
	if in.Notes != nil {
		u.ConditionNotes = toNullStr(in.Notes)
	}

	return u, Change{From: from, To: to}, nil
}

// daysBetween は暦日単位の経過日数。両端をそれぞれの暦日に落としてから
// UTC の0時同士で引き算する。UTC に正規化するのは1日を必ず24時間にする
// ため（夏時間のある地方時だと23時間/25時間の日が出て日数がずれる）。
func daysBetween(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	d := int(e.Sub(s).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
