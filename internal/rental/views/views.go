// Package views は注文スナップショットから導出する画面用カウントを提供する。
// カウントは保存しない。毎回その場で数え直す。
package views

import "CERS-backend/internal/rental/orders"

// Counts は3画面分のバッジ数。
type Counts struct {
	PreparationQueue int `json:"preparation_queue"`
	PendingApproval  int `json:"pending_approval"`
	MyPageReady      int `json:"my_page_ready"`
}

// PreparationQueueCount は準備対象明細の未充当数の合計。
// キャンセル済み注文は数えない。
func PreparationQueueCount(os []orders.Order) int {
	total := 0
	for i := range os {
		o := &os[i]
		if o.Status == orders.OrderCancelled {
			continue
		}
		for j := range o.Lines {
			l := &o.Lines[j]
			if orders.IsPreparationCandidate(l) {
				total += orders.RemainingCount(l)
			}
		}
	}
	return total
}

// PendingApprovalCount は承認画面に出す注文数。
// 一部承認済み（partial_approved）もまだ判断が残っているので含める。
func PendingApprovalCount(os []orders.Order) int {
	n := 0
	for i := range os {
		switch os[i].Status {
		case orders.OrderPending, orders.OrderPartialApproved:
			n++
		}
	}
	return n
}

// MyPageReadyCount はユーザー user のマイページに出す受け渡し待ち個体数。
// 担当（assigned_to）か運搬（carried_by）のどちらかが一致する注文の
// ready 明細について、充当済みスロットを数える。納品完了済み注文は除く。
func MyPageReadyCount(os []orders.Order, user string) int {
	if user == "" {
		return 0
	}
	total := 0
	for i := range os {
		o := &os[i]
		if o.Status == orders.OrderCancelled || o.Status == orders.OrderDelivered {
			continue
		}
		if !involves(o, user) {
			continue
		}
		for j := range o.Lines {
			l := &o.Lines[j]
			if l.ProcessingStatus == orders.ProcessingReady {
				total += orders.FulfilledCount(l)
			}
		}
	}
	return total
}

func involves(o *orders.Order, user string) bool {
	if o.AssignedTo.Valid && o.AssignedTo.String == user {
		return true
	}
	if o.CarriedBy.Valid && o.CarriedBy.String == user {
		return true
	}
	return false
}
