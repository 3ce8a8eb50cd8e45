package orders

import (
	"fmt"

	"CERS-backend/internal/rental/apperr"
	"CERS-backend/internal/rental/items"
)

// スロット割当の純粋ロジック。数量上限と個体の重複割当をここで守る。
// DBを触らないので、取得し直したスナップショットに対して何度でも検証できる。

// NormalizeSlots は AssignedItemIDs を必ず長さ == Quantity に揃える。
// 旧データや手修正で短い配列が入っていても穴埋めして扱う。
func NormalizeSlots(l *OrderLine) {
	if l.Quantity < 0 {
		l.Quantity = 0
	}
	for len(l.AssignedItemIDs) < l.Quantity {
		l.AssignedItemIDs = append(l.AssignedItemIDs, nil)
	}
	if len(l.AssignedItemIDs) > l.Quantity {
		l.AssignedItemIDs = l.AssignedItemIDs[:l.Quantity]
	}
}

// FulfilledCount は占有済みスロット数。
func FulfilledCount(l *OrderLine) int {
	n := 0
	for _, s := range l.AssignedItemIDs {
		if s != nil && *s != "" {
			n++
		}
	}
	return n
}

// RemainingCount は未充当スロット数。
func RemainingCount(l *OrderLine) int {
	return l.Quantity - FulfilledCount(l)
}

// Assign は code を最初の空きスロットに入れる。占有スロットは上書きしない。
func Assign(l *OrderLine, code string) error {
	NormalizeSlots(l)

	for _, s := range l.AssignedItemIDs {
		if s != nil && *s == code {
			return apperr.ErrConflict(fmt.Sprintf("unit %s already assigned to this line", code))
		}
	}
	if FulfilledCount(l) >= l.Quantity {
		return apperr.ErrConflict("line already fully assigned")
	}
	for i, s := range l.AssignedItemIDs {
		if s == nil || *s == "" {
			c := code
			l.AssignedItemIDs[i] = &c
			return nil
		}
	}
	// NormalizeSlots後にここへは来ない
	return apperr.ErrInternal("no free slot found")
}

// Unassign は code の入っているスロットを空ける。穴は詰めない。
// 納品済み・キャンセル済みの明細からは外せない。納品後の巻き戻しは
// 明細キャンセルか個体側の返却アクションで行うこと。
func Unassign(l *OrderLine, code string) error {
	switch l.ProcessingStatus {
	case ProcessingDelivered, ProcessingCancelled:
		return apperr.ErrConflict(
			fmt.Sprintf("cannot unassign from a %s line", l.ProcessingStatus))
	}
	for i, s := range l.AssignedItemIDs {
		if s != nil && *s == code {
			l.AssignedItemIDs[i] = nil
			return nil
		}
	}
	return apperr.ErrNotFound(fmt.Sprintf("unit %s is not assigned to this line", code))
}

// AssignedElsewhere は code が他のアクティブ明細に既に入っているかを
// メモリ上のスナップショットで確認する（DB側のJSON_CONTAINS照会と二段構え）。
func AssignedElsewhere(orders []Order, code string, excludeLineID uint64) bool {
	for i := range orders {
		o := &orders[i]
		if o.Status == OrderCancelled {
			continue
		}
		for j := range o.Lines {
			l := &o.Lines[j]
			if !l.Active() || l.LineID == excludeLineID {
				continue
			}
			for _, s := range l.AssignedItemIDs {
				if s != nil && *s == code {
					return true
				}
			}
		}
	}
	return false
}

// IsReadyForDelivery: 全スロット充当済みかつ全個体が ready_for_delivery。
// statusOf は取得し直した最新の個体ステータスを返すこと。
func IsReadyForDelivery(l *OrderLine, statusOf func(code string) (items.ItemStatus, bool)) bool {
	if FulfilledCount(l) != l.Quantity || l.Quantity == 0 {
		return false
	}
	for _, s := range l.AssignedItemIDs {
		if s == nil || *s == "" {
			return false
		}
		st, ok := statusOf(*s)
		if !ok || st != items.StatusReadyForDelivery {
			return false
		}
	}
	return true
}
