package views

import (
	"database/sql"
	"testing"

	"CERS-backend/internal/rental/orders"
)

func strPtr(s string) *string { return &s }

func vLine(quantity int, ap orders.ApprovalStatus, ps orders.ProcessingStatus, codes ...string) orders.OrderLine {
	l := orders.OrderLine{Quantity: quantity, ApprovalStatus: ap, ProcessingStatus: ps}
	orders.NormalizeSlots(&l)
	for i, c := range codes {
		if c != "" {
			l.AssignedItemIDs[i] = strPtr(c)
		}
	}
	return l
}

func TestPreparationQueueCount(t *testing.T) {
	os := []orders.Order{
		{
			Status: orders.OrderApproved,
			Lines: []orders.OrderLine{
				// 2台中1台充当 → 残1
				vLine(2, orders.ApprovalApproved, orders.ProcessingWaiting, "WC-001"),
				// 承認待ちは準備対象ではない
				vLine(3, orders.ApprovalPending, orders.ProcessingWaiting),
				// ready 済みは数えない
				vLine(1, orders.ApprovalApproved, orders.ProcessingReady, "WC-002"),
			},
		},
		{
			Status: orders.OrderPartialApproved,
			Lines: []orders.OrderLine{
				// 承認不要・未充当 → 残2
				vLine(2, orders.ApprovalNotRequired, orders.ProcessingWaiting),
			},
		},
		{
			// キャンセル済み注文は丸ごと無視
			Status: orders.OrderCancelled,
			Lines: []orders.OrderLine{
				vLine(5, orders.ApprovalApproved, orders.ProcessingWaiting),
			},
		},
	}
	if got := PreparationQueueCount(os); got != 3 {
		t.Errorf("PreparationQueueCount = %d, want 3", got)
	}
}

func TestPreparationQueueCountEmpty(t *testing.T) {
	if got := PreparationQueueCount(nil); got != 0 {
		t.Errorf("PreparationQueueCount(nil) = %d, want 0", got)
	}
}

func TestPendingApprovalCount(t *testing.T) {
	os := []orders.Order{
		{Status: orders.OrderPending},
		{Status: orders.OrderPartialApproved},
		{Status: orders.OrderApproved},
		{Status: orders.OrderReady},
		{Status: orders.OrderDelivered},
		{Status: orders.OrderCancelled},
	}
	if got := PendingApprovalCount(os); got != 2 {
		t.Errorf("PendingApprovalCount = %d, want 2", got)
	}
}

func TestMyPageReadyCount(t *testing.T) {
	mine := orders.Order{
		Status:     orders.OrderReady,
		AssignedTo: sql.NullString{String: "tanaka", Valid: true},
		Lines: []orders.OrderLine{
			vLine(2, orders.ApprovalApproved, orders.ProcessingReady, "WC-001", "WC-002"),
			// waiting 明細は数えない
			vLine(1, orders.ApprovalApproved, orders.ProcessingWaiting, "WC-003"),
		},
	}
	carried := orders.Order{
		Status:    orders.OrderReady,
		CarriedBy: sql.NullString{String: "tanaka", Valid: true},
		Lines: []orders.OrderLine{
			vLine(1, orders.ApprovalNotRequired, orders.ProcessingReady, "WC-004"),
		},
	}
	others := orders.Order{
		Status:     orders.OrderReady,
		AssignedTo: sql.NullString{String: "suzuki", Valid: true},
		Lines: []orders.OrderLine{
			vLine(1, orders.ApprovalApproved, orders.ProcessingReady, "WC-005"),
		},
	}
	delivered := orders.Order{
		Status:     orders.OrderDelivered,
		AssignedTo: sql.NullString{String: "tanaka", Valid: true},
		Lines: []orders.OrderLine{
			vLine(1, orders.ApprovalApproved, orders.ProcessingDelivered, "WC-006"),
		},
	}

	os := []orders.Order{mine, carried, others, delivered}
	if got := MyPageReadyCount(os, "tanaka"); got != 3 {
		t.Errorf("MyPageReadyCount(tanaka) = %d, want 3", got)
	}
	if got := MyPageReadyCount(os, "suzuki"); got != 1 {
		t.Errorf("MyPageReadyCount(suzuki) = %d, want 1", got)
	}
	if got := MyPageReadyCount(os, ""); got != 0 {
		t.Errorf("MyPageReadyCount(\"\") = %d, want 0", got)
	}
}
