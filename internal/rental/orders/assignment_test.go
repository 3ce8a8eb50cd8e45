package orders

import (
	"errors"
	"reflect"
	"testing"

	"CERS-backend/internal/rental/apperr"
	"CERS-backend/internal/rental/items"
)

func strPtr(s string) *string { return &s }

func line(quantity int, codes ...string) OrderLine {
	l := OrderLine{
		LineID:           1,
		ProductID:        10,
		Quantity:         quantity,
		ApprovalStatus:   ApprovalNotRequired,
		ProcessingStatus: ProcessingWaiting,
	}
	NormalizeSlots(&l)
	for i, c := range codes {
		if c != "" {
			l.AssignedItemIDs[i] = strPtr(c)
		}
	}
	return l
}

func TestAssignFirstFreeSlot(t *testing.T) {
	// quantity=2 に1台割当 → [WC-001, nil], remaining=1
	l := line(2)
	if err := Assign(&l, "WC-001"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if l.AssignedItemIDs[0] == nil || *l.AssignedItemIDs[0] != "WC-001" {
		t.Errorf("slot 0 = %v, want WC-001", l.AssignedItemIDs[0])
	}
	if l.AssignedItemIDs[1] != nil {
		t.Errorf("slot 1 should stay empty")
	}
	if got := RemainingCount(&l); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}
}

func TestAssignFillsHolesNotTail(t *testing.T) {
	// 途中の穴（解除跡）に先に入る
	l := line(3, "", "WC-002", "")
	if err := Assign(&l, "WC-009"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if l.AssignedItemIDs[0] == nil || *l.AssignedItemIDs[0] != "WC-009" {
		t.Errorf("slot 0 = %v, want WC-009", l.AssignedItemIDs[0])
	}
}

func TestAssignAlreadyFull(t *testing.T) {
	l := line(1, "WC-001")
	err := Assign(&l, "WC-002")
	var api *apperr.APIError
	if !errors.As(err, &api) || api.Code != apperr.CodeConflict {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestAssignDuplicateInLine(t *testing.T) {
	l := line(2, "WC-001")
	err := Assign(&l, "WC-001")
	var api *apperr.APIError
	if !errors.As(err, &api) || api.Code != apperr.CodeConflict {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestUnassignRoundTrip(t *testing.T) {
	// unassign(assign(line, X)) == line
	l := line(2, "WC-001")
	before := make([]*string, len(l.AssignedItemIDs))
	copy(before, l.AssignedItemIDs)

	if err := Assign(&l, "WC-002"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := Unassign(&l, "WC-002"); err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	if !reflect.DeepEqual(slotValues(l.AssignedItemIDs), slotValues(before)) {
		t.Errorf("slots = %v, want %v", slotValues(l.AssignedItemIDs), slotValues(before))
	}
}

func slotValues(slots []*string) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		if s != nil {
			out[i] = *s
		}
	}
	return out
}

func TestUnassignLeavesHole(t *testing.T) {
	l := line(3, "WC-001", "WC-002", "WC-003")
	if err := Unassign(&l, "WC-002"); err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	// 穴は詰めない
	if l.AssignedItemIDs[1] != nil {
		t.Errorf("slot 1 should be vacated, got %v", *l.AssignedItemIDs[1])
	}
	if *l.AssignedItemIDs[0] != "WC-001" || *l.AssignedItemIDs[2] != "WC-003" {
		t.Errorf("other slots must not move")
	}
	if got := FulfilledCount(&l); got != 2 {
		t.Errorf("fulfilled = %d, want 2", got)
	}
}

func TestUnassignSettledLineRejected(t *testing.T) {
	// 納品済み明細から外せると「N台納品したのにスロットはN-1」という
	// 矛盾した記録が残ってしまうので CONFLICT で弾く
	for _, ps := range []ProcessingStatus{ProcessingDelivered, ProcessingCancelled} {
		l := line(1, "WC-001")
		l.ProcessingStatus = ps
		err := Unassign(&l, "WC-001")
		var api *apperr.APIError
		if !errors.As(err, &api) || api.Code != apperr.CodeConflict {
			t.Errorf("%s: err = %v, want CONFLICT", ps, err)
		}
		if l.AssignedItemIDs[0] == nil || *l.AssignedItemIDs[0] != "WC-001" {
			t.Errorf("%s: slot must stay occupied", ps)
		}
	}
}

func TestUnassignNotAssigned(t *testing.T) {
	l := line(1, "WC-001")
	err := Unassign(&l, "WC-999")
	var api *apperr.APIError
	if !errors.As(err, &api) || api.Code != apperr.CodeNotFound {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestAssignedElsewhere(t *testing.T) {
	l1 := line(1, "WC-001")
	l1.LineID = 1
	l2 := line(2)
	l2.LineID = 2
	cancelled := line(1, "WC-003")
	cancelled.LineID = 3
	cancelled.ProcessingStatus = ProcessingCancelled

	os := []Order{
		{Status: OrderApproved, Lines: []OrderLine{l1, l2}},
		{Status: OrderApproved, Lines: []OrderLine{cancelled}},
		{Status: OrderCancelled, Lines: []OrderLine{func() OrderLine { l := line(1, "WC-004"); l.LineID = 4; return l }()}},
	}

	if !AssignedElsewhere(os, "WC-001", 0) {
		t.Error("WC-001 is assigned to an active line")
	}
	// 自分自身の明細は除外
	if AssignedElsewhere(os, "WC-001", 1) {
		t.Error("exclude_line_id must skip the line's own assignment")
	}
	// キャンセル済み明細・キャンセル済み注文は対象外
	if AssignedElsewhere(os, "WC-003", 0) {
		t.Error("cancelled line must not count")
	}
	if AssignedElsewhere(os, "WC-004", 0) {
		t.Error("cancelled order must not count")
	}
	if AssignedElsewhere(os, "WC-999", 0) {
		t.Error("unassigned code must not count")
	}
}

func TestIsReadyForDelivery(t *testing.T) {
	statuses := map[string]items.ItemStatus{
		"WC-001": items.StatusReadyForDelivery,
		"WC-002": items.StatusReserved,
	}
	lookup := func(code string) (items.ItemStatus, bool) {
		st, ok := statuses[code]
		return st, ok
	}

	// quantity=1・全スロット充当・個体 ready_for_delivery → true
	full := line(1, "WC-001")
	if !IsReadyForDelivery(&full, lookup) {
		t.Error("fully assigned + ready units should be ready for delivery")
	}

	// 未充当スロットあり → false
	partial := line(2, "WC-001")
	if IsReadyForDelivery(&partial, lookup) {
		t.Error("line with an empty slot must not be ready")
	}

	// 個体がまだ reserved → false
	notPrepared := line(1, "WC-002")
	if IsReadyForDelivery(&notPrepared, lookup) {
		t.Error("line whose unit is not ready_for_delivery must not be ready")
	}

	// 存在しない個体 → false
	ghost := line(1, "WC-404")
	if IsReadyForDelivery(&ghost, lookup) {
		t.Error("unknown unit must not count as ready")
	}
}

func TestNormalizeSlotsQuantityBound(t *testing.T) {
	// 占有数が quantity を超えることはない
	l := OrderLine{Quantity: 2, AssignedItemIDs: []*string{strPtr("A"), strPtr("B"), strPtr("C")}}
	NormalizeSlots(&l)
	if len(l.AssignedItemIDs) != 2 {
		t.Fatalf("slots = %d, want 2", len(l.AssignedItemIDs))
	}
	if FulfilledCount(&l) > l.Quantity {
		t.Errorf("fulfilled %d exceeds quantity %d", FulfilledCount(&l), l.Quantity)
	}
}
