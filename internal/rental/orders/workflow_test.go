package orders

import "testing"

func orderWith(lines ...OrderLine) Order {
	return Order{Status: OrderPending, Lines: lines}
}

func wfLine(ap ApprovalStatus, ps ProcessingStatus) OrderLine {
	l := OrderLine{Quantity: 1, ApprovalStatus: ap, ProcessingStatus: ps}
	NormalizeSlots(&l)
	return l
}

func TestRollupStatus(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  OrderStatus
	}{
		{
			"all lines approval pending",
			orderWith(wfLine(ApprovalPending, ProcessingWaiting), wfLine(ApprovalPending, ProcessingWaiting)),
			OrderPending,
		},
		{
			"one approved one rejected is partial",
			orderWith(wfLine(ApprovalApproved, ProcessingWaiting), wfLine(ApprovalRejected, ProcessingWaiting)),
			OrderPartialApproved,
		},
		{
			"one approved one pending is partial",
			orderWith(wfLine(ApprovalApproved, ProcessingWaiting), wfLine(ApprovalPending, ProcessingWaiting)),
			OrderPartialApproved,
		},
		{
			"all approved",
			orderWith(wfLine(ApprovalApproved, ProcessingWaiting), wfLine(ApprovalNotRequired, ProcessingWaiting)),
			OrderApproved,
		},
		{
			"all rejected stays pending",
			orderWith(wfLine(ApprovalRejected, ProcessingWaiting)),
			OrderPending,
		},
		{
			"all lines ready",
			orderWith(wfLine(ApprovalApproved, ProcessingReady), wfLine(ApprovalNotRequired, ProcessingReady)),
			OrderReady,
		},
		{
			"ready and delivered mix is ready",
			orderWith(wfLine(ApprovalApproved, ProcessingReady), wfLine(ApprovalApproved, ProcessingDelivered)),
			OrderReady,
		},
		{
			"all lines delivered",
			orderWith(wfLine(ApprovalApproved, ProcessingDelivered), wfLine(ApprovalNotRequired, ProcessingDelivered)),
			OrderDelivered,
		},
		{
			"cancelled lines are ignored",
			orderWith(wfLine(ApprovalApproved, ProcessingDelivered), wfLine(ApprovalApproved, ProcessingCancelled)),
			OrderDelivered,
		},
		{
			"all lines cancelled cancels the order",
			orderWith(wfLine(ApprovalApproved, ProcessingCancelled)),
			OrderCancelled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RollupStatus(&tt.order); got != tt.want {
				t.Errorf("RollupStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRollupStatusCancelledIsTerminal(t *testing.T) {
	o := orderWith(wfLine(ApprovalApproved, ProcessingWaiting))
	o.Status = OrderCancelled
	if got := RollupStatus(&o); got != OrderCancelled {
		t.Errorf("RollupStatus = %s, want cancelled", got)
	}
}

func TestIsPreparationCandidate(t *testing.T) {
	tests := []struct {
		ap   ApprovalStatus
		ps   ProcessingStatus
		want bool
	}{
		{ApprovalNotRequired, ProcessingWaiting, true},
		{ApprovalApproved, ProcessingWaiting, true},
		// 承認待ち・却下は準備しない
		{ApprovalPending, ProcessingWaiting, false},
		{ApprovalRejected, ProcessingWaiting, false},
		// waiting 以外は対象外
		{ApprovalApproved, ProcessingReady, false},
		{ApprovalApproved, ProcessingDelivered, false},
		{ApprovalApproved, ProcessingCancelled, false},
	}
	for _, tt := range tests {
		l := wfLine(tt.ap, tt.ps)
		if got := IsPreparationCandidate(&l); got != tt.want {
			t.Errorf("IsPreparationCandidate(%s, %s) = %v, want %v", tt.ap, tt.ps, got, tt.want)
		}
	}
}

func TestInitialLineApproval(t *testing.T) {
	if got := InitialLineApproval(true); got != ApprovalPending {
		t.Errorf("needsApproval=true: %s, want pending", got)
	}
	if got := InitialLineApproval(false); got != ApprovalNotRequired {
		t.Errorf("needsApproval=false: %s, want not_required", got)
	}
}
