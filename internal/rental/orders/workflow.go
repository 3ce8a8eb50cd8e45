package orders

// 注文レベルのロールアップと準備対象判定。全部純粋関数。

// ApprovalSettled は明細が準備に進める承認状態か。
func ApprovalSettled(s ApprovalStatus) bool {
	return s == ApprovalApproved || s == ApprovalNotRequired
}

// IsPreparationCandidate: waiting かつ承認済み（または承認不要）の明細だけが
// 準備対象。却下・承認待ちの明細は準備しない。
func IsPreparationCandidate(l *OrderLine) bool {
	return l.ProcessingStatus == ProcessingWaiting && ApprovalSettled(l.ApprovalStatus)
}

// RollupStatus は明細の承認・処理状態から注文ステータスを導出する。
// cancelled は終端状態としてそのまま維持する。
func RollupStatus(o *Order) OrderStatus {
	if o.Status == OrderCancelled {
		return OrderCancelled
	}

	active := 0
	delivered := 0
	readyOrDelivered := 0
	settled := 0
	someSettled := false
	for i := range o.Lines {
		l := &o.Lines[i]
		if !l.Active() {
			continue
		}
		active++
		if l.ProcessingStatus == ProcessingDelivered {
			delivered++
		}
		if l.ProcessingStatus == ProcessingReady || l.ProcessingStatus == ProcessingDelivered {
			readyOrDelivered++
		}
		if ApprovalSettled(l.ApprovalStatus) {
			settled++
			someSettled = true
		}
	}

	// 明細が全部キャンセルされた注文はキャンセル扱い
	if active == 0 {
		return OrderCancelled
	}
	if delivered == active {
		return OrderDelivered
	}
	if readyOrDelivered == active {
		return OrderReady
	}
	if settled == active {
		return OrderApproved
	}
	if someSettled {
		return OrderPartialApproved
	}
	return OrderPending
}

// InitialLineApproval は明細作成時の承認ステータス。
func InitialLineApproval(needsApproval bool) ApprovalStatus {
	if needsApproval {
		return ApprovalPending
	}
	return ApprovalNotRequired
}
