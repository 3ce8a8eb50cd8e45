package items

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"CERS-backend/internal/rental/apperr"
)

func availableUnit() EquipmentUnit {
	return EquipmentUnit{
		ItemID:         1,
		ManagementCode: "WC-001",
		ProductID:      10,
		Status:         StatusAvailable,
		Condition:      CondGood,
	}
}

func rentedUnit(start time.Time, totalDays int) EquipmentUnit {
	u := availableUnit()
	u.Status = StatusRented
	u.CustomerName = sql.NullString{String: "山田 太郎", Valid: true}
	u.LoanStartDate = sql.NullTime{Time: start, Valid: true}
	u.TotalRentalDays = totalDays
	return u
}

func mustApply(t *testing.T, u EquipmentUnit, in TransitionInput) EquipmentUnit {
	t.Helper()
	out, _, err := Apply(u, in)
	if err != nil {
		t.Fatalf("Apply(%s from %s): %v", in.Action, u.Status, err)
	}
	return out
}

func TestApplyAllowedPath(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	customer := "山田 太郎"

	// 保管 → 引当 → 準備 → 納品 → 返却 → 消毒 → メンテ → 在庫
	u := availableUnit()
	steps := []struct {
		in   TransitionInput
		want ItemStatus
	}{
		{TransitionInput{Action: ActionReserve, Now: now}, StatusReserved},
		{TransitionInput{Action: ActionPrepare, Now: now}, StatusReadyForDelivery},
		{TransitionInput{Action: ActionDeliver, CustomerName: &customer, Now: now}, StatusRented},
		{TransitionInput{Action: ActionReturn, Now: now.AddDate(0, 0, 3)}, StatusReturned},
		{TransitionInput{Action: ActionDisinfect, Now: now}, StatusCleaning},
		{TransitionInput{Action: ActionMaintenanceDone, Now: now}, StatusMaintenance},
		{TransitionInput{Action: ActionRestock, Now: now}, StatusAvailable},
	}
	for _, st := range steps {
		u = mustApply(t, u, st.in)
		if u.Status != st.want {
			t.Fatalf("after %s: status = %s, want %s", st.in.Action, u.Status, st.want)
		}
	}
	if u.TotalRentalDays != 3 {
		t.Errorf("total rental days = %d, want 3", u.TotalRentalDays)
	}
}

func TestApplyRejectsIllegalTransition(t *testing.T) {
	now := time.Now()
	tests := []struct {
		from   ItemStatus
		action Action
	}{
		{StatusAvailable, ActionReturn},
		{StatusAvailable, ActionDisinfect},
		{StatusReserved, ActionRent},
		{StatusReturned, ActionReturn}, // 二重返却は拒否
		{StatusCleaning, ActionRestock},
		{StatusMaintenance, ActionDisinfect},
		{StatusOutOfOrder, ActionReserve},
		{StatusUnknown, ActionReserve},
	}
	for _, tt := range tests {
		u := availableUnit()
		u.Status = tt.from
		_, _, err := Apply(u, TransitionInput{Action: tt.action, Now: now})
		var api *apperr.APIError
		if !errors.As(err, &api) || api.Code != apperr.CodeInvalidTransition {
			t.Errorf("Apply(%s from %s) err = %v, want INVALID_TRANSITION", tt.action, tt.from, err)
		}
	}
}

func TestApplyRentSetsCustomerFields(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)
	customer := "佐藤 花子"

	u := mustApply(t, availableUnit(), TransitionInput{
		Action: ActionRent, CustomerName: &customer, Now: now,
	})
	if u.Status != StatusRented {
		t.Fatalf("status = %s, want rented", u.Status)
	}
	if !u.CustomerName.Valid || u.CustomerName.String != customer {
		t.Errorf("customer_name = %+v, want %q", u.CustomerName, customer)
	}
	if !u.LoanStartDate.Valid || !u.LoanStartDate.Time.Equal(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("loan_start_date = %+v, want 2026-08-28T00:00:00Z", u.LoanStartDate)
	}
}

func TestApplyRentRequiresCustomer(t *testing.T) {
	_, _, err := Apply(availableUnit(), TransitionInput{Action: ActionRent, Now: time.Now()})
	var api *apperr.APIError
	if !errors.As(err, &api) || api.Code != apperr.CodeInvalidArgument {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestApplyReturnFoldsRentalDays(t *testing.T) {
	// 10日前から貸出中・累計5日 → 返却で累計15日、貸出先クリア
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	u := rentedUnit(now.AddDate(0, 0, -10), 5)

	out := mustApply(t, u, TransitionInput{Action: ActionReturn, Now: now})
	if out.Status != StatusReturned {
		t.Fatalf("status = %s, want returned", out.Status)
	}
	if out.TotalRentalDays != 15 {
		t.Errorf("total_rental_days = %d, want 15", out.TotalRentalDays)
	}
	if out.CustomerName.Valid {
		t.Errorf("customer_name should be cleared, got %q", out.CustomerName.String)
	}
	if out.LoanStartDate.Valid {
		t.Errorf("loan_start_date should be cleared")
	}
}

func TestApplyDemoCancelRestockAlsoFolds(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	u := rentedUnit(now.AddDate(0, 0, -2), 0)

	out := mustApply(t, u, TransitionInput{Action: ActionDemoCancelRestock, Now: now})
	if out.Status != StatusAvailable {
		t.Fatalf("status = %s, want available", out.Status)
	}
	if out.TotalRentalDays != 2 {
		t.Errorf("total_rental_days = %d, want 2", out.TotalRentalDays)
	}
	if out.CustomerName.Valid || out.LoanStartDate.Valid {
		t.Error("customer fields should be cleared outside rented")
	}
}

func TestApplyConditionOverride(t *testing.T) {
	// needs_repair が記録されたら要求した行き先によらず out_of_order
	now := time.Now()
	u := availableUnit()
	u.Status = StatusMaintenance

	out := mustApply(t, u, TransitionInput{
		Action: ActionRestock, Condition: CondNeedsRepair, Now: now,
	})
	if out.Status != StatusOutOfOrder {
		t.Fatalf("status = %s, want out_of_order", out.Status)
	}

	// 返却時も同様
	r := rentedUnit(now.AddDate(0, 0, -1), 0)
	out2 := mustApply(t, r, TransitionInput{
		Action: ActionReturn, Condition: CondNeedsRepair, Now: now,
	})
	if out2.Status != StatusOutOfOrder {
		t.Fatalf("return with needs_repair: status = %s, want out_of_order", out2.Status)
	}
	if out2.CustomerName.Valid {
		t.Error("customer fields must still be cleared when leaving rented")
	}
}

func TestApplyMarkOutOfOrder(t *testing.T) {
	now := time.Now()
	for _, from := range []ItemStatus{StatusAvailable, StatusReserved, StatusCleaning, StatusMaintenance} {
		u := availableUnit()
		u.Status = from
		out := mustApply(t, u, TransitionInput{
			Action: ActionMarkOutOfOrder, Condition: CondNeedsRepair, Now: now,
		})
		if out.Status != StatusOutOfOrder {
			t.Errorf("from %s: status = %s, want out_of_order", from, out.Status)
		}
	}

	// needs_repair でなければ故障登録は不可
	_, _, err := Apply(availableUnit(), TransitionInput{Action: ActionMarkOutOfOrder, Condition: CondGood, Now: now})
	var api *apperr.APIError
	if !errors.As(err, &api) || api.Code != apperr.CodeInvalidTransition {
		t.Fatalf("err = %v, want INVALID_TRANSITION", err)
	}
}

func TestApplyRestockRepeatable(t *testing.T) {
	now := time.Now()
	u := mustApply(t, availableUnit(), TransitionInput{Action: ActionRestock, Now: now})
	if u.Status != StatusAvailable {
		t.Fatalf("status = %s, want available", u.Status)
	}
	// 2回目も成功する（restock系のみ繰り返し可）
	u = mustApply(t, u, TransitionInput{Action: ActionRestock, Now: now})
	if u.Status != StatusAvailable {
		t.Fatalf("status = %s, want available", u.Status)
	}
}

func TestDaysBetween(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	cet := time.FixedZone("CET", 1*3600)
	cest := time.FixedZone("CEST", 2*3600)
	tests := []struct {
		start, end time.Time
		want       int
	}{
		{date(2026, 8, 18), date(2026, 8, 28), 10},
		{date(2026, 8, 28), date(2026, 8, 28), 0},
		// 時刻は切り捨て: 23時開始→翌9時返却でも1日
		{time.Date(2026, 8, 27, 23, 0, 0, 0, time.UTC), time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC), 1},
		// 逆転はゼロ扱い
		{date(2026, 8, 29), date(2026, 8, 28), 0},
		// 地方時でも暦日差: 23:59開始→翌0:01返却は1日
		{time.Date(2026, 3, 1, 23, 59, 0, 0, jst), time.Date(2026, 3, 2, 0, 1, 0, 0, jst), 1},
		// 夏時間切替で経過が23時間しかなくても暦日が変われば1日
		{time.Date(2026, 3, 28, 12, 0, 0, 0, cet), time.Date(2026, 3, 29, 12, 0, 0, 0, cest), 1},
		// 切替を挟む10日貸しも経過時間のブレに関わらず10日
		{time.Date(2026, 3, 25, 9, 0, 0, 0, cet), time.Date(2026, 4, 4, 9, 0, 0, 0, cest), 10},
	}
	for _, tt := range tests {
		if got := daysBetween(tt.start, tt.end); got != tt.want {
			t.Errorf("daysBetween(%v, %v) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
