package items

import "testing"

func TestRegisterEventCarriesActor(t *testing.T) {
	u := &EquipmentUnit{
		ManagementCode: "WC-001",
		Status:         StatusAvailable,
		Condition:      CondGood,
	}
	ev := registerEvent(u, "tanaka")
	if ev.PerformedBy != "tanaka" {
		t.Errorf("performed_by = %q, want tanaka", ev.PerformedBy)
	}
	if ev.EntityCode != "WC-001" || ev.Action != "register" {
		t.Errorf("event = %+v, want register for WC-001", ev)
	}
	if ev.ToStatus != string(StatusAvailable) {
		t.Errorf("to_status = %q, want available", ev.ToStatus)
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"WC-001", "WC-001"},
		{"  WC-001  ", "WC-001"},
		// スキャナ由来の全角は半角に畳む
		{"ＷＣ－００１", "WC-001"},
		{"　ＢＥＤ－０４２　", "BED-042"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.in); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
