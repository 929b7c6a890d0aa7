package domain

import "testing"

func TestCanManage(t *testing.T) {
	admin := &User{ID: "u1", Role: RoleAdmin}
	owner := &User{ID: "u2", Role: RoleUser}
	stranger := &User{ID: "u3", Role: RoleUser}
	actor := &Actor{ID: "a1", UserID: "u2"}

	cases := []struct {
		name   string
		acting *User
		want   bool
	}{
		{"admin", admin, true},
		{"owner", owner, true},
		{"stranger", stranger, false},
		{"nil user", nil, false},
	}
	for _, tc := range cases {
		if got := CanManage(tc.acting, actor); got != tc.want {
			t.Errorf("%s: CanManage = %v, want %v", tc.name, got, tc.want)
		}
	}

	if CanManage(admin, nil) {
		t.Errorf("CanManage with nil actor should be false")
	}
}

func TestDiplomaValid(t *testing.T) {
	for _, d := range []Diploma{DiplomaBAC, DiplomaLicence, DiplomaMaster, DiplomaDoctorat} {
		if !d.Valid() {
			t.Errorf("expected %q to be valid", d)
		}
	}
	if Diploma("CAP").Valid() {
		t.Errorf("unexpected valid diploma")
	}
}

func TestBankValid(t *testing.T) {
	for _, b := range []Bank{BankNSIA, BankUBA, BankEcobank, BankBOA, BankLaPoste, BankCoris, BankOrabank} {
		if !b.Valid() {
			t.Errorf("expected %q to be valid", b)
		}
	}
	if Bank("BNP").Valid() {
		t.Errorf("unexpected valid bank")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleUser.Valid() {
		t.Fatalf("known roles must be valid")
	}
	if Role("superadmin").Valid() {
		t.Fatalf("unknown role must be invalid")
	}
}
