package authz

import "testing"

func TestEnforcerRolePolicy(t *testing.T) {
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	tests := []struct {
		name string
		role string
		obj  string
		act  string
		want bool
	}{
		{"user cannot review", RoleUser, ObjDiary, ActReview, false},
		{"user cannot list review queue", RoleUser, ObjDiary, ActReviewList, false},
		{"reviewer can review", RoleReviewer, ObjDiary, ActReview, true},
		{"reviewer can moderate comments", RoleReviewer, ObjComment, ActModerate, true},
		{"reviewer cannot manage diaries", RoleReviewer, ObjDiary, ActManage, false},
		{"admin inherits review", RoleAdmin, ObjDiary, ActReview, true},
		{"admin can manage diaries", RoleAdmin, ObjDiary, ActManage, true},
		{"super inherits manage", RoleSuper, ObjDiary, ActManage, true},
		{"super inherits review", RoleSuper, ObjDiary, ActReviewList, true},
		{"unknown role denied", "Guest", ObjDiary, ActReview, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Can(Principal{ID: 1, Role: tt.role}, tt.obj, tt.act)
			if got != tt.want {
				t.Errorf("Can(%s, %s, %s) = %v, want %v", tt.role, tt.obj, tt.act, got, tt.want)
			}
		})
	}
}

func TestEnforcerAnonymousDenied(t *testing.T) {
	e := Default()
	if e.Can(Anonymous, ObjDiary, ActReview) {
		t.Error("anonymous principal should never be allowed")
	}
	if e.Can(Principal{ID: 0, Role: RoleSuper}, ObjDiary, ActManage) {
		t.Error("principal without id should be treated as anonymous")
	}
}

func TestCanActOnOwned(t *testing.T) {
	e := Default()

	owner := Principal{ID: 7, Role: RoleUser}
	other := Principal{ID: 8, Role: RoleUser}
	admin := Principal{ID: 9, Role: RoleAdmin}

	if !e.CanActOnOwned(owner, 7, ObjDiary, ActManage) {
		t.Error("owner should be allowed")
	}
	if e.CanActOnOwned(other, 7, ObjDiary, ActManage) {
		t.Error("other user should be denied")
	}
	if !e.CanActOnOwned(admin, 7, ObjDiary, ActManage) {
		t.Error("admin should be allowed to manage others' diaries")
	}
}
