package models

import (
	"testing"
	"time"
)

func TestEffectiveRole(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		profile *UserProfile
		want    UserRole
	}{
		{name: "missing profile defaults to normal", profile: nil, want: RoleNormal},
		{name: "normal stays normal", profile: &UserProfile{Role: RoleNormal}, want: RoleNormal},
		{name: "admin never expires", profile: &UserProfile{Role: RoleAdmin, ExpiresAt: &past}, want: RoleAdmin},
		{name: "normal ignores expiry", profile: &UserProfile{Role: RoleNormal, ExpiresAt: &past}, want: RoleNormal},
		{name: "vip without expiry", profile: &UserProfile{Role: RoleVIP}, want: RoleVIP},
		{name: "svip without expiry", profile: &UserProfile{Role: RoleSVIP}, want: RoleSVIP},
		{name: "vip with future expiry", profile: &UserProfile{Role: RoleVIP, ExpiresAt: &future}, want: RoleVIP},
		{name: "svip with future expiry", profile: &UserProfile{Role: RoleSVIP, ExpiresAt: &future}, want: RoleSVIP},
		{name: "vip expired degrades to normal", profile: &UserProfile{Role: RoleVIP, ExpiresAt: &past}, want: RoleNormal},
		{name: "svip expired degrades to normal", profile: &UserProfile{Role: RoleSVIP, ExpiresAt: &past}, want: RoleNormal},
		{name: "vip expiring exactly now degrades", profile: &UserProfile{Role: RoleVIP, ExpiresAt: &now}, want: RoleNormal},
		{name: "unknown role defaults to normal", profile: &UserProfile{Role: UserRole("owner")}, want: RoleNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveRole(tt.profile, now); got != tt.want {
				t.Errorf("EffectiveRole() = %v, want %v", got, tt.want)
			}
			if tt.profile != nil {
				if got := tt.profile.EffectiveRole(now); got != tt.want {
					t.Errorf("profile.EffectiveRole() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestIsActive(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		profile *UserProfile
		want    bool
	}{
		{name: "missing profile", profile: nil, want: false},
		{name: "normal always active", profile: &UserProfile{Role: RoleNormal}, want: true},
		{name: "admin always active", profile: &UserProfile{Role: RoleAdmin, ExpiresAt: &past}, want: true},
		{name: "vip active until expiry", profile: &UserProfile{Role: RoleVIP, ExpiresAt: &future}, want: true},
		{name: "vip expired", profile: &UserProfile{Role: RoleVIP, ExpiresAt: &past}, want: false},
		{name: "svip no expiry", profile: &UserProfile{Role: RoleSVIP}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActive(tt.profile, now); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPromptCategoryIsValid(t *testing.T) {
	for _, c := range PromptCategories {
		if !c.IsValid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	for _, c := range []PromptCategory{"", "coding", "Music", "ART"} {
		if c.IsValid() {
			t.Errorf("category %q should be invalid", c)
		}
	}
}

func TestUserRoleIsValid(t *testing.T) {
	for _, r := range UserRoles {
		if !r.IsValid() {
			t.Errorf("role %q should be valid", r)
		}
	}
	for _, r := range []UserRole{"", "VIP", "owner"} {
		if r.IsValid() {
			t.Errorf("role %q should be invalid", r)
		}
	}
}
