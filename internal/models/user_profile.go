package models

import (
	"time"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleNormal UserRole = "normal"
	RoleVIP    UserRole = "vip"
	RoleSVIP   UserRole = "svip"
	RoleAdmin  UserRole = "admin"
)

// UserRoles lists every accepted role value.
var UserRoles = []UserRole{RoleNormal, RoleVIP, RoleSVIP, RoleAdmin}

// IsValid reports whether the role is one of the fixed enum values.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleNormal, RoleVIP, RoleSVIP, RoleAdmin:
		return true
	}
	return false
}

// Expirable reports whether the role is subject to expiration. Only vip and
// svip degrade; normal and admin keep their assigned role unconditionally.
func (r UserRole) Expirable() bool {
	return r == RoleVIP || r == RoleSVIP
}

// UserProfile stores the role assignment for one identity. Exactly one
// profile exists per user; it is provisioned on first sight of the identity
// and never deleted explicitly.
type UserProfile struct {
	ID     uint     `json:"id" gorm:"primaryKey"`
	UserID string   `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	Role   UserRole `json:"role" gorm:"not null;size:16;default:normal" validate:"omitempty,oneof=normal vip svip admin"`

	// ExpiresAt is meaningful only for vip/svip. Nil means no expiration.
	ExpiresAt *time.Time `json:"expires_at"`

	// Profile info the user may edit through the self-service path.
	DisplayName string  `json:"display_name" gorm:"size:100"`
	AvatarURL   *string `json:"avatar_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// EffectiveRole resolves the role a permission check actually uses at the
// given instant. vip/svip fall back to normal once ExpiresAt is set and in
// the past; normal/admin are never subject to expiration.
func (p *UserProfile) EffectiveRole(now time.Time) UserRole {
	return EffectiveRole(p, now)
}

// EffectiveRole is the nil-safe form: a missing profile resolves to normal.
func EffectiveRole(p *UserProfile, now time.Time) UserRole {
	if p == nil {
		return RoleNormal
	}
	if !p.Role.Expirable() {
		if p.Role.IsValid() {
			return p.Role
		}
		return RoleNormal
	}
	if p.ExpiresAt == nil || p.ExpiresAt.After(now) {
		return p.Role
	}
	return RoleNormal
}

// IsActive reports whether the assigned role is currently in force. Used for
// display and reporting, distinct from the resolved role value itself.
func IsActive(p *UserProfile, now time.Time) bool {
	if p == nil {
		return false
	}
	if !p.Role.Expirable() {
		return true
	}
	return p.ExpiresAt == nil || p.ExpiresAt.After(now)
}
