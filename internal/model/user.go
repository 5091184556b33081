package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Permission bits composing a role's grants.
const (
	PermissionFollow   = 1
	PermissionComment  = 2
	PermissionWrite    = 4
	PermissionModerate = 8
	PermissionAdmin    = 16
)

// Role groups permissions under a name. Exactly one role is the default
// assigned to new users.
type Role struct {
	ID          int64
	Name        string
	Default     bool
	Permissions int
}

// HasPermission reports whether the role grants every bit in perm.
func (r *Role) HasPermission(perm int) bool {
	if r == nil {
		return false
	}
	return r.Permissions&perm == perm
}

// AddPermission grants perm if not already present.
func (r *Role) AddPermission(perm int) {
	if !r.HasPermission(perm) {
		r.Permissions += perm
	}
}

// RemovePermission revokes perm if present.
func (r *Role) RemovePermission(perm int) {
	if r.HasPermission(perm) {
		r.Permissions -= perm
	}
}

// BuiltinRoles returns the canonical role set. "user" is the default role
// for new registrations.
func BuiltinRoles() []Role {
	return []Role{
		{Name: "user", Default: true, Permissions: PermissionFollow | PermissionComment},
		{Name: "moderator", Permissions: PermissionFollow | PermissionComment | PermissionModerate},
		{Name: "admin", Permissions: PermissionFollow | PermissionComment | PermissionWrite | PermissionModerate | PermissionAdmin},
	}
}

// User is a registered account. PasswordHash is the only credential ever
// stored; plaintext passwords never touch the model.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	RoleID       int64
	Role         *Role
	Active       bool
	Name         string
	Location     string
	AboutMe      string
	MemberSince  time.Time
	LastSeen     time.Time
}

// Can reports whether the user's role grants perm. A nil user (anonymous
// visitor) can do nothing.
func (u *User) Can(perm int) bool {
	if u == nil {
		return false
	}
	return u.Role.HasPermission(perm)
}

// IsAdmin reports whether the user holds the admin permission.
func (u *User) IsAdmin() bool {
	return u.Can(PermissionAdmin)
}

// AvatarURL builds the Gravatar URL for the user's email at the given pixel
// size.
func (u *User) AvatarURL(size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	digest := hex.EncodeToString(sum[:])
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", digest, size)
}
