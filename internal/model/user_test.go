package model

import (
	"strings"
	"testing"
)

func TestRolePermissionBits(t *testing.T) {
	role := &Role{Name: "user", Permissions: PermissionFollow | PermissionComment}

	if !role.HasPermission(PermissionFollow) {
		t.Fatal("expected follow permission")
	}
	if role.HasPermission(PermissionWrite) {
		t.Fatal("unexpected write permission")
	}

	role.AddPermission(PermissionWrite)
	if !role.HasPermission(PermissionWrite) {
		t.Fatal("expected write permission after add")
	}
	role.AddPermission(PermissionWrite)
	if role.Permissions != PermissionFollow|PermissionComment|PermissionWrite {
		t.Fatalf("double add changed bits: %d", role.Permissions)
	}

	role.RemovePermission(PermissionWrite)
	if role.HasPermission(PermissionWrite) {
		t.Fatal("expected write permission removed")
	}
	role.RemovePermission(PermissionWrite)
	if role.Permissions != PermissionFollow|PermissionComment {
		t.Fatalf("double remove changed bits: %d", role.Permissions)
	}
}

func TestBuiltinRoles(t *testing.T) {
	roles := BuiltinRoles()
	byName := make(map[string]Role, len(roles))
	defaults := 0
	for _, role := range roles {
		byName[role.Name] = role
		if role.Default {
			defaults++
		}
	}

	if defaults != 1 {
		t.Fatalf("expected exactly one default role, got %d", defaults)
	}
	userRole := byName["user"]
	if !userRole.Default {
		t.Fatal("expected user to be the default role")
	}
	if userRole.HasPermission(PermissionWrite) {
		t.Fatal("user role must not write posts")
	}
	moderatorRole := byName["moderator"]
	if !moderatorRole.HasPermission(PermissionModerate) {
		t.Fatal("moderator role must moderate")
	}
	admin := byName["admin"]
	for _, perm := range []int{PermissionFollow, PermissionComment, PermissionWrite, PermissionModerate, PermissionAdmin} {
		if !admin.HasPermission(perm) {
			t.Fatalf("admin missing permission %d", perm)
		}
	}
}

func TestUserCanIsNilSafe(t *testing.T) {
	var anonymous *User
	if anonymous.Can(PermissionComment) {
		t.Fatal("anonymous visitor must have no permissions")
	}

	noRole := &User{Username: "brian"}
	if noRole.Can(PermissionComment) {
		t.Fatal("user without a loaded role must have no permissions")
	}
}

func TestUserIsAdmin(t *testing.T) {
	admin := &User{Role: &Role{Permissions: PermissionAdmin}}
	if !admin.IsAdmin() {
		t.Fatal("expected admin")
	}
	mod := &User{Role: &Role{Permissions: PermissionModerate}}
	if mod.IsAdmin() {
		t.Fatal("moderator is not admin")
	}
}

func TestAvatarURL(t *testing.T) {
	u := &User{Email: " Brian@Example.COM "}
	got := u.AvatarURL(64)
	// md5 of the lowercased, trimmed address
	if !strings.Contains(got, "https://www.gravatar.com/avatar/") {
		t.Fatalf("unexpected url %q", got)
	}
	if !strings.HasSuffix(got, "?d=identicon&s=64") {
		t.Fatalf("unexpected query in %q", got)
	}
	if got != (&User{Email: "brian@example.com"}).AvatarURL(64) {
		t.Fatal("avatar URL must normalise case and whitespace")
	}
}
