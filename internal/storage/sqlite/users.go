package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/MisterKipper/my-site/internal/model"
)

// RoleByName loads a role by its unique name.
func (s *Store) RoleByName(ctx context.Context, name string) (model.Role, error) {
	if err := s.ready(); err != nil {
		return model.Role{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, is_default, permissions FROM roles WHERE name = ?`, name)
	return scanRole(row)
}

// DefaultRole loads the role assigned to new registrations.
func (s *Store) DefaultRole(ctx context.Context) (model.Role, error) {
	if err := s.ready(); err != nil {
		return model.Role{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, is_default, permissions FROM roles WHERE is_default = 1 LIMIT 1`)
	return scanRole(row)
}

func (s *Store) roleByID(ctx context.Context, id int64) (model.Role, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, is_default, permissions FROM roles WHERE id = ?`, id)
	return scanRole(row)
}

func scanRole(row *sql.Row) (model.Role, error) {
	var role model.Role
	var isDefault int64
	if err := row.Scan(&role.ID, &role.Name, &isDefault, &role.Permissions); err != nil {
		if err == sql.ErrNoRows {
			return model.Role{}, ErrNotFound
		}
		return model.Role{}, fmt.Errorf("sqlite: scan role: %w", err)
	}
	role.Default = isDefault != 0
	return role, nil
}

// CreateUser inserts a user and fills its ID. A zero RoleID falls back to
// the default role, except that the configured admin address gets the admin
// role, matching registration semantics.
func (s *Store) CreateUser(ctx context.Context, user *model.User, adminEmail string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("sqlite: user is required")
	}

	if user.RoleID == 0 {
		roleName := ""
		if adminEmail != "" && strings.EqualFold(user.Email, adminEmail) {
			roleName = "admin"
		}
		var role model.Role
		var err error
		if roleName != "" {
			role, err = s.RoleByName(ctx, roleName)
		} else {
			role, err = s.DefaultRole(ctx)
		}
		if err != nil {
			return fmt.Errorf("sqlite: resolve role for new user: %w", err)
		}
		user.RoleID = role.ID
		roleCopy := role
		user.Role = &roleCopy
	}

	now := time.Now().UTC()
	if user.MemberSince.IsZero() {
		user.MemberSince = now
	}
	if user.LastSeen.IsZero() {
		user.LastSeen = now
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role_id, active, name, location, about_me, member_since, last_seen)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.RoleID, boolToInt(user.Active),
		user.Name, user.Location, user.AboutMe, timeToUnix(user.MemberSince), timeToUnix(user.LastSeen),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: create user id: %w", err)
	}
	return nil
}

const userColumns = `id, username, email, password_hash, role_id, active, name, location, about_me, member_since, last_seen`

// UserByID loads a user and its role.
func (s *Store) UserByID(ctx context.Context, id int64) (model.User, error) {
	return s.userBy(ctx, `id = ?`, id)
}

// UserByUsername loads a user and its role by unique username.
func (s *Store) UserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.userBy(ctx, `username = ?`, username)
}

// UserByEmail loads a user and its role by unique email.
func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.userBy(ctx, `email = ?`, email)
}

func (s *Store) userBy(ctx context.Context, where string, arg any) (model.User, error) {
	if err := s.ready(); err != nil {
		return model.User{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg)

	user, err := scanUser(row)
	if err != nil {
		return model.User{}, err
	}

	role, err := s.roleByID(ctx, user.RoleID)
	if err != nil {
		return model.User{}, fmt.Errorf("sqlite: load role for user %d: %w", user.ID, err)
	}
	user.Role = &role
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var user model.User
	var active int64
	var memberSince int64
	var lastSeen int64
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.RoleID,
		&active, &user.Name, &user.Location, &user.AboutMe, &memberSince, &lastSeen,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("sqlite: scan user: %w", err)
	}
	user.Active = active != 0
	user.MemberSince = unixToTime(memberSince)
	user.LastSeen = unixToTime(lastSeen)
	return user, nil
}

// UpdateUser persists mutable profile fields and the active flag.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	if err := s.ready(); err != nil {
		return err
	}
	if user == nil || user.ID == 0 {
		return fmt.Errorf("sqlite: user with id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE users SET email = ?, password_hash = ?, role_id = ?, active = ?, name = ?, location = ?, about_me = ?
		 WHERE id = ?`,
		user.Email, user.PasswordHash, user.RoleID, boolToInt(user.Active),
		user.Name, user.Location, user.AboutMe, user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update user %d: %w", user.ID, err)
	}
	return nil
}

// ActivateUser marks the account active.
func (s *Store) ActivateUser(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `UPDATE users SET active = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: activate user %d: %w", id, err)
	}
	return nil
}

// TouchLastSeen bumps the user's last-seen timestamp to now.
func (s *Store) TouchLastSeen(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE users SET last_seen = ? WHERE id = ?`, timeToUnix(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("sqlite: touch last seen for user %d: %w", id, err)
	}
	return nil
}
