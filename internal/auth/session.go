package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/MisterKipper/my-site/internal/model"
	"github.com/MisterKipper/my-site/internal/storage/sqlite"
)

const sessionUserKey = "userID"

// UserSource is the subset of the store the session layer needs.
type UserSource interface {
	UserByID(ctx context.Context, id int64) (model.User, error)
	TouchLastSeen(ctx context.Context, id int64) error
}

// Sessions wraps the session manager with login-state helpers.
type Sessions struct {
	Manager *scs.SessionManager
	users   UserSource
}

// NewSessions builds a cookie-backed session manager. Sessions last 7 days.
func NewSessions(users UserSource) *Sessions {
	mgr := scs.New()
	mgr.Lifetime = 7 * 24 * time.Hour
	mgr.Cookie.HttpOnly = true
	mgr.Cookie.SameSite = http.SameSiteLaxMode
	return &Sessions{Manager: mgr, users: users}
}

// Login records the user in the session. The session token is renewed to
// prevent fixation.
func (s *Sessions) Login(ctx context.Context, userID int64) error {
	if err := s.Manager.RenewToken(ctx); err != nil {
		return err
	}
	s.Manager.Put(ctx, sessionUserKey, userID)
	return nil
}

// Logout clears the login state and rotates the session token.
func (s *Sessions) Logout(ctx context.Context) error {
	s.Manager.Remove(ctx, sessionUserKey)
	return s.Manager.RenewToken(ctx)
}

// CurrentUser loads the logged-in user, or nil when the session is anonymous
// or the user no longer exists. Loading also stamps last-seen.
func (s *Sessions) CurrentUser(ctx context.Context) (*model.User, error) {
	id, ok := s.Manager.Get(ctx, sessionUserKey).(int64)
	if !ok || id == 0 {
		return nil, nil
	}
	user, err := s.users.UserByID(ctx, id)
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.users.TouchLastSeen(ctx, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// SessionID returns the current session token, used to bind CSRF tokens.
func (s *Sessions) SessionID(ctx context.Context) string {
	return s.Manager.Token(ctx)
}
