package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MisterKipper/my-site/internal/auth"
	"github.com/MisterKipper/my-site/internal/config"
	"github.com/MisterKipper/my-site/internal/model"
	"github.com/MisterKipper/my-site/internal/storage/sqlite"
)

const testPassword = "correct-horse-battery"

type testApp struct {
	cfg   config.Config
	store *sqlite.Store
	ts    *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SeedRoles(context.Background()))

	cfg := config.Config{
		HTTPAddr:        ":0",
		SecretKey:       "test-secret-key",
		AdminEmail:      "admin@example.com",
		PostsPerPage:    10,
		CommentsPerPage: 10,
		SiteURL:         "http://example.com",
	}
	srv, err := New(cfg, store, WithCSRFDisabled())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testApp{cfg: cfg, store: store, ts: ts}
}

// addUser creates an active account directly in the store. An empty role
// keeps the default role; "admin" and "moderator" are also valid.
func (a *testApp) addUser(t *testing.T, username, role string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Active:       true,
	}
	if role != "" {
		r, err := a.store.RoleByName(context.Background(), role)
		require.NoError(t, err)
		user.RoleID = r.ID
	}
	require.NoError(t, a.store.CreateUser(context.Background(), user, ""))
	return user
}

func (a *testApp) addPost(t *testing.T, author *model.User, title, body string) *model.Post {
	t.Helper()
	post := &model.Post{Title: title, AuthorID: author.ID, Body: body}
	require.NoError(t, a.store.CreatePost(context.Background(), post))
	return post
}

func (a *testApp) addComment(t *testing.T, post *model.Post, author *model.User, body string) *model.Comment {
	t.Helper()
	comment := &model.Comment{PostID: post.ID, AuthorID: author.ID}
	comment.SetBody(body)
	require.NoError(t, a.store.CreateComment(context.Background(), comment))
	return comment
}

// browser is one visitor's cookie session with clients that do and do not
// follow redirects.
type browser struct {
	base     string
	follow   *http.Client
	noFollow *http.Client
}

func (a *testApp) browse(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		base:   a.ts.URL,
		follow: &http.Client{Jar: jar},
		noFollow: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(t *testing.T, client *http.Client, method, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	var resp *http.Response
	var err error
	if method == http.MethodPost {
		resp, err = client.PostForm(b.base+path, form)
	} else {
		resp, err = client.Get(b.base + path)
	}
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (b *browser) get(t *testing.T, path string) (*http.Response, string) {
	return b.do(t, b.follow, http.MethodGet, path, nil)
}

func (b *browser) getNoFollow(t *testing.T, path string) (*http.Response, string) {
	return b.do(t, b.noFollow, http.MethodGet, path, nil)
}

func (b *browser) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	return b.do(t, b.follow, http.MethodPost, path, form)
}

func (b *browser) postNoFollow(t *testing.T, path string, form url.Values) (*http.Response, string) {
	return b.do(t, b.noFollow, http.MethodPost, path, form)
}

func (b *browser) login(t *testing.T, username string) {
	t.Helper()
	resp, _ := b.postNoFollow(t, "/auth/login", url.Values{
		"username": {username},
		"password": {testPassword},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode, "login for %s", username)
}

func postPath(post *model.Post) string {
	return "/post/" + strconv.FormatInt(post.ID, 10)
}

func TestHomePage(t *testing.T) {
	app := newTestApp(t)
	b := app.browse(t)

	resp, body := b.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Welcome to Kyle&#39;s junk!")
	require.Contains(t, body, "<title>Kyle&#39;s junk</title>")
	require.Contains(t, body, "Log In")
}

func TestRegistrationAndActivation(t *testing.T) {
	app := newTestApp(t)
	b := app.browse(t)

	_, body := b.get(t, "/auth/register")
	require.Contains(t, body, "Register")

	registration := url.Values{
		"email":     {"brian@example.com"},
		"username":  {"brian"},
		"password":  {testPassword},
		"password2": {testPassword},
	}
	resp, _ := b.postNoFollow(t, "/auth/register", registration)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/auth/login", resp.Header.Get("Location"))

	_, body = b.get(t, "/auth/login")
	require.Contains(t, body, "A confirmation link has been sent to your email address.")

	resp, body = b.post(t, "/auth/register", registration)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Username already in use.")
	require.Contains(t, body, "Email address already in use.")

	_, body = b.post(t, "/auth/login", url.Values{
		"username": {"brian"},
		"password": {"wrong"},
	})
	require.Contains(t, body, "Invalid username or password.")

	_, body = b.post(t, "/auth/login", url.Values{
		"username": {"brian"},
		"password": {testPassword},
	})
	require.Contains(t, body, "Inactive account. Check your email for the activation link.")

	// A live session skips the login and register pages.
	resp, _ = b.getNoFollow(t, "/auth/register")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	resp, _ = b.getNoFollow(t, "/auth/login")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	_, body = b.get(t, "/auth/activate/garbage")
	require.Contains(t, body, "The activation link is invalid or has expired.")

	user, err := app.store.UserByUsername(context.Background(), "brian")
	require.NoError(t, err)
	tokens := auth.NewTokens([]byte(app.cfg.SecretKey), time.Hour)
	token, err := tokens.GenerateActivation(user.ID)
	require.NoError(t, err)

	_, body = b.get(t, "/auth/activate/"+token)
	require.Contains(t, body, "Account activated.")

	activated, err := app.store.UserByUsername(context.Background(), "brian")
	require.NoError(t, err)
	require.True(t, activated.Active)

	_, body = b.get(t, "/auth/logout")
	require.Contains(t, body, "You have been logged out.")
	require.Contains(t, body, "Log In")
}

func TestPostPermissionsAndEditing(t *testing.T) {
	app := newTestApp(t)
	app.addUser(t, "kyle", "admin")
	app.addUser(t, "brian", "")

	adminB := app.browse(t)
	adminB.login(t, "kyle")
	brianB := app.browse(t)
	brianB.login(t, "brian")

	submission := url.Values{
		"title": {"First Post"},
		"body":  {"Hello from the admin."},
	}

	// Only writers may post, and writing is an admin power.
	resp, _ := brianB.postNoFollow(t, "/", submission)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = adminB.postNoFollow(t, "/", submission)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, "/post/"), "location %q", location)

	resp, body := adminB.get(t, location)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "First Post")
	require.Contains(t, body, "Hello from the admin.")
	require.Contains(t, body, "<title>First Post - Kyle&#39;s junk</title>")

	resp, _ = adminB.get(t, "/post/9999")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	editPath := "/post/edit/" + strings.TrimPrefix(location, "/post/")

	resp, _ = brianB.getNoFollow(t, editPath)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	anonymous := app.browse(t)
	resp, _ = anonymous.getNoFollow(t, editPath)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/auth/login", resp.Header.Get("Location"))

	_, body = adminB.post(t, editPath, url.Values{
		"title": {"First Post"},
		"body":  {"Updated body text."},
	})
	require.Contains(t, body, "The post has been updated.")
	require.Contains(t, body, "Updated body text.")
}

func TestCommentsAndReplies(t *testing.T) {
	app := newTestApp(t)
	admin := app.addUser(t, "kyle", "admin")
	brian := app.addUser(t, "brian", "")
	app.addUser(t, "carol", "")
	post := app.addPost(t, admin, "Discussion", "Talk amongst yourselves.")

	brianB := app.browse(t)
	brianB.login(t, "brian")

	_, body := brianB.post(t, postPath(post), url.Values{"body": {"Nice post!"}})
	require.Contains(t, body, "Your comment has been published.")
	require.Contains(t, body, "Nice post!")

	comment, err := app.store.LatestCommentByAuthor(context.Background(), brian.ID)
	require.NoError(t, err)

	replyPath := "/comment/reply/" + strconv.FormatInt(comment.ID, 10)
	_, body = brianB.get(t, replyPath)
	require.Contains(t, body, "Nice post!")

	_, body = brianB.post(t, replyPath, url.Values{"body": {"Replying to myself."}})
	require.Contains(t, body, "Your reply has been published.")

	reply, err := app.store.LatestCommentByAuthor(context.Background(), brian.ID)
	require.NoError(t, err)
	require.Equal(t, comment.ID, reply.ParentID)
	require.Equal(t, post.ID, reply.PostID)

	editPath := "/comment/edit/" + strconv.FormatInt(comment.ID, 10)

	carolB := app.browse(t)
	carolB.login(t, "carol")
	resp, _ := carolB.getNoFollow(t, editPath)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, body = brianB.post(t, editPath, url.Values{"body": {"Edited remark."}})
	require.Contains(t, body, "The comment has been updated.")
	require.Contains(t, body, "Edited remark.")
}

func TestCommentModeration(t *testing.T) {
	app := newTestApp(t)
	admin := app.addUser(t, "kyle", "admin")
	brian := app.addUser(t, "brian", "")
	app.addUser(t, "maude", "moderator")
	post := app.addPost(t, admin, "Moderated", "Body.")
	comment := app.addComment(t, post, brian, "Questionable remark.")

	moderatePath := "/comment/moderate/" + strconv.FormatInt(comment.ID, 10)

	brianB := app.browse(t)
	brianB.login(t, "brian")
	resp, _ := brianB.postNoFollow(t, moderatePath, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	maudeB := app.browse(t)
	maudeB.login(t, "maude")

	_, body := maudeB.post(t, moderatePath, nil)
	require.Contains(t, body, "This comment has been disabled by a moderator.")
	require.NotContains(t, body, "Questionable remark.")

	disabled, err := app.store.CommentByID(context.Background(), comment.ID)
	require.NoError(t, err)
	require.True(t, disabled.Disabled)

	_, body = maudeB.post(t, moderatePath, nil)
	require.Contains(t, body, "Questionable remark.")
}

func TestUserProfilePage(t *testing.T) {
	app := newTestApp(t)
	brian := app.addUser(t, "brian", "")
	app.addPost(t, brian, "Brian Writes", "A body.")

	b := app.browse(t)
	resp, body := b.get(t, "/user/brian")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "<title>User brian - Kyle&#39;s junk</title>")
	require.Contains(t, body, "Brian Writes")

	resp, _ = b.get(t, "/user/ghost")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditProfile(t *testing.T) {
	app := newTestApp(t)
	app.addUser(t, "brian", "")

	anonymous := app.browse(t)
	resp, _ := anonymous.getNoFollow(t, "/edit-profile")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/auth/login", resp.Header.Get("Location"))

	b := app.browse(t)
	b.login(t, "brian")

	_, body := b.post(t, "/edit-profile", url.Values{
		"name":     {"Brian K"},
		"location": {"Toronto"},
		"about_me": {"Occasional commenter."},
	})
	require.Contains(t, body, "Your profile has been updated.")
	require.Contains(t, body, "Brian K")
	require.Contains(t, body, "Toronto")
}
