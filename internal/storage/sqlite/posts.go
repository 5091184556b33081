package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MisterKipper/my-site/internal/model"
)

// CreatePost inserts a post, deriving its slug from the title when empty,
// and fills its ID.
func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	if err := s.ready(); err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("sqlite: post is required")
	}
	if post.Slug == "" {
		post.Slug = model.Slugify(post.Title)
	}
	if post.Timestamp.IsZero() {
		post.Timestamp = time.Now().UTC()
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO posts (title, slug, author_id, body, summary, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		post.Title, post.Slug, post.AuthorID, post.Body, post.Summary, timeToUnix(post.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create post: %w", err)
	}
	post.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: create post id: %w", err)
	}
	return nil
}

// UpdatePost persists the editable fields of a post.
func (s *Store) UpdatePost(ctx context.Context, post *model.Post) error {
	if err := s.ready(); err != nil {
		return err
	}
	if post == nil || post.ID == 0 {
		return fmt.Errorf("sqlite: post with id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE posts SET title = ?, body = ?, summary = ? WHERE id = ?`,
		post.Title, post.Body, post.Summary, post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update post %d: %w", post.ID, err)
	}
	return nil
}

const postColumns = `p.id, p.title, p.slug, p.author_id, p.body, p.summary, p.timestamp, u.username`

// PostByID loads a post with its author's username.
func (s *Store) PostByID(ctx context.Context, id int64) (model.Post, error) {
	return s.postBy(ctx, `p.id = ?`, id)
}

// PostBySlug loads a post with its author's username.
func (s *Store) PostBySlug(ctx context.Context, slug string) (model.Post, error) {
	return s.postBy(ctx, `p.slug = ?`, slug)
}

func (s *Store) postBy(ctx context.Context, where string, arg any) (model.Post, error) {
	if err := s.ready(); err != nil {
		return model.Post{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.author_id WHERE `+where, arg)
	return scanPost(row)
}

func scanPost(row rowScanner) (model.Post, error) {
	var post model.Post
	var timestamp int64
	var username string
	err := row.Scan(&post.ID, &post.Title, &post.Slug, &post.AuthorID, &post.Body, &post.Summary, &timestamp, &username)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Post{}, ErrNotFound
		}
		return model.Post{}, fmt.Errorf("sqlite: scan post: %w", err)
	}
	post.Timestamp = unixToTime(timestamp)
	post.Author = &model.User{ID: post.AuthorID, Username: username}
	return post, nil
}

// ListPosts returns a page of posts, newest first, with author usernames.
func (s *Store) ListPosts(ctx context.Context, limit, offset int) ([]model.Post, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.author_id
		 ORDER BY p.timestamp DESC, p.id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list posts: %w", err)
	}
	return posts, nil
}

// CountPosts returns the total number of posts.
func (s *Store) CountPosts(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: count posts: %w", err)
	}
	return count, nil
}

// ListPostsByAuthor returns a page of one author's posts, newest first.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]model.Post, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.author_id = ? ORDER BY p.timestamp DESC, p.id DESC LIMIT ? OFFSET ?`,
		authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list posts by author %d: %w", authorID, err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list posts by author %d: %w", authorID, err)
	}
	return posts, nil
}

// CountPostsByAuthor returns the number of posts by one author.
func (s *Store) CountPostsByAuthor(ctx context.Context, authorID int64) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = ?`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count posts by author %d: %w", authorID, err)
	}
	return count, nil
}
