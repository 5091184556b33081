package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MisterKipper/my-site/internal/model"
)

// CreateComment inserts a comment and fills its ID. BodyHTML must already be
// derived via Comment.SetBody.
func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	if err := s.ready(); err != nil {
		return err
	}
	if comment == nil {
		return fmt.Errorf("sqlite: comment is required")
	}
	if comment.Timestamp.IsZero() {
		comment.Timestamp = time.Now().UTC()
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO comments (post_id, author_id, body, body_html, disabled, timestamp, edit_time, parent_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		comment.PostID, comment.AuthorID, comment.Body, comment.BodyHTML,
		boolToInt(comment.Disabled), timeToUnix(comment.Timestamp), timeToUnix(comment.EditTime), comment.ParentID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: create comment: %w", err)
	}
	comment.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: create comment id: %w", err)
	}
	return nil
}

// UpdateComment persists an edited body and stamps the edit time.
func (s *Store) UpdateComment(ctx context.Context, comment *model.Comment) error {
	if err := s.ready(); err != nil {
		return err
	}
	if comment == nil || comment.ID == 0 {
		return fmt.Errorf("sqlite: comment with id is required")
	}
	if comment.EditTime.IsZero() {
		comment.EditTime = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE comments SET body = ?, body_html = ?, disabled = ?, edit_time = ? WHERE id = ?`,
		comment.Body, comment.BodyHTML, boolToInt(comment.Disabled), timeToUnix(comment.EditTime), comment.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update comment %d: %w", comment.ID, err)
	}
	return nil
}

const commentColumns = `c.id, c.post_id, c.author_id, c.body, c.body_html, c.disabled, c.timestamp, c.edit_time, c.parent_id, u.username`

// CommentByID loads a comment with its author's username.
func (s *Store) CommentByID(ctx context.Context, id int64) (model.Comment, error) {
	if err := s.ready(); err != nil {
		return model.Comment{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id WHERE c.id = ?`, id)
	return scanComment(row)
}

func scanComment(row rowScanner) (model.Comment, error) {
	var comment model.Comment
	var disabled int64
	var timestamp int64
	var editTime int64
	var username string
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Body, &comment.BodyHTML,
		&disabled, &timestamp, &editTime, &comment.ParentID, &username,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Comment{}, ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("sqlite: scan comment: %w", err)
	}
	comment.Disabled = disabled != 0
	comment.Timestamp = unixToTime(timestamp)
	comment.EditTime = unixToTime(editTime)
	comment.Author = &model.User{ID: comment.AuthorID, Username: username}
	return comment, nil
}

// ListComments returns a page of a post's comments, oldest first.
func (s *Store) ListComments(ctx context.Context, postID int64, limit, offset int) ([]model.Comment, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ? ORDER BY c.timestamp ASC, c.id ASC LIMIT ? OFFSET ?`,
		postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list comments: %w", err)
	}
	return comments, nil
}

// CountComments returns the number of comments on a post.
func (s *Store) CountComments(ctx context.Context, postID int64) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count comments for post %d: %w", postID, err)
	}
	return count, nil
}

// LatestCommentByAuthor returns the author's newest comment, used after a
// reply redirect to locate the created row.
func (s *Store) LatestCommentByAuthor(ctx context.Context, authorID int64) (model.Comment, error) {
	if err := s.ready(); err != nil {
		return model.Comment{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.author_id = ? ORDER BY c.timestamp DESC, c.id DESC LIMIT 1`, authorID)
	return scanComment(row)
}
