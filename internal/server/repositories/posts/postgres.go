package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/dbx"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

const selectPosts = `SELECT id, user_id, text, name, avatar, likes, created_at FROM posts`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	var likes []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &likes, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Likes, err = decodeLikes(likes); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeLikes(raw []byte) ([]models.Like, error) {
	likes := []models.Like{}
	if len(raw) == 0 {
		return likes, nil
	}
	if err := json.Unmarshal(raw, &likes); err != nil {
		return nil, fmt.Errorf("decode likes: %w", err)
	}
	return likes, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (id, user_id, text, name, avatar)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.UserID, post.Text, post.Name, post.Avatar).Scan(&post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPosts+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPosts+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

// updateLikes runs a conditional update returning the new likes. When no row
// matches, the post either does not exist or the condition failed, reported
// as conflict.
func (r *PostgresRepository) updateLikes(ctx context.Context, query, id, userID string, conflict error) ([]models.Like, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&raw)
	if err == nil {
		return decodeLikes(raw)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	ok, err := r.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorNotFound
	}
	return nil, conflict
}

func (r *PostgresRepository) Like(ctx context.Context, id, userID string) ([]models.Like, error) {
	query :=
		`UPDATE posts
		 SET likes = jsonb_build_array(jsonb_build_object('user', $2::text)) || likes
		 WHERE id = $1 AND NOT likes @> jsonb_build_array(jsonb_build_object('user', $2::text))
		 RETURNING likes
		 `
	return r.updateLikes(ctx, query, id, userID, common.ErrAlreadyLiked)
}

// Unlike drops the user's like. Like never stores a user twice, so filtering
// every matching element removes exactly one.
func (r *PostgresRepository) Unlike(ctx context.Context, id, userID string) ([]models.Like, error) {
	query :=
		`UPDATE posts
		 SET likes = COALESCE((
		     SELECT jsonb_agg(e ORDER BY i)
		     FROM jsonb_array_elements(likes) WITH ORDINALITY AS l(e, i)
		     WHERE e->>'user' <> $2::text
		 ), '[]'::jsonb)
		 WHERE id = $1 AND likes @> jsonb_build_array(jsonb_build_object('user', $2::text))
		 RETURNING likes
		 `
	return r.updateLikes(ctx, query, id, userID, common.ErrNotLiked)
}
