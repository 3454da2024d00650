package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/dbx"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

const selectProfiles = `SELECT p.user_id, COALESCE(u.name, ''), COALESCE(u.avatar, ''),
		 p.company, p.website, p.location, p.bio, p.status, p.githubusername,
		 p.skills, p.social, p.experience, p.education, p.created_at
		 FROM profiles p LEFT JOIN users u ON u.id = p.user_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	p := &models.Profile{}
	var skills, social, experience, education []byte

	err := row.Scan(&p.UserID, &p.User.Name, &p.User.Avatar,
		&p.Company, &p.Website, &p.Location, &p.Bio, &p.Status, &p.GitHubUsername,
		&skills, &social, &experience, &education, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.User.ID = p.UserID

	for _, c := range []struct {
		raw []byte
		dst any
	}{
		{skills, &p.Skills},
		{social, &p.Social},
		{experience, &p.Experience},
		{education, &p.Education},
	} {
		if len(c.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(c.raw, c.dst); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	normalize(p)
	return p, nil
}

func normalize(p *models.Profile) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	if p.Education == nil {
		p.Education = []models.Education{}
	}
}

func (r *PostgresRepository) getOne(ctx context.Context, query, userID string) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*models.Profile, error) {
	return r.getOne(ctx, selectProfiles+` WHERE p.user_id = $1`, userID)
}

func (r *PostgresRepository) LockByUser(ctx context.Context, userID string) (*models.Profile, error) {
	return r.getOne(ctx, selectProfiles+` WHERE p.user_id = $1 FOR UPDATE OF p`, userID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfiles+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
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

// Save inserts the profile or replaces every column of the existing row. A
// profile for a user that no longer exists yields common.ErrUserNotFound.
func (r *PostgresRepository) Save(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	normalize(p)

	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, err
	}
	social, err := json.Marshal(p.Social)
	if err != nil {
		return nil, err
	}
	experience, err := json.Marshal(p.Experience)
	if err != nil {
		return nil, err
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO profiles (user_id, company, website, location, bio, status, githubusername,
		 skills, social, experience, education)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id) DO UPDATE SET
		 company = EXCLUDED.company, website = EXCLUDED.website, location = EXCLUDED.location,
		 bio = EXCLUDED.bio, status = EXCLUDED.status, githubusername = EXCLUDED.githubusername,
		 skills = EXCLUDED.skills, social = EXCLUDED.social,
		 experience = EXCLUDED.experience, education = EXCLUDED.education
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		p.UserID, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUsername,
		skills, social, experience, education).Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.User.ID = p.UserID
	return p, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
