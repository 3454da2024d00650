package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/dbx"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// RepoLister fetches a GitHub user's repositories as raw JSON.
type RepoLister interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	github      RepoLister
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, gh RepoLister) *ProfileService {
	return &ProfileService{db: db, repomanager: m, github: gh}
}

// ParseSkills splits a comma-separated list, trims every item and drops the
// empty ones.
func ParseSkills(s string) []string {
	skills := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			skills = append(skills, item)
		}
	}
	return skills
}

func (s *ProfileService) mapNotFound(err error, action string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrProfileNotFound
	}
	return fmt.Errorf("error %s profile: %w", action, err)
}

// Upsert creates the caller's profile or applies fields to the existing one.
func (s *ProfileService) Upsert(ctx context.Context, userID string, fields models.ProfileFields) (*models.Profile, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)

		profile, err := repo.LockByUser(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			profile = &models.Profile{
				UserID:     userID,
				Skills:     []string{},
				Experience: []models.Experience{},
				Education:  []models.Education{},
			}
		} else if err != nil {
			return fmt.Errorf("error loading profile: %w", err)
		}

		fields.Apply(profile)

		if _, err := repo.Save(ctx, profile); err != nil {
			return fmt.Errorf("error saving profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Me(ctx, userID)
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.repomanager.Profiles(s.db).GetByUser(ctx, userID)
	if err != nil {
		return nil, s.mapNotFound(err, "getting")
	}
	return p, nil
}

// ByUser returns the profile of any user. A malformed id is reported the same
// as a missing profile.
func (s *ProfileService) ByUser(ctx context.Context, userID string) (*models.Profile, error) {
	if !validID(userID) {
		return nil, common.ErrProfileNotFound
	}
	return s.Me(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	list, err := s.repomanager.Profiles(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	return list, nil
}

// modify runs fn on the locked profile and saves the result.
func (s *ProfileService) modify(ctx context.Context, userID string, fn func(p *models.Profile) error) (*models.Profile, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)

		profile, err := repo.LockByUser(ctx, userID)
		if err != nil {
			return s.mapNotFound(err, "loading")
		}
		if err := fn(profile); err != nil {
			return err
		}
		if _, err := repo.Save(ctx, profile); err != nil {
			return fmt.Errorf("error saving profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Me(ctx, userID)
}

// AddExperience prepends exp with a fresh id.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return s.modify(ctx, userID, func(p *models.Profile) error {
		exp.ID = uuid.NewString()
		p.Experience = append([]models.Experience{exp}, p.Experience...)
		return nil
	})
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return s.modify(ctx, userID, func(p *models.Profile) error {
		for i, e := range p.Experience {
			if e.ID == expID {
				p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
				return nil
			}
		}
		return common.ErrEntryNotFound
	})
}

// AddEducation prepends edu with a fresh id.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return s.modify(ctx, userID, func(p *models.Profile) error {
		edu.ID = uuid.NewString()
		p.Education = append([]models.Education{edu}, p.Education...)
		return nil
	})
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return s.modify(ctx, userID, func(p *models.Profile) error {
		for i, e := range p.Education {
			if e.ID == eduID {
				p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
				return nil
			}
		}
		return common.ErrEntryNotFound
	})
}

// GitHubRepos proxies the latest repositories of a GitHub user.
func (s *ProfileService) GitHubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	return s.github.Repos(ctx, username)
}
