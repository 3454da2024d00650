package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

func postErr(err error, action string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrPostNotFound
	}
	if errors.Is(err, common.ErrAlreadyLiked) || errors.Is(err, common.ErrNotLiked) {
		return err
	}
	return fmt.Errorf("error %s post: %w", action, err)
}

// Create stores a post with the author's current name and avatar.
func (s *PostService) Create(ctx context.Context, userID, text string) (*models.Post, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	post := &models.Post{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Likes:  []models.Like{},
	}
	post, err = s.repomanager.Posts(s.db).Create(ctx, post)
	if err != nil {
		return nil, postErr(err, "creating")
	}
	return post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	list, err := s.repomanager.Posts(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return list, nil
}

func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	if !validID(postID) {
		return nil, common.ErrPostNotFound
	}
	post, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
	if err != nil {
		return nil, postErr(err, "getting")
	}
	return post, nil
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return common.ErrForbidden
	}
	if err := s.repomanager.Posts(s.db).Delete(ctx, postID); err != nil {
		return postErr(err, "deleting")
	}
	return nil
}

func (s *PostService) Like(ctx context.Context, userID, postID string) ([]models.Like, error) {
	if !validID(postID) {
		return nil, common.ErrPostNotFound
	}
	likes, err := s.repomanager.Posts(s.db).Like(ctx, postID, userID)
	if err != nil {
		return nil, postErr(err, "liking")
	}
	return likes, nil
}

func (s *PostService) Unlike(ctx context.Context, userID, postID string) ([]models.Like, error) {
	if !validID(postID) {
		return nil, common.ErrPostNotFound
	}
	likes, err := s.repomanager.Posts(s.db).Unlike(ctx, postID, userID)
	if err != nil {
		return nil, postErr(err, "unliking")
	}
	return likes, nil
}
