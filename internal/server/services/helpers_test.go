package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/devconnector/internal/dbx"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/memory"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

const testSecret = "k"

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: testSecret, TokenValidityDuration: time.Hour}
}

// ticking returns a clock advancing one minute per call so ordering by
// created_at is deterministic.
func ticking() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newMemory() *memory.Manager {
	m := memory.NewManager()
	m.SetClock(ticking())
	return m
}

func seedUser(t *testing.T, m *memory.Manager, id, name string) *models.User {
	t.Helper()
	u, err := m.Users(nil).Create(context.Background(), &models.User{
		ID: id, Name: name, Email: name + "@example.com", Avatar: "//www.gravatar.com/avatar/" + name,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// failingManager wraps the memory store and injects repository errors.
type failingManager struct {
	*memory.Manager
	profileDeleteErr error
	userDeleteErr    error
	userGetErr       error
	profileSaveErr   error
}

func (m *failingManager) Profiles(db dbx.DBTX) profiles.Repository {
	return &failingProfiles{Repository: m.Manager.Profiles(db), m: m}
}

func (m *failingManager) Users(db dbx.DBTX) users.Repository {
	return &failingUsers{Repository: m.Manager.Users(db), m: m}
}

type failingProfiles struct {
	profiles.Repository
	m *failingManager
}

func (f *failingProfiles) DeleteByUser(ctx context.Context, id string) error {
	if f.m.profileDeleteErr != nil {
		return f.m.profileDeleteErr
	}
	return f.Repository.DeleteByUser(ctx, id)
}

func (f *failingProfiles) Save(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if f.m.profileSaveErr != nil {
		return nil, f.m.profileSaveErr
	}
	return f.Repository.Save(ctx, p)
}

type failingUsers struct {
	users.Repository
	m *failingManager
}

func (f *failingUsers) Delete(ctx context.Context, id string) error {
	if f.m.userDeleteErr != nil {
		return f.m.userDeleteErr
	}
	return f.Repository.Delete(ctx, id)
}

func (f *failingUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.m.userGetErr != nil {
		return nil, f.m.userGetErr
	}
	return f.Repository.GetByEmail(ctx, email)
}

func (f *failingUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.m.userGetErr != nil {
		return nil, f.m.userGetErr
	}
	return f.Repository.GetByID(ctx, id)
}

type fakeRepoLister struct {
	out  json.RawMessage
	err  error
	user string
}

func (f *fakeRepoLister) Repos(_ context.Context, username string) (json.RawMessage, error) {
	f.user = username
	return f.out, f.err
}
