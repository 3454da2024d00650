package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestParseSkills(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"HTML, CSS,JavaScript ,  Go", []string{"HTML", "CSS", "JavaScript", "Go"}},
		{"go, ,rust,", []string{"go", "rust"}},
		{"single", []string{"single"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSkills(tt.in), tt.in)
	}
}

func newProfileService(t *testing.T, expectTx int) (*ProfileService, *fakeRepoLister, string) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	for i := 0; i < expectTx; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	m := newMemory()
	id := uuid.NewString()
	seedUser(t, m, id, "ann")
	gh := &fakeRepoLister{}
	return NewProfileService(db, m, gh), gh, id
}

func TestUpsert_CreateThenPartialUpdate(t *testing.T) {
	s, _, id := newProfileService(t, 2)
	ctx := context.Background()

	p, err := s.Upsert(ctx, id, models.ProfileFields{
		Status:  strp("Developer"),
		Company: strp("Acme"),
		Bio:     strp("Hi"),
		Skills:  ParseSkills("go, sql"),
		Twitter: strp("@ann"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserRef{ID: id, Name: "ann", Avatar: "//www.gravatar.com/avatar/ann"}, p.User)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
	assert.Empty(t, p.Experience)
	assert.Empty(t, p.Education)

	p, err = s.Upsert(ctx, id, models.ProfileFields{
		Status:  strp("Senior Developer"),
		Skills:  ParseSkills("go"),
		YouTube: strp("yt"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Developer", p.Status)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "Hi", p.Bio)
	assert.Equal(t, []string{"go"}, p.Skills)
	assert.Equal(t, models.Social{Twitter: "@ann", YouTube: "yt"}, p.Social)
}

func TestUpsert_SaveError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &failingManager{Manager: newMemory(), profileSaveErr: errBoom}
	s := NewProfileService(db, m, nil)

	_, err := s.Upsert(context.Background(), uuid.NewString(), models.ProfileFields{Status: strp("x")})
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_UserGone(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := &failingManager{Manager: newMemory(), profileSaveErr: common.ErrUserNotFound}
	s := NewProfileService(db, m, nil)

	_, err := s.Upsert(context.Background(), uuid.NewString(), models.ProfileFields{Status: strp("x")})
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeAndByUser(t *testing.T) {
	s, _, id := newProfileService(t, 1)
	ctx := context.Background()

	_, err := s.Me(ctx, id)
	assert.ErrorIs(t, err, common.ErrProfileNotFound)

	_, err = s.Upsert(ctx, id, models.ProfileFields{Status: strp("Dev"), Skills: []string{"go"}})
	require.NoError(t, err)

	p, err := s.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dev", p.Status)

	p, err = s.ByUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, p.User.ID)

	_, err = s.ByUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrProfileNotFound)

	_, err = s.ByUser(ctx, "urn:uuid:"+id)
	assert.ErrorIs(t, err, common.ErrProfileNotFound)

	_, err = s.ByUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, common.ErrProfileNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	s, _, id := newProfileService(t, 2)
	ctx := context.Background()
	other := uuid.NewString()

	_, err := s.Upsert(ctx, id, models.ProfileFields{Status: strp("first")})
	require.NoError(t, err)
	_, err = s.Upsert(ctx, other, models.ProfileFields{Status: strp("second")})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Status)
	assert.Equal(t, "first", list[1].Status)
}

func TestExperience_AddOrderAndRemove(t *testing.T) {
	s, _, id := newProfileService(t, 5)
	ctx := context.Background()

	_, err := s.Upsert(ctx, id, models.ProfileFields{Status: strp("Dev")})
	require.NoError(t, err)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, title := range []string{"A", "B", "C"} {
		_, err := s.AddExperience(ctx, id, models.Experience{Title: title, Company: "Acme", Location: "Riga", From: from})
		require.NoError(t, err)
	}

	p, err := s.Me(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.Experience, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{p.Experience[0].Title, p.Experience[1].Title, p.Experience[2].Title})
	for _, e := range p.Experience {
		_, err := uuid.Parse(e.ID)
		assert.NoError(t, err)
	}

	p, err = s.RemoveExperience(ctx, id, p.Experience[1].ID)
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "C", p.Experience[0].Title)
	assert.Equal(t, "A", p.Experience[1].Title)
}

func TestExperience_RemoveMissingEntry(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	m := newMemory()
	id := uuid.NewString()
	s := NewProfileService(db, m, nil)

	_, err := s.Upsert(context.Background(), id, models.ProfileFields{Status: strp("Dev")})
	require.NoError(t, err)

	_, err = s.RemoveExperience(context.Background(), id, "nope")
	assert.ErrorIs(t, err, common.ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEducation_AddAndRemove(t *testing.T) {
	s, _, id := newProfileService(t, 4)
	ctx := context.Background()

	_, err := s.Upsert(ctx, id, models.ProfileFields{Status: strp("Dev")})
	require.NoError(t, err)

	from := time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err = s.AddEducation(ctx, id, models.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from})
	require.NoError(t, err)
	p, err := s.AddEducation(ctx, id, models.Education{School: "RTU", Degree: "MSc", FieldOfStudy: "CS", From: from})
	require.NoError(t, err)
	require.Len(t, p.Education, 2)
	assert.Equal(t, "RTU", p.Education[0].School)

	p, err = s.RemoveEducation(ctx, id, p.Education[0].ID)
	require.NoError(t, err)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "MIT", p.Education[0].School)
}

func TestEntries_NoProfile(t *testing.T) {
	db, mock := newSQLMockDB(t)
	for i := 0; i < 4; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}
	s := NewProfileService(db, newMemory(), nil)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := s.AddExperience(ctx, id, models.Experience{Title: "x"})
	assert.ErrorIs(t, err, common.ErrProfileNotFound)
	_, err = s.RemoveExperience(ctx, id, "e")
	assert.ErrorIs(t, err, common.ErrProfileNotFound)
	_, err = s.AddEducation(ctx, id, models.Education{School: "x"})
	assert.ErrorIs(t, err, common.ErrProfileNotFound)
	_, err = s.RemoveEducation(ctx, id, "e")
	assert.ErrorIs(t, err, common.ErrProfileNotFound)
}

func TestGitHubRepos(t *testing.T) {
	s, gh, _ := newProfileService(t, 0)
	gh.out = json.RawMessage(`[{"name":"r"}]`)

	got, err := s.GitHubRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", gh.user)
	assert.JSONEq(t, `[{"name":"r"}]`, string(got))

	gh.err = common.ErrUpstream
	_, err = s.GitHubRepos(context.Background(), "octocat")
	assert.ErrorIs(t, err, common.ErrUpstream)
}
