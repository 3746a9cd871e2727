//go:build integration

package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"formprefill/internal/profile"
	id "formprefill/pkg/domain"
	"formprefill/pkg/platform/sentinel"
	"formprefill/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *profile.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = profile.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "fe_users"))
}

func (s *PostgresStoreSuite) TestFindByIDReturnsEveryColumn() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, 42, profile.Profile{
		"email":      "a@b.c",
		"first_name": "Ada",
		"password":   "$argon2id$secret",
	}))

	p, err := s.store.FindByID(ctx, 42)
	s.Require().NoError(err)
	s.Equal("a@b.c", p["email"])
	s.Equal("Ada", p["first_name"])
	s.Equal("$argon2id$secret", p["password"])
	s.Equal("42", p["uid"])
	s.Equal("", p["telephone"])
}

func (s *PostgresStoreSuite) TestDisabledAndDeletedUsersAreNotFound() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, 7, profile.Profile{"email": "x@y.z"}))
	s.Require().NoError(s.store.Save(ctx, 8, profile.Profile{"email": "q@y.z"}))
	_, err := s.pg.DB.ExecContext(ctx, `UPDATE fe_users SET disable = 1 WHERE uid = 7`)
	s.Require().NoError(err)
	_, err = s.pg.DB.ExecContext(ctx, `UPDATE fe_users SET deleted = 1 WHERE uid = 8`)
	s.Require().NoError(err)

	for _, uid := range []id.UserID{7, 8, 9} {
		_, err := s.store.FindByID(ctx, uid)
		s.ErrorIs(err, sentinel.ErrNotFound, "user %s", uid)
	}
}
