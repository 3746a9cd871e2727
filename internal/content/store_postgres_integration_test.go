//go:build integration

package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"formprefill/internal/content"
	id "formprefill/pkg/domain"
	"formprefill/pkg/platform/sentinel"
	"formprefill/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *content.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = content.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.Truncate(ctx, "tt_content"))

	settings, err := content.EncodeSettings(content.Settings{PersistenceIdentifier: "1:/forms/contact.form.yaml"})
	s.Require().NoError(err)
	for _, e := range []content.Element{
		{UID: 42, PID: 7, ContentType: id.ContentTypeForm, RawSettings: settings},
		{UID: 43, PID: 7, LanguageID: 1, ContentType: id.ContentTypeFormContent},
		{UID: 44, PID: 7, ContentType: id.ContentTypeForm, Hidden: true},
		{UID: 45, PID: 7, ContentType: id.ContentType("text")},
		{UID: 46, PID: 8, ContentType: id.ContentTypeForm},
		{UID: 50, PID: 7, ContentType: id.ContentTypePrefill},
	} {
		s.Require().NoError(s.store.Save(ctx, e))
	}
}

func uids(elements []content.Element) []id.ContentID {
	out := make([]id.ContentID, 0, len(elements))
	for _, e := range elements {
		out = append(out, e.UID)
	}
	return out
}

func (s *PostgresStoreSuite) TestFindFormsRequestLanguage() {
	got, err := s.store.FindForms(context.Background(), content.FormQuery{PageID: 7, LanguageID: 0})
	s.Require().NoError(err)
	s.Equal([]id.ContentID{42}, uids(got))
	s.Equal("1:/forms/contact.form.yaml", mustSettings(s, got[0]).PersistenceIdentifier)
}

func (s *PostgresStoreSuite) TestFindFormsAllLanguages() {
	got, err := s.store.FindForms(context.Background(), content.FormQuery{PageID: 7, AllLanguages: true})
	s.Require().NoError(err)
	s.Equal([]id.ContentID{42, 43}, uids(got))
}

func (s *PostgresStoreSuite) TestFindByID() {
	ctx := context.Background()

	e, err := s.store.FindByID(ctx, 50)
	s.Require().NoError(err)
	s.Equal(id.ContentTypePrefill, e.ContentType)

	_, err = s.store.FindByID(ctx, 44)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FindByID(ctx, 999)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func mustSettings(s *PostgresStoreSuite, e content.Element) content.Settings {
	settings, err := e.DecodeSettings()
	s.Require().NoError(err)
	return settings
}
