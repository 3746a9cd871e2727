package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks ProfileStore,ElementFinder,Renderer,AuditPublisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"formprefill/internal/audit"
	"formprefill/internal/content"
	"formprefill/internal/extconf"
	"formprefill/internal/gatekeeper"
	"formprefill/internal/prefill/handler/mocks"
	"formprefill/internal/profile"
	"formprefill/internal/render"
	"formprefill/internal/siteconfig"
	id "formprefill/pkg/domain"
	"formprefill/pkg/platform/sentinel"
	"formprefill/pkg/testutil"
)

type fixedSite struct {
	site *siteconfig.Site
}

func (f fixedSite) ByHost(string) *siteconfig.Site {
	return f.site
}

type HandlerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	profiles *mocks.MockProfileStore
	elements *mocks.MockElementFinder
	renderer *mocks.MockRenderer
	audit    *mocks.MockAuditPublisher
	site     *siteconfig.Site
	router   chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.profiles = mocks.NewMockProfileStore(s.ctrl)
	s.elements = mocks.NewMockElementFinder(s.ctrl)
	s.renderer = mocks.NewMockRenderer(s.ctrl)
	s.audit = mocks.NewMockAuditPublisher(s.ctrl)
	s.site = &siteconfig.Site{
		Identifier: "main",
		Base:       "www.example.org",
		Prefill: siteconfig.Prefill{
			AllowedFields: siteconfig.NewFieldList("email", "first_name"),
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(Deps{
		Profiles: s.profiles,
		Sites:    fixedSite{site: s.site},
		Gate:     gatekeeper.New(extconf.Static{}, logger),
		Elements: s.elements,
		Renderer: s.renderer,
		Audit:    s.audit,
	}, logger, nil, 0)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) expectDenied(reason string) {
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e audit.Event) {
		s.Equal(audit.EventPrefillDenied, e.Action)
		s.Equal(reason, e.Reason)
		s.Empty(e.Fields)
	})
}

func (s *HandlerSuite) TestUserDataWithoutSession() {
	s.expectDenied("unauthenticated")

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/prefill-user.json"))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "Authentication required")
}

func (s *HandlerSuite) TestUserDataAnonymousSession() {
	s.expectDenied("invalid_session")

	req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/prefill-user.json"), 0)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "No valid user session")
}

func (s *HandlerSuite) TestUserDataUnknownUser() {
	s.profiles.EXPECT().FindByID(gomock.Any(), id.UserID(9)).
		Return(nil, fmt.Errorf("user 9: %w", sentinel.ErrNotFound))
	s.expectDenied("invalid_session")

	req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/prefill-user.json"), 9)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "No valid user session")
}

func (s *HandlerSuite) TestUserDataStoreFailure() {
	s.profiles.EXPECT().FindByID(gomock.Any(), id.UserID(9)).
		Return(nil, errors.New("connection reset"))

	req := testutil.WithUserID(testutil.NewRequest(s.T(), http.MethodGet, "/prefill-user.json"), 9)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	s.NotContains(rr.Body.String(), "connection reset")
}

func (s *HandlerSuite) TestUserDataServesAllowedFieldsOnly() {
	s.profiles.EXPECT().FindByID(gomock.Any(), id.UserID(42)).Return(profile.Profile{
		"email":      "a@b.c",
		"first_name": "Ada",
		"password":   "$argon2id$secret",
		"telephone":  "555",
	}, nil)
	s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e audit.Event) {
		s.Equal(audit.EventPrefillDataExposed, e.Action)
		s.Equal(id.UserID(42), e.UserID)
		s.Equal("main", e.Site)
		s.Equal([]string{"email", "first_name"}, e.Fields)
		s.Equal(string(gatekeeper.SourceSite), e.AllowListSource)
	})

	req := testutil.WithAuth(testutil.NewRequest(s.T(), http.MethodGet, "/prefill-user.json"), 42, "sess-1")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertNotCached(s.T(), rr)
	body := testutil.UnmarshalResponse[map[string]string](s.T(), rr)
	s.Equal(map[string]string{"email": "a@b.c", "first_name": "Ada"}, *body)
}

func (s *HandlerSuite) TestRenderWritesFragment() {
	element := content.Element{UID: 5, PID: 7, ContentType: id.ContentTypePrefill}
	s.elements.EXPECT().FindByID(gomock.Any(), id.ContentID(5)).Return(element, nil)
	s.renderer.EXPECT().Render(gomock.Any(), render.Request{Element: element, Site: s.site}).
		Return(render.Output{HTML: "<script>x</script>", Outcome: render.OutcomeScript})

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/prefill/render/5"))

	testutil.AssertStatusOK(s.T(), rr)
	s.Equal("text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	s.Equal("<script>x</script>", rr.Body.String())
}

func (s *HandlerSuite) TestRenderDiagnosticIsStillOK() {
	element := content.Element{UID: 5, PID: 7, ContentType: id.ContentTypePrefill}
	s.elements.EXPECT().FindByID(gomock.Any(), id.ContentID(5)).Return(element, nil)
	s.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).
		Return(render.Output{HTML: render.Diagnostic(render.OutcomeNoForm), Outcome: render.OutcomeNoForm})

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/prefill/render/5"))

	testutil.AssertStatusOK(s.T(), rr)
	s.Equal(render.Diagnostic(render.OutcomeNoForm), rr.Body.String())
}

func (s *HandlerSuite) TestRenderRejectsOtherElements() {
	tests := []struct {
		name    string
		element content.Element
		err     error
	}{
		{name: "missing", err: fmt.Errorf("content 5: %w", sentinel.ErrNotFound)},
		{name: "form element", element: content.Element{UID: 5, ContentType: id.ContentTypeForm}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.elements.EXPECT().FindByID(gomock.Any(), id.ContentID(5)).Return(tt.element, tt.err)

			rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/prefill/render/5"))

			testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
		})
	}
}

func (s *HandlerSuite) TestRenderBadID() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/prefill/render/abc"))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestScript() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/prefill.js"))

	testutil.AssertStatusOK(s.T(), rr)
	s.Contains(rr.Header().Get("Content-Type"), "javascript")
	s.Contains(rr.Body.String(), "formPrefillMappings")
	s.Contains(rr.Body.String(), "/prefill-user.json")
	// empty profile values leave preset input values alone
	s.Contains(rr.Body.String(), "if (field && value)")
	s.NotContains(rr.Body.String(), "!== undefined")
}

func TestSiteIdentifier(t *testing.T) {
	assert.Empty(t, siteIdentifier(nil))
	require.Equal(t, "main", siteIdentifier(&siteconfig.Site{Identifier: "main"}))
}
