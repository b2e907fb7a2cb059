package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-market/admin-console/internal/authflow"
	"github.com/atelier-market/admin-console/internal/config"
	"github.com/atelier-market/admin-console/internal/gate"
	"github.com/atelier-market/admin-console/internal/notice"
	"github.com/atelier-market/admin-console/internal/permission"
	"github.com/atelier-market/admin-console/internal/session"
	"github.com/atelier-market/admin-console/internal/web/handler"
	"github.com/atelier-market/admin-console/internal/web/middleware/auth"
)

type fakeBackend struct{}

func (fakeBackend) Login(_ context.Context, email, _ string) (authflow.LoginResult, error) {
	if email != "mod@atelier.test" {
		return authflow.LoginResult{}, authflow.ErrInvalidCredentials
	}

	return authflow.LoginResult{
		Actor:       &session.Actor{ID: 2, Email: email, Role: session.RoleModerator},
		Permissions: []permission.Permission{permission.DesignsView, permission.OrdersView},
		Tokens:      session.Tokens{AccessToken: "AT", RefreshToken: "RT"},
	}, nil
}

func (fakeBackend) VerifyTwoFactor(context.Context, string, string, uint64) (authflow.VerifyResult, error) {
	return authflow.VerifyResult{}, authflow.ErrInvalidTwoFactorCode
}

func (fakeBackend) InvalidateSession(context.Context, string) error {
	return nil
}

func newTestService(t *testing.T) (*Service, *session.State) {
	t.Helper()

	sess := session.New(nil)
	g := gate.New(sess)
	board := notice.NewBoard(8)

	deps := &handler.Deps{
		Session:    sess,
		Controller: authflow.New(sess, fakeBackend{}, authflow.WithNotifier(board)),
		Gate:       g,
		Guard:      auth.New(sess, g),
		Notices:    board,
	}

	svc, err := New(&config.Config{Title: "test", DevMode: true}, deps)
	require.NoError(t, err)

	return svc, sess
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}

	return resp.StatusCode, out
}

func TestNew_NilArguments(t *testing.T) {
	_, err := New(nil, &handler.Deps{})
	require.ErrorIs(t, err, ErrNilConfig)

	_, err = New(&config.Config{}, nil)
	require.ErrorIs(t, err, handler.ErrNilDeps)

	_, err = New(&config.Config{}, &handler.Deps{})
	require.ErrorIs(t, err, handler.ErrNilDeps)
}

func TestNew_IndependentApps(t *testing.T) {
	first, firstSess := newTestService(t)
	firstSess.Establish(session.Actor{ID: 1, Email: "root@atelier.test", Role: session.RoleSuperAdmin}, nil, session.Tokens{AccessToken: "AT"})
	firstSess.MarkRestored()

	second, secondSess := newTestService(t)
	secondSess.MarkRestored()

	_, body := do(t, first.App, http.MethodGet, "/api/session", "")
	assert.Equal(t, true, body["authenticated"], "a second app must not rebind the first one")

	_, body = do(t, second.App, http.MethodGet, "/api/session", "")
	assert.Equal(t, false, body["authenticated"])

	status, _ := do(t, first.App, http.MethodGet, "/api/permissions", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, second.App, http.MethodGet, "/api/permissions", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestNew_DoesNotMutateDeps(t *testing.T) {
	sess := session.New(nil)
	g := gate.New(sess)
	board := notice.NewBoard(8)

	deps := &handler.Deps{
		Session:    sess,
		Controller: authflow.New(sess, fakeBackend{}),
		Gate:       g,
		Guard:      auth.New(sess, g),
		Notices:    board,
	}

	_, err := New(&config.Config{Title: "test"}, deps)
	require.NoError(t, err)

	assert.Nil(t, deps.Menu)
}

func TestCheckAlive(t *testing.T) {
	svc, _ := newTestService(t)

	status, _ := do(t, svc.App, http.MethodGet, CheckAlivePath, "")
	assert.Equal(t, http.StatusOK, status)

	svc.alive.Store(false)

	status, _ = do(t, svc.App, http.MethodGet, CheckAlivePath, "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestMetrics(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.App.Test(httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "go_goroutines")
}

func TestAPI_BeforeRestore(t *testing.T) {
	svc, _ := newTestService(t)

	status, body := do(t, svc.App, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["restored"])

	status, body = do(t, svc.App, http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["pending"])
	assert.Empty(t, body["sections"])

	status, _ = do(t, svc.App, http.MethodGet, "/api/permissions", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestAPI_LoginFlow(t *testing.T) {
	svc, sess := newTestService(t)
	sess.MarkRestored()

	status, _ := do(t, svc.App, http.MethodGet, "/api/permissions", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, svc.App, http.MethodPost, "/api/login", `{"email":"mod@atelier.test","password":"pw"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "authenticated", body["status"])
	assert.Equal(t, "Moderator", body["role"])

	status, _ = do(t, svc.App, http.MethodGet, "/api/permissions", "")
	assert.Equal(t, http.StatusForbidden, status, "moderator lacks admins.view")

	status, body = do(t, svc.App, http.MethodGet, "/api/menu?active=designs", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["pending"])
	assert.NotEmpty(t, body["sections"])
	assert.NotEmpty(t, body["breadcrumbs"])

	status, body = do(t, svc.App, http.MethodGet, "/api/notices", "")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["notices"])

	status, _ = do(t, svc.App, http.MethodPost, "/api/logout", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = do(t, svc.App, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["authenticated"])
	assert.Nil(t, body["actor"])
}

func TestAPI_SuperAdminCatalog(t *testing.T) {
	svc, sess := newTestService(t)
	sess.Establish(session.Actor{ID: 1, Role: session.RoleSuperAdmin}, nil, session.Tokens{AccessToken: "AT"})
	sess.MarkRestored()

	status, body := do(t, svc.App, http.MethodGet, "/api/permissions", "")
	require.Equal(t, http.StatusOK, status)

	all, ok := body["all"].([]any)
	require.True(t, ok)
	assert.Len(t, all, len(permission.All()))

	defaults, ok := body["moderatorDefaults"].([]any)
	require.True(t, ok)
	assert.Len(t, defaults, len(permission.ModeratorDefaults()))

	groups, ok := body["groups"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, groups, len(permission.Groups()))
}
