package sewpress

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuardApp(t *testing.T) *App {
	t.Helper()
	app := &App{
		Config: SiteConfig{SessionSecret: "test-secret"},
		Echo:   echo.New(),
		Store:  setupTestStore(t),
	}
	app.Echo.Use(session.Middleware(app.newSessionStore()))

	// Login helper for tests: sets the session for the given profile id.
	app.Echo.GET("/test-login/:id/", func(c echo.Context) error {
		if err := setProfileSession(c, c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})

	admin := app.Echo.Group("/admin", app.AccessGuard)
	admin.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "dashboard") })
	admin.GET("/login/", func(c echo.Context) error { return c.String(http.StatusOK, "login") })
	admin.GET("/unauthorized/", func(c echo.Context) error { return c.String(http.StatusOK, "unauthorized") })

	return app
}

func saveTestProfile(t *testing.T, s *Store, id string, role Role) {
	t.Helper()
	now := time.Now()
	require.NoError(t, s.SaveProfile(Profile{
		ID:           id,
		Email:        id + "@kuriyama-sewing.example",
		Role:         role,
		PasswordHash: []byte("x"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func loginCookies(t *testing.T, app *App, profileID string) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/test-login/"+profileID+"/", nil)
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Result().Cookies()
}

func adminRequest(app *App, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestAccessGuardRedirectsAnonymous(t *testing.T) {
	app := setupGuardApp(t)

	rec := adminRequest(app, "/admin/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login/", rec.Header().Get("Location"))
}

func TestAccessGuardSkipsLoginAndUnauthorized(t *testing.T) {
	app := setupGuardApp(t)

	rec := adminRequest(app, "/admin/login/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = adminRequest(app, "/admin/unauthorized/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessGuardAllowsEditorAndAdmin(t *testing.T) {
	app := setupGuardApp(t)
	saveTestProfile(t, app.Store, "ed1", RoleEditor)
	saveTestProfile(t, app.Store, "ad1", RoleAdmin)

	for _, id := range []string{"ed1", "ad1"} {
		rec := adminRequest(app, "/admin/", loginCookies(t, app, id))
		assert.Equal(t, http.StatusOK, rec.Code, "profile %s should reach the dashboard", id)
		assert.Equal(t, "dashboard", rec.Body.String())
	}
}

func TestAccessGuardRejectsUnknownRole(t *testing.T) {
	app := setupGuardApp(t)
	saveTestProfile(t, app.Store, "visitor", Role("subscriber"))

	rec := adminRequest(app, "/admin/", loginCookies(t, app, "visitor"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/unauthorized/", rec.Header().Get("Location"))
}

func TestAccessGuardRejectsDeletedProfile(t *testing.T) {
	app := setupGuardApp(t)
	saveTestProfile(t, app.Store, "gone", RoleEditor)
	cookies := loginCookies(t, app, "gone")

	// Role lookup runs per request: revoking the profile locks the session
	// out immediately.
	_, err := app.Store.db.Exec(`DELETE FROM profiles WHERE id = ?`, "gone")
	require.NoError(t, err)

	rec := adminRequest(app, "/admin/", cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/unauthorized/", rec.Header().Get("Location"))
}
