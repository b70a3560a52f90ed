package sewpress

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func (a *App) handleAdminLoginForm(c echo.Context) error {
	if a.isEditor(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}

	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	password := c.FormValue("password")

	profile, err := a.Store.GetProfileByEmail(email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword(profile.PasswordHash, []byte(password))
	}
	if err != nil {
		a.loginLimiter.Record(ip)
		return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
	}

	if err := setProfileSession(c, profile.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := clearProfileSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, loginPath)
}

func (a *App) handleAdminUnauthorized(c echo.Context) error {
	return RenderStatus(c, http.StatusForbidden, a.Views.Unauthorized())
}

// HashPassword produces a bcrypt hash for seeding staff profiles.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), 12)
}
