package sewpress

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (a *App) handleAdminDashboard(c echo.Context) error {
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminNewPost(c echo.Context) error {
	categories, err := a.Cache.Categories()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminPostForm(Post{Status: StatusDraft}, categories, "", CsrfToken(c)))
}

func (a *App) handleAdminCreatePost(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	post := postFromForm(c)

	// The form auto-fills the slug from the title; derive it here too in
	// case the field arrives empty. An editor-supplied slug is taken as-is.
	if strings.TrimSpace(post.Slug) == "" {
		post.Slug = DeriveSlug(post.Title)
	}

	post = NormalizeForPersist(post)
	if err := ValidatePost(post); err != nil {
		return a.renderPostForm(c, post, err.Error())
	}

	now := time.Now()
	post.ID = uuid.NewString()
	if profileID, ok := sessionProfile(c); ok {
		post.AuthorID = profileID
	}
	post.CreatedAt = now
	post.Status = StatusDraft
	post = Transition(post, saveAction(c), now)

	if err := a.Store.InsertPost(post); err != nil {
		// Slug collisions and other constraint violations come back
		// verbatim; the editor fixes the field and resubmits.
		return a.renderPostForm(c, post, err.Error())
	}

	a.Cache.Invalidate()
	return a.redirectDashboard(c, "saved")
}

func (a *App) handleAdminEditPost(c echo.Context) error {
	post, err := a.Store.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return a.renderPostForm(c, post, "")
}

func (a *App) handleAdminUpdatePost(c echo.Context) error {
	existing, err := a.Store.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}

	post := postFromForm(c)
	post.ID = existing.ID
	post.AuthorID = existing.AuthorID
	post.CreatedAt = existing.CreatedAt
	post.Status = existing.Status
	post.PublishedAt = existing.PublishedAt

	post = NormalizeForPersist(post)
	if err := ValidatePost(post); err != nil {
		return a.renderPostForm(c, post, err.Error())
	}

	// Saving without an explicit action keeps the current status; the
	// publish/archive buttons submit a target instead.
	target := existing.Status
	if s := Status(c.FormValue("action")); s.Valid() {
		target = s
	}
	post = Transition(post, target, time.Now())

	if err := a.Store.UpdatePost(post); err != nil {
		return a.renderPostForm(c, post, err.Error())
	}

	a.Cache.Invalidate()
	return a.redirectDashboard(c, "saved")
}

func (a *App) handleAdminTransition(c echo.Context) error {
	target := Status(c.FormValue("status"))
	if !target.Valid() {
		return c.String(http.StatusBadRequest, "unknown status")
	}
	post, err := a.Store.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	post = Transition(post, target, time.Now())
	if err := a.Store.UpdatePost(post); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.redirectDashboard(c, string(target))
}

func (a *App) handleAdminDeletePost(c echo.Context) error {
	if err := a.Store.DeletePost(c.Param("id")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListPosts(PostFilter{OrderBy: OrderByUpdated})
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(posts, msg, CsrfToken(c)))
}

func (a *App) renderPostForm(c echo.Context, post Post, errMsg string) error {
	categories, err := a.Cache.Categories()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminPostForm(post, categories, errMsg, CsrfToken(c)))
}

func (a *App) redirectDashboard(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

// saveAction maps the submit button to the initial status of a new post:
// "publish" goes straight to published, anything else stays a draft.
func saveAction(c echo.Context) Status {
	if c.FormValue("action") == string(StatusPublished) {
		return StatusPublished
	}
	return StatusDraft
}

func postFromForm(c echo.Context) Post {
	return Post{
		Title:           c.FormValue("title"),
		Slug:            c.FormValue("slug"),
		Excerpt:         c.FormValue("excerpt"),
		Content:         c.FormValue("content"),
		Category:        c.FormValue("category"),
		Tags:            FilterEmpty(strings.Split(c.FormValue("tags"), ",")),
		FeaturedImage:   c.FormValue("featured_image"),
		MetaTitle:       c.FormValue("meta_title"),
		MetaDescription: c.FormValue("meta_description"),
	}
}
