package sewpress

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAdminApp(t *testing.T) *App {
	t.Helper()
	store := setupTestStore(t)
	return &App{
		Echo:  echo.New(),
		Store: store,
		Cache: NewPostCache(store, time.Minute),
	}
}

func postForm(t *testing.T, app *App, handler echo.HandlerFunc, form url.Values, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := app.Echo.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	require.NoError(t, handler(c))
	return rec
}

func TestAdminCreateDerivesSlugAndStampsPublish(t *testing.T) {
	app := setupAdminApp(t)

	rec := postForm(t, app, app.handleAdminCreatePost, url.Values{
		"title":   {"Sample"},
		"content": {"本文です。"},
		"action":  {"published"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	posts, err := app.Store.ListPosts(PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	created := posts[0]
	assert.Equal(t, "sample", created.Slug, "empty slug field derives from the title")
	assert.Equal(t, StatusPublished, created.Status)
	require.NotNil(t, created.PublishedAt, "publishing on create stamps PublishedAt")
}

func TestAdminUpdateKeepsSlugAndPublishStamp(t *testing.T) {
	app := setupAdminApp(t)

	postForm(t, app, app.handleAdminCreatePost, url.Values{
		"title":   {"Sample"},
		"content": {"本文です。"},
		"action":  {"published"},
	}, nil)

	posts, err := app.Store.ListPosts(PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	created := posts[0]
	require.NotNil(t, created.PublishedAt)

	// Title-only re-save; the form carries the existing slug and no status
	// action.
	time.Sleep(5 * time.Millisecond)
	rec := postForm(t, app, app.handleAdminUpdatePost, url.Values{
		"title":   {"Sample (updated)"},
		"slug":    {created.Slug},
		"content": {"本文です。"},
	}, map[string]string{"id": created.ID})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	updated, err := app.Store.GetPost(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sample (updated)", updated.Title)
	assert.Equal(t, "sample", updated.Slug, "an existing slug is never regenerated")
	assert.Equal(t, StatusPublished, updated.Status)
	require.NotNil(t, updated.PublishedAt)
	assert.True(t, updated.PublishedAt.Equal(*created.PublishedAt), "re-saving must not restamp PublishedAt")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "re-saving advances UpdatedAt")
}

func TestAdminCreateWithoutActionStaysDraft(t *testing.T) {
	app := setupAdminApp(t)

	rec := postForm(t, app, app.handleAdminCreatePost, url.Values{
		"title":   {"Draft Post"},
		"content": {"下書きです。"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	posts, err := app.Store.ListPosts(PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, StatusDraft, posts[0].Status)
	assert.Nil(t, posts[0].PublishedAt)
}
