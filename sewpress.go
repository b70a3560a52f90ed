// Package sewpress powers the Kuriyama Sewing marketing site: public blog
// pages rendered from editor-authored markup, an admin panel for the post
// lifecycle (draft, published, archived), an image upload proxy backed by a
// blob store, and a quoting chat assistant.
//
// Users provide their own templ components via the ViewFuncs struct, and
// sewpress handles handler logic, middleware, and database operations. Page
// layout, styling, and marketing copy live entirely in the views.
package sewpress

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets
// sites own and customize all templates.
type ViewFuncs struct {
	Home           func(posts []Post, categories []Category, activeCategory string, siteURL string) templ.Component
	Post           func(post Post, related []Post, siteURL string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []Post, message string, csrfToken string) templ.Component
	AdminPostForm  func(post Post, categories []Category, errMsg string, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	Unauthorized   func() templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central sewpress application. It wires together the store,
// cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	blobs        BlobStore
	chat         ChatService
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new sewpress App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, middleware, routes, and starts the
// server.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("sewpress: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("sewpress: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.blobs == nil {
		a.blobs = NewDiskBlobStore(a.staticDir, a.Config.URL)
	}
	if a.chat == nil && a.Config.OpenAIKey != "" {
		a.chat = NewQuoteAssistant(a.Config.OpenAIKey)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets; uploaded blog images live under here too.
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blogs/:slug/", a.handlePost)

	// API routes (upload proxy and chat assistant)
	e.POST("/api/upload", a.handleUpload)
	e.POST("/api/chat", a.handleChat)

	// Admin routes, all behind the access guard except login/unauthorized
	admin := e.Group("/admin", a.AccessGuard)
	admin.GET("/", a.handleAdminDashboard)
	admin.GET("/login/", a.handleAdminLoginForm)
	admin.POST("/login/", a.handleAdminLogin)
	admin.POST("/logout/", a.handleAdminLogout)
	admin.GET("/unauthorized/", a.handleAdminUnauthorized)
	admin.GET("/posts/new/", a.handleAdminNewPost)
	admin.POST("/posts/", a.handleAdminCreatePost)
	admin.GET("/posts/:id/", a.handleAdminEditPost)
	admin.POST("/posts/:id/", a.handleAdminUpdatePost)
	admin.POST("/posts/:id/status/", a.handleAdminTransition)
	admin.DELETE("/posts/:id/", a.handleAdminDeletePost)
	admin.GET("/images/", a.handleImageList)
	admin.DELETE("/images/*", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
