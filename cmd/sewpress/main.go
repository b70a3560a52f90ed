package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kuriyamasewing/sewpress"
	"github.com/kuriyamasewing/sewpress/views"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	siteCfg := sewpress.SiteConfig{
		Name:          cfg.SiteName,
		URL:           cfg.SiteURL,
		Description:   cfg.SiteDescription,
		Author:        cfg.SiteAuthor,
		Addr:          cfg.Addr,
		DatabasePath:  cfg.DatabasePath,
		SessionSecret: cfg.SessionSecret,
		CookieSecure:  cfg.CookieSecure,
		OpenAIKey:     cfg.OpenAIKey,
		PostCacheTTL:  cfg.PostCacheTTL,
	}

	opts := []sewpress.Option{
		sewpress.WithCustomRoutes(func(a *sewpress.App) {
			if err := seed(a, cfg); err != nil {
				logger.Error("failed to seed database", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}),
	}
	if cfg.StaticDir != "" {
		opts = append(opts, sewpress.WithStaticDir(cfg.StaticDir))
	}

	app := sewpress.New(siteCfg, views.Default(siteCfg), opts...)
	defer app.Close()

	logger.Info("starting server", slog.String("addr", siteCfg.Addr))
	if err := app.Start(); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// seed upserts the boot-time admin profile and the default category set.
// Runs on every start; upserts keep it idempotent.
func seed(a *sewpress.App, cfg *Config) error {
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		hash, err := sewpress.HashPassword(cfg.AdminPassword)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := a.Store.SaveProfile(sewpress.Profile{
			ID:           uuid.NewString(),
			Email:        cfg.AdminEmail,
			Name:         "管理者",
			Role:         sewpress.RoleAdmin,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
	}

	for _, c := range defaultCategories() {
		if err := a.Store.SaveCategory(c); err != nil {
			return err
		}
	}
	return nil
}

func defaultCategories() []sewpress.Category {
	now := time.Now()
	names := []struct {
		name  string
		color string
	}{
		{"縫製技術", "#3B82F6"},
		{"サンプル製作", "#8B5CF6"},
		{"工場見学", "#10B981"},
		{"お知らせ", "#F59E0B"},
	}
	cats := make([]sewpress.Category, 0, len(names))
	for _, n := range names {
		cats = append(cats, sewpress.Category{
			ID:        uuid.NewString(),
			Name:      n.name,
			Color:     n.color,
			CreatedAt: now,
		})
	}
	return cats
}
