// Package cli is the interactive shell for the publishing client: sign in,
// edit a draft, attach an image, and publish, with the draft surviving
// restarts via local storage.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nannuru/publisher/internal/backend/authapi"
	"github.com/nannuru/publisher/internal/backend/objectstore"
	"github.com/nannuru/publisher/internal/backend/postgres"
	"github.com/nannuru/publisher/internal/client/config"
	"github.com/nannuru/publisher/internal/client/repositories/accounts"
	"github.com/nannuru/publisher/internal/client/repositories/drafts"
	"github.com/nannuru/publisher/internal/client/repositories/localstore"
	"github.com/nannuru/publisher/internal/client/services"
	"github.com/nannuru/publisher/internal/logging"
)

type App struct {
	cfg *config.Config
	log logging.Logger

	session   services.SessionService
	auth      services.AuthService
	authoring services.AuthoringService
	articles  services.ArticlesService
	registry  *accounts.Registry

	store  *postgres.Store
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := localstore.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	kv := localstore.NewRepository(db)

	store, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("article table: %w", err)
	}
	if cfg.AutoMigrate {
		if err := store.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("migrate article table: %w", err)
		}
	}

	storage, err := objectstore.New(ctx, objectstore.Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}

	provider := authapi.NewClient(cfg.AuthBaseURL, cfg.AuthAnonKey)
	registry := accounts.NewRegistry(kv, log)
	draftStore := drafts.NewStore(kv, log)

	articles := services.NewArticlesService(store.Articles(), log)
	session := services.NewSessionService(provider, store.Profiles(), registry, log)
	auth := services.NewAuthService(provider, registry, log)
	authoring := services.NewAuthoringService(draftStore, store.Articles(), storage, articles, log)

	return &App{
		cfg:       cfg,
		log:       log,
		session:   session,
		auth:      auth,
		authoring: authoring,
		articles:  articles,
		registry:  registry,
		store:     store,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	defer a.session.Stop()

	a.session.Start(ctx)
	a.authoring.Initialize(ctx)

	if st := a.session.State(); st.Present {
		if _, err := a.articles.Refresh(ctx, st.Identity.ID); err != nil {
			a.log.Warn(ctx, "initial article list refresh failed", "error", err)
		}
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// status renders the prompt suffix: the signed-in email, or nothing.
func (a *App) status() string {
	st := a.session.State()
	switch {
	case st.Loading:
		return "(...)"
	case st.Present && st.Identity.DisplayName != "":
		return fmt.Sprintf("(%s)", st.Identity.DisplayName)
	case st.Present:
		return fmt.Sprintf("(%s)", st.Identity.Email)
	default:
		return ""
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Present
}
