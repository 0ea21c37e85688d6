package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lego1st/quizzess/internal/app"
	"github.com/Lego1st/quizzess/internal/config"
	"github.com/Lego1st/quizzess/internal/domain"
	"github.com/Lego1st/quizzess/internal/infra/api"
	"github.com/Lego1st/quizzess/internal/infra/memory"
	pgmirror "github.com/Lego1st/quizzess/internal/infra/postgres"
	infraredis "github.com/Lego1st/quizzess/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// deps holds the backing services for one command run.
type deps struct {
	redis *redis.Client
	pool  *pgxpool.Pool

	client     *api.Client
	categories *domain.CategoryCodec
	sessions   *app.SessionService
	quizzes    app.QuizRepository
}

func (d *deps) Close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

func (d *deps) authoring() *app.AuthoringService {
	return app.NewAuthoringService(d.client, d.sessions, d.categories)
}

func (d *deps) play() *app.PlayService {
	return app.NewPlayService(d.quizzes, d.categories)
}

// buildDeps connects the optional stores named in cfg and seeds the configured
// credentials, if any, into the session store.
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	categories, err := cfg.CategoryCodec()
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	d := &deps{
		categories: categories,
		client: api.NewClient(cfg.API.BaseURL,
			api.WithUploadPath(cfg.API.UploadPath),
			api.WithTimeout(config.TTLDuration(cfg.API.Timeout, 30*time.Second)),
		),
	}

	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		d.pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, err
		}
	}

	var store app.SessionRepository = memory.NewSessionStore()
	if d.redis != nil {
		store = infraredis.NewSessionStore(d.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}
	d.sessions = app.NewSessionService(store, config.TTLDuration(cfg.Auth.TTL, 24*time.Hour))

	fetchSession := domain.Session{Username: cfg.Auth.Username, Token: cfg.Auth.Token}
	if cfg.Auth.Username != "" && cfg.Auth.Token != "" {
		if fetchSession, err = d.sessions.Acquire(ctx, cfg.Auth.Username, cfg.Auth.Token); err != nil {
			d.Close()
			return nil, err
		}
	}

	var loader memory.QuizLoader = api.NewQuizLoader(d.client, fetchSession)
	if d.pool != nil {
		loader = pgmirror.NewQuizMirror(d.pool, loader)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if d.redis != nil {
		d.quizzes = infraredis.NewQuizRepository(d.redis, loader, quizTTL)
	} else {
		d.quizzes = memory.NewQuizRepository(loader, quizTTL)
	}

	slog.Debug("dependencies ready",
		"api", cfg.API.BaseURL,
		"redis", d.redis != nil,
		"postgres", d.pool != nil,
	)
	return d, nil
}
