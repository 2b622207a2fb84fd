// Package app wires configuration, storage and the browser into runs. It is
// shared by the command-line bot and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log"

	httpadapter "easy-apply/internal/adapter/http"
	"easy-apply/internal/adapter/repository"
	"easy-apply/internal/answers"
	"easy-apply/internal/config"
	"easy-apply/internal/infrastructure/migration"
	"easy-apply/internal/usecase"
	infra "easy-apply/pkg/infrastructure"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// App holds what every run of one process shares.
type App struct {
	Config   *config.Config
	Answers  answers.Provider
	Recorder usecase.Recorder
	Files    *repository.FileRecorder
	Repo     *repository.AttemptsRepo
	pool     *pgxpool.Pool
}

// New opens the optional database, runs migrations, loads the knowledge base
// and prepares the recorders.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := infra.NewJobsPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: jobs DB not available: %v", err)
		pool = nil
	}
	if pool != nil {
		if err := migration.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	a := &App{Config: cfg, pool: pool, Repo: repository.NewAttemptsRepo(pool)}
	if a.Answers, err = a.provider(); err != nil {
		a.Close()
		return nil, err
	}

	if a.Files, err = repository.NewFileRecorder(cfg.LogsDir); err != nil {
		a.Close()
		return nil, err
	}
	if pool != nil {
		a.Recorder = repository.NewMultiRecorder(a.Files, a.Repo)
	} else {
		a.Recorder = a.Files
	}
	return a, nil
}

func (a *App) provider() (answers.Provider, error) {
	cfg := a.Config
	if cfg.AnswersSource == config.AnswersFromDatabase {
		if a.pool == nil {
			return nil, &usecase.SetupError{Err: fmt.Errorf("answers_source %q needs database_url", cfg.AnswersSource)}
		}
		return answers.NewPGProvider(cfg.Basics, a.pool), nil
	}
	p, err := answers.LoadJSONProvider(cfg.Basics, cfg.QuestionsFile)
	if err != nil {
		return nil, &usecase.SetupError{Err: err}
	}
	return p, nil
}

// Reports reads from the database when one is configured, otherwise from the
// log files.
func (a *App) Reports() httpadapter.Reports {
	if a.pool != nil {
		return a.Repo
	}
	return a.Files
}

// Close releases the database pool.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Options adjusts one run relative to the configuration.
type Options struct {
	Filters  *usecase.Filters
	TestMode *bool
}

// Filters returns the configured search filters.
func (a *App) Filters() usecase.Filters { return FiltersOf(a.Config) }

// FiltersOf maps the search section of cfg to job search filters.
func FiltersOf(cfg *config.Config) usecase.Filters {
	s := cfg.Search
	return usecase.Filters{
		Title:           s.Keyword,
		Location:        s.Location,
		WorkLocation:    s.WorkLocation,
		JobType:         s.JobType,
		ExperienceLevel: s.ExperienceLevel,
	}
}

// RunFunc validates o and returns a run that opens its own browser.
func (a *App) RunFunc(o Options) (usecase.RunFunc, error) {
	cfg := a.Config
	filters := a.Filters()
	if o.Filters != nil {
		filters = *o.Filters
	}
	if _, err := filters.Query(); err != nil {
		return nil, err
	}
	testMode := cfg.Dev.TestMode
	if o.TestMode != nil {
		testMode = *o.TestMode
	}
	creds := usecase.Credentials{Username: cfg.Credentials.Email, Password: cfg.Credentials.Password}

	return func(ctx context.Context, runID uuid.UUID, otp usecase.OTPFunc) (*usecase.Summary, error) {
		rc := usecase.NewRunContext(runID, a.Answers, a.Recorder, cfg.Timing, testMode, cfg.Pace.PerMinute)

		browser, err := infra.NewChromeBrowser(ctx, infra.ChromeOptions{
			Headless:      cfg.Dev.Headless,
			UserDataDir:   cfg.UserDataDir,
			ExecPath:      cfg.ChromePath,
			Args:          cfg.Dev.Args,
			ActionTimeout: cfg.Timing.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return usecase.NewRunner(rc, creds, filters, otp).Run(ctx, browser)
	}, nil
}
