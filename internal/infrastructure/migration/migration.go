package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations creates the tables used by the database-backed knowledge
// base and recorder. Every statement is idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range Migrations() {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// Migrations returns the migrations in the order they must run.
func Migrations() []Migration {
	return []Migration{
		{Name: "create_jobs", Up: exec(`
			CREATE TABLE IF NOT EXISTS jobs (
				job_id TEXT PRIMARY KEY,
				url TEXT NOT NULL DEFAULT '',
				title TEXT NOT NULL DEFAULT '',
				company TEXT NOT NULL DEFAULT '',
				location TEXT NOT NULL DEFAULT '',
				posted TEXT NOT NULL DEFAULT '',
				applicants TEXT NOT NULL DEFAULT '',
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);`)},
		{Name: "create_application_attempts", Up: exec(`
			CREATE TABLE IF NOT EXISTS application_attempts (
				id UUID PRIMARY KEY,
				run_id UUID NOT NULL,
				job_id TEXT NOT NULL REFERENCES jobs(job_id),
				status TEXT NOT NULL,
				reason TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);`)},
		{Name: "snapshot_application_attempts", Up: exec(`
			ALTER TABLE application_attempts
				ADD COLUMN IF NOT EXISTS job_role TEXT NOT NULL DEFAULT '',
				ADD COLUMN IF NOT EXISTS company TEXT NOT NULL DEFAULT '',
				ADD COLUMN IF NOT EXISTS location TEXT NOT NULL DEFAULT '',
				ADD COLUMN IF NOT EXISTS applicants TEXT NOT NULL DEFAULT '';`)},
		{Name: "create_answered_questions", Up: exec(`
			CREATE TABLE IF NOT EXISTS answered_questions (
				id BIGSERIAL PRIMARY KEY,
				job_id TEXT NOT NULL,
				question TEXT NOT NULL,
				type TEXT NOT NULL,
				answer TEXT NOT NULL,
				state TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);`)},
		{Name: "create_unprepared_questions", Up: exec(`
			CREATE TABLE IF NOT EXISTS unprepared_questions (
				id BIGSERIAL PRIMARY KEY,
				job_id TEXT NOT NULL,
				question TEXT NOT NULL,
				type TEXT NOT NULL,
				options JSONB,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);`)},
		{Name: "create_recorded_answers", Up: exec(`
			CREATE TABLE IF NOT EXISTS recorded_answers (
				id BIGSERIAL PRIMARY KEY,
				question TEXT NOT NULL,
				type TEXT NOT NULL CHECK (type IN ('TEXT', 'DROPDOWN', 'RADIO')),
				options JSONB,
				answer TEXT NOT NULL
			);`)},
		{Name: "index_recorded_answers_question", Up: exec(`
			CREATE INDEX IF NOT EXISTS recorded_answers_question_idx ON recorded_answers (lower(trim(question)));`)},
	}
}

func exec(query string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, query)
		return err
	}
}
