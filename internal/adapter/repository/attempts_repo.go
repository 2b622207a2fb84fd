package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"easy-apply/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptsRepo mirrors run artifacts into Postgres. A nil pool turns every
// call into a no-op so the bot runs without a database.
type AttemptsRepo struct {
	pool *pgxpool.Pool
}

func NewAttemptsRepo(pool *pgxpool.Pool) *AttemptsRepo {
	return &AttemptsRepo{pool: pool}
}

func (r *AttemptsRepo) RecordAttempt(ctx context.Context, a *domain.Attempt) error {
	if r.pool == nil {
		return nil
	}
	if err := r.upsertJob(ctx, a.Job); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, insertAttemptSQL, attemptArgs(a)...)
	if err != nil {
		return fmt.Errorf("insert application attempt: %w", err)
	}
	return nil
}

// The job details are stored with each attempt so reports keep what the
// posting showed at the time, like the status log.
const insertAttemptSQL = `INSERT INTO application_attempts
		(id, run_id, job_id, status, reason, created_at, job_role, company, location, applicants)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (id) DO NOTHING`

func attemptArgs(a *domain.Attempt) []interface{} {
	return []interface{}{
		a.ID, a.RunID, a.Job.JobID, string(a.Status), a.Reason, a.CreatedAt,
		a.Job.Title, a.Job.Company, a.Job.Location, a.Job.Applicants,
	}
}

func (r *AttemptsRepo) RecordAnswered(ctx context.Context, job *domain.Job, q domain.Question) error {
	if r.pool == nil {
		return nil
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO answered_questions (job_id, question, type, answer, state)
		VALUES ($1,$2,$3,$4,$5)`,
		job.JobID, q.Text, string(q.Kind), q.Value, string(q.State))
	if err != nil {
		return fmt.Errorf("insert answered question: %w", err)
	}
	return nil
}

func (r *AttemptsRepo) RecordUnprepared(ctx context.Context, job *domain.Job, q domain.Question) error {
	if r.pool == nil {
		return nil
	}
	var opts []byte
	if q.Options != nil {
		opts, _ = json.Marshal(q.Options)
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO unprepared_questions (job_id, question, type, options)
		VALUES ($1,$2,$3,$4)`,
		job.JobID, q.Text, string(q.Kind), opts)
	if err != nil {
		return fmt.Errorf("insert unprepared question: %w", err)
	}
	return nil
}

func (r *AttemptsRepo) upsertJob(ctx context.Context, j *domain.Job) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO jobs (job_id, url, title, company, location, posted, applicants, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		ON CONFLICT (job_id) DO UPDATE SET url = EXCLUDED.url, title = EXCLUDED.title, company = EXCLUDED.company, location = EXCLUDED.location, posted = EXCLUDED.posted, applicants = EXCLUDED.applicants, updated_at = EXCLUDED.updated_at`,
		j.JobID, j.URL, j.Title, j.Company, j.Location, j.Posted, j.Applicants)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", j.JobID, err)
	}
	return nil
}
